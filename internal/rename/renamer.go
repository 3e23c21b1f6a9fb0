// Package rename applies derived filenames to documents in place, with a
// hard guarantee that an existing file is never overwritten.
package rename

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Outcome classifies a single rename attempt.
type Outcome int

const (
	// Renamed means the file now lives under the new name (or would, in dry
	// run).
	Renamed Outcome = iota
	// SkippedExists means the destination name was already taken; nothing
	// moved.
	SkippedExists
	// Failed means the attempt was rejected and the source is untouched.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Renamed:
		return "renamed"
	case SkippedExists:
		return "skipped_exists"
	default:
		return "failed"
	}
}

// Result is the terminal outcome of one rename attempt.
type Result struct {
	Outcome  Outcome
	DestPath string
	Err      error
}

// Renamer moves files to their derived names inside their own directory.
type Renamer struct {
	log    *slog.Logger
	dryRun bool
}

func NewRenamer(logger *slog.Logger, dryRun bool) *Renamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{log: logger, dryRun: dryRun}
}

// Rename moves sourcePath to newName within its parent directory. The
// destination is checked first and never overwritten: an existing entry
// there yields SkippedExists with both files left as they are. In dry run
// the same checks apply but nothing moves.
func (r *Renamer) Rename(sourcePath, newName string) Result {
	if degenerate(newName) {
		return Result{Outcome: Failed, Err: fmt.Errorf("derived name %q is not usable", newName)}
	}
	dest := filepath.Join(filepath.Dir(sourcePath), newName)

	if _, err := os.Lstat(dest); err == nil {
		r.log.Warn("rename.skip_exists", "source", filepath.Base(sourcePath), "dest", newName)
		return Result{Outcome: SkippedExists, DestPath: dest}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Result{Outcome: Failed, DestPath: dest, Err: fmt.Errorf("stat destination: %w", err)}
	}

	if r.dryRun {
		r.log.Info("rename.dry_run", "source", filepath.Base(sourcePath), "dest", newName)
		return Result{Outcome: Renamed, DestPath: dest}
	}

	if err := os.Rename(sourcePath, dest); err != nil {
		return Result{Outcome: Failed, DestPath: dest, Err: fmt.Errorf("rename: %w", err)}
	}
	r.log.Info("rename.ok", "source", filepath.Base(sourcePath), "dest", newName)
	return Result{Outcome: Renamed, DestPath: dest}
}

// degenerate reports whether a derived name is empty once its extension and
// separator underscores are ignored, which happens when every extracted
// field sanitized away to nothing.
func degenerate(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Trim(stem, "_.") == ""
}
