// Package pipeline drives the extract-name-rename flow over a folder of
// invoice documents. Files are processed one at a time; a failure on one
// file never stops the batch.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcwessels/invoicefiler/constants"
)

// Batch-level failure kinds. Per-file failures never surface as errors;
// they land in BatchResult counts instead.
var (
	// ErrFolderInvalid means the target folder is missing or not a
	// directory. The batch aborts before touching any file.
	ErrFolderInvalid = errors.New("target folder invalid")

	// ErrNoFiles means the folder exists but holds no matching documents.
	ErrNoFiles = errors.New("no matching files found")
)

// FileTask is one unit of work: a discovered document and its extension as
// found on disk.
type FileTask struct {
	SourcePath string
	Ext        string // with dot, original casing
}

// ValidateFolder checks the batch target before any file is processed.
func ValidateFolder(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFolderInvalid, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrFolderInvalid, dir)
	}
	return nil
}

// Discover lists the documents directly inside dir whose extension matches
// ext, case-insensitively. Subdirectories are not descended into. os.ReadDir
// returns entries sorted by name, so processing order is deterministic.
func Discover(dir, ext string) ([]FileTask, error) {
	want := constants.NormalizeExt(ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFolderInvalid, err)
	}

	var tasks []FileTask
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fileExt := filepath.Ext(e.Name())
		if constants.NormalizeExt(fileExt) != want {
			continue
		}
		tasks = append(tasks, FileTask{
			SourcePath: filepath.Join(dir, e.Name()),
			Ext:        fileExt,
		})
	}
	return tasks, nil
}
