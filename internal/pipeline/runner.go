package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/marcwessels/invoicefiler/constants"
	"github.com/marcwessels/invoicefiler/internal/llm"
	"github.com/marcwessels/invoicefiler/internal/naming"
	"github.com/marcwessels/invoicefiler/internal/rename"
)

// Options tune a Runner. Zero values fall back to sensible defaults.
type Options struct {
	Extension string           // document extension to match; constants.DefaultExtension if empty
	DryRun    bool             // derive and check names but leave files in place
	Now       func() time.Time // clock override for tests
}

// Runner owns the per-file extract, name and rename steps and the batch
// loop around them.
type Runner struct {
	log       *slog.Logger
	extractor llm.FieldExtractor
	renamer   *rename.Renamer
	ext       string
	now       func() time.Time
}

func NewRunner(logger *slog.Logger, extractor llm.FieldExtractor, opts Options) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Extension == "" {
		opts.Extension = constants.DefaultExtension
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		log:       logger,
		extractor: extractor,
		renamer:   rename.NewRenamer(logger, opts.DryRun),
		ext:       opts.Extension,
		now:       opts.Now,
	}
}

// Run processes every matching document in dir sequentially. Each file ends
// in exactly one terminal status; a failed file is logged, counted and left
// behind under its original name. Cancellation is observed between files and
// returns ctx.Err alongside the partial result.
func (r *Runner) Run(ctx context.Context, dir string) (BatchResult, error) {
	var res BatchResult
	runID := uuid.New().String()

	if err := ValidateFolder(dir); err != nil {
		r.log.Error("batch.folder_invalid", "run_id", runID, "dir", dir, "error", err)
		return res, err
	}
	tasks, err := Discover(dir, r.ext)
	if err != nil {
		r.log.Error("batch.discover_failed", "run_id", runID, "dir", dir, "error", err)
		return res, err
	}
	if len(tasks) == 0 {
		r.log.Warn("batch.no_files", "run_id", runID, "dir", dir, "ext", r.ext)
		return res, ErrNoFiles
	}

	r.log.Info("batch.start", "run_id", runID, "dir", dir, "ext", r.ext, "files", len(tasks))
	res.Total = len(tasks)

	for i, task := range tasks {
		if ctx.Err() != nil {
			r.log.Warn("batch.cancelled",
				"run_id", runID, "processed", i, "remaining", len(tasks)-i)
			return res, ctx.Err()
		}
		fr := r.processFile(ctx, task)
		res.Results = append(res.Results, fr)
		if fr.Status == constants.StatusRenamed {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}

	r.log.Info("batch.done",
		"run_id", runID, "succeeded", res.Succeeded, "failed", res.Failed, "total", res.Total)
	return res, nil
}

// ProcessPath runs the per-file steps for a single document outside a folder
// batch. Watch mode uses this for each arriving file.
func (r *Runner) ProcessPath(ctx context.Context, path string) FileResult {
	return r.processFile(ctx, FileTask{SourcePath: path, Ext: filepath.Ext(path)})
}

func (r *Runner) processFile(ctx context.Context, task FileTask) FileResult {
	base := filepath.Base(task.SourcePath)
	r.log.Info("batch.file.start", "file", base)

	data, err := os.ReadFile(task.SourcePath)
	if err != nil {
		r.log.Error("batch.file.read_failed", "file", base, "error", err)
		return FileResult{Task: task, Status: constants.StatusExtractFailed, Err: err}
	}

	fields, _, err := r.extractor.ExtractFields(ctx, llm.ExtractRequest{
		Document:   data,
		MIMEType:   constants.MIMEForExtension(task.Ext),
		SourceName: base,
		Year:       r.now().Year(),
	})
	if err != nil {
		r.log.Error("batch.file.extract_failed", "file", base, "error", err)
		return FileResult{Task: task, Status: constants.StatusExtractFailed, Err: err}
	}

	newName := naming.BuildFilename(fields, task.Ext)
	r.log.Debug("batch.file.named", "file", base, "new_name", newName)

	result := r.renamer.Rename(task.SourcePath, newName)
	switch result.Outcome {
	case rename.Renamed:
		return FileResult{Task: task, Status: constants.StatusRenamed, Fields: fields, NewName: newName}
	case rename.SkippedExists:
		r.log.Warn("batch.file.collision", "file", base, "new_name", newName)
		return FileResult{Task: task, Status: constants.StatusCollision, Fields: fields, NewName: newName}
	default:
		r.log.Error("batch.file.rename_failed", "file", base, "new_name", newName, "error", result.Err)
		return FileResult{Task: task, Status: constants.StatusRenameFailed, Fields: fields, NewName: newName, Err: result.Err}
	}
}
