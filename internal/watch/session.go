package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/marcwessels/invoicefiler/constants"
	"github.com/marcwessels/invoicefiler/internal/pipeline"
)

// Run consumes watcher events until ctx is cancelled, pushing each arriving
// document through the per-file pipeline. Files produced by this session's
// own renames are remembered and skipped, so a rename does not trigger a
// second extraction. The returned result aggregates everything processed
// before shutdown.
func Run(ctx context.Context, cfg Config, runner *pipeline.Runner, logger *slog.Logger) (pipeline.BatchResult, error) {
	var res pipeline.BatchResult
	if logger == nil {
		logger = slog.Default()
	}

	if err := pipeline.ValidateFolder(cfg.Dir); err != nil {
		logger.Error("watch.folder_invalid", "dir", cfg.Dir, "error", err)
		return res, err
	}

	paths, errs, err := Start(ctx, cfg, logger)
	if err != nil {
		return res, err
	}
	logger.Info("watch.start", "dir", cfg.Dir, "ext", cfg.Ext, "initial_scan", cfg.InitialScan)

	produced := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch.done", "succeeded", res.Succeeded, "failed", res.Failed, "total", res.Total)
			return res, ctx.Err()

		case werr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error("watch.error", "error", werr)

		case p, ok := <-paths:
			if !ok {
				// channels close on cancellation; report it the same way
				// whichever select case won
				logger.Info("watch.done", "succeeded", res.Succeeded, "failed", res.Failed, "total", res.Total)
				return res, ctx.Err()
			}
			if _, ours := produced[p]; ours {
				logger.Debug("watch.skip_own_output", "file", filepath.Base(p))
				continue
			}
			if _, statErr := os.Stat(p); statErr != nil {
				// gone again before we got to it
				continue
			}

			fr := runner.ProcessPath(ctx, p)
			res.Results = append(res.Results, fr)
			res.Total++
			if fr.Status == constants.StatusRenamed {
				res.Succeeded++
				if fr.NewName != "" {
					produced[filepath.Join(cfg.Dir, fr.NewName)] = struct{}{}
				}
			} else {
				res.Failed++
			}
		}
	}
}
