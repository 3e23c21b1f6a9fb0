package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcwessels/invoicefiler/internal/pipeline"
	"github.com/marcwessels/invoicefiler/internal/watch"
)

var (
	initialScan bool
	debounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Watch a folder and rename invoices as they arrive",
	Long: `watch keeps the folder under observation and runs the same
extract-and-rename flow on every matching document that appears. Documents
renamed by the session itself are not picked up again. Stop with Ctrl-C; the
exit code is 0 when nothing failed during the session.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&initialScan, "initial-scan", false, "process documents already present before watching")
	watchCmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "settle time before an arriving file is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger, newExtractor(cfg, logger), pipeline.Options{
		Extension: cfg.Files.Extension,
	})

	res, runErr := watch.Run(cmd.Context(), watch.Config{
		Dir:         args[0],
		Ext:         cfg.Files.Extension,
		InitialScan: initialScan,
		Debounce:    debounce,
	}, runner, logger)

	switch {
	case errors.Is(runErr, pipeline.ErrFolderInvalid):
		return runErr
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return runErr
	}

	// Ctrl-C is the normal way to end a watch session; only per-file
	// failures make it a failed one.
	logger.Info("watch summary", "succeeded", res.Succeeded, "failed", res.Failed, "total", res.Total)
	if res.Failed > 0 {
		return errRunFailed
	}
	return nil
}
