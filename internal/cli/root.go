// Package cli wires configuration, logging and the pipeline into the
// invoicefiler command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcwessels/invoicefiler/internal/config"
	"github.com/marcwessels/invoicefiler/internal/llm/gemini"
	"github.com/marcwessels/invoicefiler/internal/pipeline"
	"github.com/marcwessels/invoicefiler/internal/report"
)

// version is overridden at release build time via -ldflags.
var version = "dev"

// errRunFailed signals a non-zero exit for an outcome that has already been
// logged, so Execute must not print it again.
var errRunFailed = errors.New("run failed")

var (
	cfgPath    string
	extension  string
	model      string
	dryRun     bool
	reportPath string
	verbose    bool
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "invoicefiler <folder>",
	Short: "Rename invoice documents from extracted metadata",
	Long: `invoicefiler reads every invoice document in a folder, asks a
document-understanding model for the issuer, a one-word category and the
issue date, and renames each file to issuer_category_yyyymmdd with its
original extension. Files are renamed in place and existing names are never
overwritten; a file that fails keeps its current name and the batch moves
on.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBatch,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "TOML config file (default ~/.invoicefiler/config.toml)")
	pf.StringVar(&extension, "ext", "", `document extension to process (default ".pdf")`)
	pf.StringVar(&model, "model", "", "extraction model override")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "derive names and check collisions without renaming")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "write an XLSX rename manifest to this path")
}

// Execute runs the CLI and returns the process exit code: 0 only when
// everything that was asked for succeeded.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "invoicefiler: %v\n", err)
		}
		return 1
	}
	return 0
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(logger, newExtractor(cfg, logger), pipeline.Options{
		Extension: cfg.Files.Extension,
		DryRun:    dryRun,
	})

	res, runErr := runner.Run(cmd.Context(), args[0])

	if reportPath != "" && len(res.Results) > 0 {
		if err := report.Write(reportPath, res.Results, logger); err != nil {
			logger.Error("report.write_failed", "path", reportPath, "error", err)
		}
	}

	return summarize(logger, res, runErr)
}

// summarize logs the final outcome and maps it onto the exit contract: nil
// only when every discovered file was renamed.
func summarize(logger *slog.Logger, res pipeline.BatchResult, runErr error) error {
	switch {
	case errors.Is(runErr, pipeline.ErrFolderInvalid), errors.Is(runErr, pipeline.ErrNoFiles):
		logger.Error("no files were processed")
		return errRunFailed
	case errors.Is(runErr, context.Canceled):
		logger.Warn("interrupted", "succeeded", res.Succeeded, "total", res.Total)
		return errRunFailed
	case runErr != nil:
		return runErr
	}

	logger.Info("processing completed", "succeeded", res.Succeeded, "total", res.Total)
	if res.AllSucceeded() {
		return nil
	}
	logger.Warn("some files were not renamed", "failed", res.Failed, "total", res.Total)
	return errRunFailed
}

// setup assembles config (defaults < file < env < flags), validates it and
// installs the process logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg := config.Default()

	path, explicit := cfgPath, cfgPath != ""
	if !explicit {
		path = config.DefaultPath()
	}
	if path != "" {
		if err := cfg.LoadFile(path, explicit); err != nil {
			return cfg, nil, err
		}
	}
	cfg.ApplyEnv()

	if extension != "" {
		cfg.Files.Extension = extension
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if verbose {
		cfg.Logging.Verbose = true
	}
	if logJSON {
		cfg.Logging.JSON = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if lc.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if lc.JSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

func newExtractor(cfg config.Config, logger *slog.Logger) *gemini.Client {
	return gemini.NewClient(gemini.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		Burst:             cfg.LLM.Burst,
	}, logger)
}
