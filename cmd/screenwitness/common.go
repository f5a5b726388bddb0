package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/config"
	"github.com/nao1215/screenwitness/internal/database"
	"github.com/nao1215/screenwitness/internal/log"
	"github.com/nao1215/screenwitness/internal/pipeline"
	"github.com/nao1215/screenwitness/internal/report"
)

// lastReportOption is the options key recording where the last report was written.
const lastReportOption = "last_report_dir"

// addStoreFlags registers the flags shared by every command that reads
// the result store.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .screenwitness in current or home directory)")
	cmd.Flags().StringP("output-dir", "d", config.DefaultOutputDir,
		"Directory that receives the report files")
	cmd.Flags().String("db", "",
		"Directory holding "+database.FileName+" (default: the output directory)")
}

// addSignatureFlags registers the signature file flags.
func addSignatureFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("signatures", "s", config.DefaultSignatureFile,
		"Default credential signature file")
	cmd.Flags().String("categories", config.DefaultCategoryFile,
		"Category signature file")
}

// addReportFlags registers the flags that shape the HTML report.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("results-per-page", "r", config.DefaultResultsPerPage,
		"Number of records on one report page")
	cmd.Flags().IntP("threshold", "t", config.DefaultSimilarityThreshold,
		"Title similarity score (1-100) used to group records")
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set on cmd, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	if flags.Lookup("config") != nil {
		path, err := flags.GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = path
	}

	// An explicitly given config file must exist; the implicit lookup
	// silently falls back to defaults.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies every flag the user changed into cfg. Flags the
// command does not define are never reported as changed.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	strs := map[string]*string{
		"output-dir": &cfg.OutputDir,
		"db":         &cfg.DBDir,
		"signatures": &cfg.SignatureFile,
		"categories": &cfg.CategoryFile,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	ints := map[string]*int{
		"results-per-page": &cfg.ResultsPerPage,
		"threshold":        &cfg.SimilarityThreshold,
		"concurrency":      &cfg.ImportConcurrency,
	}
	for name, dst := range ints {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"json":     &cfg.JSONReport,
		"markdown": &cfg.MarkdownReport,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// setupLogger creates the redacting structured logger for a command.
func setupLogger(verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openStore opens the result store for cfg. Commands that only read the
// store must not create it.
func openStore(cfg *config.Config, create bool) (*database.PageDB, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = create

	db, err := database.Open(cfg.DatabaseDir(), opts)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("no result store in %s (run 'screenwitness import' first): %w",
			cfg.DatabaseDir(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}
	return db, nil
}

// reportPipelineOptions returns the pipeline options shared by the
// report-writing commands.
func reportPipelineOptions(logger *slog.Logger) []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}
}

// reportConfigOptions maps cfg onto the default pipeline settings.
func reportConfigOptions(cfg *config.Config, now time.Time) []pipeline.DefaultPipelineOption {
	return []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineResultsPerPage(cfg.ResultsPerPage),
		pipeline.WithPipelineSimilarityThreshold(cfg.SimilarityThreshold),
		pipeline.WithPipelineTime(now),
		pipeline.WithPipelineVersion(getVersion()),
	}
}

// printSummary writes the run summary in the format selected by cfg.
func printSummary(out io.Writer, cfg *config.Config, run *pipeline.Run) error {
	if run.Document == nil {
		fmt.Fprintln(out, "No completed records to report.")
		return nil
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose), report.WithFiles(run.Files...))
	}
	_, err := w.Write(run.Document.Summary)
	return err
}
