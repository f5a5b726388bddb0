package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/classify"
	"github.com/nao1215/screenwitness/internal/config"
	"github.com/nao1215/screenwitness/internal/pipeline"
	"github.com/nao1215/screenwitness/internal/signature"
)

// errNoSignatures is returned when recategorization has nothing to match against.
var errNoSignatures = errors.New("no signatures loaded")

// NewRecategorizeCmd creates the recategorize command.
func NewRecategorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Reclassify stored records and rewrite the report",
		Long: `Recategorize matches every completed record against the current
signature files, stores the new credential notes and categories, and
rewrites the report.

Records categorized as 401/403 Unauthorized or 404 Not Found keep their
category. Run this after editing signatures.txt or categories.txt.

Examples:
  screenwitness recategorize
  screenwitness recategorize -d ./out --categories custom.txt`,
		Args: cobra.NoArgs,
		RunE: runRecategorizeCmd,
	}

	addStoreFlags(cmd)
	addSignatureFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runRecategorizeCmd executes the recategorize command.
func runRecategorizeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runRecategorize(ctx, cmd.OutOrStdout(), cfg, logger)
}

// runRecategorize reclassifies the store and writes the report.
func runRecategorize(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	store := signature.Load(cfg.SignatureFile, cfg.CategoryFile, logger)
	if store.Empty() {
		return fmt.Errorf("%w from %s and %s", errNoSignatures, cfg.SignatureFile, cfg.CategoryFile)
	}

	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	pages, err := db.CompletePages(ctx)
	if err != nil {
		return err
	}

	configOpts := append(reportConfigOptions(cfg, time.Now()),
		pipeline.WithPipelineRecategorize(classify.NewEngine(store), db))
	p := pipeline.DefaultPipeline(reportPipelineOptions(logger), configOpts...)

	run := pipeline.NewRun(pages, cfg.OutputDir)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}
	if run.Err != nil {
		return fmt.Errorf("recategorization failed: %w", run.Err)
	}

	fmt.Fprintf(out, "Recategorized %d of %d record(s)\n", run.Changed, len(pages))
	if err := db.SaveOption(ctx, lastReportOption, cfg.OutputDir); err != nil {
		logger.Warn("failed to record report directory", "error", err)
	}
	return printSummary(out, cfg, run)
}
