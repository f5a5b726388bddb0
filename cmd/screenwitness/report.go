package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/config"
	"github.com/nao1215/screenwitness/internal/pipeline"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the HTML report from the result store",
		Long: `Report renders every completed record of the result store into report.html.

Records are grouped by category in a fixed order. Inside a category,
records with similar page titles are placed next to each other. Failed
captures are listed last in an Errors section. Large reports are split
into report_page2.html, report_page3.html and so on.

Alongside the HTML pages the command writes summary.md, report.json and
Requests.csv into the output directory.

Examples:
  # Write the report into the current directory
  screenwitness report

  # Write into ./out with 50 records per page
  screenwitness report -d ./out -r 50

  # Group titles more loosely
  screenwitness report -t 60

  # Print the run summary as JSON
  screenwitness report --json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	addStoreFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runReport(ctx, cmd.OutOrStdout(), cfg, logger)
}

// runReport writes the report of every completed record in the store.
func runReport(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	pages, err := db.CompletePages(ctx)
	if err != nil {
		return err
	}
	if incomplete, err := db.IncompletePages(ctx); err == nil && len(incomplete) > 0 {
		logger.Warn("skipping records that were never completed", "count", len(incomplete))
	}

	p := pipeline.DefaultPipeline(reportPipelineOptions(logger), reportConfigOptions(cfg, time.Now())...)
	run := pipeline.NewRun(pages, cfg.OutputDir)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}
	if run.Err != nil {
		return fmt.Errorf("report generation failed: %w", run.Err)
	}

	if err := db.SaveOption(ctx, lastReportOption, cfg.OutputDir); err != nil {
		logger.Warn("failed to record report directory", "error", err)
	}
	return printSummary(out, cfg, run)
}
