package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/config"
	"github.com/nao1215/screenwitness/internal/pipeline"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Write a report of the records containing a term",
		Long: `Search writes search.html with every completed record whose page source
or title contains the term. The match is case-sensitive.

Examples:
  screenwitness search "Jenkins"
  screenwitness search -d ./out "Powered by"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	addStoreFlags(cmd)
	cmd.Flags().IntP("results-per-page", "r", config.DefaultResultsPerPage,
		"Number of records on one report page")
	cmd.Flags().IntP("threshold", "t", config.DefaultSimilarityThreshold,
		"Title similarity score (1-100) used to group records")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runSearch(ctx, cmd.OutOrStdout(), cfg, args[0], logger)
}

// runSearch writes the search report for term.
func runSearch(ctx context.Context, out io.Writer, cfg *config.Config, term string, logger *slog.Logger) error {
	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	pages, err := db.SearchTerm(ctx, term)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintf(out, "No records contain %q\n", term)
		return nil
	}

	p := pipeline.SearchPipeline(term, reportPipelineOptions(logger), reportConfigOptions(cfg, time.Now())...)
	run := pipeline.NewRun(pages, cfg.OutputDir)
	if err := p.Execute(ctx, run); err != nil {
		return err
	}
	if run.Err != nil {
		return fmt.Errorf("search report failed: %w", run.Err)
	}

	fmt.Fprintf(out, "Found %d record(s) containing %q\n", len(pages), term)
	for _, name := range run.Files {
		fmt.Fprintf(out, "Wrote %s\n", filepath.Join(cfg.OutputDir, name))
	}
	return nil
}
