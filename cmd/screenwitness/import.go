package main

import (
	"context"
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

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <capture-file>...",
		Short: "Import captured pages into the result store",
		Long: `Import reads capture files and stores every page in the result store.

A capture file holds one JSON object per line, as written by the capture
layer. Each page is classified against the signature files while it is
imported: the default credential note and the category are stored with
the record. Pages already in the store with the same URL and source are
skipped.

Examples:
  # Import one capture file into ./screenwitness.db
  screenwitness import captures.jsonl

  # Import several files and write the report right away
  screenwitness import --report -d ./out scan1.jsonl scan2.jsonl

  # Use custom signature files
  screenwitness import -s creds.txt --categories cats.txt captures.jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCmd,
	}

	addStoreFlags(cmd)
	addSignatureFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Int("concurrency", config.DefaultImportConcurrency,
		"Number of capture files decoded concurrently")
	cmd.Flags().Bool("report", false,
		"Write the HTML report after importing")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	withReport, err := cmd.Flags().GetBool("report")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := runImport(ctx, cmd.OutOrStdout(), cfg, args, logger); err != nil {
		return err
	}
	if !withReport {
		return nil
	}
	return runReport(ctx, cmd.OutOrStdout(), cfg, logger)
}

// runImport loads the signature files and imports paths into the store.
func runImport(ctx context.Context, out io.Writer, cfg *config.Config, paths []string, logger *slog.Logger) error {
	store := signature.Load(cfg.SignatureFile, cfg.CategoryFile, logger)
	if store.Empty() {
		logger.Warn("no signatures loaded, pages are imported uncategorized",
			"signatures", cfg.SignatureFile,
			"categories", cfg.CategoryFile,
		)
	}

	db, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	importer := pipeline.NewImporter(db,
		pipeline.WithImportConcurrency(cfg.ImportConcurrency),
		pipeline.WithImportEngine(classify.NewEngine(store)),
		pipeline.WithImportLogger(logger),
	)

	start := time.Now()
	res, err := importer.Import(ctx, paths)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "Imported %d record(s) from %d file(s) in %s\n",
		res.Imported, res.Files, time.Since(start).Round(time.Millisecond))
	if res.Duplicates > 0 || res.Invalid > 0 {
		fmt.Fprintf(out, "Skipped %d duplicate(s) and %d invalid line(s)\n", res.Duplicates, res.Invalid)
	}
	fmt.Fprintf(out, "Batch: %s\n", res.Batch)
	fmt.Fprintf(out, "Store: %s\n", db.Path())
	return nil
}
