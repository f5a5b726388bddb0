package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/config"
)

// NewSplashCmd creates the splash command.
func NewSplashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splash <output-file>",
		Short: "List the URLs of splash and 404 pages",
		Long: `Splash writes the URL of every record categorized as a splash page or
404 Not Found, one per line. The list can be fed to a browser or another
tool to double-check pages that were filtered as uninteresting.

Examples:
  screenwitness splash splash.txt
  screenwitness splash -d ./out ./out/splash.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runSplashCmd,
	}

	addStoreFlags(cmd)

	return cmd
}

// runSplashCmd executes the splash command.
func runSplashCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runSplash(ctx, cmd.OutOrStdout(), cfg, args[0])
}

// runSplash writes the splash URL list to outPath.
func runSplash(ctx context.Context, out io.Writer, cfg *config.Config, outPath string) error {
	db, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	pages, err := db.SplashPages(ctx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // output path is given by the user
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, p := range pages {
		fmt.Fprintln(w, p.RemoteSystem)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d URL(s) to %s\n", len(pages), outPath)
	return nil
}
