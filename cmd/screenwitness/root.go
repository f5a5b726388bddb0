package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for screenwitness.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenwitness",
		Short: "Categorize captured web pages into an HTML report",
		Long: `screenwitness sorts captured web pages into a paginated HTML report.

Each page is matched against two signature files: default credentials
(signatures.txt) and page categories (categories.txt). Inside a category,
pages with similar titles are listed next to each other so that large
scans can be reviewed quickly.

Typical workflow:
  screenwitness init --definitions
  screenwitness import captures.jsonl
  screenwitness report -d ./out`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress and debug details to stderr")
	cmd.AddCommand(
		NewImportCmd(),
		NewReportCmd(),
		NewRecategorizeCmd(),
		NewSearchCmd(),
		NewSplashCmd(),
		NewValidateCmd(),
		NewInitCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
