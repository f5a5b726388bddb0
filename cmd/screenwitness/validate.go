package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/signature"
)

// errValidationFailed is returned when at least one signature file has problems.
var errValidationFailed = errors.New("signature validation failed")

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the signature files for mistakes",
		Long: `Validate checks signatures.txt and categories.txt strictly.

Reported problems:
- lines without exactly one '|' separator
- lines with no criteria or no payload
- category tags that are not part of the category list
- identical lines and rules with the same criteria

The command exits with an error when any file has problems, so it can run
in CI before the files are used for a report.

Examples:
  screenwitness validate
  screenwitness validate -s creds.txt --categories cats.txt`,
		Args: cobra.NoArgs,
		RunE: runValidateCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .screenwitness in current or home directory)")
	addSignatureFlags(cmd)

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ok := validateFile(out, cfg.SignatureFile, signature.KindCredential)
	ok = validateFile(out, cfg.CategoryFile, signature.KindCategory) && ok
	if !ok {
		return errValidationFailed
	}
	return nil
}

// validateFile prints the validation result of one file and reports
// whether it passed.
func validateFile(out io.Writer, path string, kind signature.Kind) bool {
	f, err := os.Open(path) //nolint:gosec // signature path comes from the user's configuration
	if err != nil {
		failColor.Fprintf(out, "FAIL %s (%s): %v\n", path, kind, err)
		return false
	}
	defer f.Close()

	rep, err := signature.Validate(f, kind, nil)
	if err != nil {
		failColor.Fprintf(out, "FAIL %s (%s): %v\n", path, kind, err)
		return false
	}

	if rep.OK() {
		okColor.Fprintf(out, "OK   %s (%s): %d rule(s)\n", path, kind, rep.Rules)
		return true
	}

	failColor.Fprintf(out, "FAIL %s (%s): %d rule(s), %d issue(s)\n", path, kind, rep.Rules, len(rep.Issues))
	for _, issue := range rep.Issues {
		fmt.Fprintf(out, "  line %d: %v\n", issue.Line, issue.Err)
		fmt.Fprintf(out, "    %s\n", issue.Text)
	}
	for _, d := range rep.ExactDuplicates {
		warnColor.Fprintf(out, "  duplicate line on lines %s: %s\n", joinLines(d.Lines), d.Key)
	}
	for _, d := range rep.CriteriaDuplicates {
		warnColor.Fprintf(out, "  duplicate criteria on lines %s: %s\n", joinLines(d.Lines), d.Key)
	}
	return false
}

func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
