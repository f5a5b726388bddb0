package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/screenwitness/internal/config"
)

//go:embed templates/screenwitness.yaml templates/signatures.txt templates/categories.txt
var templates embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new screenwitness configuration file",
		Long: `Initialize creates a new .screenwitness configuration file in the current directory.

The generated file includes:
- Default settings for page size and title grouping
- Paths of the signature files
- Documentation for all available options

With --definitions, starter signatures.txt and categories.txt files are
written next to the configuration file.

Examples:
  # Create .screenwitness in current directory
  screenwitness init

  # Also create starter signature files
  screenwitness init --definitions

  # Create config file at a specific path
  screenwitness init -o myconfig.yaml

  # Force overwrite existing files
  screenwitness init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")
	cmd.Flags().Bool("definitions", false,
		"Also write starter "+config.DefaultSignatureFile+" and "+config.DefaultCategoryFile)

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	definitions, err := cmd.Flags().GetBool("definitions")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeTemplate(out, "templates/screenwitness.yaml", outputPath, force); err != nil {
		return err
	}

	if definitions {
		dir := filepath.Dir(outputPath)
		for _, name := range []string{config.DefaultSignatureFile, config.DefaultCategoryFile} {
			if err := writeTemplate(out, "templates/"+name, filepath.Join(dir, name), force); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  screenwitness validate")
	fmt.Fprintln(out, "  screenwitness import <capture-file>")
	fmt.Fprintln(out, "  screenwitness report")

	return nil
}

// writeTemplate copies an embedded template to path. An existing file is
// only replaced when force is set.
func writeTemplate(out io.Writer, name, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := templates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(out, "Created %s\n", path)
	return nil
}
