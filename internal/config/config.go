package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultResultsPerPage is the number of records on one report page.
	DefaultResultsPerPage = 25

	// DefaultSimilarityThreshold is the token-sort ratio at which two titles
	// are placed next to each other.
	DefaultSimilarityThreshold = 70

	// DefaultOutputDir is where the report set is written.
	DefaultOutputDir = "."

	// DefaultSignatureFile holds the default credential signatures.
	DefaultSignatureFile = "signatures.txt"

	// DefaultCategoryFile holds the category signatures.
	DefaultCategoryFile = "categories.txt"

	// DefaultImportConcurrency is the number of capture files decoded at once.
	DefaultImportConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "screenwitness"
)

// Config holds all configuration options for screenwitness.
// It is populated from defaults, the optional config file and CLI flags,
// in that order, and passed down explicitly.
type Config struct {
	// ResultsPerPage is the number of records on one report page.
	ResultsPerPage int

	// SimilarityThreshold is the title similarity score (1-100) used when
	// grouping records inside a category.
	SimilarityThreshold int

	// OutputDir is the directory that receives report.html and friends.
	OutputDir string

	// SignatureFile is the path of the default credential definitions.
	SignatureFile string

	// CategoryFile is the path of the category definitions.
	CategoryFile string

	// ImportConcurrency is the number of capture files decoded concurrently.
	ImportConcurrency int

	// DBDir is the directory holding screenwitness.db.
	// Defaults to OutputDir when empty.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file given on the command line.
	ConfigFilePath string

	// JSONReport prints the run summary as JSON instead of plain text.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown instead of plain text.
	MarkdownReport bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ResultsPerPage:      DefaultResultsPerPage,
		SimilarityThreshold: DefaultSimilarityThreshold,
		OutputDir:           DefaultOutputDir,
		SignatureFile:       DefaultSignatureFile,
		CategoryFile:        DefaultCategoryFile,
		ImportConcurrency:   DefaultImportConcurrency,
	}
}

// DatabaseDir returns the directory of the result store.
func (c *Config) DatabaseDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return c.OutputDir
}

// XDGDataDir returns the XDG data directory for screenwitness.
// On Linux: ~/.local/share/screenwitness
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for screenwitness.
// On Linux: ~/.config/screenwitness
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.ResultsPerPage <= 0 {
		return ErrInvalidResultsPerPage
	}

	if c.SimilarityThreshold < 1 || c.SimilarityThreshold > 100 {
		return ErrInvalidSimilarityThreshold
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.ImportConcurrency <= 0 {
		return ErrInvalidImportConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
