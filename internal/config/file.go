package config

import "path/filepath"

// File represents the structure of the .screenwitness configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	// Signatures is the credential definition file.
	// Relative paths are resolved against the config file's directory.
	Signatures string `yaml:"signatures,omitempty"`

	// Categories is the category definition file.
	// Relative paths are resolved against the config file's directory.
	Categories string `yaml:"categories,omitempty"`

	// ResultsPerPage overrides the report page size.
	ResultsPerPage int `yaml:"resultsPerPage,omitempty"`

	// SimilarityThreshold overrides the title grouping threshold.
	SimilarityThreshold int `yaml:"similarityThreshold,omitempty"`

	// ImportConcurrency overrides the number of concurrent import workers.
	ImportConcurrency int `yaml:"importConcurrency,omitempty"`

	// Database is the directory holding screenwitness.db.
	Database string `yaml:"database,omitempty"`

	// dir is the directory the file was loaded from.
	dir string
}

// Apply copies every value set in the file into cfg.
func (f *File) Apply(cfg *Config) {
	if f == nil || cfg == nil {
		return
	}

	if f.Signatures != "" {
		cfg.SignatureFile = f.resolve(f.Signatures)
	}
	if f.Categories != "" {
		cfg.CategoryFile = f.resolve(f.Categories)
	}
	if f.ResultsPerPage != 0 {
		cfg.ResultsPerPage = f.ResultsPerPage
	}
	if f.SimilarityThreshold != 0 {
		cfg.SimilarityThreshold = f.SimilarityThreshold
	}
	if f.ImportConcurrency != 0 {
		cfg.ImportConcurrency = f.ImportConcurrency
	}
	if f.Database != "" {
		cfg.DBDir = f.resolve(f.Database)
	}
}

func (f *File) resolve(path string) string {
	if f.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.dir, path)
}
