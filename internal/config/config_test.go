package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies the default values so that changes to them are
// intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ResultsPerPage is 25", func(t *testing.T) {
		t.Parallel()
		if cfg.ResultsPerPage != 25 {
			t.Errorf("expected ResultsPerPage to be 25, got %d", cfg.ResultsPerPage)
		}
	})

	t.Run("default SimilarityThreshold is 70", func(t *testing.T) {
		t.Parallel()
		if cfg.SimilarityThreshold != 70 {
			t.Errorf("expected SimilarityThreshold to be 70, got %d", cfg.SimilarityThreshold)
		}
	})

	t.Run("default definition files", func(t *testing.T) {
		t.Parallel()
		if cfg.SignatureFile != "signatures.txt" || cfg.CategoryFile != "categories.txt" {
			t.Errorf("unexpected definition files %q %q", cfg.SignatureFile, cfg.CategoryFile)
		}
	})

	t.Run("default ImportConcurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.ImportConcurrency != 4 {
			t.Errorf("expected ImportConcurrency to be 4, got %d", cfg.ImportConcurrency)
		}
	})

	t.Run("database dir follows output dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DatabaseDir() != "." {
			t.Errorf("expected database dir '.', got %q", cfg.DatabaseDir())
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero results per page", func(c *Config) { c.ResultsPerPage = 0 }, ErrInvalidResultsPerPage},
		{"negative results per page", func(c *Config) { c.ResultsPerPage = -1 }, ErrInvalidResultsPerPage},
		{"zero threshold", func(c *Config) { c.SimilarityThreshold = 0 }, ErrInvalidSimilarityThreshold},
		{"threshold above 100", func(c *Config) { c.SimilarityThreshold = 101 }, ErrInvalidSimilarityThreshold},
		{"threshold of 100 is valid", func(c *Config) { c.SimilarityThreshold = 100 }, nil},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, ErrNoOutputDir},
		{"zero import concurrency", func(c *Config) { c.ImportConcurrency = 0 }, ErrInvalidImportConcurrency},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"json only is valid", func(c *Config) { c.JSONReport = true }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestFileApply tests merging config file values into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)
		if cfg.ResultsPerPage != DefaultResultsPerPage || cfg.SignatureFile != DefaultSignatureFile {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		f := &File{
			Signatures:          "/etc/sw/sigs.txt",
			Categories:          "cats.txt",
			ResultsPerPage:      10,
			SimilarityThreshold: 85,
			ImportConcurrency:   2,
			Database:            "/var/lib/sw",
		}
		f.Apply(cfg)

		if cfg.SignatureFile != "/etc/sw/sigs.txt" || cfg.CategoryFile != "cats.txt" {
			t.Errorf("unexpected files %q %q", cfg.SignatureFile, cfg.CategoryFile)
		}
		if cfg.ResultsPerPage != 10 || cfg.SimilarityThreshold != 85 || cfg.ImportConcurrency != 2 {
			t.Errorf("unexpected numbers %+v", cfg)
		}
		if cfg.DatabaseDir() != "/var/lib/sw" {
			t.Errorf("unexpected database dir %q", cfg.DatabaseDir())
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		var f *File
		cfg := NewConfig()
		f.Apply(cfg)
		if cfg.ResultsPerPage != DefaultResultsPerPage {
			t.Error("nil file changed the config")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.screenwitness")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config and resolves relative paths", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)

		content := `signatures: defs/signatures.txt
categories: /opt/categories.txt
resultsPerPage: 50
similarityThreshold: 80
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.ResultsPerPage != 50 || f.SimilarityThreshold != 80 {
			t.Errorf("unexpected file %+v", f)
		}

		cfg := NewConfig()
		f.Apply(cfg)
		if want := filepath.Join(tmpDir, "defs", "signatures.txt"); cfg.SignatureFile != want {
			t.Errorf("expected %q, got %q", want, cfg.SignatureFile)
		}
		if cfg.CategoryFile != "/opt/categories.txt" {
			t.Errorf("absolute path should be kept, got %q", cfg.CategoryFile)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("resultsPerPage: 10"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		configPath := filepath.Join(tmpDir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("resultsPerPage: 10"), 0600); err != nil {
			t.Fatal(err)
		}

		if result := FindConfigFile(""); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with the app name", func(t *testing.T) {
		t.Parallel()

		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("unexpected XDG data dir %q", XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with the app name", func(t *testing.T) {
		t.Parallel()

		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("unexpected XDG config dir %q", XDGConfigDir())
		}
	})
}
