package signature

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Store holds the parsed rules of both databases in file order.
type Store struct {
	Credentials []Rule
	Categories  []Rule
}

// NewStore returns a Store over the given rules.
func NewStore(credentials, categories []Rule) *Store {
	return &Store{Credentials: credentials, Categories: categories}
}

// Empty reports whether the store has no rules at all.
func (s *Store) Empty() bool {
	return s == nil || (len(s.Credentials) == 0 && len(s.Categories) == 0)
}

// LoadFile parses the signature file at path.
// It returns a *ConfigError when the file cannot be opened.
func LoadFile(path string, kind Kind) ([]Rule, []LineError, error) {
	f, err := os.Open(path) //nolint:gosec // signature path comes from the user's configuration
	if err != nil {
		return nil, nil, &ConfigError{Path: path, Kind: kind, Err: err}
	}
	defer f.Close()

	rules, lineErrs := Parse(f, kind)
	return rules, lineErrs, nil
}

// Load reads both signature files. A file that cannot be read is logged
// as a warning and leaves that half of the store empty; malformed lines
// are logged and skipped. Load never fails.
func Load(credPath, catPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Credentials: loadOrWarn(credPath, KindCredential, logger),
		Categories:  loadOrWarn(catPath, KindCategory, logger),
	}
}

func loadOrWarn(path string, kind Kind, logger *slog.Logger) []Rule {
	rules, lineErrs, err := LoadFile(path, kind)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			logger.Warn(fmt.Sprintf("%s matching disabled", kind),
				"path", cfgErr.Path,
				"error", cfgErr.Err)
		}
		return nil
	}

	for _, le := range lineErrs {
		logger.Warn("skipping malformed signature line",
			"path", path,
			"kind", kind.String(),
			"line", le.Line,
			"error", le.Err)
	}
	logger.Debug("signatures loaded",
		"path", path,
		"kind", kind.String(),
		"rules", len(rules))

	return rules
}
