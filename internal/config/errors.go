package config

import "errors"

// Configuration validation errors returned by Config.Validate().
var (
	// ErrInvalidResultsPerPage is returned when the page size is not positive.
	ErrInvalidResultsPerPage = errors.New("invalid results per page: must be positive")

	// ErrInvalidSimilarityThreshold is returned when the threshold is outside 1-100.
	ErrInvalidSimilarityThreshold = errors.New("invalid similarity threshold: must be between 1 and 100")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidImportConcurrency is returned when the import concurrency is not positive.
	ErrInvalidImportConcurrency = errors.New("invalid import concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
