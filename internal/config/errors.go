package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoLexiconDir is returned when the lexicon directory is empty.
	// A directory that does not exist is valid: the checker then skips checks.
	ErrNoLexiconDir = errors.New("invalid lexicon dir: must not be empty")

	// ErrNoCategories is returned when the category table is empty.
	ErrNoCategories = errors.New("no categories configured")

	// ErrInvalidCategory is returned when a category has no identifier or no files.
	ErrInvalidCategory = errors.New("invalid category: id and at least one file are required")

	// ErrDuplicateCategory is returned when two categories share an identifier.
	ErrDuplicateCategory = errors.New("duplicate category id")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidTimeout is returned when a request or download timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidListenAddr is returned when the HTTP listen address is empty.
	ErrInvalidListenAddr = errors.New("invalid listen address: must not be empty")
)
