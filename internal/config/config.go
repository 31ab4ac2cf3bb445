package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "lexscan"

	// DefaultBatchSize is the number of documents checked concurrently by
	// `lexscan check` when several files are given. Checking is CPU bound,
	// so a small number is enough.
	DefaultBatchSize = 4

	// DefaultListenAddr is the address `lexscan serve` binds to.
	// Loopback only: the API is meant to sit behind the caller's own gateway.
	DefaultListenAddr = "127.0.0.1:8899"

	// DefaultRequestTimeout bounds a single HTTP API request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultDownloadBaseURL is where `lexscan lexicon download` fetches
	// the lexicon files from.
	DefaultDownloadBaseURL = "https://raw.githubusercontent.com/konsheng/Sensitive-lexicon/main/Vocabulary"

	// DefaultDownloadTimeout bounds each lexicon file download.
	DefaultDownloadTimeout = 30 * time.Second

	// lexiconSubdir is the lexicon directory name under the XDG data dir.
	lexiconSubdir = "Vocabulary"
)

// Config holds all configuration options for lexscan.
// It is populated by Load and passed through the application explicitly.
type Config struct {
	// LexiconDir is the root directory holding the category word lists.
	// If it does not exist, checks are skipped and every document passes.
	LexiconDir string `koanf:"lexicon_dir"`

	// Categories is the category table, in scan order.
	Categories []Category `koanf:"categories"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// JSONLogs switches log output from text to JSON.
	JSONLogs bool `koanf:"json_logs"`

	// BatchSize is the number of documents checked concurrently.
	BatchSize int `koanf:"batch"`

	// JSONReport selects JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool `koanf:"json"`

	// MarkdownReport selects Markdown report output. Mutually exclusive with JSONReport.
	MarkdownReport bool `koanf:"markdown"`

	// ReportFile is the output file for reports. Stdout when empty.
	ReportFile string `koanf:"output"`

	// DBDir is the directory of the check history database.
	DBDir string `koanf:"db_dir"`

	// SaveToDB records every checked document in the history database.
	SaveToDB bool `koanf:"save"`

	// ListenAddr is the HTTP API listen address.
	ListenAddr string `koanf:"listen"`

	// APIKey protects the HTTP API. Requests send it as a bearer token,
	// in the X-API-Key header or as the api_key query parameter.
	APIKey string `koanf:"api_key"`

	// AllowNoAuth admits loopback clients without an API key.
	AllowNoAuth bool `koanf:"allow_no_auth"`

	// RequestTimeout bounds a single HTTP API request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// DownloadBaseURL is the base URL lexicon files are downloaded from.
	DownloadBaseURL string `koanf:"download_base_url"`

	// DownloadTimeout bounds each lexicon file download.
	DownloadTimeout time.Duration `koanf:"download_timeout"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LexiconDir:      DefaultLexiconDir(),
		Categories:      DefaultCategories(),
		BatchSize:       DefaultBatchSize,
		DBDir:           XDGDataDir(),
		ListenAddr:      DefaultListenAddr,
		AllowNoAuth:     true,
		RequestTimeout:  DefaultRequestTimeout,
		DownloadBaseURL: DefaultDownloadBaseURL,
		DownloadTimeout: DefaultDownloadTimeout,
	}
}

// XDGDataDir returns the XDG data directory for lexscan.
// On Linux: ~/.local/share/lexscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for lexscan.
// On Linux: ~/.config/lexscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultLexiconDir returns the lexicon directory used when none is configured.
func DefaultLexiconDir() string {
	return filepath.Join(XDGDataDir(), lexiconSubdir)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LexiconDir) == "" {
		return ErrNoLexiconDir
	}

	if len(c.Categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.ID) == "" || len(cat.Files) == 0 {
			return ErrInvalidCategory
		}
		if seen[cat.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.ID)
		}
		seen[cat.ID] = true
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.RequestTimeout <= 0 || c.DownloadTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if strings.TrimSpace(c.ListenAddr) == "" {
		return ErrInvalidListenAddr
	}

	return nil
}
