package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/lexscan/internal/compliance"
	"github.com/nao1215/lexscan/internal/config"
	lexlog "github.com/nao1215/lexscan/internal/log"
)

// loadConfig builds the configuration for cmd from defaults, the config
// file, LEXSCAN_* variables and the flags the user set, then validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the structured logger for cfg. Logs go to w, which
// is stderr outside tests, so reports on stdout stay clean.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.JSONLogs {
		return lexlog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return lexlog.NewSecureLogger(w, cfg.Verbose)
}

// newChecker creates a checker over the configured lexicon directory.
func newChecker(cfg *config.Config, logger *slog.Logger) *compliance.Checker {
	return compliance.NewChecker(compliance.Options{
		Root:       cfg.LexiconDir,
		Categories: cfg.Categories,
		Logger:     logger,
	})
}

// openOutput returns the report destination: path when set, else stdout.
// The returned close function is never nil.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports quote the flagged words, so keep them owner-readable only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
