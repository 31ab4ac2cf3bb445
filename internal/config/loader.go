package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigFile is the configuration file name looked up in the
// current directory.
const DefaultConfigFile = ".lexscan.yaml"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// EnvPrefix is the prefix of environment variables read by Load.
// LEXSCAN_LEXICON_DIR sets lexicon_dir, and so on.
const EnvPrefix = "LEXSCAN_"

// ErrConfigNotFound is returned when an explicitly requested configuration
// file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .lexscan.yaml in the current directory
//  3. config.yaml in the XDG config directory
//
// Returns an empty string if no file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), xdgConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}

// Load builds a Config from defaults, the configuration file, LEXSCAN_*
// environment variables and explicitly set flags, in increasing precedence.
//
// If cfgFile is non-empty and does not exist, ErrConfigNotFound is returned.
// flags may be nil. The returned Config is not validated.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	defaults := NewConfig()

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"lexicon_dir":       defaults.LexiconDir,
		"batch":             defaults.BatchSize,
		"db_dir":            defaults.DBDir,
		"listen":            defaults.ListenAddr,
		"allow_no_auth":     defaults.AllowNoAuth,
		"request_timeout":   defaults.RequestTimeout,
		"download_base_url": defaults.DownloadBaseURL,
		"download_timeout":  defaults.DownloadTimeout,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := FindConfigFile(cfgFile)
	if path == "" && cfgFile != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}
	cfg.LexiconDir = expandHome(cfg.LexiconDir)
	cfg.DBDir = expandHome(cfg.DBDir)

	return &cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
