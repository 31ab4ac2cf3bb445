package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the configuration file written by
// `lexscan init`. Keys match the koanf keys read by Load.
type File struct {
	LexiconDir      string     `yaml:"lexicon_dir"`
	Categories      []Category `yaml:"categories"`
	Batch           int        `yaml:"batch"`
	DBDir           string     `yaml:"db_dir"`
	Listen          string     `yaml:"listen"`
	APIKey          string     `yaml:"api_key"`
	AllowNoAuth     bool       `yaml:"allow_no_auth"`
	RequestTimeout  string     `yaml:"request_timeout"`
	DownloadBaseURL string     `yaml:"download_base_url"`
	DownloadTimeout string     `yaml:"download_timeout"`
}

// DefaultFile returns a File populated from NewConfig.
func DefaultFile() File {
	cfg := NewConfig()
	return FileFromConfig(cfg)
}

// FileFromConfig converts cfg to its on-disk shape.
func FileFromConfig(cfg *Config) File {
	return File{
		LexiconDir:      cfg.LexiconDir,
		Categories:      cfg.Categories,
		Batch:           cfg.BatchSize,
		DBDir:           cfg.DBDir,
		Listen:          cfg.ListenAddr,
		APIKey:          cfg.APIKey,
		AllowNoAuth:     cfg.AllowNoAuth,
		RequestTimeout:  cfg.RequestTimeout.String(),
		DownloadBaseURL: cfg.DownloadBaseURL,
		DownloadTimeout: cfg.DownloadTimeout.String(),
	}
}

const fileHeader = `# lexscan configuration.
#
# Every key can be overridden with a LEXSCAN_<KEY> environment variable
# (e.g. LEXSCAN_LEXICON_DIR) or the matching command line flag.
# Lexicon files hold one word per line; blank lines and lines starting
# with "#" are ignored.

`

// WriteFile encodes f as YAML to w, preceded by a short comment header.
func WriteFile(w io.Writer, f File) error {
	if _, err := io.WriteString(w, fileHeader); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
