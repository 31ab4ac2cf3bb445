package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrPartialDownload is returned when at least one file could not be downloaded.
var ErrPartialDownload = errors.New("some lexicon files could not be downloaded")

// ErrInvalidFileName is returned for names that are not a plain file name.
var ErrInvalidFileName = errors.New("invalid lexicon file name")

// Fetcher downloads lexicon files over HTTP.
type Fetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithRetries retries failed requests n more times.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.client.SetRetryCount(n).SetRetryWaitTime(500 * time.Millisecond)
		}
	}
}

// NewFetcher creates a Fetcher that downloads from baseURL.
// timeout bounds each request.
func NewFetcher(baseURL string, timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("User-Agent", "lexscan"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// FileResult is the outcome of downloading one file.
type FileResult struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Bytes int    `json:"bytes"`
	Err   error  `json:"-"`
}

// OK reports whether the file was written.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Summary lists the outcome of every requested file, in request order.
type Summary struct {
	Files []FileResult `json:"files"`
}

// Succeeded returns the number of files written.
func (s Summary) Succeeded() int {
	n := 0
	for _, f := range s.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Total returns the number of files requested.
func (s Summary) Total() int {
	return len(s.Files)
}

// Failed returns the files that could not be downloaded.
func (s Summary) Failed() []FileResult {
	failed := make([]FileResult, 0)
	for _, f := range s.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// Download fetches each file from the base URL into dir. A failed file does
// not stop the others. The returned error wraps ErrPartialDownload when any
// file failed, or is the context error when ctx ends.
func (f *Fetcher) Download(ctx context.Context, dir string, files []string) (Summary, error) {
	summary := Summary{Files: make([]FileResult, 0, len(files))}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return summary, fmt.Errorf("failed to create lexicon directory: %w", err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := f.fetch(ctx, dir, name)
		if result.OK() {
			f.logger.Info("downloaded lexicon file", "file", name, "bytes", result.Bytes)
		} else {
			f.logger.Warn("failed to download lexicon file", "file", name, "error", result.Err)
		}
		summary.Files = append(summary.Files, result)
	}

	if failed := summary.Failed(); len(failed) > 0 {
		return summary, fmt.Errorf("%w: %d/%d failed", ErrPartialDownload, len(failed), summary.Total())
	}
	return summary, nil
}

func (f *Fetcher) fetch(ctx context.Context, dir, name string) FileResult {
	result := FileResult{Name: name}

	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		result.Err = fmt.Errorf("%w: %q", ErrInvalidFileName, name)
		return result
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get("/" + url.PathEscape(name))
	if err != nil {
		result.Err = fmt.Errorf("request failed: %w", err)
		return result
	}
	if resp.StatusCode() != http.StatusOK {
		result.Err = fmt.Errorf("unexpected status %s", resp.Status())
		return result
	}

	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, resp.Body()); err != nil {
		result.Err = err
		return result
	}
	result.Path = path
	result.Bytes = len(resp.Body())
	return result
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil { //nolint:gosec // lexicon files are not secret
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
