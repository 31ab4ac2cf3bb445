package report

import (
	"io"

	"github.com/nao1215/lexscan/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report of a single document.
	// Returns the number of bytes written and any error encountered.
	Write(doc *model.Document) (int, error)

	// WriteBatch outputs the report of several documents together with
	// a summary.
	WriteBatch(docs []*model.Document) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers and stops on the
// first error.
func (m *MultiWriter) Write(doc *model.Document) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the batch report to all configured Writers.
func (m *MultiWriter) WriteBatch(docs []*model.Document) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(docs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// names maps category IDs to display names.
	names map[string]string
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output, names: map[string]string{}}
}

// categoryName returns the display name of a category, falling back to its ID.
func (b baseWriter) categoryName(id string) string {
	if name, ok := b.names[id]; ok && name != "" {
		return name
	}
	return id
}

// timeLayout is the timestamp format of text and Markdown reports.
const timeLayout = "2006-01-02 15:04:05 MST"
