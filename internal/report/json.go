package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/lexscan/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
// A single document is written as an object, a batch as
// {"documents": [...], "summary": {...}}.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one document in JSON format.
func (w *JSONWriter) Write(doc *model.Document) (int, error) {
	return w.writeJSON(doc)
}

// BatchReport is the JSON shape of a batch report.
type BatchReport struct {
	Documents []*model.Document `json:"documents"`
	Summary   *model.Summary    `json:"summary"`
}

// WriteBatch outputs all documents and their summary in JSON format.
func (w *JSONWriter) WriteBatch(docs []*model.Document) (int, error) {
	if docs == nil {
		docs = []*model.Document{}
	}
	return w.writeJSON(BatchReport{Documents: docs, Summary: model.NewSummary(docs)})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
