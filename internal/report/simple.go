package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/lexscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds match offsets to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with match offsets.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithCategoryNames sets the display names used for categories.
func WithCategoryNames(names map[string]string) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if names != nil {
			w.names = names
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report of one document.
func (w *SimpleWriter) Write(doc *model.Document) (int, error) {
	var sb strings.Builder
	w.writeBanner(&sb)
	w.writeDocument(&sb, doc)
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs every document followed by a summary.
func (w *SimpleWriter) WriteBatch(docs []*model.Document) (int, error) {
	var sb strings.Builder
	w.writeBanner(&sb)
	for _, doc := range docs {
		w.writeDocument(&sb, doc)
	}
	w.writeSummary(&sb, model.NewSummary(docs))
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeBanner(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          LEXSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeDocument writes the header and matches of one document.
func (w *SimpleWriter) writeDocument(sb *strings.Builder, doc *model.Document) {
	fmt.Fprintf(sb, "Document:   %s\n", doc.Name)
	if doc.Title != "" {
		fmt.Fprintf(sb, "Title:      %s\n", doc.Title)
	}
	if !doc.CheckedAt.IsZero() {
		fmt.Fprintf(sb, "Checked At: %s\n", doc.CheckedAt.Format(timeLayout))
	}
	fmt.Fprintf(sb, "Status:     %s\n", w.statusText(doc))
	sb.WriteString("\n")

	if doc.Verdict() != model.VerdictFailed {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "MATCHES (%d)\n", len(doc.Result.Matches))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, id := range doc.Result.FailedCategories {
		fmt.Fprintf(sb, "[%s] %s\n", id, w.categoryName(id))
		for _, m := range doc.Result.Matches {
			if m.Category != id {
				continue
			}
			if w.verbose {
				fmt.Fprintf(sb, "  * %s (%s %d-%d)\n", m.Word, m.Field, m.Start, m.End)
			} else {
				fmt.Fprintf(sb, "  * %s (%s)\n", m.Word, m.Field)
			}
		}
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s\n\n", doc.Result.Message)
}

// statusText returns the status line of a document.
func (w *SimpleWriter) statusText(doc *model.Document) string {
	switch doc.Verdict() {
	case model.VerdictError:
		if doc.Error == "" {
			return "ERROR - not checked"
		}
		return "ERROR - " + doc.Error
	case model.VerdictFailed:
		return "FAILED"
	case model.VerdictSkipped:
		return "SKIPPED - " + doc.Result.SkippedReason
	default:
		return "PASSED"
	}
}

// writeSummary writes the batch summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, s *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  DOCUMENTS: %d\n", s.Total)
	fmt.Fprintf(sb, "  PASSED:    %d\n", s.Passed)
	fmt.Fprintf(sb, "  FAILED:    %d\n", s.Failed)
	fmt.Fprintf(sb, "  SKIPPED:   %d\n", s.Skipped)
	fmt.Fprintf(sb, "  ERRORS:    %d\n", s.Errors)
	sb.WriteString("\n")

	if s.Matches == 0 {
		return
	}
	fmt.Fprintf(sb, "  MATCHES:   %d\n", s.Matches)
	for _, id := range s.CategoryOrder {
		fmt.Fprintf(sb, "    %-10s %d\n", w.categoryName(id), s.ByCategory[id])
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
