package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/lexscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing in
// issues and pull requests.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
// names maps category IDs to display names and may be nil.
func NewMarkdownWriter(output io.Writer, names map[string]string) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	if names != nil {
		w.names = names
	}
	return w
}

// Write outputs the report of one document in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("lexscan Report")
	md.PlainText("")
	w.writeDocumentTable(md, doc)
	w.writeAlert(md, doc)

	if doc.Verdict() == model.VerdictFailed {
		md.H2("Matches")
		md.PlainText("")
		w.writeMatchesTable(md, doc.Result.Matches)
		w.writePieChart(md, model.NewSummary([]*model.Document{doc}))
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteBatch outputs a summary table of all documents followed by the
// matches of every failed document.
func (w *MarkdownWriter) WriteBatch(docs []*model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewSummary(docs)

	md.H1("lexscan Batch Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Documents", "Passed", "Failed", "Skipped", "Errors", "Matches"},
		Rows: [][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Passed),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(summary.Errors),
			strconv.Itoa(summary.Matches),
		}},
	})
	md.PlainText("")

	switch {
	case summary.Failed > 0:
		md.Cautionf("%d of %d document(s) contain sensitive words.", summary.Failed, summary.Total)
	case summary.Errors > 0:
		md.Warningf("%d document(s) could not be checked.", summary.Errors)
	case summary.Skipped > 0:
		md.Note("No lexicon is configured. Documents were not scanned.")
	default:
		md.Tip("All documents passed.")
	}
	md.PlainText("")

	if summary.Matches > 0 {
		w.writePieChart(md, summary)
	}

	md.H2("Documents")
	md.PlainText("")
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		matches := "-"
		if doc.Result != nil {
			matches = strconv.Itoa(len(doc.Result.Matches))
		}
		rows = append(rows, []string{"`" + doc.Name + "`", string(doc.Verdict()), matches})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Document", "Verdict", "Matches"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, doc := range docs {
		if doc.Verdict() != model.VerdictFailed {
			continue
		}
		md.H3(doc.Name)
		md.PlainText("")
		md.PlainText(doc.Result.Message)
		md.PlainText("")
		w.writeMatchesTable(md, doc.Result.Matches)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeDocumentTable writes the property table of one document.
func (w *MarkdownWriter) writeDocumentTable(md *markdown.Markdown, doc *model.Document) {
	rows := [][]string{
		{"Document", "`" + doc.Name + "`"},
	}
	if doc.Title != "" {
		rows = append(rows, []string{"Title", doc.Title})
	}
	if !doc.CheckedAt.IsZero() {
		rows = append(rows, []string{"Checked At", doc.CheckedAt.Format(timeLayout)})
	}
	rows = append(rows, []string{"Verdict", string(doc.Verdict())})
	if doc.Result != nil {
		rows = append(rows, []string{"Source", doc.Result.Sources.String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, doc *model.Document) {
	switch doc.Verdict() {
	case model.VerdictFailed:
		md.Cautionf("%s", doc.Result.Message)
	case model.VerdictError:
		md.Warningf("The document could not be checked: %s", doc.Error)
	case model.VerdictSkipped:
		md.Note(doc.Result.SkippedReason)
	default:
		md.Tip("No sensitive words found.")
	}
	md.PlainText("")
}

// writeMatchesTable writes one row per match.
func (w *MarkdownWriter) writeMatchesTable(md *markdown.Markdown, matches []model.Match) {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			w.categoryName(m.Category),
			m.Field.String(),
			strconv.Itoa(m.Start) + "-" + strconv.Itoa(m.End),
			m.Word,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Field", "Position", "Word"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of matches per category.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Matches by Category"),
		piechart.WithShowData(true),
	)
	for _, id := range summary.CategoryOrder {
		chart.LabelAndIntValue(w.categoryName(id), uint64(summary.ByCategory[id]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [lexscan](https://github.com/nao1215/lexscan)*")
}
