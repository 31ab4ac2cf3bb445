package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/lexscan/internal/model"
)

var testNames = map[string]string{"ad": "广告垃圾", "abuse": "谩骂灌水"}

// failedDoc creates a checked document with matches in two categories.
func failedDoc() *model.Document {
	doc := model.NewDocument("posts/a.md", "加微信", "这是垃圾内容")
	doc.CheckedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc.Result = &model.Result{
		Passed: false,
		Matches: []model.Match{
			{Start: 0, End: 3, Word: "加微信", Category: "ad", Field: model.FieldTitle},
			{Start: 2, End: 6, Word: "垃圾内容", Category: "abuse", Field: model.FieldContent},
		},
		FailedCategories: []string{"ad", "abuse"},
		Message:          "内容含敏感词，涉及：广告垃圾, 谩骂灌水，示例：加微信, 垃圾内容",
		Performed:        true,
		Sources:          model.SourceLocal,
	}
	return doc
}

func passedDoc() *model.Document {
	doc := model.NewDocument("posts/b.md", "天气", "晴")
	doc.Result = &model.Result{
		Passed:           true,
		Matches:          []model.Match{},
		FailedCategories: []string{},
		Performed:        true,
		Sources:          model.SourceLocal,
	}
	return doc
}

func skippedDoc() *model.Document {
	doc := model.NewDocument("posts/c.md", "", "")
	doc.Result = &model.Result{
		Passed:        true,
		Sources:       model.SourceSkipped,
		SkippedReason: "no lexicon",
	}
	return doc
}

func errorDoc() *model.Document {
	doc := model.NewDocument("posts/d.md", "", "")
	doc.Error = "permission denied"
	return doc
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and matches grouped by category", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithCategoryNames(testNames))
		if _, err := w.Write(failedDoc()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"LEXSCAN REPORT",
			"Document:   posts/a.md",
			"Status:     FAILED",
			"MATCHES (2)",
			"[ad] 广告垃圾",
			"  * 加微信 (title)",
			"[abuse] 谩骂灌水",
			"内容含敏感词",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("verbose shows offsets", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		if _, err := w.Write(failedDoc()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "垃圾内容 (content 2-6)") {
			t.Errorf("expected offsets, got:\n%s", buf.String())
		}
	})

	t.Run("status of each verdict", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			doc  *model.Document
			want string
		}{
			{passedDoc(), "Status:     PASSED"},
			{skippedDoc(), "Status:     SKIPPED - no lexicon"},
			{errorDoc(), "Status:     ERROR - permission denied"},
		}
		for _, tt := range tests {
			var buf bytes.Buffer
			if _, err := NewSimpleWriter(&buf).Write(tt.doc); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q, got:\n%s", tt.want, buf.String())
			}
			if strings.Contains(buf.String(), "MATCHES") {
				t.Errorf("unexpected matches section for %s", tt.doc.Name)
			}
		}
	})

	t.Run("batch writes summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithCategoryNames(testNames))
		n, err := w.WriteBatch([]*model.Document{failedDoc(), passedDoc(), errorDoc()})
		if err != nil {
			t.Fatal(err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}
		output := buf.String()
		for _, want := range []string{"SUMMARY", "DOCUMENTS: 3", "FAILED:    1", "ERRORS:    1", "MATCHES:   2"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in:\n%s", want, output)
			}
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("single document is an object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(failedDoc()); err != nil {
			t.Fatal(err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["name"] != "posts/a.md" {
			t.Errorf("unexpected name %v", decoded["name"])
		}
		if _, ok := decoded["content"]; ok {
			t.Error("content must not be serialized")
		}
		result := decoded["result"].(map[string]any)
		if result["passed"] != false || result["sources"] != "local" {
			t.Errorf("unexpected result %v", result)
		}
		matches := result["matches"].([]any)
		first := matches[0].(map[string]any)
		if first["field"] != "title" || first["end"] != float64(3) {
			t.Errorf("unexpected match %v", first)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(passedDoc()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"name\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("batch has documents and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteBatch([]*model.Document{failedDoc(), skippedDoc()}); err != nil {
			t.Fatal(err)
		}
		var decoded BatchReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatal(err)
		}
		if len(decoded.Documents) != 2 || decoded.Summary.Failed != 1 || decoded.Summary.Skipped != 1 {
			t.Errorf("unexpected batch %+v", decoded.Summary)
		}
	})

	t.Run("empty batch encodes an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteBatch(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"documents":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("failed document has alert, matches and pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, testNames).Write(failedDoc()); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{
			"# lexscan Report",
			"[!CAUTION]",
			"## Matches",
			`"广告垃圾" : 1`,
			"```mermaid",
			"pie",
			"Matches by Category",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in:\n%s", want, output)
			}
		}
	})

	t.Run("passed document has tip and no chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, nil).Write(passedDoc()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Errorf("expected tip, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("unexpected chart for a passing document")
		}
	})

	t.Run("batch lists every document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		docs := []*model.Document{failedDoc(), passedDoc(), skippedDoc()}
		if _, err := NewMarkdownWriter(&buf, testNames).WriteBatch(docs); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{"# lexscan Batch Report", "`posts/b.md`", "### posts/a.md", "[!CAUTION]"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in:\n%s", want, output)
			}
		}
	})
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write(*model.Document) (int, error)        { return 0, errors.New("write failed") }
func (failingWriter) WriteBatch([]*model.Document) (int, error) { return 0, errors.New("write failed") }

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		m := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b))
		n, err := m.Write(passedDoc())
		if err != nil {
			t.Fatal(err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewJSONWriter(&buf))
		if _, err := m.WriteBatch([]*model.Document{passedDoc()}); err == nil {
			t.Error("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}
