package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/lexscan/internal/model"
)

// LoadDocument reads a file as a document named by its path.
func LoadDocument(path string) (*model.Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return ParseDocument(path, string(data)), nil
}

// ReadDocument reads a document from r, for example standard input.
func ReadDocument(name string, r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return ParseDocument(name, string(data)), nil
}

// ParseDocument splits text into title and content. The first non-blank
// line is the title, with a leading Markdown heading marker removed. The
// remaining lines are the content.
func ParseDocument(name, text string) *model.Document {
	text = strings.TrimPrefix(text, "\ufeff")

	rest := text
	for rest != "" {
		line, after, _ := strings.Cut(rest, "\n")
		rest = after
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return model.NewDocument(name, headingText(line), strings.TrimLeft(rest, "\r\n"))
	}
	return model.NewDocument(name, "", "")
}

// headingText strips ATX heading markers such as "## ".
func headingText(line string) string {
	trimmed := strings.TrimLeft(line, "#")
	if trimmed == line {
		return line
	}
	if trimmed == "" || trimmed[0] == ' ' || trimmed[0] == '\t' {
		return strings.TrimSpace(trimmed)
	}
	// "#tag" is not a heading.
	return line
}
