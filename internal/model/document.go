package model

import "time"

// Document is a named title/content pair and the outcome of checking it.
// The CLI builds one Document per input file; the history database stores
// them as rows.
type Document struct {
	// Name identifies the document, usually the source file path.
	Name string `json:"name"`

	// Title is the raw title as given to the checker.
	Title string `json:"title"`

	// Content is the raw body as given to the checker.
	// It is not part of reports because bodies can be large.
	Content string `json:"-"`

	// CheckedAt is when the check finished.
	CheckedAt time.Time `json:"checked_at"`

	// Result is the checker verdict. Nil until the document is checked.
	Result *Result `json:"result,omitempty"`

	// Error holds a read or processing error. A document with an error
	// has no Result.
	Error string `json:"error,omitempty"`
}

// NewDocument creates an unchecked Document.
func NewDocument(name, title, content string) *Document {
	return &Document{
		Name:    name,
		Title:   title,
		Content: content,
	}
}

// Failed reports whether the document was checked and did not pass.
func (d *Document) Failed() bool {
	return d.Result != nil && !d.Result.Passed
}

// Verdict is the one-word outcome of a document check.
type Verdict string

const (
	// VerdictPassed means the lexicons were scanned and nothing matched.
	VerdictPassed Verdict = "passed"
	// VerdictFailed means at least one lexicon word matched.
	VerdictFailed Verdict = "failed"
	// VerdictSkipped means no lexicon was available.
	VerdictSkipped Verdict = "skipped"
	// VerdictError means the document could not be checked.
	VerdictError Verdict = "error"
)

// Verdict returns the outcome of the check.
func (d *Document) Verdict() Verdict {
	switch {
	case d.Error != "" || d.Result == nil:
		return VerdictError
	case !d.Result.Passed:
		return VerdictFailed
	case d.Result.Skipped():
		return VerdictSkipped
	default:
		return VerdictPassed
	}
}
