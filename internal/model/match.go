package model

import "unicode/utf8"

// Field identifies which part of a document a match was found in.
type Field string

const (
	// FieldTitle marks a match found in the document title.
	FieldTitle Field = "title"

	// FieldContent marks a match found in the normalized document body.
	FieldContent Field = "content"
)

// String returns the field name.
func (f Field) String() string {
	return string(f)
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	return f == FieldTitle || f == FieldContent
}

// Match is one lexicon word located in a field.
// Start and End are character (rune) offsets into the scanned text,
// End is exclusive.
type Match struct {
	// Start is the offset of the first character of the word.
	Start int `json:"start"`

	// End is the offset one past the last character of the word.
	End int `json:"end"`

	// Word is the matched lexicon word, exactly as it appears in the text.
	Word string `json:"word"`

	// Category is the identifier of the lexicon category that matched.
	Category string `json:"category"`

	// Field is where the word was found.
	Field Field `json:"field"`
}

// Len returns the length of the match in characters.
func (m Match) Len() int {
	return m.End - m.Start
}

// Valid reports whether the match satisfies its offset invariants:
// a non-empty span whose length equals the length of Word.
func (m Match) Valid() bool {
	if m.Start < 0 || m.End <= m.Start {
		return false
	}
	return utf8.RuneCountInString(m.Word) == m.End-m.Start
}
