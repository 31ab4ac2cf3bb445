package model

// Source tells how a Result was produced.
type Source string

const (
	// SourceLocal means the local lexicons were scanned.
	SourceLocal Source = "local"

	// SourceSkipped means no lexicon was available and nothing was scanned.
	SourceSkipped Source = "skipped"
)

// String returns the source name.
func (s Source) String() string {
	return string(s)
}

// Result is the verdict for one title/content pair.
type Result struct {
	// Passed is true when no lexicon word was found.
	// A skipped check always passes (fail-open).
	Passed bool `json:"passed"`

	// Matches lists every hit in scan order: categories in configured order,
	// title before content within each category.
	Matches []Match `json:"matches"`

	// FailedCategories lists category identifiers present in Matches,
	// de-duplicated, in first-seen order.
	FailedCategories []string `json:"failed_categories"`

	// Message is a one-line summary of a failed check. Empty when passed.
	Message string `json:"message"`

	// Performed is false when the check was skipped.
	Performed bool `json:"performed"`

	// Sources is SourceLocal or SourceSkipped.
	Sources Source `json:"sources"`

	// SkippedReason explains why the check was skipped. Empty otherwise.
	SkippedReason string `json:"skipped_reason"`
}

// Words returns the matched words in scan order, duplicates included.
func (r *Result) Words() []string {
	words := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		words = append(words, m.Word)
	}
	return words
}

// CountByCategory returns the number of matches per category.
func (r *Result) CountByCategory() map[string]int {
	counts := make(map[string]int, len(r.FailedCategories))
	for _, m := range r.Matches {
		counts[m.Category]++
	}
	return counts
}

// MatchesIn returns the matches found in the given field, in scan order.
func (r *Result) MatchesIn(field Field) []Match {
	out := make([]Match, 0)
	for _, m := range r.Matches {
		if m.Field == field {
			out = append(out, m)
		}
	}
	return out
}

// Skipped reports whether the check was not performed.
func (r *Result) Skipped() bool {
	return !r.Performed
}
