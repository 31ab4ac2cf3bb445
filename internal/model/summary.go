package model

// Summary aggregates the outcome of a batch of documents.
type Summary struct {
	// Total is the number of documents.
	Total int `json:"total"`

	// Passed, Failed, Skipped and Errors count documents per Verdict.
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`

	// Matches is the total number of matches over all documents.
	Matches int `json:"matches"`

	// ByCategory counts matches per category.
	ByCategory map[string]int `json:"by_category"`

	// CategoryOrder lists the keys of ByCategory in first-seen order.
	CategoryOrder []string `json:"-"`
}

// NewSummary builds a Summary from checked documents.
func NewSummary(docs []*Document) *Summary {
	s := &Summary{
		Total:         len(docs),
		ByCategory:    make(map[string]int),
		CategoryOrder: make([]string, 0),
	}
	for _, d := range docs {
		switch d.Verdict() {
		case VerdictPassed:
			s.Passed++
		case VerdictFailed:
			s.Failed++
		case VerdictSkipped:
			s.Skipped++
		case VerdictError:
			s.Errors++
		}
		if d.Result == nil {
			continue
		}
		for _, m := range d.Result.Matches {
			if _, ok := s.ByCategory[m.Category]; !ok {
				s.CategoryOrder = append(s.CategoryOrder, m.Category)
			}
			s.ByCategory[m.Category]++
			s.Matches++
		}
	}
	return s
}

// HasFailures reports whether any document failed or could not be checked.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0 || s.Errors > 0
}
