package compliance

import (
	"fmt"

	"github.com/nao1215/lexscan/internal/model"
)

// Fixed texts of the compliance envelope.
const (
	Suggestion                 = "请修改或删除上述敏感词后重试"
	OriginalitySkippedReason   = "lexscan 不提供原创度检测"
	OriginalitySummary         = "原创度检测未执行"
	originalityNotRun          = "未执行"
	summaryNotPerformed        = "敏感词检测未执行"
	summaryFailedPrefix        = "敏感词检测未通过："
	summaryPassedFormat        = "敏感词检测已执行（%s），通过"
	userFacingFailedSuffix     = "。请修改或删除上述敏感词后重试。"
	userFacingSentenceBoundary = "。"
)

// Envelope is the response of the check-compliance API: the sensitive word
// verdict plus human readable summaries for callers that only display text.
type Envelope struct {
	OK                bool          `json:"ok"`
	Passed            bool          `json:"passed"`
	Message           string        `json:"message"`
	Checks            Checks        `json:"checks"`
	ChecksSummary     ChecksSummary `json:"checks_summary"`
	UserFacingSummary string        `json:"user_facing_summary"`
}

// Checks holds the per-check details of an Envelope.
type Checks struct {
	Sensitive   SensitiveCheck   `json:"sensitive"`
	Originality OriginalityCheck `json:"originality"`
}

// SensitiveCheck reports the sensitive word check.
// Matched, FailedCategories and Suggestion are only set when it failed.
type SensitiveCheck struct {
	Performed        bool          `json:"performed"`
	Sources          model.Source  `json:"sources"`
	SkippedReason    string        `json:"skipped_reason"`
	Matched          []MatchedWord `json:"matched,omitempty"`
	FailedCategories []string      `json:"failed_categories,omitempty"`
	Suggestion       string        `json:"suggestion,omitempty"`
}

// MatchedWord is one hit as shown to API callers.
type MatchedWord struct {
	Category     string      `json:"category"`
	CategoryName string      `json:"category_name"`
	Word         string      `json:"word"`
	In           model.Field `json:"in"`
	Start        int         `json:"start"`
	End          int         `json:"end"`
}

// OriginalityCheck is always reported as not performed.
type OriginalityCheck struct {
	Performed     bool   `json:"performed"`
	SkippedReason string `json:"skipped_reason"`
}

// ChecksSummary is a one-line summary per check.
type ChecksSummary struct {
	Sensitive   string `json:"sensitive"`
	Originality string `json:"originality"`
}

// Evaluate wraps result into an Envelope. names maps category IDs to
// display names.
func Evaluate(result model.Result, names map[string]string) Envelope {
	env := Envelope{
		OK:      true,
		Passed:  result.Passed,
		Message: result.Message,
		Checks: Checks{
			Sensitive: SensitiveCheck{
				Performed:     result.Performed,
				Sources:       result.Sources,
				SkippedReason: result.SkippedReason,
			},
			Originality: OriginalityCheck{
				Performed:     false,
				SkippedReason: OriginalitySkippedReason,
			},
		},
		ChecksSummary: ChecksSummary{Originality: OriginalitySummary},
	}

	if !result.Passed {
		matched := make([]MatchedWord, 0, len(result.Matches))
		for _, m := range result.Matches {
			name := names[m.Category]
			if name == "" {
				name = m.Category
			}
			matched = append(matched, MatchedWord{
				Category:     m.Category,
				CategoryName: name,
				Word:         m.Word,
				In:           m.Field,
				Start:        m.Start,
				End:          m.End,
			})
		}
		env.Checks.Sensitive.Matched = matched
		env.Checks.Sensitive.FailedCategories = result.FailedCategories
		env.Checks.Sensitive.Suggestion = Suggestion
		env.ChecksSummary.Sensitive = summaryFailedPrefix + result.Message
		env.ChecksSummary.Originality = originalityNotRun
		env.UserFacingSummary = summaryFailedPrefix + result.Message + userFacingFailedSuffix
		return env
	}

	sensitive := summaryNotPerformed
	if result.Performed {
		sensitive = fmt.Sprintf(summaryPassedFormat, result.Sources)
	}
	env.ChecksSummary.Sensitive = sensitive
	env.UserFacingSummary = sensitive + userFacingSentenceBoundary + OriginalitySummary
	return env
}

// CheckCompliance runs Check and wraps the result with Evaluate.
func (c *Checker) CheckCompliance(title, content string) Envelope {
	return Evaluate(c.Check(title, content), c.names)
}
