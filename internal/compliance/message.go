package compliance

import (
	"strings"

	"github.com/nao1215/lexscan/internal/model"
)

const (
	// MaxExamples is the number of matched words quoted in a failure message.
	MaxExamples = 5

	// ellipsis is appended to the examples when more matches exist.
	ellipsis = "..."

	messagePrefix   = "内容含敏感词，涉及："
	examplesPrefix  = "，示例："
	messageListJoin = ", "
)

// Message builds the one-line failure summary, for example:
//
//	内容含敏感词，涉及：广告垃圾, 谩骂灌水，示例：垃圾, 笨蛋
//
// Categories are shown by display name (the ID when names has no entry).
// The examples are the words of the first MaxExamples matches in scan
// order; "..." follows when there are more matches.
func Message(failedCategories []string, matches []model.Match, names map[string]string) string {
	display := make([]string, 0, len(failedCategories))
	for _, id := range failedCategories {
		if name, ok := names[id]; ok && name != "" {
			display = append(display, name)
			continue
		}
		display = append(display, id)
	}

	n := min(len(matches), MaxExamples)
	examples := make([]string, 0, n+1)
	for _, m := range matches[:n] {
		examples = append(examples, m.Word)
	}
	if len(matches) > MaxExamples {
		examples = append(examples, ellipsis)
	}

	var b strings.Builder
	b.WriteString(messagePrefix)
	b.WriteString(strings.Join(display, messageListJoin))
	b.WriteString(examplesPrefix)
	b.WriteString(strings.Join(examples, messageListJoin))
	return b.String()
}
