package normalize

import (
	"strings"

	"golang.org/x/net/html"
)

// Content returns markup with all tags, comments and doctypes removed,
// enclosed text retained, whitespace collapsed and the result trimmed.
// Only markup closed by '>' is removed; a dangling "<" and everything after
// it stays in the text.
//
//	Content("<p>x</p><script>evil</script>") == "x evil"
func Content(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(markup))

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// A tag left open at the end of input is reported here with
			// its bytes still in Raw. They are text, not markup.
			b.Write(z.Raw())
			return collapse(b.String())
		case html.TextToken:
			b.Write(z.Raw())
		default:
			raw := z.Raw()
			if !closed(raw) {
				b.Write(raw)
				continue
			}
			b.WriteByte(' ')
		}
	}
}

// closed reports whether a tag, comment or doctype token ends with '>'.
// An unterminated "<!--" or "<a" runs to the end of input and is kept.
func closed(raw []byte) bool {
	return len(raw) > 0 && raw[len(raw)-1] == '>'
}

// Title returns title trimmed of surrounding whitespace.
// Titles are plain text and are otherwise scanned as given.
func Title(title string) string {
	return strings.TrimSpace(title)
}

// collapse replaces every whitespace run with one space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
