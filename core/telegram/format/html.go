package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes the characters Telegram treats specially in HTML parse mode.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
