package builder

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var richText = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target").OnElements("a")
	p.AllowElements("span", "mark", "small", "sub", "sup")
	return p
}()

var plainText = bluemonday.StrictPolicy()

// SanitizeHTML strips scripts, event handlers and unsafe URLs from markup
// placed into a text widget, keeping basic formatting.
func SanitizeHTML(markup string) string {
	return strings.TrimSpace(richText.Sanitize(markup))
}

// PlainText removes every tag and decodes entities.
func PlainText(markup string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(markup)))
}

// RichContent returns the content of a text-like node: its sanitized
// inner markup when present, its escaped text otherwise.
func RichContent(innerHTML, text string) string {
	if strings.TrimSpace(innerHTML) != "" {
		if s := SanitizeHTML(innerHTML); s != "" {
			return s
		}
	}
	return html.EscapeString(text)
}
