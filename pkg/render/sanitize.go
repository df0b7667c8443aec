package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrender/pkg/form"
)

// Sanitizer cleans pre-rendered markup before it reaches the output.
type Sanitizer interface {
	Sanitize(markup string) string
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy

	strictPolicy = bluemonday.StrictPolicy()
)

// DefaultSanitizer returns the shared policy used for labels, descriptions,
// and errors supplied as markup. It keeps inline formatting and links and
// drops scripts, styles, and event handlers.
func DefaultSanitizer() Sanitizer {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowElements("abbr", "kbd", "mark", "small")
		markupPolicy = policy
	})
	return markupPolicy
}

// HTML converts a Text into an HTML fragment: plain text is escaped and
// markup is sanitized. A nil sanitizer selects DefaultSanitizer.
func HTML(text form.Text, sanitizer Sanitizer) string {
	if text.IsZero() {
		return ""
	}
	if !text.IsMarkup() {
		return html.EscapeString(text.String())
	}
	if sanitizer == nil {
		sanitizer = DefaultSanitizer()
	}
	return strings.TrimSpace(sanitizer.Sanitize(text.String()))
}

// HTMLList applies HTML to every entry, dropping the ones that end up empty.
func HTMLList(texts []form.Text, sanitizer Sanitizer) []string {
	if len(texts) == 0 {
		return nil
	}
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		if fragment := HTML(text, sanitizer); fragment != "" {
			out = append(out, fragment)
		}
	}
	return out
}

// PlainText returns the text content of a Text for non-HTML outputs such as
// terminal prompts. Markup loses its tags and entities are decoded.
func PlainText(text form.Text) string {
	if !text.IsMarkup() {
		return text.String()
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(text.String())))
}
