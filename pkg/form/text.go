package form

import "strings"

// Text is a piece of user facing copy. Plain text is translated and escaped
// by renderers; markup is treated as pre-rendered HTML and only sanitized.
type Text struct {
	value  string
	markup bool
}

// Plain wraps a plain-text message.
func Plain(value string) Text {
	return Text{value: value}
}

// Markup wraps pre-rendered HTML.
func Markup(value string) Text {
	return Text{value: value, markup: true}
}

// String returns the raw value.
func (t Text) String() string {
	return t.value
}

// IsMarkup reports whether the value is pre-rendered HTML.
func (t Text) IsMarkup() bool {
	return t.markup
}

// IsZero reports whether the text carries no visible content.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.value) == ""
}

// WithValue keeps the markup flag while replacing the value.
func (t Text) WithValue(value string) Text {
	t.value = value
	return t
}

// Texts converts plain strings into Text values.
func Texts(values ...string) []Text {
	if len(values) == 0 {
		return nil
	}
	out := make([]Text, 0, len(values))
	for _, value := range values {
		out = append(out, Plain(value))
	}
	return out
}

// Strings flattens a slice of Text into their raw values.
func Strings(texts []Text) []string {
	if len(texts) == 0 {
		return nil
	}
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		out = append(out, text.value)
	}
	return out
}
