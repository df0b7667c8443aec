package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formrender/pkg/form"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a helper
// asks for a translation but no translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// MissingTranslationHandler decides what to display when a key cannot be
// translated. args carries a map with the "default" fallback as first entry.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// TranslateText translates plain text through t. Markup and empty values
// are returned untouched, and a nil translator passes the text through.
func TranslateText(t form.Translator, locale string, text form.Text, onMissing MissingTranslationHandler) form.Text {
	if t == nil || text.IsMarkup() || text.IsZero() {
		return text
	}
	return text.WithValue(translate(locale, text.String(), text.String(), t, onMissing))
}

// TranslateTexts applies TranslateText to every message in order.
func TranslateTexts(t form.Translator, locale string, texts []form.Text, onMissing MissingTranslationHandler) []form.Text {
	if len(texts) == 0 {
		return nil
	}
	out := make([]form.Text, 0, len(texts))
	for _, text := range texts {
		out = append(out, TranslateText(t, locale, text, onMissing))
	}
	return out
}

// FormLocale resolves the locale for a render call: explicit options win
// over the form's own locale.
func FormLocale(f *form.Form, opts RenderOptions) string {
	if locale := strings.TrimSpace(opts.Locale); locale != "" {
		return locale
	}
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f.Locale)
}

func translate(locale, key, fallback string, t form.Translator, onMissing MissingTranslationHandler, params ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	args := append([]any{map[string]any{"default": fallback}}, params...)
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, params...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}
