package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrender/pkg/form"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is the map key holding the locale when templates pass a map
	// such as the form view. Default "locale".
	LocaleKey string
	// FuncName renames the translate helper.
	FuncName string
	// OnMissing decides the output for untranslatable keys.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns the helpers every renderer registers on its
// template engine:
//
//	{{ translate(form, "signup.title") }}
//	{{ translate("cs", "greeting", name) }}
//	{{ current_locale(form) }}
//
// The first argument is a locale string or a value carrying one: the form
// view map, a *form.Form, or a map[string]string.
func TemplateI18nFuncs(t form.Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			return translate(localeOf(localeSrc, localeKey), key, key, t, cfg.OnMissing, params...)
		},
		"current_locale": func(localeSrc any) string {
			return localeOf(localeSrc, localeKey)
		},
	}
}

func localeOf(src any, key string) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case *form.Form:
		if v == nil {
			return ""
		}
		return v.Locale
	case map[string]string:
		return v[key]
	case map[string]any:
		if value, ok := v[key]; ok && value != nil {
			return strings.TrimSpace(fmt.Sprint(value))
		}
	}
	return ""
}
