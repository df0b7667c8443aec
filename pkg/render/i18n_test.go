package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestTranslateText_PlainMarkupAndMissing(t *testing.T) {
	tr := stubTranslator{"Name": "Jméno", "<b>Name</b>": "never"}

	if got := render.TranslateText(tr, "cs", form.Plain("Name"), nil); got.String() != "Jméno" || got.IsMarkup() {
		t.Fatalf("expected plain translation, got %#v", got)
	}
	if got := render.TranslateText(tr, "cs", form.Markup("<b>Name</b>"), nil); got.String() != "<b>Name</b>" {
		t.Fatalf("markup must not be translated, got %q", got.String())
	}
	if got := render.TranslateText(tr, "cs", form.Plain("Surname"), nil); got.String() != "Surname" {
		t.Fatalf("missing translation should fall back to source, got %q", got.String())
	}
	if got := render.TranslateText(nil, "cs", form.Plain("Surname"), nil); got.String() != "Surname" {
		t.Fatalf("nil translator should pass through, got %q", got.String())
	}

	var missing []string
	onMissing := func(locale, key string, _ []any, err error) string {
		missing = append(missing, locale+":"+key)
		return "?" + key
	}
	if got := render.TranslateText(tr, "cs", form.Plain("Surname"), onMissing); got.String() != "?Surname" {
		t.Fatalf("expected handler output, got %q", got.String())
	}
	if diff := cmp.Diff([]string{"cs:Surname"}, missing); diff != "" {
		t.Fatalf("missing calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"hello": "ahoj"}, render.TemplateI18nConfig{})

	translateFn, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected type %T", funcs["translate"])
	}
	if got := translateFn("cs", "hello"); got != "ahoj" {
		t.Fatalf("translate: got %q", got)
	}
	if got := translateFn(map[string]any{"locale": "cs"}, "bye"); got != "bye" {
		t.Fatalf("missing key should echo the key, got %q", got)
	}

	localeFn := funcs["current_locale"].(func(any) string)
	f := form.New("x")
	f.Locale = "de"
	if got := localeFn(f); got != "de" {
		t.Fatalf("current_locale from form: got %q", got)
	}
}

func TestFormLocale(t *testing.T) {
	f := form.New("x")
	f.Locale = "cs"
	if got := render.FormLocale(f, render.RenderOptions{}); got != "cs" {
		t.Fatalf("want form locale, got %q", got)
	}
	if got := render.FormLocale(f, render.RenderOptions{Locale: "en"}); got != "en" {
		t.Fatalf("want override locale, got %q", got)
	}
}
