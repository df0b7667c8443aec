package catalog_test

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/catalog"
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

func load(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(os.DirFS("testdata"), "en", "messages.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestCatalog_NegotiatesLocale(t *testing.T) {
	c := load(t)
	cases := []struct {
		locale string
		want   string
	}{
		{"cs", "Účet"},
		{"cs-CZ", "Účet"},
		{"en-GB", "Account"},
		{"ja", "Account"},
		{"", "Account"},
	}
	for _, tc := range cases {
		got, err := c.Translate(tc.locale, "Account")
		if err != nil {
			t.Fatalf("%s: %v", tc.locale, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.locale, got, tc.want)
		}
	}
	if diff := cmp.Diff([]string{"cs", "en"}, c.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_FormatsArgs(t *testing.T) {
	got, err := load(t).Translate("cs", "%d errors", 3)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "3 chyb" {
		t.Fatalf("got %q", got)
	}
}

func TestCatalog_MissingKeyFallsBackThroughRender(t *testing.T) {
	c := load(t)
	if _, err := c.Translate("cs", "Unknown"); !errors.Is(err, catalog.ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}
	got := render.TranslateText(c, "cs", form.Plain("Unknown"), nil)
	if got.String() != "Unknown" {
		t.Fatalf("expected source text, got %q", got.String())
	}
}

func TestCatalog_AddAfterLookupRebuildsMatcher(t *testing.T) {
	c := load(t)
	if _, err := c.Translate("de", "Account"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if err := c.Add("de", map[string]string{"Account": "Konto"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := c.Translate("de-AT", "Account")
	if err != nil || got != "Konto" {
		t.Fatalf("got %q, %v", got, err)
	}
}
