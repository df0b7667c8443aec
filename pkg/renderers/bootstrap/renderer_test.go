package bootstrap_test

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	"github.com/goliatone/go-formrender/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

func renderSignup(t *testing.T, f *form.Form, opts render.RenderOptions, options ...bootstrap.Option) *html.Node {
	t.Helper()
	r, err := bootstrap.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(testsupport.Context(), f, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return testsupport.ParseHTML(t, string(out))
}

func legends(doc *html.Node) []string {
	var out []string
	for _, n := range testsupport.FindAll(doc, testsupport.ByTag("legend")) {
		out = append(out, testsupport.Text(n))
	}
	return out
}

// labelsWithClass skips the inputs, which carry the same presentation class.
func labelsWithClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Data == "label" && testsupport.HasClass(n, class)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r, err := bootstrap.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.Name() != "bootstrap" {
		t.Fatalf("name: %q", r.Name())
	}
	if r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type: %q", r.ContentType())
	}
}

func TestRenderer_EmitsGroupsThenRemainingControlsThenButtons(t *testing.T) {
	doc := renderSignup(t, testsupport.SignupForm(t), render.RenderOptions{})

	forms := testsupport.FindAll(doc, testsupport.ByTag("form"))
	if len(forms) != 1 {
		t.Fatalf("expected one form, got %d", len(forms))
	}
	formEl := forms[0]
	if got := testsupport.Attr(formEl, "id"); got != "frm-signup" {
		t.Fatalf("form id: %q", got)
	}
	if got := testsupport.Attr(formEl, "method"); got != "post" {
		t.Fatalf("form method: %q", got)
	}
	if !testsupport.HasClass(formEl, pipeline.DefaultFormClass) {
		t.Fatalf("form class missing: %q", testsupport.Attr(formEl, "class"))
	}

	if diff := cmp.Diff([]string{"Account", "Profile"}, legends(doc)); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}

	wantNames := []string{"email", "password", "name", "gender", "gender", "newsletter", "note", "token", "save", "reset"}
	if diff := cmp.Diff(wantNames, testsupport.Names(doc)); diff != "" {
		t.Fatalf("control order mismatch (-want +got):\n%s", diff)
	}

	actions := testsupport.FindAll(doc, testsupport.ByClass("form-actions"))
	if len(actions) != 1 {
		t.Fatalf("expected one button stack, got %d", len(actions))
	}
	if diff := cmp.Diff([]string{"save", "reset"}, testsupport.Names(actions[0])); diff != "" {
		t.Fatalf("button batch mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_PriorGroupsFromOptions(t *testing.T) {
	doc := renderSignup(t, testsupport.SignupForm(t), render.RenderOptions{PriorGroups: []string{"profile"}})
	if diff := cmp.Diff([]string{"Profile", "Account"}, legends(doc)); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}

	doc = renderSignup(t, testsupport.SignupForm(t), render.RenderOptions{},
		bootstrap.WithPriorGroups(pipeline.ByName("profile")))
	if diff := cmp.Diff([]string{"Profile", "Account"}, legends(doc)); diff != "" {
		t.Fatalf("configured group order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_MissingPriorGroupReturnsConfigError(t *testing.T) {
	r, err := bootstrap.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(testsupport.Context(), testsupport.SignupForm(t), render.RenderOptions{PriorGroups: []string{"missing"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	var cfgErr *pipeline.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Group != "missing" {
		t.Fatalf("expected config error for missing, got %v", err)
	}
	if !errors.Is(err, pipeline.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestRenderer_ControlChrome(t *testing.T) {
	f := testsupport.SignupForm(t)
	email, _ := f.Control("email")
	email.Options.Help = form.Plain("We never share it")
	email.Options.Description = form.Markup("<em>Work</em> address")

	doc := renderSignup(t, f, render.RenderOptions{Errors: map[string][]string{
		"email": {"Invalid address"},
		"form":  {"Try again"},
	}})

	labels := testsupport.FindAll(doc, func(n *html.Node) bool {
		return n.Data == "label" && testsupport.Attr(n, "for") == "frm-signup-email"
	})
	if len(labels) != 1 {
		t.Fatalf("expected one email label, got %d", len(labels))
	}
	for _, class := range []string{"control-label", pipeline.RequiredClass} {
		if !testsupport.HasClass(labels[0], class) {
			t.Fatalf("label missing class %q: %q", class, testsupport.Attr(labels[0], "class"))
		}
	}

	groups := testsupport.FindAll(doc, testsupport.ByClass("control-group"))
	emailGroup := groups[0]
	if !testsupport.HasClass(emailGroup, "error") {
		t.Fatalf("expected error status on email group: %q", testsupport.Attr(emailGroup, "class"))
	}
	if got := testsupport.Text(testsupport.FindAll(emailGroup, testsupport.ByClass("help-inline"))[0]); got != "Invalid address" {
		t.Fatalf("inline error: %q", got)
	}
	prepend := testsupport.FindAll(emailGroup, testsupport.ByClass("input-prepend"))
	if len(prepend) != 1 || testsupport.Text(prepend[0]) != "@" {
		t.Fatalf("expected @ add-on")
	}
	blocks := testsupport.FindAll(emailGroup, testsupport.ByClass("help-block"))
	if len(blocks) != 2 || testsupport.Text(blocks[0]) != "We never share it" {
		t.Fatalf("help blocks: %d", len(blocks))
	}
	if len(testsupport.FindAll(blocks[1], testsupport.ByTag("em"))) != 1 {
		t.Fatalf("expected markup description to keep <em>")
	}

	alerts := testsupport.FindAll(doc, testsupport.ByClass("alert-error"))
	if len(alerts) != 1 || testsupport.Text(alerts[0]) != "Try again" {
		t.Fatalf("form errors should list only form-level messages")
	}
}

func TestRenderer_ErrorsAtInputsDisabled(t *testing.T) {
	doc := renderSignup(t, testsupport.SignupForm(t),
		render.RenderOptions{Errors: map[string][]string{"email": {"Invalid address"}}},
		bootstrap.WithErrorsAtInputs(false),
		bootstrap.WithFieldErrorsGlobally(true),
	)
	if n := len(testsupport.FindAll(doc, testsupport.ByClass("help-inline"))); n != 0 {
		t.Fatalf("expected no inline errors, got %d", n)
	}
	alerts := testsupport.FindAll(doc, testsupport.ByClass("alert-error"))
	if len(alerts) != 1 || testsupport.Text(alerts[0]) != "Invalid address" {
		t.Fatalf("expected control error in the form error list")
	}
}

func TestRenderer_RadioAndCheckboxLabels(t *testing.T) {
	f := testsupport.SignupForm(t)
	doc := renderSignup(t, f, render.RenderOptions{Values: map[string]any{"gender": "m", "newsletter": true}})

	radios := testsupport.FindAll(doc, labelsWithClass("radio"))
	var captions []string
	for _, n := range radios {
		captions = append(captions, testsupport.Text(n))
	}
	if diff := cmp.Diff([]string{"Female", "Male"}, captions); diff != "" {
		t.Fatalf("radio captions mismatch (-want +got):\n%s", diff)
	}
	checked := testsupport.FindAll(doc, func(n *html.Node) bool {
		return n.Data == "input" && testsupport.Attr(n, "checked") != ""
	})
	var ids []string
	for _, n := range checked {
		ids = append(ids, testsupport.Attr(n, "id"))
	}
	if diff := cmp.Diff([]string{"frm-signup-gender-1", "frm-signup-newsletter"}, ids); diff != "" {
		t.Fatalf("checked inputs mismatch (-want +got):\n%s", diff)
	}

	boxes := testsupport.FindAll(doc, labelsWithClass("checkbox"))
	if len(boxes) == 0 || !strings.Contains(testsupport.Text(boxes[len(boxes)-1]), "Send me news") {
		t.Fatalf("expected checkbox caption")
	}
}

func TestRenderer_MethodOverrideAndHiddenFields(t *testing.T) {
	doc := renderSignup(t, testsupport.SignupForm(t), render.RenderOptions{
		Method:       "PATCH",
		HiddenFields: []render.HiddenField{render.CSRFToken("_csrf", "abc")},
	})
	formEl := testsupport.FindAll(doc, testsupport.ByTag("form"))[0]
	if got := testsupport.Attr(formEl, "method"); got != "post" {
		t.Fatalf("method: %q", got)
	}
	names := testsupport.Names(formEl)
	if diff := cmp.Diff([]string{"_method", "_csrf"}, names[:2]); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_ThemePartialsAndOverrides(t *testing.T) {
	files := fstest.MapFS{
		"themes/acme/text-input.tpl": {Data: []byte(`<div class="acme-input">{{ control.control|safe }}</div>`)},
	}
	if err := fs.WalkDir(bootstrap.TemplatesFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(bootstrap.TemplatesFS(), path)
		if err != nil {
			return err
		}
		files[path] = &fstest.MapFile{Data: data}
		return nil
	}); err != nil {
		t.Fatalf("copy templates: %v", err)
	}

	manifest, err := render.ParseThemeManifest([]byte(`
name: acme
tokens:
  brand: "#123456"
templates:
  forms.text-input: themes/acme/text-input
`))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	selector := render.NewManifestSelector("acme", "")
	if err := selector.Register(manifest); err != nil {
		t.Fatalf("register: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	f := testsupport.SignupForm(t)
	note, _ := f.Control("note")
	note.Options.Template = "fancy"

	r, err := bootstrap.New(
		bootstrap.WithTemplatesFS(files),
		bootstrap.WithThemeSelector(selector, "acme", ""),
		bootstrap.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(testsupport.Context(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.ParseHTML(t, string(out))

	if n := len(testsupport.FindAll(doc, testsupport.ByClass("acme-input"))); n != 3 {
		t.Fatalf("expected theme partial for 3 text inputs, got %d", n)
	}
	if !strings.Contains(string(out), "--brand: #123456;") {
		t.Fatalf("expected theme tokens in output")
	}
	if !strings.Contains(logs.String(), "template override not found") {
		t.Fatalf("expected override warning, logs: %s", logs.String())
	}
	if len(testsupport.FindAll(doc, testsupport.ByTag("textarea"))) != 1 {
		t.Fatalf("expected textarea rendered with the default partial")
	}
}

func TestRenderer_TranslatesThroughFormTranslator(t *testing.T) {
	f := testsupport.SignupForm(t)
	f.Locale = "cs"
	f.Translator = testsupport.MapTranslator{
		"cs:Account": "Účet",
		"cs:Save":    "Uložit",
	}
	doc := renderSignup(t, f, render.RenderOptions{})
	if got := legends(doc)[0]; got != "Účet" {
		t.Fatalf("legend: %q", got)
	}
	save := testsupport.FindAll(doc, func(n *html.Node) bool { return testsupport.Attr(n, "name") == "save" })[0]
	if got := testsupport.Attr(save, "value"); got != "Uložit" {
		t.Fatalf("button caption: %q", got)
	}
}

func TestRenderer_LayoutClassOnFirstRender(t *testing.T) {
	r, err := bootstrap.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	f := testsupport.SignupForm(t)

	for i := range 2 {
		out, err := r.Render(testsupport.Context(), f, render.RenderOptions{})
		if err != nil {
			t.Fatalf("render %d: %v", i+1, err)
		}
		forms := testsupport.FindAll(testsupport.ParseHTML(t, string(out)), testsupport.ByTag("form"))
		if len(forms) != 1 || !testsupport.HasClass(forms[0], pipeline.DefaultFormClass) {
			t.Fatalf("render %d: form class missing in %s", i+1, out)
		}
	}
}
