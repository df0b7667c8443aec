package formrender_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	formrender "github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

func TestDefaultRegistry_ListsBundledRenderers(t *testing.T) {
	registry, err := formrender.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	want := []string{"bootstrap", "prompt", "templated"}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
	def, err := registry.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.Name() != formrender.RendererBootstrap {
		t.Fatalf("default renderer = %q, want bootstrap", def.Name())
	}
}

func TestNewRegistry_WithoutPrompt(t *testing.T) {
	registry, err := formrender.NewRegistry(formrender.WithoutPrompt())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if registry.Has(formrender.RendererPrompt) {
		t.Fatal("prompt renderer should not be registered")
	}
}

func TestRenderHTML_Bootstrap(t *testing.T) {
	f := testsupport.SignupForm(t)
	out, err := formrender.RenderHTML(context.Background(), f, "", formrender.RenderOptions{},
		formrender.WithPriorGroups("profile"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	profile := strings.Index(html, `name="name"`)
	account := strings.Index(html, `name="email"`)
	if profile < 0 || account < 0 || profile > account {
		t.Fatalf("expected profile group before account group:\n%s", html)
	}
}

func TestRenderHTML_RejectsPrompt(t *testing.T) {
	f := testsupport.SignupForm(t)
	if _, err := formrender.RenderHTML(context.Background(), f, "prompt", formrender.RenderOptions{}); err == nil {
		t.Fatal("expected error for prompt renderer")
	}
}

func TestRenderHTML_UnknownGroup(t *testing.T) {
	f := testsupport.SignupForm(t)
	out, err := formrender.RenderHTML(context.Background(), f, "templated",
		formrender.RenderOptions{PriorGroups: []string{"billing"}})
	if !errors.Is(err, pipeline.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestPlan(t *testing.T) {
	f := testsupport.SignupForm(t)
	steps, err := formrender.Plan(f, "profile")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := make([]string, 0, len(steps))
	for _, step := range steps {
		got = append(got, step.String())
	}
	want := []string{
		"begin",
		"group-begin:profile", "control:name", "control:gender", "control:newsletter", "group-end:profile",
		"group-begin:account", "control:email", "control:password", "group-end:account",
		"control:note", "control:token",
		"buttons:save,reset",
		"end",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefinitions(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte(`
forms:
  contact:
    action: /contact
    controls:
      - name: message
        type: textarea
        label: Message
      - name: send
        type: submit
        label: Send
`)},
	}
	doc, err := formrender.LoadDefinitions(fsys, "forms")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"contact"}, doc.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for name, fsys := range map[string]fs.FS{
		"form.tpl":       formrender.EmbeddedTemplates(),
		"form-begin.tpl": formrender.EmbeddedStepTemplates(),
	} {
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}
