package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formrender/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_EscapesUnlessSafe(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("control", map[string]any{
		"field": map[string]any{
			"required": true,
			"label":    "E<mail>",
			"html":     `<input name="email">`,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "control.golden"), result)
}

func TestGoTemplateEngine_Exists(t *testing.T) {
	engine := newEngine(t)
	if !engine.Exists("hello") || !engine.Exists("/hello.tpl") {
		t.Fatalf("expected hello template to exist")
	}
	if engine.Exists("missing") {
		t.Fatalf("expected missing template to be reported")
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_ClassNamesFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("classes", map[string]any{"status": "error", "extra": ""})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "classes.golden"), result)
}

func TestClassNames(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"  a  ":                    "a",
		"control-label required a": "control-label required a",
		"a b a  c b":               "a b c",
	}
	for input, want := range cases {
		if got := gotemplate.ClassNames(input); got != want {
			t.Errorf("ClassNames(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGoTemplateEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	type field struct {
		Required bool   `json:"required"`
		Label    string `json:"label"`
		HTML     string `json:"html"`
	}

	result, err := engine.RenderTemplate("control", map[string]any{
		"field": field{Required: true, Label: "E<mail>", HTML: `<input name="email">`},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "control.golden"), result)
}

func TestGoTemplateEngine_TemplateFuncsBecomeGlobals(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{
			"greet": func(name string) string { return "Hi " + name },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Render(`{{ greet(name) }}`, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hi Ada" {
		t.Fatalf("result = %q, want %q", result, "Hi Ada")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without base dir or fs")
	}
}

func TestGoTemplateEngine_Hooks(t *testing.T) {
	var order []string
	engine := newEngine(t,
		gotemplate.WithPreHook(func(ctx *gotemplatepkg.HookContext) error {
			order = append(order, "pre:"+ctx.TemplateName)
			if ctx.TemplateName == "greeting" {
				ctx.TemplateName = "hello"
			}
			ctx.Data = map[string]any{"name": "Grace"}
			return nil
		}),
		gotemplate.WithPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
			order = append(order, "post:"+ctx.TemplateName)
			return strings.ToUpper(ctx.Output), nil
		}, 1),
		gotemplate.WithPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
			return strings.TrimSpace(ctx.Output), nil
		}),
	)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("greeting", map[string]any{"name": "Ada"}, w)
	})
	if result != "HELLO GRACE!" || written != result {
		t.Fatalf("hooked output: result %q, written %q", result, written)
	}
	if got := strings.Join(order, ","); got != "pre:greeting,post:hello" {
		t.Fatalf("hook order: %s", got)
	}
}

func TestGoTemplateEngine_HookErrorsAbort(t *testing.T) {
	engine := newEngine(t, gotemplate.WithPreHook(func(*gotemplatepkg.HookContext) error {
		return fmt.Errorf("denied")
	}))
	if _, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}); err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected pre-hook error, got %v", err)
	}
}

func TestTraceComments(t *testing.T) {
	engine := newEngine(t, gotemplate.WithPostHook(gotemplate.TraceComments()))
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "<!-- hello -->Hello Ada!\n<!-- /hello -->"; result != want {
		t.Fatalf("traced output\nwant: %q\n got: %q", want, result)
	}
}
