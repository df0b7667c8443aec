// Package formrender renders form object graphs as markup or interactive
// prompts. The root package wires the bundled renderers into a registry; the
// pipeline and renderers live under pkg/.
package formrender

import (
	"context"
	"fmt"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	"github.com/goliatone/go-formrender/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formrender/pkg/renderers/prompt"
	"github.com/goliatone/go-formrender/pkg/renderers/templated"
)

// Renderer names registered by NewRegistry.
const (
	RendererBootstrap = "bootstrap"
	RendererTemplated = "templated"
	RendererPrompt    = "prompt"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Option configures the renderers built by NewRegistry.
type Option func(*options)

type options struct {
	priorGroups         []string
	fieldErrorsGlobally bool
	errorsAtInputs      bool
	templatesDirs       map[string]string
	translator          form.Translator
	themeSelector       theme.ThemeSelector
	themeName           string
	themeVariant        string
	logger              *slog.Logger
	promptDriver        prompt.PromptDriver
	promptFormat        prompt.OutputFormat
	skipPrompt          bool
	traceTemplates      bool
}

// WithPriorGroups renders the named groups first.
func WithPriorGroups(names ...string) Option {
	return func(o *options) {
		o.priorGroups = append(o.priorGroups, names...)
	}
}

// WithFieldErrorsGlobally also lists control errors in the form error block.
func WithFieldErrorsGlobally(enabled bool) Option {
	return func(o *options) {
		o.fieldErrorsGlobally = enabled
	}
}

// WithErrorsAtInputs toggles inline control errors in the HTML renderers.
func WithErrorsAtInputs(enabled bool) Option {
	return func(o *options) {
		o.errorsAtInputs = enabled
	}
}

// WithTemplatesDir loads the templates of the named HTML renderer from dir.
func WithTemplatesDir(renderer, dir string) Option {
	return func(o *options) {
		if dir == "" {
			return
		}
		if o.templatesDirs == nil {
			o.templatesDirs = make(map[string]string)
		}
		o.templatesDirs[renderer] = dir
	}
}

// WithTranslator registers the template translation helpers.
func WithTranslator(t form.Translator) Option {
	return func(o *options) {
		o.translator = t
	}
}

func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *options) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPromptDriver replaces the survey driver of the prompt renderer.
func WithPromptDriver(driver prompt.PromptDriver) Option {
	return func(o *options) {
		o.promptDriver = driver
	}
}

func WithPromptOutputFormat(format prompt.OutputFormat) Option {
	return func(o *options) {
		o.promptFormat = format
	}
}

// WithTemplateTrace marks each template's output in the HTML renderers with
// comments naming the template.
func WithTemplateTrace(enabled bool) Option {
	return func(o *options) {
		o.traceTemplates = enabled
	}
}

// WithoutPrompt leaves the prompt renderer out of the registry, for
// processes without a terminal such as the preview server.
func WithoutPrompt() Option {
	return func(o *options) {
		o.skipPrompt = true
	}
}

// NewRegistry builds the bootstrap, templated, and prompt renderers and
// registers them. Bootstrap is the default.
func NewRegistry(opts ...Option) (*render.Registry, error) {
	o := options{errorsAtInputs: true, promptFormat: prompt.OutputFormatJSON}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	registry := render.NewRegistry()

	boot, err := bootstrap.New(o.bootstrapOptions()...)
	if err != nil {
		return nil, fmt.Errorf("formrender: %w", err)
	}
	tmpl, err := templated.New(o.templatedOptions()...)
	if err != nil {
		return nil, fmt.Errorf("formrender: %w", err)
	}
	renderers := []render.Renderer{boot, tmpl}

	if !o.skipPrompt {
		pr, err := prompt.New(o.promptOptions()...)
		if err != nil {
			return nil, fmt.Errorf("formrender: %w", err)
		}
		renderers = append(renderers, pr)
	}

	for _, r := range renderers {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("formrender: %w", err)
		}
	}
	return registry, nil
}

// DefaultRegistry returns a registry with every bundled renderer using
// default settings.
func DefaultRegistry() (*render.Registry, error) {
	return NewRegistry()
}

// RenderHTML renders f with the named HTML renderer. An empty name selects
// bootstrap.
func RenderHTML(ctx context.Context, f *form.Form, rendererName string, renderOpts RenderOptions, opts ...Option) ([]byte, error) {
	if rendererName == RendererPrompt {
		return nil, fmt.Errorf("formrender: %q does not produce HTML", rendererName)
	}
	registry, err := NewRegistry(append(opts, WithoutPrompt())...)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, fmt.Errorf("formrender: %w", err)
	}
	return renderer.Render(ctx, f, renderOpts)
}

// Plan reports the units a pass over f would emit, without rendering.
func Plan(f *form.Form, priorGroups ...string) ([]pipeline.Step, error) {
	var opts []pipeline.Option
	if len(priorGroups) > 0 {
		opts = append(opts, pipeline.WithPriorGroups(pipeline.Names(priorGroups...)...))
	}
	return pipeline.New(opts...).Plan(f, pipeline.RunOptions{})
}

func (o options) pipelineRefs() []pipeline.GroupRef {
	if len(o.priorGroups) == 0 {
		return nil
	}
	return pipeline.Names(o.priorGroups...)
}

func (o options) bootstrapOptions() []bootstrap.Option {
	out := []bootstrap.Option{
		bootstrap.WithFieldErrorsGlobally(o.fieldErrorsGlobally),
		bootstrap.WithErrorsAtInputs(o.errorsAtInputs),
		bootstrap.WithTemplatesDir(o.templatesDirs[RendererBootstrap]),
		bootstrap.WithTranslator(o.translator),
		bootstrap.WithLogger(o.logger),
		bootstrap.WithTemplateTrace(o.traceTemplates),
	}
	if refs := o.pipelineRefs(); refs != nil {
		out = append(out, bootstrap.WithPriorGroups(refs...))
	}
	if o.themeSelector != nil {
		out = append(out, bootstrap.WithThemeSelector(o.themeSelector, o.themeName, o.themeVariant))
	}
	return out
}

func (o options) templatedOptions() []templated.Option {
	out := []templated.Option{
		templated.WithFieldErrorsGlobally(o.fieldErrorsGlobally),
		templated.WithErrorsAtInputs(o.errorsAtInputs),
		templated.WithTemplatesDir(o.templatesDirs[RendererTemplated]),
		templated.WithTranslator(o.translator),
		templated.WithLogger(o.logger),
		templated.WithTemplateTrace(o.traceTemplates),
	}
	if refs := o.pipelineRefs(); refs != nil {
		out = append(out, templated.WithPriorGroups(refs...))
	}
	if o.themeSelector != nil {
		out = append(out, templated.WithThemeSelector(o.themeSelector, o.themeName, o.themeVariant))
	}
	return out
}

func (o options) promptOptions() []prompt.Option {
	out := []prompt.Option{
		prompt.WithOutputFormat(o.promptFormat),
		prompt.WithFieldErrorsGlobally(o.fieldErrorsGlobally),
		prompt.WithLogger(o.logger),
	}
	if o.promptDriver != nil {
		out = append(out, prompt.WithPromptDriver(o.promptDriver))
	}
	if refs := o.pipelineRefs(); refs != nil {
		out = append(out, prompt.WithPriorGroups(refs...))
	}
	return out
}
