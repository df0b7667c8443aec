package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	rendertemplate "github.com/goliatone/go-formrender/pkg/render/template"
	gotemplate "github.com/goliatone/go-formrender/pkg/render/template/gotemplate"
)

const (
	layoutTemplate   = "form"
	groupTemplate    = "group"
	buttonsTemplate  = "buttons"
	defaultControl   = "controls/default"
	controlsTemplate = "controls/"
)

// Renderer renders forms as a single page using the layout template and one
// partial per control kind. Render calls are serialized.
type Renderer struct {
	mu             sync.Mutex
	templates      rendertemplate.TemplateRenderer
	pipeline       *pipeline.Pipeline
	sanitizer      render.Sanitizer
	errorsAtInputs bool
	onMissing      render.MissingTranslationHandler
	theme          *render.ThemeConfig
	logger         *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the bootstrap renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:     TemplatesFS(),
		errorsAtInputs: true,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = render.DefaultSanitizer()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
				OnMissing: cfg.onMissing,
			})),
			traceOption(cfg.traceTemplates),
		)
		if err != nil {
			return nil, fmt.Errorf("bootstrap renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	var themeCfg *render.ThemeConfig
	if cfg.themeSelector != nil {
		resolved, err := render.ResolveTheme(cfg.themeSelector, cfg.themeName, cfg.themeVariant, nil)
		if err != nil {
			return nil, fmt.Errorf("bootstrap renderer: resolve theme: %w", err)
		}
		themeCfg = resolved
	}

	return &Renderer{
		templates:      renderer,
		pipeline:       pipeline.New(cfg.pipeline...),
		sanitizer:      cfg.sanitizer,
		errorsAtInputs: cfg.errorsAtInputs,
		onMissing:      cfg.onMissing,
		theme:          themeCfg,
		logger:         cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "bootstrap"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render applies options.Values and options.Errors to f, runs the pipeline,
// and returns the assembled page. Nothing is returned on error.
func (r *Renderer) Render(ctx context.Context, f *form.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("bootstrap renderer: template renderer is nil")
	}
	if f == nil {
		return nil, errors.New("bootstrap renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	render.ApplyValues(f, options.Values)
	if len(options.Errors) > 0 {
		render.ApplyErrorPayload(f, options.Errors)
	}
	if options.Theme == nil {
		options.Theme = r.theme
	}
	if options.OnMissing == nil {
		options.OnMissing = r.onMissing
	}

	run := pipeline.RunOptions{Locale: options.Locale, OnMissing: options.OnMissing}
	if options.PriorGroups != nil {
		run.PriorGroups = pipeline.Names(options.PriorGroups...)
	}

	p := &page{
		renderer: r,
		options:  options,
		view:     render.NewViewContext(f, options, r.sanitizer, r.errorsAtInputs),
		theme:    options.Theme,
	}
	if _, err := r.pipeline.Run(f, p, run); err != nil {
		return nil, fmt.Errorf("bootstrap renderer: %w", err)
	}
	return []byte(p.out), nil
}

func traceOption(enabled bool) gotemplate.Option {
	if !enabled {
		return nil
	}
	return gotemplate.WithPostHook(gotemplate.TraceComments())
}
