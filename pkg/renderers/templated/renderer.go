package templated

import (
	"bytes"
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

// Step template ids, one per emission unit.
const (
	StepFormBegin   = "form-begin"
	StepFormErrors  = "form-errors"
	StepGroupBegin  = "group-begin"
	StepButtonStack = "button-stack"
	StepGroupEnd    = "group-end"
	StepFormEnd     = "form-end"

	controlsDir    = "controls/"
	defaultControl = "controls/default"
)

// Renderer writes each pipeline unit through its own step template, in
// emission order.
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

	engine := cfg.templateRenderer
	if engine == nil {
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
				OnMissing: cfg.onMissing,
			})),
			traceOption(cfg.traceTemplates),
		)
		if err != nil {
			return nil, fmt.Errorf("templated renderer: configure template renderer: %w", err)
		}
		engine = built
	}

	var themeCfg *render.ThemeConfig
	if cfg.themeSelector != nil {
		resolved, err := render.ResolveTheme(cfg.themeSelector, cfg.themeName, cfg.themeVariant, nil)
		if err != nil {
			return nil, fmt.Errorf("templated renderer: resolve theme: %w", err)
		}
		themeCfg = resolved
	}

	return &Renderer{
		templates:      engine,
		pipeline:       pipeline.New(cfg.pipeline...),
		sanitizer:      cfg.sanitizer,
		errorsAtInputs: cfg.errorsAtInputs,
		onMissing:      cfg.onMissing,
		theme:          themeCfg,
		logger:         cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "templated"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render runs the pipeline and concatenates the step outputs. A failing step
// discards everything rendered before it.
func (r *Renderer) Render(ctx context.Context, f *form.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("templated renderer: template renderer is nil")
	}
	if f == nil {
		return nil, errors.New("templated renderer: form is nil")
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

	w := &stepWriter{
		renderer: r,
		options:  options,
		view:     render.NewViewContext(f, options, r.sanitizer, r.errorsAtInputs),
		theme:    options.Theme,
	}
	if _, err := r.pipeline.Run(f, w, run); err != nil {
		return nil, fmt.Errorf("templated renderer: %w", err)
	}
	return w.buf.Bytes(), nil
}

type groupData struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// stepWriter renders one step template per unit into buf. The form view is
// built on UnitBegin so it sees the annotated form element.
type stepWriter struct {
	renderer *Renderer
	options  render.RenderOptions
	view     render.ViewContext
	form     render.FormView
	theme    *render.ThemeConfig
	buf      bytes.Buffer
}

func (w *stepWriter) Emit(unit pipeline.Unit) error {
	if unit.Kind == pipeline.UnitBegin {
		w.form = render.NewFormView(unit.Form, w.options)
	}
	data := map[string]any{"form": w.form, "locale": w.view.Locale}

	switch unit.Kind {
	case pipeline.UnitBegin:
		return w.step(StepFormBegin, "", data)
	case pipeline.UnitErrors:
		data["errors"] = render.HTMLList(unit.Errors, w.view.Sanitizer)
		return w.step(StepFormErrors, "", data)
	case pipeline.UnitGroupBegin, pipeline.UnitGroupEnd:
		id, suffix := StepGroupBegin, "-begin"
		if unit.Kind == pipeline.UnitGroupEnd {
			id, suffix = StepGroupEnd, "-end"
		}
		override := ""
		if unit.Group.Template != "" {
			override = unit.Group.Template + suffix
		}
		data["group"] = groupData{
			Name:        unit.Group.Group.Name,
			Label:       render.HTML(unit.Group.Label, w.view.Sanitizer),
			Description: render.HTML(unit.Group.Description, w.view.Sanitizer),
		}
		return w.step(id, override, data)
	case pipeline.UnitControl:
		view := render.NewControlView(w.view, unit.Control, unit.Template, unit.PrependButton, unit.AppendButton)
		data["control"] = view
		data["addons"] = view.HasAddons()
		return w.control(unit.Template, unit.Control.Options.Template, view.Kind, data)
	case pipeline.UnitButtons:
		data["buttons"] = render.ButtonViews(w.view, unit.Buttons)
		return w.step(StepButtonStack, "", data)
	case pipeline.UnitEnd:
		return w.step(StepFormEnd, "", data)
	}
	return fmt.Errorf("unexpected unit %s", unit.Kind)
}

// step renders the theme partial for id, the override, or the step template
// itself, whichever loads first.
func (w *stepWriter) step(id, override string, data map[string]any) error {
	var fallbacks []string
	if override != "" {
		fallbacks = append(fallbacks, override)
	}
	return w.execute(id, override, data, append(fallbacks, id)...)
}

func (w *stepWriter) control(templateID, override, kind string, data map[string]any) error {
	fallbacks := []string{controlsDir + templateID}
	if templateID != kind {
		fallbacks = append(fallbacks, templateID, controlsDir+kind)
	}
	return w.execute(templateID, override, data, append(fallbacks, defaultControl)...)
}

func (w *stepWriter) execute(id, override string, data map[string]any, fallbacks ...string) error {
	candidates := w.theme.Candidates(id, fallbacks...)
	name, ok := rendertemplate.Resolve(w.renderer.templates, candidates...)
	if !ok {
		return fmt.Errorf("no template among %v", candidates)
	}
	if partial, themed := w.theme.Partial(id); themed && name != partial {
		w.renderer.logger.Warn("theme template not found", "form", w.form.Name, "template", partial, "using", name)
	} else if override != "" && name != override && name != controlsDir+override {
		w.renderer.logger.Warn("template override not found", "form", w.form.Name, "template", override, "using", name)
	}

	if _, err := w.renderer.templates.RenderTemplate(name, data, &w.buf); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func traceOption(enabled bool) gotemplate.Option {
	if !enabled {
		return nil
	}
	return gotemplate.WithPostHook(gotemplate.TraceComments())
}
