package bootstrap

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	rendertemplate "github.com/goliatone/go-formrender/pkg/render/template"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	pipeline         []pipeline.Option
	errorsAtInputs   bool
	sanitizer        render.Sanitizer
	translator       form.Translator
	onMissing        render.MissingTranslationHandler
	logger           *slog.Logger
	traceTemplates   bool

	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPriorGroups renders the named groups first, in the given order.
func WithPriorGroups(refs ...pipeline.GroupRef) Option {
	return func(cfg *config) {
		cfg.pipeline = append(cfg.pipeline, pipeline.WithPriorGroups(refs...))
	}
}

// WithFieldErrorsGlobally lists control errors in the form error block as
// well as next to the controls.
func WithFieldErrorsGlobally(enabled bool) Option {
	return func(cfg *config) {
		cfg.pipeline = append(cfg.pipeline, pipeline.WithFieldErrorsGlobally(enabled))
	}
}

// WithErrorsAtInputs toggles the inline error next to each control.
// Enabled by default.
func WithErrorsAtInputs(enabled bool) Option {
	return func(cfg *config) {
		cfg.errorsAtInputs = enabled
	}
}

// WithRefreshAnnotations re-annotates the form on every call.
func WithRefreshAnnotations(enabled bool) Option {
	return func(cfg *config) {
		cfg.pipeline = append(cfg.pipeline, pipeline.WithRefreshAnnotations(enabled))
	}
}

// WithFormClass replaces the class added to the form element.
func WithFormClass(class string) Option {
	return func(cfg *config) {
		cfg.pipeline = append(cfg.pipeline, pipeline.WithFormClass(class, pipeline.DefaultFormClassPrefix))
	}
}

// WithOnMissing sets the handler for missing translations.
func WithOnMissing(handler render.MissingTranslationHandler) Option {
	return func(cfg *config) {
		cfg.onMissing = handler
		cfg.pipeline = append(cfg.pipeline, pipeline.WithOnMissing(handler))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
			cfg.pipeline = append(cfg.pipeline, pipeline.WithLogger(logger))
		}
	}
}

// WithThemeSelector resolves name/variant through selector when the
// renderer is built. Theme partials keyed "forms.<template>" take precedence
// over the bundled templates.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

func WithSanitizer(sanitizer render.Sanitizer) Option {
	return func(cfg *config) {
		if sanitizer != nil {
			cfg.sanitizer = sanitizer
		}
	}
}

// WithTranslator registers the translate and current_locale helpers on the
// default template engine.
func WithTranslator(t form.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithTemplateTrace wraps every template's output in HTML comments naming
// the template. It applies to the default engine only.
func WithTemplateTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.traceTemplates = enabled
	}
}
