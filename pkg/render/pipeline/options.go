package pipeline

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

const (
	// DefaultFormClass is added to the form element unless a class with
	// DefaultFormClassPrefix is already present.
	DefaultFormClass       = "form-horizontal"
	DefaultFormClassPrefix = "form-"
	// RequiredClass marks labels of required controls.
	RequiredClass = "required"
)

// GroupRef points at a group either by name or by identity.
type GroupRef struct {
	name  string
	group *form.Group
}

// ByName references a group by its name on the rendered form.
func ByName(name string) GroupRef {
	return GroupRef{name: strings.TrimSpace(name)}
}

// ByGroup references a concrete group.
func ByGroup(group *form.Group) GroupRef {
	return GroupRef{group: group}
}

// Names converts group names into references.
func Names(names ...string) []GroupRef {
	if len(names) == 0 {
		return nil
	}
	refs := make([]GroupRef, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		refs = append(refs, ByName(name))
	}
	return refs
}

func (r GroupRef) String() string {
	if r.group != nil {
		return r.group.Name
	}
	return r.name
}

// Config holds the pipeline settings shared by every render call.
type Config struct {
	// FieldErrorsGlobally keeps control errors in the form-level list
	// instead of subtracting them.
	FieldErrorsGlobally bool
	// PriorGroups are rendered before the natural group order.
	PriorGroups []GroupRef
	// RefreshAnnotations annotates on every call, not only when a different
	// form is bound.
	RefreshAnnotations bool
	FormClass          string
	FormClassPrefix    string
	OnMissing          render.MissingTranslationHandler
	Logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Config)

// WithPriorGroups sets the groups rendered first, in the given order.
func WithPriorGroups(refs ...GroupRef) Option {
	return func(cfg *Config) {
		cfg.PriorGroups = append([]GroupRef(nil), refs...)
	}
}

// WithFieldErrorsGlobally echoes control errors at form level.
func WithFieldErrorsGlobally(enabled bool) Option {
	return func(cfg *Config) {
		cfg.FieldErrorsGlobally = enabled
	}
}

// WithRefreshAnnotations re-runs the annotator on every call.
func WithRefreshAnnotations(enabled bool) Option {
	return func(cfg *Config) {
		cfg.RefreshAnnotations = enabled
	}
}

// WithFormClass overrides the layout class and the prefix that suppresses it.
func WithFormClass(class, prefix string) Option {
	return func(cfg *Config) {
		cfg.FormClass = strings.TrimSpace(class)
		cfg.FormClassPrefix = strings.TrimSpace(prefix)
	}
}

// WithOnMissing sets the missing translation handler.
func WithOnMissing(handler render.MissingTranslationHandler) Option {
	return func(cfg *Config) {
		cfg.OnMissing = handler
	}
}

// WithLogger sets the logger used for bind and pass diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

func defaultConfig() Config {
	return Config{
		FormClass:       DefaultFormClass,
		FormClassPrefix: DefaultFormClassPrefix,
		Logger:          slog.New(slog.DiscardHandler),
	}
}
