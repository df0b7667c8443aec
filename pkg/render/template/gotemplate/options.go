package gotemplate

import (
	"io/fs"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"
)

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	funcs     map[string]any
	globals   map[string]any
	hooks     *gotemplatepkg.HookManager
}

// WithBaseDir loads templates from a directory on disk. When combined with
// WithFS the directory is searched first.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files, typically an embedded bundle.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the suffix appended to template names. Default ".tpl".
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithTemplateFunc registers helpers. pongo2 filter functions become
// filters; any other func becomes a global callable, e.g. translate.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || fn == nil {
				continue
			}
			if cfg.funcs == nil {
				cfg.funcs = make(map[string]any, len(funcs))
			}
			cfg.funcs[name] = fn
		}
	}
}

// WithGlobalData makes values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if cfg.globals == nil {
				cfg.globals = make(map[string]any, len(data))
			}
			cfg.globals[key] = value
		}
	}
}

// WithPreHook runs hook before every named template. It may rewrite the
// template name and data. Lower priorities run first.
func WithPreHook(hook gotemplatepkg.PreHook, priority ...int) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.hookManager().AddPreHook(hook, priority...)
		}
	}
}

// WithPostHook runs hook on the output of every named template; its result
// replaces the output.
func WithPostHook(hook gotemplatepkg.PostHook, priority ...int) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.hookManager().AddPostHook(hook, priority...)
		}
	}
}

func (cfg *config) hookManager() *gotemplatepkg.HookManager {
	if cfg.hooks == nil {
		cfg.hooks = gotemplatepkg.NewHooksManager()
	}
	return cfg.hooks
}
