// Package gotemplate executes renderer templates with pongo2. Output is
// autoescaped; pre-rendered control markup must be piped through |safe.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formrender/pkg/render/template"
)

const defaultExtension = ".tpl"

var errNilEngine = errors.New("gotemplate: engine is nil")

// Engine implements template.TemplateRenderer on a pongo2 template set.
// Parsed templates are cached by path, including failed lookups so that
// repeated Exists probes for optional theme templates stay cheap.
type Engine struct {
	mu      sync.RWMutex
	set     *pongo2.TemplateSet
	cache   map[string]*pongo2.Template
	missing map[string]error
	ext     string
	hooks   *gotemplatepkg.HookManager
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.TemplateChecker  = (*Engine)(nil)
)

// New builds an Engine. A base directory or an fs.FS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: defaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	e := &Engine{
		set:     pongo2.NewSet("formrender", loaders...),
		cache:   make(map[string]*pongo2.Template),
		missing: make(map[string]error),
		ext:     cfg.extension,
		hooks:   cfg.hooks,
	}
	registerBuiltinFilters()

	if err := e.GlobalContext(cfg.globals); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.funcs {
		if err := e.registerFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register %q: %w", name, err)
		}
	}
	return e, nil
}

// Render treats name as inline content when it contains template tags and
// as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate executes a named template; the extension is appended when
// missing. Pre hooks run before the lookup and post hooks on the output. The
// result is returned and copied to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}

	meta := map[string]any{"ext": e.ext}
	if e.hooks != nil {
		for _, hook := range e.hooks.PreHooks() {
			hctx := &gotemplatepkg.HookContext{TemplateName: name, Data: data, Metadata: meta, IsPreHook: true}
			if err := hook(hctx); err != nil {
				return "", fmt.Errorf("gotemplate: pre-hook for %q: %w", name, err)
			}
			name, data = hctx.TemplateName, hctx.Data
		}
	}

	path := e.path(name)
	tmpl, err := e.load(path)
	if err != nil {
		return "", err
	}
	result, err := e.execute(tmpl, data, fmt.Sprintf("template %q", path))
	if err != nil {
		return "", err
	}

	if e.hooks != nil {
		hctx := &gotemplatepkg.HookContext{TemplateName: name, Data: data, Output: result, Metadata: meta}
		for _, hook := range e.hooks.PostHooks() {
			if result, err = hook(hctx); err != nil {
				return "", fmt.Errorf("gotemplate: post-hook for %q: %w", name, err)
			}
			hctx.Output = result
		}
	}
	return result, write(out, result)
}

// RenderString parses and executes inline template content. Hooks do not
// apply.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	result, err := e.execute(tmpl, data, "template string")
	if err != nil {
		return "", err
	}
	return result, write(out, result)
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, what string) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", what, err)
	}
	return buf.String(), nil
}

func write(out []io.Writer, result string) error {
	for _, w := range out {
		if _, err := io.WriteString(w, result); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFilter adds a filter to pongo2. Filters are process wide, so a
// name that already exists is rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var p any
		if param != nil {
			p = param.Interface()
		}
		result, err := fn(in.Interface(), p)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errNilEngine
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

// Exists reports whether name loads. Renderers use it to fall back from
// theme partials and template overrides to the bundled templates.
func (e *Engine) Exists(name string) bool {
	if e == nil || e.set == nil || strings.TrimSpace(name) == "" {
		return false
	}
	_, err := e.load(e.path(name))
	return err == nil
}

func (e *Engine) registerFunc(name string, fn any) error {
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if !isCallable(fn) {
		return fmt.Errorf("%T is not a function", fn)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals[name] = fn
	return nil
}

func (e *Engine) load(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	missErr, missing := e.missing[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}
	if missing {
		return nil, missErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		err = fmt.Errorf("gotemplate: load template %q: %w", path, err)
		e.missing[path] = err
		return nil, err
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

func (e *Engine) path(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	return name
}
