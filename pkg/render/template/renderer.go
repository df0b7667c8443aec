package template

import (
	"io"
)

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Renderers only depend on this seam; the default implementation is
// gotemplate.Engine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// TemplateChecker is implemented by engines that can report whether a named
// template exists without rendering it.
type TemplateChecker interface {
	Exists(name string) bool
}

// Resolve returns the first candidate the engine can load. Engines that do
// not implement TemplateChecker get the first non-empty candidate. found is
// false when nothing matched.
func Resolve(engine TemplateRenderer, candidates ...string) (name string, found bool) {
	checker, canCheck := engine.(TemplateChecker)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if !canCheck || checker.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
