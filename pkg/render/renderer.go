package render

import (
	"context"

	"github.com/goliatone/go-formrender/pkg/form"
)

// Renderer turns a form into a byte representation (HTML, prompt answers).
// Implementations run the rendering pipeline and must not write partial
// output when Render fails.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
