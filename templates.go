package formrender

import (
	"io/fs"

	"github.com/goliatone/go-formrender/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formrender/pkg/renderers/templated"
)

// EmbeddedTemplates exposes the bootstrap page templates so callers can copy
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return bootstrap.TemplatesFS()
}

// EmbeddedStepTemplates exposes the per-step templates of the templated
// renderer.
func EmbeddedStepTemplates() fs.FS {
	return templated.TemplatesFS()
}
