package formrender

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formrender/pkg/definition"
)

// Document aliases definition.Document for callers of the root package.
type Document = definition.Document

// LoadDefinitions reads every YAML/JSON definition below dir and merges them
// into one document.
func LoadDefinitions(fsys fs.FS, dir string) (*Document, error) {
	return definition.LoadDir(fsys, dir)
}

// DefinitionsFromOpenAPI turns the object request bodies of an OpenAPI 3
// document into form definitions.
func DefinitionsFromOpenAPI(ctx context.Context, data []byte) (*Document, error) {
	return definition.FromOpenAPI(ctx, data)
}
