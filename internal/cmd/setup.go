package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	formrender "github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/pkg/catalog"
	"github.com/goliatone/go-formrender/pkg/definition"
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

const defaultCatalogLocale = "en"

// loadDocument reads the OpenAPI document at openapiPath when set, otherwise
// the configured definitions directory.
func (a *app) loadDocument(ctx context.Context, openapiPath string) (*definition.Document, error) {
	if openapiPath != "" {
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		return definition.FromOpenAPI(ctx, data)
	}
	return definition.LoadDir(os.DirFS(a.cfg.DefinitionsDir), ".")
}

// buildForm builds the named form and attaches the catalog translator.
func (a *app) buildForm(doc *definition.Document, name string, translator form.Translator) (*form.Form, error) {
	if name == "" {
		names := doc.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("--form is required when the definitions hold %d forms", len(names))
		}
		name = names[0]
	}
	f, err := doc.Build(name)
	if err != nil {
		return nil, err
	}
	if translator != nil {
		f.Translator = translator
	}
	return f, nil
}

// translator loads the configured message catalog. No catalog means no
// translator; texts render as written.
func (a *app) translator() (form.Translator, error) {
	if a.cfg.Catalog == "" {
		return nil, nil
	}
	fallback := a.cfg.Locale
	if fallback == "" {
		fallback = defaultCatalogLocale
	}
	return catalog.Load(os.DirFS(filepath.Dir(a.cfg.Catalog)), fallback, filepath.Base(a.cfg.Catalog))
}

// registryOptions maps the configuration onto the root package options.
func (a *app) registryOptions(translator form.Translator) ([]formrender.Option, error) {
	opts := []formrender.Option{
		formrender.WithPriorGroups(a.cfg.PriorGroups...),
		formrender.WithFieldErrorsGlobally(a.cfg.FieldErrorsGlobally),
		formrender.WithErrorsAtInputs(a.cfg.ErrorsAtInputs),
		formrender.WithTemplatesDir(a.cfg.Renderer, a.cfg.TemplatesDir),
		formrender.WithTranslator(translator),
		formrender.WithLogger(a.logger.Slog()),
	}
	if a.cfg.Theme.Name != "" {
		data, err := os.ReadFile(a.cfg.Theme.Manifest)
		if err != nil {
			return nil, fmt.Errorf("read theme manifest: %w", err)
		}
		manifest, err := render.ParseThemeManifest(data)
		if err != nil {
			return nil, err
		}
		selector := render.NewManifestSelector(a.cfg.Theme.Name, a.cfg.Theme.Variant)
		if err := selector.Register(manifest); err != nil {
			return nil, err
		}
		opts = append(opts, formrender.WithThemeSelector(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant))
	}
	return opts, nil
}
