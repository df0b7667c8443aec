// Package template defines the template engine seam used by the HTML
// renderers. Control partials, group chrome, and page layouts are resolved
// by name through TemplateRenderer.
package template
