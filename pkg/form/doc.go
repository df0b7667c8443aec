// Package form models the host form object graph consumed by the renderers:
// a Form owns ordered Controls and Groups, each Control carries one closed
// Variant (text input, checkbox, radio list, submit button, ...), typed
// presentation options, and zero or more validation messages.
//
// Renderers never add or remove controls. They only annotate the element
// prototypes (classes, placeholders) and read the rest.
package form
