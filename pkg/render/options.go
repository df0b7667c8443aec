package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without changing the renderer configuration.
type RenderOptions struct {
	// Method overrides the method declared by the form. PATCH/PUT/DELETE are
	// emitted as POST plus a hidden _method input.
	Method string
	// Locale overrides the form locale used for translations.
	Locale string
	// PriorGroups replaces the renderer's configured prior groups for this
	// call only.
	PriorGroups []string
	// HiddenFields are emitted right after the form opening tag, sorted by
	// name. A repeated name keeps its last value.
	HiddenFields []HiddenField
	// Values pre-populates controls by name before rendering.
	Values map[string]any
	// Errors attaches server-side validation feedback. Keys may be control
	// names or JSON-pointer like paths; see ApplyErrorPayload.
	Errors map[string][]string
	// OnMissing controls the text returned when a translation is missing.
	OnMissing MissingTranslationHandler
	// Theme carries resolved theme templates, tokens, and assets.
	Theme *ThemeConfig
}
