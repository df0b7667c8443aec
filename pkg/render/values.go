package render

import (
	"net/http"

	"github.com/goliatone/go-formrender/pkg/form"
)

// ApplyValues copies values onto the controls with matching names. Unknown
// names are ignored.
func ApplyValues(f *form.Form, values map[string]any) {
	if f == nil {
		return
	}
	for name, value := range values {
		if control, ok := f.Control(name); ok {
			control.Value = value
		}
	}
}

// FormView is the template-facing description of the form element.
type FormView struct {
	Name       string        `json:"name"`
	ID         string        `json:"id"`
	Method     string        `json:"method"`
	Action     string        `json:"action"`
	Class      string        `json:"class"`
	Attrs      []form.Attr   `json:"attrs,omitempty"`
	Hiddens    []HiddenField `json:"hiddens,omitempty"`
	Locale     string        `json:"locale"`
	Theme      string        `json:"theme,omitempty"`
	Stylesheet []string      `json:"stylesheet,omitempty"`
}

// NewFormView resolves method overrides, GET action parameters, and extra
// hidden fields for the form opening tag.
func NewFormView(f *form.Form, opts RenderOptions) FormView {
	method := f.Method
	if opts.Method != "" {
		method = opts.Method
	}
	method, overrides := MethodOverride(method)

	action := f.Action
	var queryHiddens []HiddenField
	if method == http.MethodGet {
		action, queryHiddens = SplitGetAction(f, action)
	}

	hiddens := append(queryHiddens, overrides...)
	hiddens = append(hiddens, NormalizeHiddenFields(opts.HiddenFields...)...)

	view := FormView{
		Name:    f.Name,
		ID:      "frm-" + f.Name,
		Method:  method,
		Action:  action,
		Class:   f.Element().Class(),
		Hiddens: hiddens,
		Locale:  FormLocale(f, opts),
	}
	for _, a := range f.Element().Attrs() {
		switch a.Name {
		case "action", "method", "id":
			continue
		}
		view.Attrs = append(view.Attrs, a)
	}
	if opts.Theme != nil {
		view.Theme = opts.Theme.Theme
		view.Stylesheet = opts.Theme.Stylesheet()
	}
	return view
}
