package pipeline

import (
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

// inputClasses maps input types whose presentation class differs from the
// type itself.
var inputClasses = map[string]string{
	"password": "text",
	"file":     "text",
	"submit":   "button",
	"image":    "imagebutton",
}

// InputClass returns the presentation class for an input type.
func InputClass(inputType string) string {
	if class, ok := inputClasses[inputType]; ok {
		return class
	}
	return inputType
}

// Annotate attaches presentation metadata to the controls of f and to the form
// element. Classes are added without duplicates, so repeated calls leave the
// prototypes unchanged apart from re-translated placeholders.
func Annotate(f *form.Form, locale string, cfg Config) {
	if f == nil {
		return
	}
	for _, control := range f.Controls() {
		if control.Required {
			control.LabelElement().AddClass(RequiredClass)
		}

		el := control.Element()
		if el.Tag() == "input" {
			if inputType := el.Attr("type"); inputType != "" {
				el.AddClass(InputClass(inputType))
			}
		}

		if placeholder := control.Options.Placeholder; !placeholder.IsZero() {
			placeholder = render.TranslateText(f.Translator, locale, placeholder, cfg.OnMissing)
			el.SetAttr("placeholder", placeholder.String())
		}
	}

	formEl := f.Element()
	if cfg.FormClass != "" && !formEl.HasClassPrefix(cfg.FormClassPrefix) {
		formEl.AddClass(cfg.FormClass)
	}
}
