package pipeline

import (
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

// CollectErrors returns the form-level messages to display. Unless
// fieldErrorsGlobally is set, every message that also belongs to a control is
// removed, even when the two are logically distinct. Remaining plain messages
// are translated one by one.
func CollectErrors(f *form.Form, fieldErrorsGlobally bool, locale string, onMissing render.MissingTranslationHandler) []form.Text {
	if f == nil {
		return nil
	}
	messages := f.Errors()
	if len(messages) == 0 {
		return nil
	}

	if !fieldErrorsGlobally {
		for _, control := range f.Controls() {
			if !control.HasErrors() {
				continue
			}
			messages = subtract(messages, control.Errors())
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return render.TranslateTexts(f.Translator, locale, messages, onMissing)
}

func subtract(from, remove []form.Text) []form.Text {
	drop := make(map[string]struct{}, len(remove))
	for _, message := range remove {
		drop[message.String()] = struct{}{}
	}
	out := from[:0:0]
	for _, message := range from {
		if _, ok := drop[message.String()]; ok {
			continue
		}
		out = append(out, message)
	}
	return out
}
