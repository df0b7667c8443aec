package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrender/pkg/form"
)

// ViewContext carries what views need to translate and sanitize copy.
type ViewContext struct {
	Translator form.Translator
	Locale     string
	OnMissing  MissingTranslationHandler
	Sanitizer  Sanitizer
	// ErrorsAtInputs renders the first control error next to the control.
	ErrorsAtInputs bool
}

// NewViewContext derives a context from the form and per-call options.
func NewViewContext(f *form.Form, opts RenderOptions, sanitizer Sanitizer, errorsAtInputs bool) ViewContext {
	ctx := ViewContext{
		Locale:         FormLocale(f, opts),
		OnMissing:      opts.OnMissing,
		Sanitizer:      sanitizer,
		ErrorsAtInputs: errorsAtInputs,
	}
	if f != nil {
		ctx.Translator = f.Translator
	}
	return ctx
}

// HTML translates plain text and returns a safe fragment.
func (c ViewContext) HTML(text form.Text) string {
	return HTML(TranslateText(c.Translator, c.Locale, text, c.OnMissing), c.Sanitizer)
}

// HTMLList applies HTML to every message.
func (c ViewContext) HTMLList(texts []form.Text) []string {
	return HTMLList(TranslateTexts(c.Translator, c.Locale, texts, c.OnMissing), c.Sanitizer)
}

func (c ViewContext) plain(value string) string {
	return TranslateText(c.Translator, c.Locale, form.Plain(value), c.OnMissing).String()
}

// ItemView is one option of a checkbox or radio list.
type ItemView struct {
	ID         string `json:"id"`
	Value      string `json:"value"`
	Input      string `json:"input"`
	LabelClass string `json:"label_class"`
	Caption    string `json:"caption"`
	Checked    bool   `json:"checked"`
}

// ControlView is the template-facing description of one control. Fields
// holding markup are already escaped or sanitized.
type ControlView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Template      string     `json:"template"`
	Label         string     `json:"label"`
	LabelClass    string     `json:"label_class"`
	Required      bool       `json:"required"`
	Control       string     `json:"control"`
	Items         []ItemView `json:"items,omitempty"`
	Caption       string     `json:"caption"`
	Description   string     `json:"description"`
	Help          string     `json:"help"`
	Error         string     `json:"error"`
	Errors        []string   `json:"errors,omitempty"`
	Status        string     `json:"status"`
	Class         string     `json:"class"`
	Prepend       string     `json:"prepend"`
	Append        string     `json:"append"`
	PrependButton string     `json:"prepend_button"`
	AppendButton  string     `json:"append_button"`
	IsEmail       bool       `json:"is_email"`
	IsButton      bool       `json:"is_button"`
	IsCheckbox    bool       `json:"is_checkbox"`
	IsRadioList   bool       `json:"is_radio_list"`
	IsHidden      bool       `json:"is_hidden"`
}

// HasAddons reports whether the control renders inside an input group.
func (v ControlView) HasAddons() bool {
	return v.Prepend != "" || v.Append != "" || v.PrependButton != "" || v.AppendButton != "" || v.IsEmail
}

// NewControlView describes control for templates. prepend and appendBtn are
// the companion buttons resolved by the pipeline, or nil.
func NewControlView(ctx ViewContext, control *form.Control, template string, prepend, appendBtn *form.Control) ControlView {
	kind := control.Kind()
	view := ControlView{
		ID:          control.ID(),
		Name:        control.Name,
		Kind:        string(kind),
		Template:    template,
		Label:       ctx.HTML(control.Label),
		LabelClass:  control.LabelElement().Class(),
		Required:    control.Required,
		Description: ctx.HTML(control.Options.Description),
		Help:        ctx.HTML(control.Options.Help),
		Errors:      ctx.HTMLList(control.Errors()),
		Status:      string(control.Options.Status),
		Class:       strings.TrimSpace(control.Options.Class),
		Prepend:     ctx.HTML(control.Options.Prepend),
		Append:      ctx.HTML(control.Options.Append),
		IsEmail:     control.InputType() == form.InputEmail,
		IsButton:    kind.IsButton(),
		IsCheckbox:  kind == form.KindCheckbox,
		IsRadioList: kind == form.KindRadioList,
		IsHidden:    kind.IsHidden(),
	}
	if view.Status == "" && control.HasErrors() {
		view.Status = string(form.StatusError)
	}
	if ctx.ErrorsAtInputs && len(view.Errors) > 0 {
		view.Error = view.Errors[0]
	}
	if caption := form.CaptionOf(control.Variant); caption != "" {
		view.Caption = html.EscapeString(ctx.plain(caption))
	}
	if prepend != nil {
		view.PrependButton = ctx.ControlHTML(prepend)
	}
	if appendBtn != nil {
		view.AppendButton = ctx.ControlHTML(appendBtn)
	}

	switch v := control.Variant.(type) {
	case form.CheckboxList:
		view.Items = ctx.items(control, v.Items, "checkbox")
	case form.RadioList:
		view.Items = ctx.items(control, v.Items, "radio")
	default:
		view.Control = ctx.ControlHTML(control)
	}
	return view
}

// ButtonViews describes a button batch.
func ButtonViews(ctx ViewContext, buttons []*form.Control) []ControlView {
	out := make([]ControlView, 0, len(buttons))
	for _, button := range buttons {
		out = append(out, NewControlView(ctx, button, button.Kind().TemplateName(), nil, nil))
	}
	return out
}

// ControlHTML renders the control element itself, without label or chrome.
// Checkbox and radio lists render their inputs one after another.
func (c ViewContext) ControlHTML(control *form.Control) string {
	el := control.Element()
	base := []html.Attribute{attr("name", control.HTMLName()), attr("id", control.ID())}
	if control.Required && !control.Kind().IsButton() {
		base = append(base, attr("required", "required"))
	}

	switch v := control.Variant.(type) {
	case form.TextInput:
		attrs := append([]html.Attribute{attr("type", control.InputType())}, base...)
		attrs = append(attrs, optionalAttrs(attr("value", stringValue(control.Value)), attr("maxlength", positive(v.MaxLength)))...)
		return renderNode(node(el, "", attrs))
	case form.TextArea:
		attrs := append(base, optionalAttrs(attr("rows", positive(v.Rows)), attr("cols", positive(v.Cols)))...)
		n := node(el, "", attrs)
		n.AppendChild(textNode(stringValue(control.Value)))
		return renderNode(n)
	case form.Upload:
		attrs := append([]html.Attribute{attr("type", "file")}, base...)
		attrs = append(attrs, optionalAttrs(attr("accept", v.Accept), boolAttr("multiple", v.Multiple))...)
		return renderNode(node(el, "", attrs))
	case form.Checkbox:
		attrs := append([]html.Attribute{attr("type", "checkbox")}, base...)
		attrs = append(attrs, attr("value", "1"))
		attrs = append(attrs, optionalAttrs(boolAttr("checked", control.Checked()))...)
		return renderNode(node(el, "", attrs))
	case form.SelectBox:
		attrs := append(base, optionalAttrs(boolAttr("multiple", v.Multiple))...)
		n := node(el, "", attrs)
		selected := toSet(control.Values())
		if v.Prompt != "" {
			opt := node(nil, "option", []html.Attribute{attr("value", "")})
			opt.AppendChild(textNode(c.plain(v.Prompt)))
			n.AppendChild(opt)
		}
		for _, item := range v.Items {
			opt := node(nil, "option", append([]html.Attribute{attr("value", item.Value)},
				optionalAttrs(boolAttr("selected", selected[item.Value]))...))
			opt.AppendChild(textNode(c.plain(item.Label)))
			n.AppendChild(opt)
		}
		return renderNode(n)
	case form.HiddenField:
		attrs := []html.Attribute{attr("type", "hidden"), attr("name", control.HTMLName()), attr("id", control.ID())}
		attrs = append(attrs, attr("value", stringValue(control.Value)))
		return renderNode(node(el, "", attrs))
	case form.SubmitButton:
		return c.button(control, "submit", v.Caption)
	case form.Button:
		return c.button(control, "button", v.Caption)
	case form.ImageButton:
		attrs := append([]html.Attribute{attr("type", "image")}, base...)
		attrs = append(attrs, optionalAttrs(attr("src", v.Src), attr("alt", c.plain(v.Alt)))...)
		return renderNode(node(el, "", attrs))
	case form.CheckboxList:
		return joinItems(c.items(control, v.Items, "checkbox"))
	case form.RadioList:
		return joinItems(c.items(control, v.Items, "radio"))
	default:
		return renderNode(node(el, "", base))
	}
}

func (c ViewContext) button(control *form.Control, inputType, caption string) string {
	attrs := []html.Attribute{attr("type", inputType), attr("name", control.HTMLName()), attr("id", control.ID())}
	if caption == "" {
		caption = control.Label.String()
	}
	attrs = append(attrs, optionalAttrs(attr("value", c.plain(caption)))...)
	return renderNode(node(control.Element(), "", attrs, "btn"))
}

func (c ViewContext) items(control *form.Control, items []form.Item, labelClass string) []ItemView {
	if len(items) == 0 {
		return nil
	}
	inputType := "checkbox"
	if control.Kind() == form.KindRadioList {
		inputType = "radio"
	}
	checked := toSet(control.Values())
	out := make([]ItemView, 0, len(items))
	for i, item := range items {
		id := control.ID() + "-" + strconv.Itoa(i)
		attrs := []html.Attribute{
			attr("type", inputType),
			attr("name", control.HTMLName()),
			attr("id", id),
			attr("value", item.Value),
		}
		attrs = append(attrs, optionalAttrs(boolAttr("checked", checked[item.Value]))...)
		out = append(out, ItemView{
			ID:         id,
			Value:      item.Value,
			Input:      renderNode(node(control.Element(), "input", attrs)),
			LabelClass: labelClass,
			Caption:    html.EscapeString(c.plain(item.Label)),
			Checked:    checked[item.Value],
		})
	}
	return out
}

func joinItems(items []ItemView) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, `<label class="%s" for="%s">%s %s</label>`, item.LabelClass, html.EscapeString(item.ID), item.Input, item.Caption)
	}
	return b.String()
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case bool:
		if v {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// boolAttr renders name="name" when on; optionalAttrs drops it otherwise.
func boolAttr(name string, on bool) html.Attribute {
	if on {
		return attr(name, name)
	}
	return attr(name, "")
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, value := range values {
		out[value] = true
	}
	return out
}
