package form

// Kind identifies the concrete control variant. Its string value doubles as
// the template identifier used by the emission driver.
type Kind string

const (
	KindTextInput    Kind = "text-input"
	KindTextArea     Kind = "text-area"
	KindUpload       Kind = "upload"
	KindCheckbox     Kind = "checkbox"
	KindCheckboxList Kind = "checkbox-list"
	KindRadioList    Kind = "radio-list"
	KindSelectBox    Kind = "select-box"
	KindHidden       Kind = "hidden-field"
	KindSubmit       Kind = "submit-button"
	KindButton       Kind = "button"
	KindImage        Kind = "image-button"
)

// Input types accepted by TextInput.
const (
	InputText     = "text"
	InputPassword = "password"
	InputEmail    = "email"
	InputNumber   = "number"
	InputURL      = "url"
	InputTel      = "tel"
	InputSearch   = "search"
	InputDate     = "date"
)

// Kinds lists every control kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindTextInput, KindTextArea, KindUpload, KindCheckbox, KindCheckboxList,
		KindRadioList, KindSelectBox, KindHidden, KindSubmit, KindButton, KindImage,
	}
}

// TemplateName returns the template identifier derived from the variant.
func (k Kind) TemplateName() string {
	return string(k)
}

// IsButton reports whether the kind is deferred into button batches.
func (k Kind) IsButton() bool {
	switch k {
	case KindSubmit, KindButton, KindImage:
		return true
	default:
		return false
	}
}

// IsSubmitter reports whether the kind submits the form.
func (k Kind) IsSubmitter() bool {
	return k == KindSubmit || k == KindImage
}

// IsHidden reports whether the kind renders no visible chrome.
func (k Kind) IsHidden() bool {
	return k == KindHidden
}

// HasItems reports whether the kind carries a choice list.
func (k Kind) HasItems() bool {
	switch k {
	case KindCheckboxList, KindRadioList, KindSelectBox:
		return true
	default:
		return false
	}
}

// Variant is the closed set of control kinds. Each variant carries its own
// data; renderers dispatch with a type switch.
type Variant interface {
	Kind() Kind
	// element returns the tag and input type of the control prototype.
	element() (tag, inputType string)
}

// Item is one option of a choice control.
type Item struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// TextInput is a single line input. Type selects the HTML input type.
type TextInput struct {
	Type      string
	MaxLength int
}

func (TextInput) Kind() Kind { return KindTextInput }

func (v TextInput) element() (string, string) {
	if v.Type == "" {
		return "input", InputText
	}
	return "input", v.Type
}

// TextArea is a multi line input.
type TextArea struct {
	Rows int
	Cols int
}

func (TextArea) Kind() Kind                { return KindTextArea }
func (TextArea) element() (string, string) { return "textarea", "" }

// Upload is a file input.
type Upload struct {
	Multiple bool
	Accept   string
}

func (Upload) Kind() Kind                { return KindUpload }
func (Upload) element() (string, string) { return "input", "file" }

// Checkbox is a single boolean checkbox with its own caption.
type Checkbox struct {
	Caption string
}

func (Checkbox) Kind() Kind                { return KindCheckbox }
func (Checkbox) element() (string, string) { return "input", "checkbox" }

// CheckboxList is a set of checkboxes sharing one name.
type CheckboxList struct {
	Items []Item
}

func (CheckboxList) Kind() Kind                { return KindCheckboxList }
func (CheckboxList) element() (string, string) { return "input", "checkbox" }

// RadioList is a set of radio inputs.
type RadioList struct {
	Items []Item
}

func (RadioList) Kind() Kind                { return KindRadioList }
func (RadioList) element() (string, string) { return "input", "radio" }

// SelectBox is a drop down, optionally multi-valued.
type SelectBox struct {
	Items    []Item
	Prompt   string
	Multiple bool
}

func (SelectBox) Kind() Kind                { return KindSelectBox }
func (SelectBox) element() (string, string) { return "select", "" }

// HiddenField is an invisible input.
type HiddenField struct{}

func (HiddenField) Kind() Kind                { return KindHidden }
func (HiddenField) element() (string, string) { return "input", "hidden" }

// SubmitButton submits the form.
type SubmitButton struct {
	Caption string
}

func (SubmitButton) Kind() Kind                { return KindSubmit }
func (SubmitButton) element() (string, string) { return "input", "submit" }

// Button is a plain push button.
type Button struct {
	Caption string
}

func (Button) Kind() Kind                { return KindButton }
func (Button) element() (string, string) { return "input", "button" }

// ImageButton submits the form through an image.
type ImageButton struct {
	Src string
	Alt string
}

func (ImageButton) Kind() Kind                { return KindImage }
func (ImageButton) element() (string, string) { return "input", "image" }

// ItemsOf returns the choice list of a variant, or nil.
func ItemsOf(v Variant) []Item {
	switch variant := v.(type) {
	case CheckboxList:
		return variant.Items
	case RadioList:
		return variant.Items
	case SelectBox:
		return variant.Items
	default:
		return nil
	}
}

// CaptionOf returns the caption of buttons and checkboxes.
func CaptionOf(v Variant) string {
	switch variant := v.(type) {
	case SubmitButton:
		return variant.Caption
	case Button:
		return variant.Caption
	case Checkbox:
		return variant.Caption
	case ImageButton:
		return variant.Alt
	default:
		return ""
	}
}
