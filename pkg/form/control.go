package form

import (
	"strings"
)

// Control is one field of a form.
type Control struct {
	Name     string
	Label    Text
	Variant  Variant
	Required bool
	// Value is the current value. Choice controls accept a string or a
	// []string; checkboxes accept a bool.
	Value   any
	Options ControlOptions

	errors  []Text
	form    *Form
	element *Element
	label   *Element
}

// NewControl builds a control and its element prototypes.
func NewControl(name string, label Text, variant Variant) *Control {
	if variant == nil {
		variant = TextInput{}
	}
	tag, inputType := variant.element()
	element := NewElement(tag)
	if inputType != "" {
		element.SetAttr("type", inputType)
	}
	return &Control{
		Name:    strings.TrimSpace(name),
		Label:   label,
		Variant: variant,
		element: element,
		label:   NewElement("label"),
	}
}

// Kind returns the variant kind.
func (c *Control) Kind() Kind {
	if c == nil || c.Variant == nil {
		return ""
	}
	return c.Variant.Kind()
}

// Form returns the owning form, or nil for detached controls.
func (c *Control) Form() *Form {
	if c == nil {
		return nil
	}
	return c.form
}

// Element returns the control prototype.
func (c *Control) Element() *Element {
	return c.element
}

// LabelElement returns the label prototype.
func (c *Control) LabelElement() *Element {
	return c.label
}

// InputType returns the type attribute of input-like prototypes.
func (c *Control) InputType() string {
	if c == nil || c.element == nil || c.element.Tag() != "input" {
		return ""
	}
	return c.element.Attr("type")
}

// ID returns the DOM id of the control.
func (c *Control) ID() string {
	if c == nil {
		return ""
	}
	if c.form != nil && c.form.Name != "" {
		return "frm-" + c.form.Name + "-" + c.Name
	}
	return "frm-" + c.Name
}

// HTMLName returns the name attribute. Multi-valued controls get a []
// suffix.
func (c *Control) HTMLName() string {
	if c == nil {
		return ""
	}
	switch v := c.Variant.(type) {
	case CheckboxList:
		return c.Name + "[]"
	case SelectBox:
		if v.Multiple {
			return c.Name + "[]"
		}
	case Upload:
		if v.Multiple {
			return c.Name + "[]"
		}
	}
	return c.Name
}

// AddError attaches a validation message.
func (c *Control) AddError(message Text) {
	if c == nil || message.IsZero() {
		return
	}
	for _, existing := range c.errors {
		if existing.String() == message.String() {
			return
		}
	}
	c.errors = append(c.errors, message)
}

// Errors returns the attached validation messages.
func (c *Control) Errors() []Text {
	if c == nil || len(c.errors) == 0 {
		return nil
	}
	return append([]Text(nil), c.errors...)
}

// HasErrors reports whether any message is attached.
func (c *Control) HasErrors() bool {
	return c != nil && len(c.errors) > 0
}

// CleanErrors drops every attached message.
func (c *Control) CleanErrors() {
	if c != nil {
		c.errors = nil
	}
}

// Values returns the selected values of choice controls as strings.
func (c *Control) Values() []string {
	if c == nil {
		return nil
	}
	switch v := c.Value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Checked reports whether a boolean control is on.
func (c *Control) Checked() bool {
	if c == nil {
		return false
	}
	switch v := c.Value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true
		}
	}
	return false
}
