package definition

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrender/pkg/form"
)

var (
	// ErrFormNotFound is returned by Build for unknown form names.
	ErrFormNotFound = errors.New("definition: form not found")
	// ErrUnknownType is returned for control types outside the known set.
	ErrUnknownType = errors.New("definition: unknown control type")
	// ErrDuplicateForm is returned when merged documents define the same form.
	ErrDuplicateForm = errors.New("definition: duplicate form")
)

// Document is a set of named form definitions.
type Document struct {
	Forms map[string]FormSpec `yaml:"forms" json:"forms"`
}

type FormSpec struct {
	Method   string        `yaml:"method,omitempty" json:"method,omitempty"`
	Action   string        `yaml:"action,omitempty" json:"action,omitempty"`
	Locale   string        `yaml:"locale,omitempty" json:"locale,omitempty"`
	Errors   []string      `yaml:"errors,omitempty" json:"errors,omitempty"`
	Groups   []GroupSpec   `yaml:"groups,omitempty" json:"groups,omitempty"`
	Controls []ControlSpec `yaml:"controls" json:"controls"`
}

type GroupSpec struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Visual defaults to true.
	Visual   *bool    `yaml:"visual,omitempty" json:"visual,omitempty"`
	Template string   `yaml:"template,omitempty" json:"template,omitempty"`
	Controls []string `yaml:"controls" json:"controls"`
	Markup   []string `yaml:"markup,omitempty" json:"markup,omitempty"`
}

type ControlSpec struct {
	Name     string      `yaml:"name" json:"name"`
	Type     string      `yaml:"type" json:"type"`
	Label    string      `yaml:"label,omitempty" json:"label,omitempty"`
	Required bool        `yaml:"required,omitempty" json:"required,omitempty"`
	Value    any         `yaml:"value,omitempty" json:"value,omitempty"`
	Items    []form.Item `yaml:"items,omitempty" json:"items,omitempty"`
	Errors   []string    `yaml:"errors,omitempty" json:"errors,omitempty"`
	Options  OptionSpec  `yaml:"options,omitempty" json:"options,omitempty"`
	// Markup names the texts that hold pre-rendered HTML: label, description,
	// help, prepend, append, placeholder, errors.
	Markup []string `yaml:"markup,omitempty" json:"markup,omitempty"`

	Caption   string `yaml:"caption,omitempty" json:"caption,omitempty"`
	Prompt    string `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	MaxLength int    `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Rows      int    `yaml:"rows,omitempty" json:"rows,omitempty"`
	Cols      int    `yaml:"cols,omitempty" json:"cols,omitempty"`
	Accept    string `yaml:"accept,omitempty" json:"accept,omitempty"`
	Multiple  bool   `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	Src       string `yaml:"src,omitempty" json:"src,omitempty"`
	Alt       string `yaml:"alt,omitempty" json:"alt,omitempty"`
}

type OptionSpec struct {
	Placeholder   string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help          string `yaml:"help,omitempty" json:"help,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Status        string `yaml:"status,omitempty" json:"status,omitempty"`
	Class         string `yaml:"class,omitempty" json:"class,omitempty"`
	Prepend       string `yaml:"prepend,omitempty" json:"prepend,omitempty"`
	Append        string `yaml:"append,omitempty" json:"append,omitempty"`
	PrependButton string `yaml:"prepend_button,omitempty" json:"prepend_button,omitempty"`
	AppendButton  string `yaml:"append_button,omitempty" json:"append_button,omitempty"`
	Template      string `yaml:"template,omitempty" json:"template,omitempty"`
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("definition: parse: %w", err)
	}
	if doc.Forms == nil {
		doc.Forms = make(map[string]FormSpec)
	}
	return &doc, nil
}

// Names lists the form names in sorted order.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Forms))
	for name := range d.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds the forms of other. Names defined in both are rejected.
func (d *Document) Merge(other *Document) error {
	if other == nil {
		return nil
	}
	if d.Forms == nil {
		d.Forms = make(map[string]FormSpec, len(other.Forms))
	}
	for _, name := range other.Names() {
		if _, exists := d.Forms[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateForm, name)
		}
		d.Forms[name] = other.Forms[name]
	}
	return nil
}

// Build constructs a fresh form from the named definition. Every call
// returns a new form.
func (d *Document) Build(name string) (*form.Form, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	spec, ok := d.Forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	f, err := spec.Build(name)
	if err != nil {
		return nil, fmt.Errorf("definition: build %q: %w", name, err)
	}
	return f, nil
}

// Build constructs the form described by s.
func (s FormSpec) Build(name string) (*form.Form, error) {
	f := form.New(name)
	if s.Method != "" {
		f.Method = strings.ToUpper(s.Method)
	}
	f.Action = s.Action
	f.Locale = s.Locale

	for _, spec := range s.Controls {
		control, err := spec.control()
		if err != nil {
			return nil, err
		}
		if err := f.AddControl(control); err != nil {
			return nil, err
		}
	}
	for _, message := range s.Errors {
		f.AddError(form.Plain(message))
	}

	for _, spec := range s.Groups {
		visual := spec.Visual == nil || *spec.Visual
		markup := toSet(spec.Markup)
		group, err := f.AddGroup(spec.Name, form.GroupOptions{
			Visual:      visual,
			Label:       text(spec.Label, markup["label"]),
			Description: text(spec.Description, markup["description"]),
			Template:    spec.Template,
		})
		if err != nil {
			return nil, err
		}
		for _, member := range spec.Controls {
			control, ok := f.Control(member)
			if !ok {
				return nil, fmt.Errorf("group %q: unknown control %q", spec.Name, member)
			}
			group.Add(control)
		}
	}
	return f, nil
}

func (s ControlSpec) control() (*form.Control, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, errors.New("control name is required")
	}
	variant, err := s.variant()
	if err != nil {
		return nil, fmt.Errorf("control %q: %w", s.Name, err)
	}
	status := form.Status(s.Options.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("control %q: invalid status %q", s.Name, s.Options.Status)
	}

	markup := toSet(s.Markup)
	control := form.NewControl(s.Name, text(s.Label, markup["label"]), variant)
	control.Required = s.Required
	control.Value = normalizeValue(s.Value)
	control.Options = form.ControlOptions{
		Description:   text(s.Options.Description, markup["description"]),
		Help:          text(s.Options.Help, markup["help"]),
		Status:        status,
		Class:         s.Options.Class,
		Prepend:       text(s.Options.Prepend, markup["prepend"]),
		Append:        text(s.Options.Append, markup["append"]),
		PrependButton: s.Options.PrependButton,
		AppendButton:  s.Options.AppendButton,
		Placeholder:   text(s.Options.Placeholder, markup["placeholder"]),
		Template:      s.Options.Template,
	}
	for _, message := range s.Errors {
		control.AddError(text(message, markup["errors"]))
	}
	return control, nil
}

func (s ControlSpec) variant() (form.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "", "text":
		return form.TextInput{MaxLength: s.MaxLength}, nil
	case form.InputEmail, form.InputPassword, form.InputNumber, form.InputTel, form.InputSearch, form.InputDate, form.InputURL:
		return form.TextInput{Type: strings.ToLower(s.Type), MaxLength: s.MaxLength}, nil
	case "textarea":
		return form.TextArea{Rows: s.Rows, Cols: s.Cols}, nil
	case "upload", "file":
		return form.Upload{Multiple: s.Multiple, Accept: s.Accept}, nil
	case "checkbox":
		return form.Checkbox{Caption: s.Caption}, nil
	case "checkbox-list":
		return form.CheckboxList{Items: s.Items}, nil
	case "radio-list", "radio":
		return form.RadioList{Items: s.Items}, nil
	case "select":
		return form.SelectBox{Items: s.Items, Prompt: s.Prompt, Multiple: s.Multiple}, nil
	case "multi-select":
		return form.SelectBox{Items: s.Items, Prompt: s.Prompt, Multiple: true}, nil
	case "hidden":
		return form.HiddenField{}, nil
	case "submit":
		return form.SubmitButton{Caption: s.Caption}, nil
	case "button":
		return form.Button{Caption: s.Caption}, nil
	case "image":
		return form.ImageButton{Src: s.Src, Alt: s.Alt}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
}

func text(value string, markup bool) form.Text {
	if markup {
		return form.Markup(value)
	}
	return form.Plain(value)
}

// normalizeValue turns decoded YAML scalars and lists into the shapes
// form.Control understands.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return out
}
