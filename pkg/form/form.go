package form

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrDuplicateControl is returned when a control name is reused.
	ErrDuplicateControl = errors.New("form: duplicate control")
	// ErrForeignControl is returned when a control already belongs to
	// another form.
	ErrForeignControl = errors.New("form: control belongs to another form")
	// ErrDuplicateGroup is returned when a group name is reused.
	ErrDuplicateGroup = errors.New("form: duplicate group")
)

// Form is the root aggregate rendered by the pipeline.
type Form struct {
	Name       string
	Method     string
	Action     string
	Translator Translator
	Locale     string

	element  *Element
	controls []*Control
	byName   map[string]*Control
	groups   []*Group
	byGroup  map[string]*Group
	errors   []Text
}

// New creates an empty POST form.
func New(name string) *Form {
	return &Form{
		Name:    strings.TrimSpace(name),
		Method:  http.MethodPost,
		element: NewElement("form"),
		byName:  make(map[string]*Control),
		byGroup: make(map[string]*Group),
	}
}

// Element returns the form prototype.
func (f *Form) Element() *Element {
	if f.element == nil {
		f.element = NewElement("form")
	}
	return f.element
}

// IsGet reports whether the form submits with GET.
func (f *Form) IsGet() bool {
	return strings.EqualFold(strings.TrimSpace(f.Method), http.MethodGet)
}

// AddControl attaches a control to the form.
func (f *Form) AddControl(control *Control) error {
	if control == nil {
		return errors.New("form: control is nil")
	}
	if control.Name == "" {
		return errors.New("form: control name is required")
	}
	if control.form != nil && control.form != f {
		return fmt.Errorf("%w: %q", ErrForeignControl, control.Name)
	}
	if f.byName == nil {
		f.byName = make(map[string]*Control)
	}
	if _, exists := f.byName[control.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateControl, control.Name)
	}
	control.form = f
	f.byName[control.Name] = control
	f.controls = append(f.controls, control)
	return nil
}

// MustAdd builds a control, attaches it, and panics on failure. Intended
// for fixtures and static form declarations.
func (f *Form) MustAdd(name string, label Text, variant Variant) *Control {
	control := NewControl(name, label, variant)
	if err := f.AddControl(control); err != nil {
		panic(err)
	}
	return control
}

// Control looks a control up by name.
func (f *Form) Control(name string) (*Control, bool) {
	control, ok := f.byName[name]
	return control, ok
}

// Controls returns every control in declaration order.
func (f *Form) Controls() []*Control {
	if len(f.controls) == 0 {
		return nil
	}
	return append([]*Control(nil), f.controls...)
}

// AddGroup declares a new group.
func (f *Form) AddGroup(name string, options GroupOptions) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("form: group name is required")
	}
	if f.byGroup == nil {
		f.byGroup = make(map[string]*Group)
	}
	if _, exists := f.byGroup[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, name)
	}
	group := &Group{Name: name, Options: options}
	f.byGroup[name] = group
	f.groups = append(f.groups, group)
	return group, nil
}

// Group looks a group up by name.
func (f *Form) Group(name string) (*Group, bool) {
	group, ok := f.byGroup[name]
	return group, ok
}

// Groups returns the groups in declaration order.
func (f *Form) Groups() []*Group {
	if len(f.groups) == 0 {
		return nil
	}
	return append([]*Group(nil), f.groups...)
}

// AddError attaches a form level message.
func (f *Form) AddError(message Text) {
	if message.IsZero() {
		return
	}
	for _, existing := range f.errors {
		if existing.String() == message.String() {
			return
		}
	}
	f.errors = append(f.errors, message)
}

// OwnErrors returns only the messages attached to the form itself.
func (f *Form) OwnErrors() []Text {
	if len(f.errors) == 0 {
		return nil
	}
	return append([]Text(nil), f.errors...)
}

// Errors returns the form messages followed by every control message,
// without duplicates.
func (f *Form) Errors() []Text {
	var out []Text
	seen := make(map[string]struct{})
	add := func(messages []Text) {
		for _, message := range messages {
			if _, ok := seen[message.String()]; ok {
				continue
			}
			seen[message.String()] = struct{}{}
			out = append(out, message)
		}
	}
	add(f.errors)
	for _, control := range f.controls {
		add(control.errors)
	}
	return out
}

// HasErrors reports whether the form or any control carries a message.
func (f *Form) HasErrors() bool {
	if len(f.errors) > 0 {
		return true
	}
	for _, control := range f.controls {
		if control.HasErrors() {
			return true
		}
	}
	return false
}
