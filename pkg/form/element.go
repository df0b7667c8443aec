package form

import (
	"sort"
	"strings"
)

// Element is the mutable HTML prototype of a form, control, or label. The
// annotator attaches classes and attributes to it; templates read it back.
type Element struct {
	tag     string
	attrs   map[string]string
	classes []string
}

// Attr is a single rendered attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewElement creates an element prototype for the given tag.
func NewElement(tag string) *Element {
	return &Element{tag: strings.ToLower(strings.TrimSpace(tag))}
}

// Tag returns the element name (input, textarea, select, form, label).
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.tag
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	if e == nil || e.attrs == nil {
		return ""
	}
	return e.attrs[name]
}

// SetAttr sets an attribute. An empty value removes it.
func (e *Element) SetAttr(name, value string) *Element {
	name = strings.TrimSpace(name)
	if e == nil || name == "" {
		return e
	}
	if name == "class" {
		e.classes = nil
		return e.AddClass(strings.Fields(value)...)
	}
	if value == "" {
		delete(e.attrs, name)
		return e
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	return e
}

// AddClass appends classes, skipping ones already present.
func (e *Element) AddClass(classes ...string) *Element {
	if e == nil {
		return e
	}
	for _, class := range classes {
		for _, token := range strings.Fields(class) {
			if e.HasClass(token) {
				continue
			}
			e.classes = append(e.classes, token)
		}
	}
	return e
}

// HasClass reports whether the exact class is present.
func (e *Element) HasClass(class string) bool {
	if e == nil {
		return false
	}
	for _, existing := range e.classes {
		if existing == class {
			return true
		}
	}
	return false
}

// HasClassPrefix reports whether any class starts with prefix
// (case-insensitive).
func (e *Element) HasClassPrefix(prefix string) bool {
	if e == nil || prefix == "" {
		return false
	}
	prefix = strings.ToLower(prefix)
	for _, existing := range e.classes {
		if strings.HasPrefix(strings.ToLower(existing), prefix) {
			return true
		}
	}
	return false
}

// Classes returns a copy of the class list in insertion order.
func (e *Element) Classes() []string {
	if e == nil || len(e.classes) == 0 {
		return nil
	}
	return append([]string(nil), e.classes...)
}

// Class returns the space separated class attribute.
func (e *Element) Class() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.classes, " ")
}

// Attrs returns every attribute except class sorted by name.
func (e *Element) Attrs() []Attr {
	if e == nil || len(e.attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Attr, 0, len(names))
	for _, name := range names {
		out = append(out, Attr{Name: name, Value: e.attrs[name]})
	}
	return out
}

// Clone returns a deep copy of the prototype.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	clone := &Element{tag: e.tag, classes: append([]string(nil), e.classes...)}
	if len(e.attrs) > 0 {
		clone.attrs = make(map[string]string, len(e.attrs))
		for key, value := range e.attrs {
			clone.attrs[key] = value
		}
	}
	return clone
}
