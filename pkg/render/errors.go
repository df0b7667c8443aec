package render

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/form"
)

// ErrorMapping is a server error payload split into control messages, keyed
// by control name, and form messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// payloadWrappers are leading path segments that request validators put in
// front of the submitted field, as in "/body/email".
var payloadWrappers = []string{"body", "request", "payload", "data", "attributes", "form"}

// MapErrorPayload resolves payload keys to control names. Keys may be plain
// names, dotted paths, or JSON pointers; wrapper segments and array indices
// are ignored. Keys that resolve to no control become form messages, so no
// message is lost. Keys are visited in sorted order.
func MapErrorPayload(f *form.Form, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := cleanMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		name, ok := resolveErrorKey(f, key)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = cleanMessages(append(mapping.Fields[name], messages...))
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

// ApplyErrorPayload maps payload and attaches the messages to the controls
// and the form.
func ApplyErrorPayload(f *form.Form, payload map[string][]string) ErrorMapping {
	mapping := MapErrorPayload(f, payload)
	if f == nil {
		return mapping
	}
	for _, control := range f.Controls() {
		for _, message := range mapping.Fields[control.Name] {
			control.AddError(form.Plain(message))
		}
	}
	for _, message := range mapping.Form {
		f.AddError(form.Plain(message))
	}
	return mapping
}

// cleanMessages trims, drops blanks, and removes duplicates in order.
func cleanMessages(messages []string) []string {
	var out []string
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || slices.Contains(out, message) {
			continue
		}
		out = append(out, message)
	}
	return out
}

func isFormKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	}
	return false
}

// resolveErrorKey tries, in order: the whole path, its longest prefix, and
// its last segment.
func resolveErrorKey(f *form.Form, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if f == nil || isFormKey(key) {
		return "", false
	}
	segments := keySegments(key)
	if len(segments) == 0 {
		return "", false
	}

	has := func(name string) bool {
		_, ok := f.Control(name)
		return ok
	}
	for end := len(segments); end > 0; end-- {
		if name := strings.Join(segments[:end], "."); has(name) {
			return name, true
		}
	}
	if last := segments[len(segments)-1]; has(last) {
		return last, true
	}
	return "", false
}

// keySegments splits a pointer or dotted path into field segments.
//
//	"/body/items/0/name" -> [items name]
//	"$.data.tags[2]"     -> [tags]
//	"owner~1email"       -> [owner/email]
func keySegments(key string) []string {
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		if len(out) == 0 && slices.Contains(payloadWrappers, strings.ToLower(part)) {
			continue
		}
		out = append(out, strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~"))
	}
	return out
}
