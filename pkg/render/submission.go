package render

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formrender/pkg/form"
)

// HiddenField is a hidden input emitted right after the form opening tag,
// outside of the control list. The CLI builds them from --csrf-token,
// --auth-token and --record-version; the preview server adds a CSRF token per
// request.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken names the token input after the backend's expectation, e.g.
// "_csrf" or "csrf_token".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// AuthToken carries an authentication or session token.
func AuthToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField carries the record version checked on submit.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// NormalizeHiddenFields trims names, drops blank ones, keeps the last value
// for repeated names, and sorts by name.
func NormalizeHiddenFields(fields ...HiddenField) []HiddenField {
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			byName[name] = field.Value
		}
	}
	if len(byName) == 0 {
		return nil
	}

	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MethodOverride resolves the method emitted on the form element. Browsers
// only submit GET and POST, so other verbs become POST plus a hidden _method
// field.
func MethodOverride(method string) (string, []HiddenField) {
	upper := strings.ToUpper(strings.TrimSpace(method))
	switch upper {
	case "", http.MethodPost:
		return http.MethodPost, nil
	case http.MethodGet:
		return http.MethodGet, nil
	case http.MethodPatch, http.MethodPut, http.MethodDelete:
		return http.MethodPost, []HiddenField{Hidden("_method", upper)}
	default:
		return http.MethodPost, nil
	}
}

// SplitGetAction strips the query string from a GET action and returns its
// parameters as hidden fields, since browsers drop the query of GET actions
// on submit. Parameters named like a control of the form are skipped because
// the control submits them itself.
func SplitGetAction(f *form.Form, action string) (string, []HiddenField) {
	base, query, found := strings.Cut(action, "?")
	if !found || query == "" {
		return base, nil
	}

	var hiddens []HiddenField
	seen := make(map[string]int)
	for _, param := range strings.FieldsFunc(query, func(r rune) bool { return r == '&' || r == ';' }) {
		rawName, rawValue, _ := strings.Cut(param, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil || strings.TrimSpace(name) == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		if f != nil {
			if _, isControl := f.Control(name); isControl {
				continue
			}
		}
		if idx, dup := seen[name]; dup {
			hiddens[idx].Value = value
			continue
		}
		seen[name] = len(hiddens)
		hiddens = append(hiddens, HiddenField{Name: name, Value: value})
	}
	return base, hiddens
}
