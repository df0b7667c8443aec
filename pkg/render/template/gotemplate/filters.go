package gotemplate

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var builtinFilters sync.Once

// registerBuiltinFilters adds the filters custom template directories may
// rely on:
//
//	{{ "control-group  error control-group"|classnames }} -> "control-group error"
//	{{ control.label|trim }}
func registerBuiltinFilters() {
	builtinFilters.Do(func() {
		if !pongo2.FilterExists("classnames") {
			_ = pongo2.RegisterFilter("classnames", filterClassNames)
		}
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
	})
}

// ClassNames collapses whitespace in a class attribute value and drops
// repeated classes, keeping first occurrences in order.
func ClassNames(value string) string {
	fields := strings.Fields(value)
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, class := range fields {
		if seen[class] {
			continue
		}
		seen[class] = true
		out = append(out, class)
	}
	return strings.Join(out, " ")
}

func filterClassNames(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(ClassNames(in.String())), nil
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
