package render

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrender/pkg/form"
)

// node builds an element node from a prototype. Prototype attributes are
// copied first; attrs override them. Classes from the prototype are merged
// with extraClasses.
func node(el *form.Element, tag string, attrs []html.Attribute, extraClasses ...string) *html.Node {
	if el != nil && tag == "" {
		tag = el.Tag()
	}
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}

	values := make(map[string]string)
	order := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if _, seen := values[attr.Key]; !seen {
			order = append(order, attr.Key)
		}
		values[attr.Key] = attr.Val
	}

	var protoNames []string
	if el != nil {
		for _, attr := range el.Attrs() {
			if _, overridden := values[attr.Name]; overridden {
				continue
			}
			values[attr.Name] = attr.Value
			protoNames = append(protoNames, attr.Name)
		}
	}
	sort.Strings(protoNames)
	order = append(order, protoNames...)

	for _, key := range order {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: values[key]})
	}

	classes := form.NewElement(tag)
	if el != nil {
		classes.AddClass(el.Classes()...)
	}
	classes.AddClass(extraClasses...)
	if class := classes.Class(); class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	return n
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func renderNode(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// optionalAttrs drops attributes with empty values.
func optionalAttrs(attrs ...html.Attribute) []html.Attribute {
	out := attrs[:0:0]
	for _, a := range attrs {
		if a.Val == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
