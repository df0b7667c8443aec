package pipeline

import (
	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

// GroupView is a group ready for emission.
type GroupView struct {
	Group       *form.Group
	Template    string
	Label       form.Text
	Description form.Text
	// Controls are the members eligible for the group body: not rendered,
	// not submitters, not hidden.
	Controls []*form.Control
}

// ResolveGroups orders the visual groups of f: prior groups first in the
// given order, then the remaining groups in declaration order. A prior group
// missing from the form yields a *ConfigError.
func ResolveGroups(f *form.Form, prior []GroupRef, pass *Pass, locale string, onMissing render.MissingTranslationHandler) ([]GroupView, error) {
	if f == nil {
		return nil, nil
	}

	visited := make(map[*form.Group]struct{}, len(prior))
	resolved := make([]*form.Group, 0, len(prior))
	for _, ref := range prior {
		group := ref.group
		if group == nil {
			var ok bool
			group, ok = f.Group(ref.name)
			if !ok {
				return nil, &ConfigError{Group: ref.String()}
			}
		}
		if _, seen := visited[group]; seen {
			continue
		}
		visited[group] = struct{}{}
		resolved = append(resolved, group)
	}

	var views []GroupView
	for _, group := range resolved {
		if view, ok := BuildGroup(f, group, pass, locale, onMissing); ok {
			views = append(views, view)
		}
	}
	for _, group := range f.Groups() {
		if _, seen := visited[group]; seen {
			continue
		}
		if view, ok := BuildGroup(f, group, pass, locale, onMissing); ok {
			views = append(views, view)
		}
	}
	return views, nil
}

// BuildGroup describes one group, or reports false when the group is not
// visual or has no controls.
func BuildGroup(f *form.Form, group *form.Group, pass *Pass, locale string, onMissing render.MissingTranslationHandler) (GroupView, bool) {
	if group == nil || !group.Options.Visual {
		return GroupView{}, false
	}
	members := group.Controls()
	if len(members) == 0 {
		return GroupView{}, false
	}

	var translator form.Translator
	if f != nil {
		translator = f.Translator
	}

	view := GroupView{
		Group:       group,
		Template:    group.Options.Template,
		Label:       render.TranslateText(translator, locale, group.Options.Label, onMissing),
		Description: render.TranslateText(translator, locale, group.Options.Description, onMissing),
	}
	for _, control := range members {
		kind := control.Kind()
		if pass.Rendered(control) || kind.IsSubmitter() || kind.IsHidden() {
			continue
		}
		view.Controls = append(view.Controls, control)
	}
	return view, true
}
