package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	rendertemplate "github.com/goliatone/go-formrender/pkg/render/template"
)

type groupData struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// page collects pipeline units and assembles the layout on UnitEnd. The form
// view is taken on UnitBegin, after annotation has set the layout class.
type page struct {
	renderer *Renderer
	options  render.RenderOptions
	view     render.ViewContext
	form     render.FormView
	theme    *render.ThemeConfig

	errors []string
	body   strings.Builder
	group  *strings.Builder
	out    string
}

func (p *page) Emit(unit pipeline.Unit) error {
	switch unit.Kind {
	case pipeline.UnitBegin:
		p.form = render.NewFormView(unit.Form, p.options)
		return nil
	case pipeline.UnitErrors:
		p.errors = render.HTMLList(unit.Errors, p.view.Sanitizer)
		return nil
	case pipeline.UnitGroupBegin:
		p.group = &strings.Builder{}
		return nil
	case pipeline.UnitGroupEnd:
		return p.closeGroup(unit.Group)
	case pipeline.UnitControl:
		view := render.NewControlView(p.view, unit.Control, unit.Template, unit.PrependButton, unit.AppendButton)
		name, err := p.resolve(unit.Template, unit.Control.Options.Template, controlFallbacks(unit.Template, view.Kind)...)
		if err != nil {
			return err
		}
		return p.write(name, map[string]any{
			"form":    p.form,
			"control": view,
			"addons":  view.HasAddons(),
		})
	case pipeline.UnitButtons:
		name, err := p.resolve(buttonsTemplate, "", buttonsTemplate)
		if err != nil {
			return err
		}
		return p.write(name, map[string]any{
			"form":    p.form,
			"buttons": render.ButtonViews(p.view, unit.Buttons),
		})
	case pipeline.UnitEnd:
		name, err := p.resolve(layoutTemplate, "", layoutTemplate)
		if err != nil {
			return err
		}
		out, err := p.renderer.templates.RenderTemplate(name, map[string]any{
			"form":   p.form,
			"errors": p.errors,
			"body":   p.body.String(),
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		p.out = out
		return nil
	}
	return fmt.Errorf("unexpected unit %s", unit.Kind)
}

func (p *page) closeGroup(group *pipeline.GroupView) error {
	body := ""
	if p.group != nil {
		body = p.group.String()
	}
	p.group = nil
	if group == nil {
		return nil
	}

	fallbacks := []string{groupTemplate}
	if group.Template != "" {
		fallbacks = []string{group.Template, groupTemplate}
	}
	name, err := p.resolve(groupTemplate, group.Template, fallbacks...)
	if err != nil {
		return err
	}
	return p.write(name, map[string]any{
		"form": p.form,
		"group": groupData{
			Name:        group.Group.Name,
			Label:       render.HTML(group.Label, p.view.Sanitizer),
			Description: render.HTML(group.Description, p.view.Sanitizer),
		},
		"body": body,
	})
}

// controlFallbacks orders the bundled lookups after the theme partial:
// explicit template, kind partial, default partial.
func controlFallbacks(templateID, kind string) []string {
	fallbacks := []string{controlsTemplate + templateID}
	if templateID != kind {
		fallbacks = append(fallbacks, templateID, controlsTemplate+kind)
	}
	return append(fallbacks, defaultControl)
}

// resolve picks the first loadable template for templateID and warns when a
// theme partial or an explicit override could not be loaded.
func (p *page) resolve(templateID, override string, fallbacks ...string) (string, error) {
	candidates := p.theme.Candidates(templateID, fallbacks...)
	name, ok := rendertemplate.Resolve(p.renderer.templates, candidates...)
	if !ok {
		return "", fmt.Errorf("no template among %v", candidates)
	}
	if partial, themed := p.theme.Partial(templateID); themed && name != partial {
		p.renderer.logger.Warn("theme template not found", "form", p.form.Name, "template", partial, "using", name)
	} else if override != "" && name != override && name != controlsTemplate+override {
		p.renderer.logger.Warn("template override not found", "form", p.form.Name, "template", override, "using", name)
	}
	return name, nil
}

func (p *page) write(name string, data map[string]any) error {
	out, err := p.renderer.templates.RenderTemplate(name, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	target := &p.body
	if p.group != nil {
		target = p.group
	}
	target.WriteString(out)
	target.WriteString("\n")
	return nil
}
