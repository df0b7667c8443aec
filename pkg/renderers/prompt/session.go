package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
)

// session turns pipeline units into prompts for one Render call.
type session struct {
	ctx       context.Context
	renderer  *Renderer
	form      *form.Form
	locale    string
	onMissing render.MissingTranslationHandler
	values    map[string]any
}

func (s *session) Emit(unit pipeline.Unit) error {
	theme := s.renderer.theme
	switch unit.Kind {
	case pipeline.UnitBegin:
		return s.info(theme.Title.Render(s.form.Name))
	case pipeline.UnitErrors:
		for _, message := range unit.Errors {
			if err := s.info(theme.Error.Render("! " + render.PlainText(message))); err != nil {
				return err
			}
		}
	case pipeline.UnitGroupBegin:
		if label := render.PlainText(unit.Group.Label); label != "" {
			if err := s.info(theme.Group.Render(label)); err != nil {
				return err
			}
		}
		if description := render.PlainText(unit.Group.Description); description != "" {
			return s.info(description)
		}
	case pipeline.UnitControl:
		return s.ask(unit.Control)
	case pipeline.UnitButtons:
		return s.choose(unit.Buttons)
	}
	return nil
}

func (s *session) info(msg string) error {
	return s.renderer.driver.Info(s.ctx, msg)
}

func (s *session) text(t form.Text) string {
	return render.PlainText(render.TranslateText(s.form.Translator, s.locale, t, s.onMissing))
}

func (s *session) label(control *form.Control) string {
	if label := s.text(control.Label); label != "" {
		return label
	}
	return control.Name
}

func (s *session) ask(control *form.Control) error {
	label := s.label(control)
	help := s.text(control.Options.Help)
	if help == "" {
		help = s.text(control.Options.Description)
	}
	for _, message := range control.Errors() {
		if err := s.info(s.renderer.theme.Error.Render(label + ": " + s.text(message))); err != nil {
			return err
		}
	}

	current := control.Values()
	first := ""
	if len(current) > 0 {
		first = current[0]
	}

	switch v := control.Variant.(type) {
	case form.TextInput:
		cfg := InputConfig{Message: label, Default: first, Help: help, Validator: s.validator(control, label, v.MaxLength)}
		ask := s.renderer.driver.Input
		if control.InputType() == form.InputPassword {
			cfg.Default = ""
			ask = s.renderer.driver.Password
		}
		answer, err := s.askString(control, cfg.Validator, func() (string, error) { return ask(s.ctx, cfg) })
		if err != nil {
			return err
		}
		s.values[control.Name] = answer
	case form.TextArea, form.Upload:
		validator := s.validator(control, label, 0)
		answer, err := s.askString(control, validator, func() (string, error) {
			if _, isArea := v.(form.TextArea); isArea {
				return s.renderer.driver.TextArea(s.ctx, TextAreaConfig{Message: label, Default: first, Help: help})
			}
			return s.renderer.driver.Input(s.ctx, InputConfig{Message: label, Default: first, Help: help, Validator: validator})
		})
		if err != nil {
			return err
		}
		s.values[control.Name] = answer
	case form.Checkbox:
		message := label
		if v.Caption != "" {
			message = s.text(form.Plain(v.Caption))
		}
		answer, err := s.renderer.driver.Confirm(s.ctx, ConfirmConfig{Message: message, Default: control.Checked(), Help: help})
		if err != nil {
			return err
		}
		s.values[control.Name] = answer
	case form.CheckboxList:
		return s.multi(control, label, help, v.Items, current)
	case form.RadioList:
		return s.single(control, label, help, v.Items, first)
	case form.SelectBox:
		if v.Multiple {
			return s.multi(control, label, help, v.Items, current)
		}
		return s.single(control, label, help, v.Items, first)
	case form.HiddenField:
		if control.Value != nil {
			s.values[control.Name] = first
		}
	}
	return nil
}

func (s *session) askString(control *form.Control, validator func(string) error, ask func() (string, error)) (string, error) {
	for attempt := 0; attempt < s.renderer.maxAttempts; attempt++ {
		answer, err := ask()
		if err != nil {
			return "", err
		}
		if validator == nil {
			return answer, nil
		}
		verr := validator(answer)
		if verr == nil {
			return answer, nil
		}
		if err := s.info(s.renderer.theme.Error.Render(verr.Error())); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", control.Name, ErrTooManyAttempts)
}

// validator checks required, e-mail, and length constraints of a control.
func (s *session) validator(control *form.Control, label string, maxLength int) func(string) error {
	email := control.InputType() == form.InputEmail
	if !control.Required && !email && maxLength <= 0 {
		return nil
	}
	return func(answer string) error {
		trimmed := strings.TrimSpace(answer)
		switch {
		case control.Required && trimmed == "":
			return errors.New(label + " is required")
		case email && trimmed != "" && !strings.Contains(trimmed, "@"):
			return errors.New(label + " must be an e-mail address")
		case maxLength > 0 && utf8.RuneCountInString(answer) > maxLength:
			return fmt.Errorf("%s accepts at most %d characters", label, maxLength)
		}
		return nil
	}
}

func (s *session) captions(items []form.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = s.text(form.Plain(item.Label))
	}
	return out
}

func (s *session) single(control *form.Control, label, help string, items []form.Item, current string) error {
	if len(items) == 0 {
		return nil
	}
	cfg := SelectConfig{Message: label, Options: s.captions(items), Help: help, DefaultIndex: -1}
	for i, item := range items {
		if item.Value == current {
			cfg.DefaultIndex = i
		}
	}
	idx, err := s.renderer.driver.Select(s.ctx, cfg)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("%s: choice %d out of range", control.Name, idx)
	}
	s.values[control.Name] = items[idx].Value
	return nil
}

func (s *session) multi(control *form.Control, label, help string, items []form.Item, current []string) error {
	if len(items) == 0 {
		return nil
	}
	selected := make(map[string]bool, len(current))
	for _, value := range current {
		selected[value] = true
	}
	cfg := SelectConfig{Message: label, Options: s.captions(items), Help: help}
	for i, item := range items {
		if selected[item.Value] {
			cfg.Defaults = append(cfg.Defaults, i)
		}
	}
	for attempt := 0; attempt < s.renderer.maxAttempts; attempt++ {
		indices, err := s.renderer.driver.MultiSelect(s.ctx, cfg)
		if err != nil {
			return err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(items) {
				values = append(values, items[idx].Value)
			}
		}
		if !control.Required || len(values) > 0 {
			s.values[control.Name] = values
			return nil
		}
		if err := s.info(s.renderer.theme.Error.Render(label + " is required")); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: %w", control.Name, ErrTooManyAttempts)
}

// choose turns a button batch into one choice. The chosen button submits
// its caption under its name, like a browser does for the clicked submitter.
func (s *session) choose(buttons []*form.Control) error {
	if len(buttons) == 0 {
		return nil
	}
	options := make([]string, len(buttons))
	for i, button := range buttons {
		caption := form.CaptionOf(button.Variant)
		if caption == "" {
			options[i] = s.label(button)
			continue
		}
		options[i] = s.text(form.Plain(caption))
	}

	idx := 0
	if len(buttons) > 1 {
		var err error
		idx, err = s.renderer.driver.Select(s.ctx, SelectConfig{
			Message: s.text(form.Plain("Choose an action")),
			Options: options,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(buttons) {
			return fmt.Errorf("button choice %d out of range", idx)
		}
	}
	s.values[buttons[idx].Name] = options[idx]
	return nil
}
