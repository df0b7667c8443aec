package pipeline

import (
	"fmt"

	"github.com/goliatone/go-formrender/pkg/form"
)

type driver struct {
	form    *form.Form
	pass    *Pass
	sink    Sink
	buttons []*form.Control
}

func (d *driver) run(errors []form.Text, groups []GroupView) error {
	if err := d.emit(Unit{Kind: UnitBegin}); err != nil {
		return err
	}
	if len(errors) > 0 {
		if err := d.emit(Unit{Kind: UnitErrors, Errors: errors}); err != nil {
			return err
		}
	}

	for i := range groups {
		group := &groups[i]
		if err := d.emit(Unit{Kind: UnitGroupBegin, Group: group}); err != nil {
			return err
		}
		for _, control := range group.Controls {
			if err := d.control(control); err != nil {
				return err
			}
		}
		if err := d.flush(); err != nil {
			return err
		}
		if err := d.emit(Unit{Kind: UnitGroupEnd, Group: group}); err != nil {
			return err
		}
	}

	for _, control := range d.form.Controls() {
		if err := d.control(control); err != nil {
			return err
		}
	}
	if err := d.flush(); err != nil {
		return err
	}
	return d.emit(Unit{Kind: UnitEnd})
}

func (d *driver) control(control *form.Control) error {
	if control == nil || d.pass.Rendered(control) || control.Form() != d.form {
		return nil
	}
	if control.Kind().IsButton() {
		d.enqueue(control)
		return nil
	}

	prepend := d.companion(control, control.Options.PrependButton)
	appendBtn := d.companion(control, control.Options.AppendButton)
	if appendBtn == prepend {
		appendBtn = nil
	}
	if err := d.flush(); err != nil {
		return err
	}

	unit := Unit{
		Kind:          UnitControl,
		Control:       control,
		Template:      TemplateFor(control),
		PrependButton: prepend,
		AppendButton:  appendBtn,
	}
	if err := d.emit(unit); err != nil {
		return err
	}
	d.pass.MarkRendered(control)
	d.pass.MarkRendered(prepend)
	d.pass.MarkRendered(appendBtn)
	return nil
}

// companion resolves a button named by a prepend/append option and takes it
// out of the pending batch.
func (d *driver) companion(owner *form.Control, name string) *form.Control {
	if name == "" || name == owner.Name {
		return nil
	}
	button, ok := d.form.Control(name)
	if !ok || !button.Kind().IsButton() || d.pass.Rendered(button) {
		return nil
	}
	for i, queued := range d.buttons {
		if queued == button {
			d.buttons = append(d.buttons[:i], d.buttons[i+1:]...)
			break
		}
	}
	return button
}

func (d *driver) enqueue(button *form.Control) {
	for _, queued := range d.buttons {
		if queued == button {
			return
		}
	}
	d.buttons = append(d.buttons, button)
}

func (d *driver) flush() error {
	if len(d.buttons) == 0 {
		return nil
	}
	batch := d.buttons
	d.buttons = nil
	if err := d.emit(Unit{Kind: UnitButtons, Buttons: batch}); err != nil {
		return err
	}
	for _, button := range batch {
		d.pass.MarkRendered(button)
	}
	return nil
}

func (d *driver) emit(unit Unit) error {
	unit.Form = d.form
	if err := d.sink.Emit(unit); err != nil {
		return fmt.Errorf("pipeline: emit %s: %w", unit.Kind, err)
	}
	return nil
}
