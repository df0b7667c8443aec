package pipeline

import "github.com/goliatone/go-formrender/pkg/form"

// UnitKind is the emission step a Unit belongs to.
type UnitKind int

const (
	UnitBegin UnitKind = iota
	UnitErrors
	UnitGroupBegin
	UnitControl
	UnitButtons
	UnitGroupEnd
	UnitEnd
)

var unitKindNames = [...]string{
	UnitBegin:      "begin",
	UnitErrors:     "errors",
	UnitGroupBegin: "group-begin",
	UnitControl:    "control",
	UnitButtons:    "buttons",
	UnitGroupEnd:   "group-end",
	UnitEnd:        "end",
}

func (k UnitKind) String() string {
	if k < 0 || int(k) >= len(unitKindNames) {
		return "unknown"
	}
	return unitKindNames[k]
}

// Unit is one renderable step. Units are only valid during Emit.
type Unit struct {
	Kind UnitKind
	Form *form.Form
	// Errors is set on UnitErrors.
	Errors []form.Text
	// Group is set on UnitGroupBegin and UnitGroupEnd.
	Group *GroupView
	// Control and Template are set on UnitControl.
	Control  *form.Control
	Template string
	// PrependButton and AppendButton are the companion buttons named by the
	// control options, emitted together with the control.
	PrependButton *form.Control
	AppendButton  *form.Control
	// Buttons is set on UnitButtons.
	Buttons []*form.Control
}

// Sink receives units in emission order.
type Sink interface {
	Emit(unit Unit) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(unit Unit) error

// Emit implements Sink.
func (fn SinkFunc) Emit(unit Unit) error {
	return fn(unit)
}

// TemplateFor returns the template id of a control: the Template option when
// set, otherwise the kind name.
func TemplateFor(control *form.Control) string {
	if control == nil {
		return ""
	}
	if control.Options.Template != "" {
		return control.Options.Template
	}
	return control.Kind().TemplateName()
}
