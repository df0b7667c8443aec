package form

// Status is the validation state hint of a control.
type Status string

const (
	StatusNone    Status = ""
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// Valid reports whether the status is one of the recognised values.
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusWarning, StatusError, StatusSuccess:
		return true
	default:
		return false
	}
}

// ControlOptions enumerates every presentation option a control accepts.
type ControlOptions struct {
	// Description renders below the control as a help block.
	Description Text
	// Help renders inline next to the control.
	Help Text
	// Status forces the control group state. Controls with errors default
	// to StatusError.
	Status Status
	// Class is appended to the control wrapper.
	Class string
	// Prepend and Append render as add-ons inside the input group.
	Prepend Text
	Append  Text
	// PrependButton and AppendButton name button controls of the same form
	// rendered inline with the input instead of in a button batch.
	PrependButton string
	AppendButton  string
	// Placeholder is copied onto the control prototype during annotation.
	Placeholder Text
	// Template overrides the template derived from the control kind.
	Template string
}

// GroupOptions describe how a group is presented.
type GroupOptions struct {
	// Visual groups are rendered as fieldsets; others only bundle controls.
	Visual      bool
	Label       Text
	Description Text
	// Template replaces the default group chrome.
	Template string
}
