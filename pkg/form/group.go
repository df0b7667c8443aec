package form

// Group is a named, ordered subset of a form's controls. Membership is not
// exclusive: one control may belong to several groups.
type Group struct {
	Name    string
	Options GroupOptions

	controls []*Control
}

// Add appends controls to the group, ignoring nil and duplicates.
func (g *Group) Add(controls ...*Control) *Group {
	for _, control := range controls {
		if control == nil || g.Contains(control) {
			continue
		}
		g.controls = append(g.controls, control)
	}
	return g
}

// Contains reports membership by identity.
func (g *Group) Contains(control *Control) bool {
	for _, existing := range g.controls {
		if existing == control {
			return true
		}
	}
	return false
}

// Controls returns the members in insertion order.
func (g *Group) Controls() []*Control {
	if g == nil || len(g.controls) == 0 {
		return nil
	}
	return append([]*Control(nil), g.controls...)
}
