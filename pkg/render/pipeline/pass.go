package pipeline

import "github.com/goliatone/go-formrender/pkg/form"

// Pass tracks which controls were emitted during one render call.
type Pass struct {
	rendered map[*form.Control]struct{}
	order    []*form.Control
}

// NewPass starts an empty pass.
func NewPass() *Pass {
	return &Pass{rendered: make(map[*form.Control]struct{})}
}

// Rendered reports whether the control was already emitted.
func (p *Pass) Rendered(control *form.Control) bool {
	if p == nil {
		return false
	}
	_, ok := p.rendered[control]
	return ok
}

// MarkRendered records an emitted control.
func (p *Pass) MarkRendered(control *form.Control) {
	if p == nil || control == nil {
		return
	}
	if _, ok := p.rendered[control]; ok {
		return
	}
	p.rendered[control] = struct{}{}
	p.order = append(p.order, control)
}

// Order returns the controls in emission order.
func (p *Pass) Order() []*form.Control {
	if p == nil {
		return nil
	}
	return append([]*form.Control(nil), p.order...)
}

// Len returns the number of emitted controls.
func (p *Pass) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}
