package pipeline

import (
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

// Pipeline runs render passes. It remembers the last bound form by identity
// and annotates only when a different form arrives, unless
// RefreshAnnotations is set. Run calls are serialized.
type Pipeline struct {
	mu    sync.Mutex
	cfg   Config
	bound *form.Form
}

// RunOptions override the configuration for a single call.
type RunOptions struct {
	// PriorGroups replaces the configured prior groups when non-nil.
	PriorGroups []GroupRef
	// Locale overrides the form locale.
	Locale string
	// OnMissing replaces the configured missing translation handler.
	OnMissing render.MissingTranslationHandler
}

// New constructs a pipeline.
func New(options ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Pipeline{cfg: cfg}
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config {
	cfg := p.cfg
	cfg.PriorGroups = append([]GroupRef(nil), p.cfg.PriorGroups...)
	return cfg
}

// Bound returns the form the pipeline is currently bound to.
func (p *Pipeline) Bound() *form.Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bound
}

// Run renders f into sink. Group resolution happens before the first unit,
// so a *ConfigError leaves the sink untouched. The returned Pass lists every
// control emitted during the call.
func (p *Pipeline) Run(f *form.Form, sink Sink, opts RunOptions) (*Pass, error) {
	if f == nil {
		return nil, errors.New("pipeline: form is required")
	}
	if sink == nil {
		return nil, errors.New("pipeline: sink is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	locale := f.Locale
	if opts.Locale != "" {
		locale = opts.Locale
	}
	onMissing := p.cfg.OnMissing
	if opts.OnMissing != nil {
		onMissing = opts.OnMissing
	}
	prior := p.cfg.PriorGroups
	if opts.PriorGroups != nil {
		prior = opts.PriorGroups
	}

	cfg := p.cfg
	cfg.OnMissing = onMissing
	p.bind(f, locale, cfg)

	pass := NewPass()
	groups, err := ResolveGroups(f, prior, pass, locale, onMissing)
	if err != nil {
		return nil, err
	}
	formErrors := CollectErrors(f, p.cfg.FieldErrorsGlobally, locale, onMissing)

	d := &driver{form: f, pass: pass, sink: sink}
	if err := d.run(formErrors, groups); err != nil {
		return pass, err
	}

	p.cfg.Logger.Debug("form rendered",
		"form", f.Name,
		"groups", len(groups),
		"controls", pass.Len(),
	)
	return pass, nil
}

func (p *Pipeline) bind(f *form.Form, locale string, cfg Config) {
	if p.bound == f && !cfg.RefreshAnnotations {
		return
	}
	rebound := p.bound != nil && p.bound != f
	p.bound = f
	Annotate(f, locale, cfg)
	p.cfg.Logger.Debug("form annotated", "form", f.Name, "rebound", rebound)
}

// Step summarizes one emitted unit.
type Step struct {
	Kind UnitKind
	// Name is the group or control name. Button steps list every button
	// name separated by commas.
	Name string
}

func (s Step) String() string {
	if s.Name == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Name
}

// Plan runs a pass against f and records the emitted steps without rendering
// anything.
func (p *Pipeline) Plan(f *form.Form, opts RunOptions) ([]Step, error) {
	var steps []Step
	_, err := p.Run(f, SinkFunc(func(unit Unit) error {
		steps = append(steps, stepOf(unit))
		return nil
	}), opts)
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func stepOf(unit Unit) Step {
	step := Step{Kind: unit.Kind}
	switch unit.Kind {
	case UnitGroupBegin, UnitGroupEnd:
		if unit.Group != nil && unit.Group.Group != nil {
			step.Name = unit.Group.Group.Name
		}
	case UnitControl:
		if unit.Control != nil {
			step.Name = unit.Control.Name
		}
	case UnitButtons:
		names := make([]string, 0, len(unit.Buttons))
		for _, button := range unit.Buttons {
			names = append(names, button.Name)
		}
		step.Name = strings.Join(names, ",")
	}
	return step
}
