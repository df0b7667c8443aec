package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
)

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal sessions. The pipeline
// emission order becomes the prompt order; each button batch becomes one
// choice. Render returns the collected values, not markup.
type Renderer struct {
	mu                sync.Mutex
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	pipelineOpts      []pipeline.Option
	pipeline          *pipeline.Pipeline
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a prompt renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("prompt renderer: unknown output format %q", r.outputFormat)
	}
	r.pipeline = pipeline.New(r.pipelineOpts...)
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "prompt"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render asks for every control in emission order and serializes the
// answers together with the form's hidden fields.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("prompt renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("prompt renderer: form is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	render.ApplyValues(f, opts.Values)
	if len(opts.Errors) > 0 {
		render.ApplyErrorPayload(f, opts.Errors)
	}

	s := &session{
		ctx:       ctx,
		renderer:  r,
		form:      f,
		locale:    render.FormLocale(f, opts),
		onMissing: opts.OnMissing,
		values:    make(map[string]any),
	}
	for _, hidden := range render.NewFormView(f, opts).Hiddens {
		s.values[hidden.Name] = hidden.Value
	}

	run := pipeline.RunOptions{Locale: opts.Locale, OnMissing: opts.OnMissing}
	if opts.PriorGroups != nil {
		run.PriorGroups = pipeline.Names(opts.PriorGroups...)
	}
	if _, err := r.pipeline.Run(f, s, run); err != nil {
		return nil, fmt.Errorf("prompt renderer: %w", err)
	}

	values := s.values
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("prompt renderer: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(r.prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// encodeForm mirrors what a browser submits: lists repeat their key,
// unchecked checkboxes are omitted, checked ones send "1".
func encodeForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(key, item)
			}
		case bool:
			if v {
				out.Set(key, "1")
			}
		case nil:
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func (r *Renderer) prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := values[key]
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		fmt.Fprintf(&b, "%s = %s\n", r.theme.Key.Render(key), r.theme.Value.Render(fmt.Sprint(value)))
	}
	return b.String()
}
