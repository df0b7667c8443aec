package prompt

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formrender/pkg/render/pipeline"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a styled name/value summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme styles the informational lines and the pretty output.
type Theme struct {
	Title lipgloss.Style
	Group lipgloss.Style
	Error lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
}

// DefaultTheme is used unless WithTheme is given.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().Bold(true).Underline(true),
		Group: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Key:   lipgloss.NewStyle().Bold(true),
		Value: lipgloss.NewStyle(),
	}
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the prompt renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithPriorGroups asks the named groups first.
func WithPriorGroups(refs ...pipeline.GroupRef) Option {
	return func(r *Renderer) {
		r.pipelineOpts = append(r.pipelineOpts, pipeline.WithPriorGroups(refs...))
	}
}

// WithFieldErrorsGlobally repeats control errors in the form error summary.
func WithFieldErrorsGlobally(enabled bool) Option {
	return func(r *Renderer) {
		r.pipelineOpts = append(r.pipelineOpts, pipeline.WithFieldErrorsGlobally(enabled))
	}
}

// WithMaxAttempts bounds how often an invalid answer is asked again.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.pipelineOpts = append(r.pipelineOpts, pipeline.WithLogger(logger))
		}
	}
}
