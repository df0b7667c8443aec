package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors aggregates every invalid setting found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidRenderers lists the renderer names the CLI can build.
func ValidRenderers() []string {
	return []string{"bootstrap", "templated", "prompt"}
}

// ValidLogLevels lists the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate returns every invalid setting.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidRenderers(), c.Renderer) {
		errs = append(errs, ValidationError{
			Field:   "renderer",
			Value:   c.Renderer,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidRenderers(), ", ")),
		})
	}

	if c.DefinitionsDir == "" {
		errs = append(errs, ValidationError{
			Field:   "definitions_dir",
			Value:   c.DefinitionsDir,
			Message: "must not be empty",
		})
	}

	for _, name := range c.PriorGroups {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   "prior_groups",
				Value:   c.PriorGroups,
				Message: "group names must not be empty",
			})
			break
		}
	}

	if c.Theme.Variant != "" && c.Theme.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "theme.variant",
			Value:   c.Theme.Variant,
			Message: "requires theme.name",
		})
	}
	if c.Theme.Name != "" && c.Theme.Manifest == "" {
		errs = append(errs, ValidationError{
			Field:   "theme.manifest",
			Value:   c.Theme.Manifest,
			Message: "required when theme.name is set",
		})
	}

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	} else if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must be host:port",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
