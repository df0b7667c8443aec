package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	formrender "github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/pkg/render"
)

type renderFlags struct {
	form    string
	openapi string
	output  string
	method  string
	values  map[string]string
	plan    bool

	trace     bool
	csrfToken string
	authToken string
	version   string
}

func newRenderCommand(a *app) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form definition",
		Example: `  formrender render --definitions forms --form signup
  formrender render --form signup --renderer templated --prior-group profile
  formrender render --openapi api.yaml --form POST_pets --plan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.form, "form", "f", "", "form name")
	cmd.Flags().StringVar(&flags.openapi, "openapi", "", "build forms from an OpenAPI document instead of the definitions directory")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&flags.method, "method", "", "override the form method (PUT/PATCH/DELETE become POST plus _method)")
	cmd.Flags().StringToStringVar(&flags.values, "value", nil, "prefill a control, name=value (repeatable)")
	cmd.Flags().BoolVar(&flags.plan, "plan", false, "print the emission steps instead of rendering")
	cmd.Flags().BoolVar(&flags.trace, "trace-templates", false, "wrap each template's output in comments naming the template")
	cmd.Flags().StringVar(&flags.csrfToken, "csrf-token", "", "emit a hidden CSRF token input named after csrf_field")
	cmd.Flags().StringVar(&flags.authToken, "auth-token", "", "emit a hidden auth_token input")
	cmd.Flags().StringVar(&flags.version, "record-version", "", "emit a hidden version input for optimistic locking")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, flags renderFlags) error {
	ctx := cmd.Context()

	doc, err := a.loadDocument(ctx, flags.openapi)
	if err != nil {
		return err
	}
	translator, err := a.translator()
	if err != nil {
		return err
	}
	f, err := a.buildForm(doc, flags.form, translator)
	if err != nil {
		return err
	}

	if flags.plan {
		steps, err := formrender.Plan(f, a.cfg.PriorGroups...)
		if err != nil {
			return err
		}
		for _, step := range steps {
			fmt.Fprintln(cmd.OutOrStdout(), step.String())
		}
		return nil
	}

	opts, err := a.registryOptions(translator)
	if err != nil {
		return err
	}
	registry, err := formrender.NewRegistry(append(opts, formrender.WithTemplateTrace(flags.trace))...)
	if err != nil {
		return err
	}
	renderer, err := registry.Get(a.cfg.Renderer)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(flags.values))
	for name, value := range flags.values {
		values[name] = value
	}
	out, err := renderer.Render(ctx, f, render.RenderOptions{
		Method:       flags.method,
		Locale:       a.cfg.Locale,
		Values:       values,
		HiddenFields: a.hiddenFields(flags),
	})
	if err != nil {
		return err
	}
	a.logger.Debug("form rendered", "form", f.Name, "renderer", renderer.Name(), "bytes", len(out))

	if flags.output == "" {
		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(flags.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", flags.output)
	return nil
}

func (a *app) hiddenFields(flags renderFlags) []render.HiddenField {
	var fields []render.HiddenField
	if flags.csrfToken != "" && a.cfg.CSRFField != "" {
		fields = append(fields, render.CSRFToken(a.cfg.CSRFField, flags.csrfToken))
	}
	if flags.authToken != "" {
		fields = append(fields, render.AuthToken("auth_token", flags.authToken))
	}
	if flags.version != "" {
		fields = append(fields, render.VersionField("version", flags.version))
	}
	return fields
}
