package cmd

import (
	"github.com/spf13/cobra"

	formrender "github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/renderers/prompt"
)

func newPromptCommand(a *app) *cobra.Command {
	var (
		formName string
		openapi  string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill a form interactively in the terminal",
		Long: `prompt walks the form in rendering order, asking for every control.
The answers are printed as JSON, form-encoded data, or a styled summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			doc, err := a.loadDocument(ctx, openapi)
			if err != nil {
				return err
			}
			translator, err := a.translator()
			if err != nil {
				return err
			}
			f, err := a.buildForm(doc, formName, translator)
			if err != nil {
				return err
			}

			opts, err := a.registryOptions(translator)
			if err != nil {
				return err
			}
			opts = append(opts,
				formrender.WithPromptOutputFormat(prompt.OutputFormat(format)),
				formrender.WithPromptDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
			)
			registry, err := formrender.NewRegistry(opts...)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(formrender.RendererPrompt)
			if err != nil {
				return err
			}
			out, err := renderer.Render(ctx, f, render.RenderOptions{Locale: a.cfg.Locale})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&formName, "form", "f", "", "form name")
	cmd.Flags().StringVar(&openapi, "openapi", "", "build forms from an OpenAPI document")
	cmd.Flags().StringVar(&format, "format", string(prompt.OutputFormatJSON), "output format: json, form, pretty")
	return cmd
}
