package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	formrender "github.com/goliatone/go-formrender"
	"github.com/goliatone/go-formrender/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve HTML previews of the form definitions",
		Long: `serve exposes the definitions directory over HTTP:

  GET  /healthz
  GET  /forms                 list form names
  GET  /forms/{name}          render (?renderer=, ?prior=a,b, ?locale=)
  POST /forms                 store a posted definition, returns its id
  GET  /previews/{id}         render a posted definition (?form=)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			translator, err := a.translator()
			if err != nil {
				return err
			}
			opts, err := a.registryOptions(translator)
			if err != nil {
				return err
			}
			registry, err := formrender.NewRegistry(append(opts, formrender.WithoutPrompt())...)
			if err != nil {
				return err
			}

			renderer := a.cfg.Renderer
			if renderer == formrender.RendererPrompt {
				renderer = formrender.RendererBootstrap
			}
			srv, err := server.New(server.Config{
				Addr:           a.cfg.Server.Addr,
				DefinitionsDir: a.cfg.DefinitionsDir,
				Watch:          a.cfg.Server.Watch,
				Registry:       registry,
				Renderer:       renderer,
				Locale:         a.cfg.Locale,
				Translator:     translator,
				Logger:         a.logger,
				CSRFField:      a.cfg.CSRFField,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Bool("watch", false, "reload definitions when files change")
	return cmd
}
