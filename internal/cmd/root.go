// Package cmd implements the formrender command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formrender/internal/config"
	"github.com/goliatone/go-formrender/internal/logging"
)

// app carries the state shared by every subcommand once the persistent
// pre-run has loaded the configuration.
type app struct {
	viper  *viper.Viper
	cfg    *config.Config
	logger *logging.Logger
}

// Execute runs the formrender command with os.Args.
func Execute() error {
	return NewRootCommand(os.Stdin, os.Stdout).Execute()
}

// NewRootCommand builds the command tree writing results to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formrender",
		Short: "Render form definitions as HTML or terminal prompts",
		Long: `formrender loads declarative form definitions (YAML, JSON, or OpenAPI
request bodies) and renders them through the form rendering pipeline:
prior groups first, then the remaining groups, ungrouped controls, and
batched buttons.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./formrender.yaml)")
	flags.String("definitions", "", "directory holding form definitions")
	flags.StringP("renderer", "r", "", "renderer name: bootstrap, templated, prompt")
	flags.StringSlice("prior-group", nil, "groups rendered first, in order (repeatable or comma separated)")
	flags.String("templates", "", "template directory overriding the renderer's bundled templates")
	flags.String("theme", "", "theme name from the theme manifest")
	flags.String("variant", "", "theme variant")
	flags.String("theme-manifest", "", "theme manifest file")
	flags.String("locale", "", "locale used for translations")
	flags.String("catalog", "", "message catalog file")
	flags.Bool("field-errors-globally", false, "also list control errors in the form error block")
	flags.Bool("errors-at-inputs", true, "render control errors next to the inputs")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRenderCommand(a),
		newPromptCommand(a),
		newServeCommand(a),
		newListCommand(a),
	)
	return root
}

var flagKeys = map[string]string{
	"definitions":           "definitions_dir",
	"renderer":              "renderer",
	"prior-group":           "prior_groups",
	"templates":             "templates_dir",
	"theme":                 "theme.name",
	"variant":               "theme.variant",
	"theme-manifest":        "theme.manifest",
	"locale":                "locale",
	"catalog":               "catalog",
	"field-errors-globally": "field_errors_globally",
	"errors-at-inputs":      "errors_at_inputs",
	"log-level":             "logging.level",
}

func (a *app) init(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	v := config.NewViper(file)
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		if err := v.BindPFlag("server.addr", f); err != nil {
			return err
		}
	}
	if f := cmd.Flags().Lookup("watch"); f != nil {
		if err := v.BindPFlag("server.watch", f); err != nil {
			return err
		}
	}

	if err := config.ReadFile(v, file != ""); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}

	a.viper = v
	a.cfg = cfg
	a.logger = logger
	logger.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"renderer", cfg.Renderer,
		"definitions_dir", cfg.DefinitionsDir,
	)
	return nil
}
