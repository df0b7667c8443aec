// Package config loads CLI and preview server settings with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. FORMRENDER_SERVER_ADDR.
	EnvPrefix = "FORMRENDER"
	// FileName is the config file name looked up without extension.
	FileName = "formrender"
)

// Config holds every setting the CLI and server read.
type Config struct {
	Renderer            string   `mapstructure:"renderer"`
	TemplatesDir        string   `mapstructure:"templates_dir"`
	DefinitionsDir      string   `mapstructure:"definitions_dir"`
	PriorGroups         []string `mapstructure:"prior_groups"`
	FieldErrorsGlobally bool     `mapstructure:"field_errors_globally"`
	ErrorsAtInputs      bool     `mapstructure:"errors_at_inputs"`
	Locale              string   `mapstructure:"locale"`
	Catalog             string   `mapstructure:"catalog"`
	// CSRFField names the hidden token input. Empty disables server tokens.
	CSRFField string        `mapstructure:"csrf_field"`
	Theme     ThemeConfig   `mapstructure:"theme"`
	Server    ServerConfig  `mapstructure:"server"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// ThemeConfig selects a theme from a manifest file.
type ThemeConfig struct {
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
	Manifest string `mapstructure:"manifest"`
}

// ServerConfig controls the preview server.
type ServerConfig struct {
	Addr  string `mapstructure:"addr"`
	Watch bool   `mapstructure:"watch"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File is empty for stderr.
	File string `mapstructure:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Renderer:       "bootstrap",
		DefinitionsDir: "forms",
		ErrorsAtInputs: true,
		CSRFField:      "_csrf",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("renderer", defaults.Renderer)
	v.SetDefault("templates_dir", defaults.TemplatesDir)
	v.SetDefault("definitions_dir", defaults.DefinitionsDir)
	v.SetDefault("prior_groups", defaults.PriorGroups)
	v.SetDefault("field_errors_globally", defaults.FieldErrorsGlobally)
	v.SetDefault("errors_at_inputs", defaults.ErrorsAtInputs)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("catalog", defaults.Catalog)
	v.SetDefault("csrf_field", defaults.CSRFField)

	v.SetDefault("theme.name", defaults.Theme.Name)
	v.SetDefault("theme.variant", defaults.Theme.Variant)
	v.SetDefault("theme.manifest", defaults.Theme.Manifest)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.watch", defaults.Server.Watch)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
}

// NewViper returns a viper instance with defaults, env overrides, and the
// config file lookup paths applied. When file is set it is used verbatim.
func NewViper(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/formrender")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the configured file. A missing file is not an error unless
// it was named explicitly.
func ReadFile(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) && !explicit {
		return nil
	}
	return fmt.Errorf("config: read: %w", err)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.PriorGroups = splitList(cfg.PriorGroups)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
