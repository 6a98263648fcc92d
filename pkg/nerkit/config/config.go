// Package config loads nerkit settings from a YAML file and NERKIT_*
// environment variables, and builds the lookup tables they point at.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/logging"
)

const envPrefix = "NERKIT"

// Config is the full settings tree
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Data     DataConfig     `mapstructure:"data"`
	Ontology OntologyConfig `mapstructure:"ontology"`
}

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig holds override paths for the embedded tables. Empty means embedded.
type DataConfig struct {
	Units   string `mapstructure:"units"`
	Terms   string `mapstructure:"terms"`
	Domains string `mapstructure:"domains"`
	Schemes string `mapstructure:"schemes"`
}

// OntologyConfig names the ontology sources. Both may be set.
type OntologyConfig struct {
	YAML   string `mapstructure:"yaml"`
	SQLite string `mapstructure:"sqlite"`
}

var defaults = map[string]interface{}{
	"log.level":       "info",
	"log.format":      "console",
	"data.units":      "",
	"data.terms":      "",
	"data.domains":    "",
	"data.schemes":    "",
	"ontology.yaml":   "",
	"ontology.sqlite": "",
}

// newViper registers every key so environment overrides apply even when the
// file does not mention them. NERKIT_LOG_LEVEL maps to log.level.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads the YAML file at path, applies NERKIT_* overrides and defaults,
// and validates the result. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read config file %q: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Loader returns a table loader for the configured paths.
func (c *Config) Loader() *Loader {
	return &Loader{
		UnitsPath:    c.Data.Units,
		TermsPath:    c.Data.Terms,
		DomainsPath:  c.Data.Domains,
		SchemesPath:  c.Data.Schemes,
		OntologyPath: c.Ontology.YAML,
		OntologyDB:   c.Ontology.SQLite,
	}
}
