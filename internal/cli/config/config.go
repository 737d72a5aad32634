// Package config loads the sqltrail command line configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mickamy/sqltrail"
)

const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"

	OutputTable = "table"
	OutputJSON  = "json"

	EnvPrefix = "SQLTRAIL_"
)

var defaultFiles = []string{"sqltrail.yaml", "sqltrail.yml"}

// Config is the resolved command line configuration.
type Config struct {
	Driver      string `koanf:"driver"`
	DSN         string `koanf:"dsn"`
	Dialect     string `koanf:"dialect"`
	Table       string `koanf:"table"`
	Operator    string `koanf:"operator"`
	TimeZone    string `koanf:"time_zone"`
	InitCommand string `koanf:"init_command"`
	LogLevel    string `koanf:"log_level"`
	Output      string `koanf:"output"`
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"driver":    DriverPgx,
		"table":     sqltrail.DefaultTable,
		"log_level": "info",
		"output":    OutputTable,
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// SQLTRAIL_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverPgx, DriverSQLite:
	default:
		return fmt.Errorf("unsupported driver %q (want %s or %s)", c.Driver, DriverPgx, DriverSQLite)
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unsupported output %q (want %s or %s)", c.Output, OutputTable, OutputJSON)
	}
	if strings.TrimSpace(c.Table) == "" {
		return errors.New("table must not be empty")
	}
	switch sqltrail.Dialect(c.Dialect) {
	case "":
		c.Dialect = string(c.dialectForDriver())
	case sqltrail.DialectPostgres, sqltrail.DialectMySQL, sqltrail.DialectSQLite:
	default:
		return fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
	return nil
}

func (c *Config) dialectForDriver() sqltrail.Dialect {
	if c.Driver == DriverSQLite {
		return sqltrail.DialectSQLite
	}
	return sqltrail.DialectPostgres
}

// HandlerConfig maps the command line configuration onto sqltrail.Config.
func (c *Config) HandlerConfig() sqltrail.Config {
	return sqltrail.Config{
		Operator:    sqltrail.Operator{Name: c.Operator},
		Dialect:     sqltrail.Dialect(c.Dialect),
		TimeZone:    c.TimeZone,
		InitCommand: c.InitCommand,
	}
}
