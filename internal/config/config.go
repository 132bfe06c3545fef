package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g. VANTAGE__REDIS__ADDR.
const EnvPrefix = "VANTAGE__"

// SupportedSchema is the config schema_version understood by Load.
const SupportedSchema = "v1"

// Config is the CLI and server configuration.
type Config struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// Output selects how resolve reports are printed.
	Output string `koanf:"output" validate:"oneof=text json markdown"`

	// Scene is the default scene file.
	Scene    string `koanf:"scene"`
	Timeline string `koanf:"timeline"`

	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig points at the recording store. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `koanf:"addr" validate:"omitempty,hostname_port"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db" validate:"gte=0,lte=15"`
	Prefix      string        `koanf:"prefix" validate:"required"`
	LockTimeout time.Duration `koanf:"lock_timeout" validate:"gt=0"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr        string        `koanf:"addr" validate:"required"`
	ReadTimeout time.Duration `koanf:"read_timeout" validate:"gt=0"`
	Metrics     bool          `koanf:"metrics"`
}

var validate = validator.New()

// Load merges YAML (if present) with env-vars
// (prefix `VANTAGE__`, delimiter `__`), applies defaults and validates.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.Output == "" {
		c.Output = "text"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "vantage:"
	}
	if c.Redis.LockTimeout == 0 {
		c.Redis.LockTimeout = 30 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
}
