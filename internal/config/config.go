// Package config resolves chainviz settings from, in increasing precedence:
// built-in defaults, a YAML file, a .env file and CHAINVIZ_* environment
// variables. Command line flags are applied on top by the CLI.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "CHAINVIZ_"

// Config holds all settings.
type Config struct {
	LogLevel string `mapstructure:"log_level" env:"LOG_LEVEL, overwrite"`
	// Tools is the path of the renderer/animator configuration.
	Tools           string       `mapstructure:"tools" env:"TOOLS, overwrite"`
	DPI             int          `mapstructure:"dpi" env:"DPI, overwrite"`
	Iterations      int          `mapstructure:"iterations" env:"ITERATIONS, overwrite"`
	StatesPerSecond float64      `mapstructure:"states_per_second" env:"STATES_PER_SECOND, overwrite"`
	WorkDir         string       `mapstructure:"work_dir" env:"WORK_DIR, overwrite"`
	Redis           RedisConfig  `mapstructure:"redis" env:", prefix=REDIS_"`
	Server          ServerConfig `mapstructure:"server" env:", prefix=SERVER_"`
}

// RedisConfig selects the run store. An empty URL keeps runs in memory.
type RedisConfig struct {
	URL string        `mapstructure:"url" env:"URL, overwrite"`
	TTL time.Duration `mapstructure:"ttl" env:"TTL, overwrite"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" env:"ADDR, overwrite"`
	// StateLimit bounds the state names used as metric labels.
	StateLimit int `mapstructure:"state_limit" env:"STATE_LIMIT, overwrite"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:        "info",
		Tools:           "tools.yaml",
		DPI:             320,
		Iterations:      100,
		StatesPerSecond: 1,
		Server:          ServerConfig{Addr: ":8080", StateLimit: metrics.DefaultStateLimit},
	}
}

type options struct {
	dotenv   string
	lookuper envconfig.Lookuper
}

// Option configures Load.
type Option func(*options)

// WithDotenv reads extra variables from a .env file. A missing file is ignored.
func WithDotenv(path string) Option {
	return func(o *options) {
		o.dotenv = path
	}
}

// WithLookuper replaces the process environment, mainly for tests.
func WithLookuper(l envconfig.Lookuper) Option {
	return func(o *options) {
		o.lookuper = l
	}
}

// Load resolves the configuration. path may be empty or point to a missing
// file, in which case only defaults and the environment apply.
func Load(ctx context.Context, path string, opts ...Option) (Config, error) {
	o := options{lookuper: envconfig.OsLookuper()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	lookuper := o.lookuper
	if o.dotenv != "" {
		vars, err := godotenv.Read(o.dotenv)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read %s: %w", o.dotenv, err)
		}
		if len(vars) > 0 {
			// Real environment wins over .env.
			lookuper = envconfig.MultiLookuper(lookuper, envconfig.MapLookuper(vars))
		}
	}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	})
	if err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}
