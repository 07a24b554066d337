package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/chainviz"
	"github.com/aretw0/chainviz/internal/config"
	"github.com/aretw0/chainviz/internal/logging"
	"github.com/aretw0/chainviz/pkg/adapters/memory"
	"github.com/aretw0/chainviz/pkg/adapters/process"
	redisAdapter "github.com/aretw0/chainviz/pkg/adapters/redis"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
)

// Options are the global command line settings.
type Options struct {
	ConfigPath string
	DotenvPath string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// Seed makes simulations reproducible when set.
	Seed *uint64
}

// App holds everything a command needs.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Engine  *chainviz.Engine
	Store   ports.RunStore
	Metrics *metrics.Recorder

	closers []func() error
}

// NewApp resolves the configuration and wires the engine.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath, config.WithDotenv(opts.DotenvPath))
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return newApp(cfg, opts.Seed)
}

func newApp(cfg config.Config, seed *uint64) (*App, error) {
	logger, err := createLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	tools, err := process.LoadConfig(cfg.Tools)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewRecorder(metrics.WithStateLimit(cfg.Server.StateLimit)),
	}

	store, closer, err := createStore(cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.Store = store
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	engineOpts := []chainviz.Option{
		chainviz.WithLogger(logger),
		chainviz.WithTools(tools),
		chainviz.WithDPI(cfg.DPI),
		chainviz.WithStore(store),
		chainviz.WithMetrics(app.Metrics),
	}
	if seed != nil {
		engineOpts = append(engineOpts, chainviz.WithSeed(*seed))
	}
	app.Engine = chainviz.New(engineOpts...)
	return app, nil
}

// Close releases the run store connection.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// createLogger writes to stderr so command output on stdout stays clean.
func createLogger(level string) (*slog.Logger, error) {
	if level == "" || level == "off" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// createStore picks Redis when a URL is configured, memory otherwise.
func createStore(cfg config.RedisConfig) (ports.RunStore, func() error, error) {
	if cfg.URL == "" {
		return memory.NewStore(), nil, nil
	}
	var opts []redisAdapter.Option
	if cfg.TTL > 0 {
		opts = append(opts, redisAdapter.WithTTL(cfg.TTL))
	}
	store, err := redisAdapter.NewFromURL(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return store, store.Close, nil
}
