package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/block/internal/config"
	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/eval"
	"github.com/vk/block/internal/publish"
	"github.com/vk/block/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	registry  *registry.Registry
	evaluator *eval.Evaluator
	publisher *publish.Publisher
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. The block registry is validated on the way; a
// registry that fails validation is a programming error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.Default()
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "kinds", len(reg.Names()))

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		loader:    loader,
		registry:  reg,
		evaluator: eval.New(),
	}

	if cfg.PublishURL != "" {
		p, err := publish.New(publish.Options{
			URL:                cfg.PublishURL,
			Namespace:          cfg.PublishNamespace,
			Event:              cfg.PublishEvent,
			Timeout:            cfg.PublishTimeout,
			InsecureSkipVerify: cfg.PublishInsecure,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid publish settings: %w", err)
		}
		a.publisher = p
		logger.Debug("Publishing enabled.", "url", cfg.PublishURL, "event", cfg.PublishEvent, "insecure", cfg.PublishInsecure)
	}
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// withLogger attaches the application logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
