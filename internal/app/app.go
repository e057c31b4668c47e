package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/kindgen/internal/ctxlog"
	"github.com/specialistvlad/kindgen/internal/manifest"
	"github.com/specialistvlad/kindgen/internal/model"
)

// App encapsulates the generator's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	model  *model.Model
}

// NewApp is the constructor for the main application. It loads every
// manifest, validates the merged model, and returns a fully initialized App
// with its own isolated logger.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	m, err := manifest.NewLoader().Load(ctx, cfg.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	logger.Debug("Manifests loaded and translated into the unified model.",
		"families", len(m.Families), "contracts", len(m.World.Names()))

	if err := m.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Model validation passed.")

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		model:  m,
	}, nil
}

// Model returns the loaded manifest model. This is primarily for testing and
// the list command.
func (a *App) Model() *model.Model {
	return a.model
}
