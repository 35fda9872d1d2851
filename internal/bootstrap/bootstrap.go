// Package bootstrap wires the outbound adapters and application services for
// the inbound adapters (CLI and MCP server).
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/addonhub/devhub/internal/adapters/outbound/config"
	"github.com/addonhub/devhub/internal/adapters/outbound/store"
	"github.com/addonhub/devhub/internal/application"
	"github.com/addonhub/devhub/internal/domain"
)

// Options tweaks how services are built.
type Options struct {
	// LogOutput receives log lines. Defaults to io.Discard.
	LogOutput io.Writer
	// LogLevel overrides the configured level when set.
	LogLevel string
	// Metrics is reused when set; otherwise a private registry is created.
	Metrics *application.Metrics
}

// Services is an open set of services backed by the project's store.
type Services struct {
	Config      domain.Config
	Logger      *slog.Logger
	Metrics     *application.Metrics
	Validations *application.ValidationService
	Annotations *application.AnnotationService

	store *store.Store
}

// Open loads the project configuration, opens its store and builds the
// services. Callers must Close the result.
func Open(projectPath string, opts Options) (*Services, error) {
	var loader domain.ConfigLoader = config.New()
	cfg, err := loader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	metrics := opts.Metrics
	if metrics == nil {
		metrics = application.NewMetrics(prometheus.NewRegistry())
	}

	st, err := store.Open(config.StorePath(projectPath, cfg))
	if err != nil {
		return nil, err
	}

	return &Services{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics,
		Validations: application.NewValidationService(st, st, cfg, logger, metrics),
		Annotations: application.NewAnnotationService(st, st, logger),
		store:       st,
	}, nil
}

func (s *Services) Close() error {
	return s.store.Close()
}
