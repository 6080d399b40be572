// Package app wires the client's dependency graph: local store, transport,
// remote API client, and the state holders built on top of them.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuvi-2309/Foodie-Finder/internal/api"
	"github.com/yuvi-2309/Foodie-Finder/internal/catalog"
	"github.com/yuvi-2309/Foodie-Finder/internal/config"
	"github.com/yuvi-2309/Foodie-Finder/internal/notify"
	"github.com/yuvi-2309/Foodie-Finder/internal/search"
	"github.com/yuvi-2309/Foodie-Finder/internal/session"
	"github.com/yuvi-2309/Foodie-Finder/internal/store"
	"github.com/yuvi-2309/Foodie-Finder/internal/upload"
	"github.com/yuvi-2309/Foodie-Finder/pkg/httpclient"
	"github.com/yuvi-2309/Foodie-Finder/pkg/tracing"
)

// App owns every long-lived component of the client.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Store    store.Store
	API      *api.Client
	Session  *session.Manager
	Catalog  *catalog.Catalog
	Notifier *notify.Tracker
	Search   *search.Controller
	Uploader *upload.Uploader

	tracingShutdown func(context.Context) error
}

// New builds the dependency graph. nav may be nil when no view layer wants
// forced-logout redirects.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, nav session.Navigator) (*App, error) {
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "foodie-finder",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   1.0,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath, err = store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve state path: %w", err)
		}
	}
	st, err := store.OpenFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	logger.Info("state store opened", slog.String("path", statePath))

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.APITimeout
	base := httpclient.New(httpCfg)
	transport := httpclient.NewCircuitBreakerClient(
		base, httpclient.DefaultCircuitBreakerConfig("foodie-api"), logger)

	apiClient := api.New(cfg.APIBaseURL, transport, st, logger)

	sessionMgr := session.NewManager(apiClient, st, nav, logger)
	cat := catalog.New(apiClient, logger)
	tracker := notify.New(apiClient, st, logger, cfg.NotificationPollInterval)
	controller := search.NewController(ctx, cat, logger, cfg.SearchDebounce)

	uploadTransport := httpclient.NewCircuitBreakerClient(
		base, httpclient.DefaultCircuitBreakerConfig("image-upload"), logger)
	uploader := upload.New(upload.Config{
		URL:    cfg.UploadURL,
		Preset: cfg.UploadPreset,
	}, uploadTransport, logger)

	return &App{
		cfg:             cfg,
		logger:          logger,
		Store:           st,
		API:             apiClient,
		Session:         sessionMgr,
		Catalog:         cat,
		Notifier:        tracker,
		Search:          controller,
		Uploader:        uploader,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Start restores a persisted session if one exists and begins notification
// polling for authenticated users. A missing or expired session is not an
// error at startup.
func (a *App) Start(ctx context.Context) {
	if err := a.Session.Restore(ctx); err != nil {
		a.logger.InfoContext(ctx, "no session restored", slog.String("reason", err.Error()))
	}
	if a.Session.IsAuthenticated() {
		a.Notifier.Start(ctx)
	}
}

// Shutdown stops background work and flushes tracing.
func (a *App) Shutdown(ctx context.Context) error {
	a.Notifier.Stop()
	a.Search.Close()
	if err := a.tracingShutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracing: %w", err)
	}
	a.logger.InfoContext(ctx, "client shut down")
	return nil
}
