// Package runtime assembles the salon backend from its configuration and
// manages its lifecycle.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tjfontaine/salon-intake/internal/api"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/config"
	"github.com/tjfontaine/salon-intake/internal/export"
	"github.com/tjfontaine/salon-intake/internal/intake"
	"github.com/tjfontaine/salon-intake/internal/mailjet"
	"github.com/tjfontaine/salon-intake/internal/newsletter"
	"github.com/tjfontaine/salon-intake/internal/profile"
	"github.com/tjfontaine/salon-intake/internal/server"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

const (
	DefaultReapInterval    = time.Minute
	DefaultShutdownTimeout = 30 * time.Second
)

// App is the running salon backend: storage, catalogs, sessions and the
// HTTP server.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store      storage.Store
	registry   *catalog.Registry
	watcher    *catalog.Watcher
	intake     *intake.Service
	renderer   *export.Renderer
	newsletter *newsletter.Service
	server     *server.Server

	reapInterval    time.Duration
	shutdownTimeout time.Duration
	mailjetHTTP     *http.Client
}

// New builds every component described by cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	a := &App{
		cfg:             cfg,
		logger:          slog.Default(),
		reapInterval:    DefaultReapInterval,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if a.store == nil {
		store, err := OpenStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	registry, watcher, err := NewRegistry(cfg.Catalog, a.logger)
	if err != nil {
		a.store.Close()
		return nil, err
	}
	a.registry = registry
	a.watcher = watcher

	translator := profile.NewTranslator(profile.WithFallback(cfg.Profile.FallbackLabel))
	a.intake = intake.NewService(registry, a.store, a.logger,
		intake.WithAutoAdvanceDelay(cfg.Flow.AutoAdvanceDelay),
		intake.WithPurgeHiddenAnswers(cfg.Flow.PurgeHiddenAnswers),
		intake.WithSessionTTL(cfg.Flow.SessionTTL),
		intake.WithTranslator(translator),
	)
	a.renderer = export.NewRenderer(registry, translator)
	a.newsletter = a.newNewsletter()

	a.server = server.New(cfg.Server.Port, a.logger,
		server.WithRequestTimeout(cfg.Server.RequestTimeout),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		server.WithServiceName(cfg.Telemetry.ServiceName),
	)
	api.NewHandler(api.Deps{
		Registry:   a.registry,
		Store:      a.store,
		Intake:     a.intake,
		Renderer:   a.renderer,
		Newsletter: a.newsletter,
		Logger:     a.logger,
	}).Register(a.server.Router)

	a.logger.Info("salon backend assembled",
		slog.String("storage", cfg.Storage.Type),
		slog.Bool("catalog_override", watcher != nil),
		slog.Bool("newsletter", a.newsletter.Configured()))

	return a, nil
}

func (a *App) newNewsletter() *newsletter.Service {
	m := a.cfg.Mailjet
	if !m.Configured() {
		a.logger.Warn("mailjet is not configured, newsletter sign-ups will fail")
		return newsletter.NewService(nil, "", a.logger)
	}

	opts := []mailjet.Option{mailjet.WithBaseURL(m.BaseURL), mailjet.WithTimeout(m.Timeout)}
	if a.mailjetHTTP != nil {
		opts = append(opts, mailjet.WithHTTPClient(a.mailjetHTTP))
	}
	client := mailjet.New(m.APIKey, m.APISecret, opts...)
	return newsletter.NewService(client, m.ListID, a.logger)
}

// Handler returns the HTTP handler with every route mounted.
func (a *App) Handler() http.Handler {
	return a.server.Router
}

// Store returns the backing store.
func (a *App) Store() storage.Store {
	return a.store
}

// Run serves HTTP, expires idle sessions and watches the catalog override
// file until ctx is done, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.watcher != nil && a.cfg.Catalog.Watch {
		if err := a.watcher.Watch(ctx, nil); err != nil {
			return fmt.Errorf("watch catalogs: %w", err)
		}
	}

	g.Go(a.server.Start)
	g.Go(func() error {
		return a.intake.RunReaper(ctx, a.reapInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases sessions, the catalog watcher and the store.
func (a *App) Close() error {
	a.intake.Close()

	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close catalog watcher: %w", err))
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
