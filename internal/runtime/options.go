package runtime

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjfontaine/salon-intake/internal/storage"
)

// Option is a functional option for configuring an App.
type Option func(*App) error

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

// WithStore uses store instead of opening the configured one. The App
// closes it on Close.
func WithStore(store storage.Store) Option {
	return func(a *App) error {
		if store == nil {
			return fmt.Errorf("store cannot be nil")
		}
		a.store = store
		return nil
	}
}

// WithReapInterval sets how often idle sessions are expired.
func WithReapInterval(d time.Duration) Option {
	return func(a *App) error {
		if d <= 0 {
			return fmt.Errorf("reap interval must be positive")
		}
		a.reapInterval = d
		return nil
	}
}

// WithShutdownTimeout bounds the graceful HTTP shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) error {
		if d <= 0 {
			return fmt.Errorf("shutdown timeout must be positive")
		}
		a.shutdownTimeout = d
		return nil
	}
}

// WithMailjetHTTPClient routes Mailjet calls through client.
func WithMailjetHTTPClient(client *http.Client) Option {
	return func(a *App) error {
		a.mailjetHTTP = client
		return nil
	}
}
