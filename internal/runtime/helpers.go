package runtime

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/config"
	"github.com/tjfontaine/salon-intake/internal/storage"
	"github.com/tjfontaine/salon-intake/internal/storage/memory"
	"github.com/tjfontaine/salon-intake/internal/storage/sqlite"
)

// OpenStore opens the store selected by cfg, creating the SQLite
// directory when needed.
func OpenStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite", "":
		path := cfg.SQLite.Path
		if path == "" {
			return nil, fmt.Errorf("storage.sqlite.path is required")
		}
		if isFilePath(path) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		store, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

func isFilePath(path string) bool {
	return path != ":memory:" && !strings.HasPrefix(path, "file:")
}

// NewRegistry seeds a registry with the built-in catalogs and applies the
// override file, if any. The returned watcher is nil without an override.
func NewRegistry(cfg config.CatalogConfig, logger *slog.Logger) (*catalog.Registry, *catalog.Watcher, error) {
	registry := catalog.NewRegistry()
	if cfg.OverrideFile == "" {
		return registry, nil, nil
	}

	watcher, err := catalog.NewWatcher(cfg.OverrideFile, registry, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := watcher.Load(); err != nil {
		return nil, nil, fmt.Errorf("load catalog override: %w", err)
	}
	return registry, watcher, nil
}
