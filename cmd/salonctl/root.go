package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/config"
	"github.com/tjfontaine/salon-intake/internal/profile"
	"github.com/tjfontaine/salon-intake/internal/runtime"
	"github.com/tjfontaine/salon-intake/internal/storage"
)

// NewRootCommand creates the salonctl command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salonctl",
		Short:         "Inspect salon catalogs, clients and diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", "", "path to config file (default "+config.DefaultFile+" if present)")

	cmd.AddCommand(NewCatalogCommand())
	cmd.AddCommand(NewClientsCommand())
	cmd.AddCommand(NewProfileCommand())
	cmd.AddCommand(NewExportCommand())
	return cmd
}

// env is what every data command needs, opened from the config.
type env struct {
	cfg        *config.Config
	store      storage.Store
	registry   *catalog.Registry
	translator *profile.Translator
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	registry, _, err := runtime.NewRegistry(cfg.Catalog, slog.New(slog.DiscardHandler))
	if err != nil {
		return nil, err
	}
	store, err := runtime.OpenStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:        cfg,
		store:      store,
		registry:   registry,
		translator: profile.NewTranslator(profile.WithFallback(cfg.Profile.FallbackLabel)),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}
