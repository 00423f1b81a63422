package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hookahlab/gearscout/internal/config"
	"github.com/hookahlab/gearscout/internal/fetcher"
	"github.com/hookahlab/gearscout/internal/recommend"
	"github.com/hookahlab/gearscout/internal/scraper"
	"github.com/hookahlab/gearscout/internal/sites"
	"github.com/hookahlab/gearscout/internal/storage"
	"github.com/hookahlab/gearscout/internal/types"
)

// app holds the wired components shared by all subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.CatalogStore
	fetch   *fetcher.HTTPFetcher
	scraper *scraper.Scraper
	engine  *recommend.Engine
}

// buildApp loads configuration and wires storage, the fetcher, the
// scraper, and the recommendation engine.
func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(&cfg.Logging)

	extra, err := siteConfigs(cfg.Sites)
	if err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	registry, err := sites.NewRegistry(extra...)
	if err != nil {
		return nil, fmt.Errorf("build site registry: %w", err)
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	fetch, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		store.Close(context.Background())
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		fetch:   fetch,
		scraper: scraper.New(registry, fetch, store, &cfg.Scraper, logger),
		engine:  recommend.NewEngine(&catalogProvider{store: store}, logger),
	}, nil
}

func (a *app) close() {
	a.fetch.Close()
	if err := a.store.Close(context.Background()); err != nil {
		a.logger.Warn("storage close failed", "error", err)
	}
}

// buildStore selects the catalog backend from config.
func buildStore(cfg *config.Config, logger *slog.Logger) (storage.CatalogStore, error) {
	switch cfg.Storage.Type {
	case "mongo":
		return storage.NewMongoStore(&cfg.Storage, logger)
	default:
		return storage.NewMemoryStore(logger), nil
	}
}

// siteConfigs converts config-file site entries into registry configs. An
// unknown category key is a configuration error, not a silent skip.
func siteConfigs(entries []config.SiteConfig) ([]sites.Config, error) {
	out := make([]sites.Config, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("site entry missing id")
		}
		if err := config.ValidateURL(e.BaseURL); err != nil {
			return nil, fmt.Errorf("site %q: base_url: %w", e.ID, err)
		}

		categoryURLs := make(map[types.Category]string, len(e.CategoryURLs))
		for key, u := range e.CategoryURLs {
			category := types.Category(key)
			if !category.Valid() {
				return nil, fmt.Errorf("site %q: %w: %q", e.ID, types.ErrUnknownCategory, key)
			}
			categoryURLs[category] = u
		}

		selectorType := e.SelectorType
		if selectorType == "" {
			selectorType = sites.SelectorCSS
		}
		if selectorType != sites.SelectorCSS && selectorType != sites.SelectorXPath {
			return nil, fmt.Errorf("site %q: selector_type must be %q or %q, got %q",
				e.ID, sites.SelectorCSS, sites.SelectorXPath, selectorType)
		}

		out = append(out, sites.Config{
			ID:           e.ID,
			BaseURL:      e.BaseURL,
			ListingURL:   e.ListingURL,
			CategoryURLs: categoryURLs,
			Selectors: sites.Selectors{
				Product: e.Selectors.Product,
				Name:    e.Selectors.Name,
				Price:   e.Selectors.Price,
				Image:   e.Selectors.Image,
				Link:    e.Selectors.Link,
				Rating:  e.Selectors.Rating,
			},
			SelectorType: selectorType,
			DefaultBrand: e.DefaultBrand,
		})
	}
	return out, nil
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// catalogProvider adapts the catalog store to the recommendation engine's
// read surface.
type catalogProvider struct {
	store storage.CatalogStore
}

func (p *catalogProvider) UserGear(ctx context.Context, userID string) ([]types.GearLink, error) {
	return p.store.UserGear(ctx, userID)
}

func (p *catalogProvider) AllProducts(ctx context.Context) ([]types.Product, error) {
	return p.store.Products(ctx, storage.ProductFilter{})
}
