package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tmdb"
)

// app bundles the services every command works with
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *store.DB
	favStore  *favorites.Store
	favorites *favorites.Facade
	client    *tmdb.Client
	catalog   *catalog.Commands
	queries   *catalog.Queries
	search    *search.Service
}

// loadConfig reads the config and sets up the file logger.
// Logging failures fall back to a discarding logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openApp opens local storage, loads favorites and builds the catalog
// services. The caller must Close the app so pending writes are flushed.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	dir := cfg.Storage.Path
	if ephemeral {
		dir = ""
	}
	db, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	favStore := favorites.NewStore(db,
		favorites.WithKey(cfg.Storage.FavoritesKey),
		favorites.WithLogger(logger),
	)
	favStore.Initialize(ctx)
	facade := favorites.NewFacade(favStore)

	client := newClient(cfg, logger)
	commands := catalog.NewCommands(client, db, catalog.Options{
		Pages:    cfg.Catalog.Pages,
		CacheTTL: cfg.Catalog.CacheTTL,
	}, logger)
	queries := catalog.NewQueries(db)

	logger.Debug("app opened", "storage", db.Path(), "favorites", len(facade.CurrentFavorites()))

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		favStore:  favStore,
		favorites: facade,
		client:    client,
		catalog:   commands,
		queries:   queries,
		search:    search.NewService(commands, queries, facade, logger),
	}, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) *tmdb.Client {
	return tmdb.NewClient(tmdb.Options{
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		APIKey:       strings.TrimSpace(cfg.TMDB.APIKey),
		Language:     cfg.TMDB.Language,
		Timeout:      cfg.TMDB.Timeout,
	}, logger)
}

// Close drains the favorites writer before closing the database
func (a *app) Close() {
	a.favStore.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}
