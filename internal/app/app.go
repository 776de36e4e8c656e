package app

import (
	"context"
	"fmt"

	"github.com/khrees2412/contactscout/internal/browser"
	"github.com/khrees2412/contactscout/internal/config"
	"github.com/khrees2412/contactscout/internal/database"
	"github.com/khrees2412/contactscout/internal/logging"
	"github.com/khrees2412/contactscout/internal/pipeline"
	"github.com/khrees2412/contactscout/internal/search"
	"github.com/sirupsen/logrus"
)

// App is the dependency container for the CLI application
type App struct {
	Store  *database.Store
	Config *config.Config
	Logger *logrus.Logger
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &App{
		Store:  store,
		Config: cfg,
		Logger: logging.New(cfg.Debug),
	}, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// BrowserOptions maps the config onto renderer options. backend overrides the
// configured backend when non-empty.
func (a *App) BrowserOptions(backend string) browser.Options {
	if backend == "" {
		backend = a.Config.Browser
	}
	return browser.Options{
		Backend:     backend,
		BrowserType: a.Config.BrowserType,
		Headless:    a.Config.Headless,
		UserAgent:   a.Config.UserAgent,
		BlockImages: a.Config.BlockImages,
		PageTimeout: a.Config.PageTimeout(),
		Logger:      a.Logger,
	}
}

// PipelineOptions maps the config onto run options for keyword
func (a *App) PipelineOptions(keyword string) pipeline.Options {
	return pipeline.Options{
		Keyword:        keyword,
		EmailProviders: a.Config.EmailProviders,
		MaxPages:       a.Config.MaxPages,
		ResultsPerPage: a.Config.ResultsPerPage,
		Concurrency:    a.Config.Concurrency,
		RequestDelay:   a.Config.RequestDelay(),
	}
}

// Engine returns the configured search engine
func (a *App) Engine() (search.Engine, error) {
	return search.ParseEngine(a.Config.SearchEngine)
}
