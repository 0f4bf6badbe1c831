// Package app provides the application initialization and lifecycle management
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/tildaslashalef/bugsquash/internal/analysis"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/database"
	"github.com/tildaslashalef/bugsquash/internal/git"
	"github.com/tildaslashalef/bugsquash/internal/github"
	"github.com/tildaslashalef/bugsquash/internal/history"
	"github.com/tildaslashalef/bugsquash/internal/llm"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
	"github.com/tildaslashalef/bugsquash/internal/render"
	"github.com/tildaslashalef/bugsquash/internal/server"
	"github.com/urfave/cli/v2"
)

// App represents the application instance with its dependencies
type App struct {
	Config   *config.Config
	Logger   *loggy.Logger
	History  *history.Store
	GitHub   *github.Service
	Git      *git.Service
	Pipeline *pipeline.Service
	Renderer *render.Renderer

	analyzer pipeline.BugAnalyzer
	reviewer pipeline.CodeReviewer
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	// Initialize configuration
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded configuration.
// The database is opened and migrated; a missing LLM credential is not an error.
func NewWithConfig(cfg *config.Config) (*App, error) {
	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	applied, err := database.RunMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if applied > 0 {
		loggy.Info("Applied database migrations", "count", applied)
	}

	app, err := initServices(cfg)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set the global configuration
	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config) (*App, error) {
	logger := loggy.GetGlobalLogger()

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	historyStore := history.NewStore(history.NewSQLSlotRepository(db, cfg.Database.QueryTimeout, logger), cfg.History, logger)

	ghClient, err := github.NewClient(cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	githubService := github.NewService(ghClient, logger)

	renderer, err := render.New(0)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		History:  historyStore,
		GitHub:   githubService,
		Git:      git.NewService(logger),
		Renderer: renderer,
	}

	// Without a credential the analyzer and reviewer stay nil and every
	// request reports ErrMisconfiguredService
	client, err := llm.NewFactory(cfg, logger).GetClient()
	switch {
	case err == nil:
		app.analyzer = analysis.NewAnalyzer(client, cfg.Analysis, logger)
		app.reviewer = analysis.NewReviewer(client, cfg.Analysis, logger)
	case errors.Is(err, llm.ErrNotConfigured):
		loggy.Warn("No LLM API key configured, analysis requests will fail", "provider", cfg.LLM.Provider)
	default:
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	app.Pipeline = app.NewPipeline()
	return app, nil
}

// NewPipeline builds a pipeline over the application's services. Extra
// options are applied after the defaults, so they can replace the tracker.
func (app *App) NewPipeline(opts ...pipeline.Option) *pipeline.Service {
	base := []pipeline.Option{
		pipeline.WithFetcher(app.GitHub),
		pipeline.WithHistory(app.History),
	}
	return pipeline.NewService(app.Config, app.analyzer, app.reviewer, app.Logger, append(base, opts...)...)
}

// NewServer builds the HTTP API over the application's pipeline
func (app *App) NewServer() *server.Server {
	return server.New(app.Config.Server, app.Pipeline, app.History, app.Logger)
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
