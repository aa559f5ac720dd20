// Package common provides shared utilities for command implementations.
package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/goleads/internal/config"
	"github.com/jonesrussell/goleads/internal/crawler"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/logger"
	"github.com/jonesrussell/goleads/internal/renderer"
	"github.com/jonesrussell/goleads/internal/storage"
)

// Flag values bound by the root command before any subcommand runs.
var (
	// CfgFile is the --config flag value.
	CfgFile string

	// Debug is the --debug flag value.
	Debug bool
)

// SessionCoordinator guards one scraping session per mode across every
// command in this process. Crawl commands acquire their session before
// running it and release it when the run ends.
var SessionCoordinator = crawler.NewCoordinator()

// CommandDeps holds common dependencies for all commands.
// Use this instead of context.Value for type-safe dependency injection.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// NewCommandDeps creates CommandDeps by loading config and creating a logger.
// This consolidates the common initialization code across subcommands.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load(CfgFile)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}
	if Debug {
		cfg.App.Debug = true
	}

	log, err := logger.New(cfg.LoggerSettings())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}
	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}
	return deps, nil
}

// OpenStore opens the lead database for one source using the configured path.
func (d CommandDeps) OpenStore(source domain.Source) (*storage.Store, error) {
	path := d.Config.Database.MapsPath
	if source == domain.SourceDirectory {
		path = d.Config.Database.DirectoryPath
	}

	store, err := storage.Open(path, source)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", source, err)
	}
	return store, nil
}

// NewRenderer attaches to the configured remote browser, or launches a local
// one when no remote endpoint is set.
func (d CommandDeps) NewRenderer(ctx context.Context) (renderer.Renderer, error) {
	r, err := renderer.NewChrome(ctx, renderer.Options{
		RemoteURL:   d.Config.Crawler.ChromeURL,
		Headless:    d.Config.Crawler.Headless,
		LoadTimeout: d.Config.Crawler.LoadTimeout,
	}, d.Logger)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return r, nil
}
