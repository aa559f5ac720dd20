// Package config provides configuration management for the goleads
// application. It handles loading, validation, and access to configuration
// values from YAML files, a .env file, and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/goleads/internal/crawler"
	"github.com/jonesrussell/goleads/internal/logger"
)

// Default configuration values.
const (
	defaultAppName     = "goleads"
	defaultAppVersion  = "0.1.0"
	defaultEnvironment = "development"
	defaultLogLevel    = "info"
	defaultLogFormat   = "json"

	// DefaultMaxLinks is how many place links a Sequential Mode run collects
	// when no limit is given.
	DefaultMaxLinks = 30
	// MaxLinksLimit is the hard upper bound on collected place links.
	MaxLinksLimit = 500
	// DefaultMaxListings is how many listings a Snapshot Mode run processes
	// when no limit is given.
	DefaultMaxListings = 30
	// MaxListingsLimit is the hard upper bound on processed listings.
	MaxListingsLimit = 200

	defaultLoadTimeout   = 30 * time.Second
	defaultMapsPath      = "maps_leads.db"
	defaultDirectoryPath = "directory_leads.db"
)

// Common configuration errors.
var (
	// ErrConfigInvalid is returned when the configuration is invalid.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigLoadFailed is returned when loading the configuration fails.
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)

// AppConfig holds application-level settings.
type AppConfig struct {
	// Name is the name of the application.
	Name string `yaml:"name"`
	// Version is the version of the application.
	Version string `yaml:"version"`
	// Environment is the application environment (development, staging, production).
	Environment string `yaml:"environment"`
	// Debug indicates whether debug mode is enabled.
	Debug bool `yaml:"debug"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Format selects the encoder (json or console).
	Format string `yaml:"format"`
}

// CrawlerConfig holds crawl pacing and bound settings.
type CrawlerConfig struct {
	// SettleDelay is the wait between page load completion and extraction.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// PageInterval is the minimum interval between page loads.
	PageInterval time.Duration `yaml:"page_interval"`
	// RecordInterval is the minimum interval between Snapshot Mode records.
	RecordInterval time.Duration `yaml:"record_interval"`
	// MaxLinks bounds how many place links a Sequential Mode run collects.
	MaxLinks int `yaml:"max_links"`
	// MaxListings bounds how many listings a Snapshot Mode run processes.
	MaxListings int `yaml:"max_listings"`
	// ChromeURL is a remote DevTools endpoint to attach to. Empty launches a
	// local browser.
	ChromeURL string `yaml:"chrome_url"`
	// Headless launches the local browser without a window.
	Headless bool `yaml:"headless"`
	// LoadTimeout bounds a single page load.
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// ResolveMaxLinks returns the effective Sequential Mode link bound: the
// override when positive, the configured setting otherwise. Overrides are
// held to the same hard limit Validate enforces on configured values.
func (c *CrawlerConfig) ResolveMaxLinks(override int) (int, error) {
	if override <= 0 {
		return c.MaxLinks, nil
	}
	if override > MaxLinksLimit {
		return 0, fmt.Errorf("%w: max_links must be in [0, %d]", ErrConfigInvalid, MaxLinksLimit)
	}
	return override, nil
}

// ResolveMaxListings returns the effective Snapshot Mode listing bound,
// with the same override semantics as ResolveMaxLinks.
func (c *CrawlerConfig) ResolveMaxListings(override int) (int, error) {
	if override <= 0 {
		return c.MaxListings, nil
	}
	if override > MaxListingsLimit {
		return 0, fmt.Errorf("%w: max_listings must be in [0, %d]", ErrConfigInvalid, MaxListingsLimit)
	}
	return override, nil
}

// Pacing converts the crawl settings into a pacing policy.
func (c *CrawlerConfig) Pacing() crawler.Pacing {
	return crawler.Pacing{
		Settle:         c.SettleDelay,
		PageInterval:   c.PageInterval,
		RecordInterval: c.RecordInterval,
	}
}

// LoggerSettings converts the logging section into the logger package's
// configuration. Debug mode forces the debug level and console encoding.
func (c *Config) LoggerSettings() *logger.Config {
	level := logger.Level(c.Logger.Level)
	encoding := c.Logger.Format
	development := c.App.Environment == "development"
	if c.App.Debug {
		level = logger.DebugLevel
		encoding = "console"
	}
	return &logger.Config{
		Level:       level,
		Development: development,
		Encoding:    encoding,
		OutputPaths: []string{"stderr"},
	}
}

// DatabaseConfig holds the per-source database file paths. The two sources
// never share a file.
type DatabaseConfig struct {
	// MapsPath is the SQLite file for maps-sourced records.
	MapsPath string `yaml:"maps_path"`
	// DirectoryPath is the SQLite file for directory-sourced records.
	DirectoryPath string `yaml:"directory_path"`
}

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Logger   LoggerConfig   `yaml:"logger"`
	Crawler  CrawlerConfig  `yaml:"crawler"`
	Database DatabaseConfig `yaml:"database"`
}

// Validate checks the configuration for values the crawl core cannot accept.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("%w: invalid environment: %s", ErrConfigInvalid, c.App.Environment)
	}
	if c.Crawler.MaxLinks < 0 || c.Crawler.MaxLinks > MaxLinksLimit {
		return fmt.Errorf("%w: max_links must be in [0, %d]", ErrConfigInvalid, MaxLinksLimit)
	}
	if c.Crawler.MaxListings < 0 || c.Crawler.MaxListings > MaxListingsLimit {
		return fmt.Errorf("%w: max_listings must be in [0, %d]", ErrConfigInvalid, MaxListingsLimit)
	}
	if c.Database.MapsPath == "" || c.Database.DirectoryPath == "" {
		return fmt.Errorf("%w: database paths must be specified", ErrConfigInvalid)
	}
	if c.Database.MapsPath == c.Database.DirectoryPath {
		return fmt.Errorf("%w: sources must not share a database file", ErrConfigInvalid)
	}
	return nil
}

// Load loads configuration from the given file path, falling back to
// ./config.yaml, then applies environment overrides. A missing config file
// is not an error; every key has a default.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is the common case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	setupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key's default value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", defaultAppName)
	v.SetDefault("app.version", defaultAppVersion)
	v.SetDefault("app.environment", defaultEnvironment)
	v.SetDefault("app.debug", false)

	v.SetDefault("logger.level", defaultLogLevel)
	v.SetDefault("logger.format", defaultLogFormat)

	v.SetDefault("crawler.settle_delay", crawler.DefaultSettleDelay)
	v.SetDefault("crawler.page_interval", crawler.DefaultPageInterval)
	v.SetDefault("crawler.record_interval", crawler.DefaultRecordInterval)
	v.SetDefault("crawler.max_links", DefaultMaxLinks)
	v.SetDefault("crawler.max_listings", DefaultMaxListings)
	v.SetDefault("crawler.chrome_url", "")
	v.SetDefault("crawler.headless", true)
	v.SetDefault("crawler.load_timeout", defaultLoadTimeout)

	v.SetDefault("database.maps_path", defaultMapsPath)
	v.SetDefault("database.directory_path", defaultDirectoryPath)
}

// setupEnv maps keys to GOLEADS_* environment variables, so
// crawler.chrome_url becomes GOLEADS_CRAWLER_CHROME_URL.
func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix("goleads")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// fromViper reads the typed sections out of a loaded Viper instance.
func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Version:     v.GetString("app.version"),
			Environment: v.GetString("app.environment"),
			Debug:       v.GetBool("app.debug"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
		},
		Crawler: CrawlerConfig{
			SettleDelay:    v.GetDuration("crawler.settle_delay"),
			PageInterval:   v.GetDuration("crawler.page_interval"),
			RecordInterval: v.GetDuration("crawler.record_interval"),
			MaxLinks:       v.GetInt("crawler.max_links"),
			MaxListings:    v.GetInt("crawler.max_listings"),
			ChromeURL:      v.GetString("crawler.chrome_url"),
			Headless:       v.GetBool("crawler.headless"),
			LoadTimeout:    v.GetDuration("crawler.load_timeout"),
		},
		Database: DatabaseConfig{
			MapsPath:      v.GetString("database.maps_path"),
			DirectoryPath: v.GetString("database.directory_path"),
		},
	}
}
