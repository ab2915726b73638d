package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/spf13/viper"
)

// View modes for movie grids
const (
	ViewGrid = "grid"
	ViewList = "list"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File the config was read from ("" when running on defaults)
	File string `mapstructure:"-"`
}

// TMDBConfig holds catalog API configuration
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Language     string        `mapstructure:"language"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CatalogConfig holds listing behavior
type CatalogConfig struct {
	DefaultCategory string        `mapstructure:"default_category"`
	Pages           int           `mapstructure:"pages"`     // Pages fetched per listing
	CacheTTL        time.Duration `mapstructure:"cache_ttl"` // How long a cached listing is fresh
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Path         string `mapstructure:"path"` // Directory holding reel.db ("" = memory only)
	FavoritesKey string `mapstructure:"favorites_key"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultView string `mapstructure:"default_view"`
	GridColumns int    `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "en-US",
			Timeout:      30 * time.Second,
		},
		Catalog: CatalogConfig{
			DefaultCategory: string(domain.CategoryPopular),
			Pages:           1,
			CacheTTL:        30 * time.Minute,
		},
		Storage: StorageConfig{
			Path:         defaultDataPath(),
			FavoritesKey: "@favorites",
		},
		UI: UIConfig{
			DefaultView: ViewGrid,
			GridColumns: 4,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "reel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// DefaultConfigFile is where SaveConfig writes when no file was loaded
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variable overrides: REEL_TMDB_API_KEY, REEL_UI_DEFAULT_VIEW, ...
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal
	v.SetDefault("tmdb.api_key", defaults.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", defaults.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", defaults.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", defaults.TMDB.Language)
	v.SetDefault("tmdb.timeout", defaults.TMDB.Timeout)
	v.SetDefault("catalog.default_category", defaults.Catalog.DefaultCategory)
	v.SetDefault("catalog.pages", defaults.Catalog.Pages)
	v.SetDefault("catalog.cache_ttl", defaults.Catalog.CacheTTL)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.favorites_key", defaults.Storage.FavoritesKey)
	v.SetDefault("ui.default_view", defaults.UI.DefaultView)
	v.SetDefault("ui.grid_columns", defaults.UI.GridColumns)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)
	return v
}

// LoadConfig loads configuration from file and environment.
// An empty path searches the OS config directory and the working directory;
// a missing file there is not an error. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	v := newViper(DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg back to the file it was loaded from, or to the
// default location when it came from defaults.
func SaveConfig(cfg *Config) error {
	configFile := cfg.File
	if configFile == "" {
		configFile = DefaultConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("tmdb.api_key", cfg.TMDB.APIKey)
	v.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	v.Set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.Set("tmdb.language", cfg.TMDB.Language)
	v.Set("tmdb.timeout", cfg.TMDB.Timeout.String())

	v.Set("catalog.default_category", cfg.Catalog.DefaultCategory)
	v.Set("catalog.pages", cfg.Catalog.Pages)
	v.Set("catalog.cache_ttl", cfg.Catalog.CacheTTL.String())

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.favorites_key", cfg.Storage.FavoritesKey)

	v.Set("ui.default_view", cfg.UI.DefaultView)
	v.Set("ui.grid_columns", cfg.UI.GridColumns)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	cfg.File = configFile
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// Validate rejects values the rest of the application cannot work with
func (c *Config) Validate() error {
	if _, ok := domain.ParseCategory(c.Catalog.DefaultCategory); !ok {
		return fmt.Errorf("invalid catalog.default_category %q", c.Catalog.DefaultCategory)
	}
	if c.Catalog.Pages < 1 {
		return fmt.Errorf("catalog.pages must be at least 1, got %d", c.Catalog.Pages)
	}
	switch c.UI.DefaultView {
	case ViewGrid, ViewList:
	default:
		return fmt.Errorf("invalid ui.default_view %q (want %q or %q)", c.UI.DefaultView, ViewGrid, ViewList)
	}
	if c.UI.GridColumns < 1 {
		return fmt.Errorf("ui.grid_columns must be at least 1, got %d", c.UI.GridColumns)
	}
	if c.Storage.FavoritesKey == "" {
		return errors.New("storage.favorites_key must not be empty")
	}
	return nil
}

// DefaultCategory returns the configured starting category
func (c *Config) DefaultCategory() domain.Category {
	cat, _ := domain.ParseCategory(c.Catalog.DefaultCategory)
	return cat
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
