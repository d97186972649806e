package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrNotFound is returned by LoadFromPath when the file does not exist
var ErrNotFound = errors.New("config file not found")

const (
	DefaultDebounce  = 150 * time.Millisecond
	DefaultFocusZoom = 2.2
	DefaultMinZoom   = 1.0
	DefaultMaxZoom   = 8.0
	DefaultAddr      = ":8080"
	DefaultLanguage  = "en"
	DefaultLogFile   = "miniatlas.log"
)

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Data    DataSettings   `toml:"data"`
	Search  SearchSettings `toml:"search"`
	Map     MapSettings    `toml:"map"`
	Server  ServerSettings `toml:"server"`
	Log     LogSettings    `toml:"log"`
}

// DataSettings locates the dataset and geometry files. Empty paths select
// the bundled copies.
type DataSettings struct {
	Countries string `toml:"countries"`
	Geometry  string `toml:"geometry"`
}

// SearchSettings tunes search-as-you-type
type SearchSettings struct {
	Debounce Duration `toml:"debounce"`
	Language string   `toml:"language"` // BCP 47 tag used for name collation
}

// MapSettings configures the map viewport
type MapSettings struct {
	FocusZoom float64 `toml:"focus_zoom"`
	MinZoom   float64 `toml:"min_zoom"`
	MaxZoom   float64 `toml:"max_zoom"`
}

// ServerSettings configures the dataset HTTP endpoint
type ServerSettings struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
}

// LogSettings configures structured logging
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // TUI log destination; the server logs to stdout
}

// Duration is a time.Duration that reads and writes as a TOML string ("150ms")
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service rooted at the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "miniatlas", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service bound to an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults when the file
// does not exist yet
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// normalize repairs values a hand-edited file may have broken
func (c *Config) normalize() {
	if c.Search.Debounce.Duration < 0 {
		c.Search.Debounce.Duration = 0
	}
	if c.Search.Language == "" {
		c.Search.Language = DefaultLanguage
	}
	if c.Map.MinZoom <= 0 {
		c.Map.MinZoom = DefaultMinZoom
	}
	if c.Map.MaxZoom < c.Map.MinZoom {
		c.Map.MaxZoom = c.Map.MinZoom
	}
	if c.Map.FocusZoom < c.Map.MinZoom || c.Map.FocusZoom > c.Map.MaxZoom {
		c.Map.FocusZoom = min(max(DefaultFocusZoom, c.Map.MinZoom), c.Map.MaxZoom)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			Debounce: Duration{DefaultDebounce},
			Language: DefaultLanguage,
		},
		Map: MapSettings{
			FocusZoom: DefaultFocusZoom,
			MinZoom:   DefaultMinZoom,
			MaxZoom:   DefaultMaxZoom,
		},
		Server: ServerSettings{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			IdleTimeout:  Duration{120 * time.Second},
		},
		Log: LogSettings{
			Level: "info",
			File:  DefaultLogFile,
		},
	}
}
