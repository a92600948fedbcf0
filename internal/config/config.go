// Package config loads QPaint settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"QPaint/internal/state"
)

// Config is the on-disk configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Brush  BrushConfig  `toml:"brush"`
	Share  ShareConfig  `toml:"share"`
	Log    LogConfig    `toml:"log"`
}

// CanvasConfig is the fixed logical page every export writes.
type CanvasConfig struct {
	Width      int         `toml:"width"`
	Height     int         `toml:"height"`
	Background state.Color `toml:"background"`
}

// BrushConfig holds the pen and view values a new session starts with.
type BrushConfig struct {
	Color     state.Color `toml:"color"`
	Thickness int         `toml:"thickness"`
	Zoom      float64     `toml:"zoom"`
}

// ShareConfig controls the live share server.
type ShareConfig struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	brush := state.DefaultSettings()
	return &Config{
		Canvas: CanvasConfig{Width: 800, Height: 600, Background: state.White},
		Brush:  BrushConfig{Color: brush.Color, Thickness: brush.Thickness, Zoom: brush.Zoom},
		Share:  ShareConfig{Enabled: false, Port: 8888, Advertise: true},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Dir is the per-user QPaint directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qpaint"
	}
	return filepath.Join(home, ".qpaint")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads configuration from path, or from ConfigPath when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode TOML: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close config file: %w", err)
	}
	return nil
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Brush.Thickness < state.MinThickness || c.Brush.Thickness > state.MaxThickness {
		errs = append(errs, fmt.Errorf("brush thickness must be in [%d, %d], got %d",
			state.MinThickness, state.MaxThickness, c.Brush.Thickness))
	}
	if c.Brush.Zoom < state.MinZoom || c.Brush.Zoom > state.MaxZoom {
		errs = append(errs, fmt.Errorf("brush zoom must be in [%g, %g], got %g",
			state.MinZoom, state.MaxZoom, c.Brush.Zoom))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share port out of range: %d", c.Share.Port))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Settings converts the brush section for a new drawing session.
func (c *Config) Settings() state.Settings {
	return state.Settings{Color: c.Brush.Color, Thickness: c.Brush.Thickness, Zoom: c.Brush.Zoom}
}
