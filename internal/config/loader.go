package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/example/doodlegate/internal/theme"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set from the command line or at compile time
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}
	return LoadFile(path)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".doodlegaterc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".config", "doodlegate")
	for _, name := range []string{"config.rc", "config.toml", "config.yaml", "config.yml", "doodlegate.rc"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile reads path, choosing the format from its extension: .toml,
// .yaml/.yml, anything else is RC.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = decodeStructured(func(v any) error {
			_, err := toml.Decode(string(data), v)
			return err
		})
	case ".yaml", ".yml":
		cfg, err = decodeStructured(func(v any) error { return yaml.Unmarshal(data, v) })
	default:
		cfg, err = Parse(strings.NewReader(string(data)))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// fileConfig mirrors Config for the structured formats.
type fileConfig struct {
	Theme          string                       `toml:"theme" yaml:"theme"`
	SaveDir        string                       `toml:"save_dir" yaml:"save_dir"`
	BaseImage      string                       `toml:"base_image" yaml:"base_image"`
	FilenamePrefix string                       `toml:"filename_prefix" yaml:"filename_prefix"`
	SurfaceSize    int                          `toml:"surface_size" yaml:"surface_size"`
	Brush          *Brush                       `toml:"brush" yaml:"brush"`
	Notify         Notify                       `toml:"notify" yaml:"notify"`
	Share          Share                        `toml:"share" yaml:"share"`
	Themes         map[string]map[string]string `toml:"themes" yaml:"themes"`
}

func decodeStructured(decode func(any) error) (*Config, error) {
	var fc fileConfig
	if err := decode(&fc); err != nil {
		return nil, err
	}
	cfg := New()
	cfg.Theme = fc.Theme
	cfg.SaveDir = fc.SaveDir
	cfg.BaseImage = fc.BaseImage
	cfg.FilenamePrefix = fc.FilenamePrefix
	cfg.SurfaceSize = fc.SurfaceSize
	if fc.Brush != nil {
		if fc.Brush.Color != "" {
			cfg.Brush.Color = fc.Brush.Color
		}
		if fc.Brush.Thickness != 0 {
			cfg.Brush.Thickness = fc.Brush.Thickness
		}
	}
	cfg.Notify = fc.Notify
	cfg.Share = fc.Share
	for name, fields := range fc.Themes {
		t := theme.Default()
		t.Name = name
		for k, v := range fields {
			if err := t.Set(k, v); err != nil {
				return nil, fmt.Errorf("theme %s: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return cfg, nil
}
