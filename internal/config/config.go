package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/doodlegate/internal/stroke"
	"github.com/example/doodlegate/internal/theme"
)

// Brush holds the starting brush.
type Brush struct {
	Color     string  `toml:"color" yaml:"color"`
	Thickness float64 `toml:"thickness" yaml:"thickness"`
}

// Notify holds notification settings.
type Notify struct {
	Save   bool `toml:"save" yaml:"save"`
	Copy   bool `toml:"copy" yaml:"copy"`
	Unlock bool `toml:"unlock" yaml:"unlock"`
	Round  bool `toml:"round" yaml:"round"`
}

// Share holds share text settings.
type Share struct {
	Hashtags []string `toml:"hashtags" yaml:"hashtags"`
}

// Config holds the application configuration.
type Config struct {
	Theme          string
	SaveDir        string
	BaseImage      string
	FilenamePrefix string
	SurfaceSize    int
	Brush          Brush
	Notify         Notify
	Share          Share
	Themes         map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // empty falls back to the environment, then the default
		Brush: Brush{
			Color:     stroke.Hex(stroke.DefaultColor),
			Thickness: stroke.DefaultThickness,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// StartBrush resolves the configured brush, falling back to the default
// for anything invalid.
func (c *Config) StartBrush() stroke.Brush {
	b := stroke.DefaultBrush()
	if col, err := stroke.ParseColor(c.Brush.Color); err == nil {
		b.Color = col
	}
	if c.Brush.Thickness > 0 {
		b = b.WithThickness(c.Brush.Thickness)
	}
	return b
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, val string }{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"base_image", c.BaseImage},
		{"filename_prefix", c.FilenamePrefix},
	}
	for _, kv := range root {
		if kv.val != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.val)
		}
	}
	if c.SurfaceSize > 0 {
		fmt.Fprintf(&sb, "surface_size = %d\n", c.SurfaceSize)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Brush.Color)
	fmt.Fprintf(&sb, "thickness = %g\n", c.Brush.Thickness)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "unlock = %v\n", c.Notify.Unlock)
	fmt.Fprintf(&sb, "round = %v\n", c.Notify.Round)
	sb.WriteString("\n")

	if c.Share.Hashtags != nil {
		sb.WriteString("[share]\n")
		fmt.Fprintf(&sb, "hashtags = %s\n", strings.Join(c.Share.Hashtags, ", "))
		sb.WriteString("\n")
	}

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, stroke.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
