package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/doodlegate/internal/stroke"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/art
base_image = face.png
filename_prefix = elon
surface_size = 400

[brush]
color = #00FF00
thickness = 12

[notify]
save = true
copy = false
unlock = true

[share]
hashtags = One, Two

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/art" || cfg.BaseImage != "face.png" || cfg.FilenamePrefix != "elon" {
		t.Errorf("unexpected root fields: %+v", cfg)
	}
	if cfg.SurfaceSize != 400 {
		t.Errorf("Expected surface_size 400, got %d", cfg.SurfaceSize)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy || !cfg.Notify.Unlock || cfg.Notify.Round {
		t.Errorf("unexpected notify: %+v", cfg.Notify)
	}
	if got := strings.Join(cfg.Share.Hashtags, "|"); got != "One|Two" {
		t.Errorf("hashtags = %q", got)
	}

	b := cfg.StartBrush()
	if stroke.Hex(b.Color) != "#00FF00" || b.Thickness != 12 {
		t.Errorf("unexpected brush %+v", b)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"surface_size = big\n",
		"[notify]\nsave = maybe\n",
		"[brush]\nthickness = thick\n",
		"[theme.x]\nBackground: #12\n",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestStartBrushFallsBack(t *testing.T) {
	cfg := New()
	cfg.Brush = Brush{Color: "nonsense", Thickness: 80}
	b := cfg.StartBrush()
	if b.Color != stroke.DefaultColor {
		t.Errorf("color should fall back, got %+v", b.Color)
	}
	if b.Thickness != stroke.MaxThickness {
		t.Errorf("thickness should clamp, got %v", b.Thickness)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/art

[brush]
color = #123456
thickness = 3

[notify]
save = true
copy = false
round = true

[share]
hashtags = A, B

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	generated := cfg.String()
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if strings.Join(cfg.Share.Hashtags, ",") != strings.Join(cfg2.Share.Hashtags, ",") {
		t.Errorf("Hashtags mismatch: %v vs %v", cfg.Share.Hashtags, cfg2.Share.Hashtags)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
theme = "dark"
filename_prefix = "art"

[brush]
color = "hot-pink"

[notify]
copy = true

[share]
hashtags = ["X"]

[themes.neon]
Accent = "#00FF00"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Theme != "dark" || cfg.FilenamePrefix != "art" || !cfg.Notify.Copy {
		t.Errorf("unexpected config %+v", cfg)
	}
	if stroke.Hex(cfg.StartBrush().Color) != "#FF69B4" {
		t.Errorf("brush color = %s", stroke.Hex(cfg.StartBrush().Color))
	}
	if cfg.Brush.Thickness != stroke.DefaultThickness {
		t.Errorf("unset thickness should keep default, got %v", cfg.Brush.Thickness)
	}
	if th := cfg.Themes["neon"]; th == nil || stroke.Hex(th.Accent) != "#00FF00" {
		t.Errorf("neon theme not loaded: %+v", th)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
save_dir: /srv/art
surface_size: 256
brush:
  thickness: 9
notify:
  unlock: true
themes:
  soft:
    Background: "#EEEEEE"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.SaveDir != "/srv/art" || cfg.SurfaceSize != 256 || !cfg.Notify.Unlock {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Brush.Thickness != 9 || cfg.Brush.Color != "#FF6B9D" {
		t.Errorf("unexpected brush %+v", cfg.Brush)
	}
	if th := cfg.Themes["soft"]; th == nil || th.Background.R != 0xEE {
		t.Errorf("soft theme not loaded: %+v", th)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	path := writeFile(t, "custom.rc", "theme = candy\n")
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader("v1", path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "candy" {
		t.Errorf("theme = %q", cfg.Theme)
	}

	cfg, err = NewLoader("v1", filepath.Join(t.TempDir(), "missing.rc")).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "" {
		t.Errorf("expected defaults, got theme %q", cfg.Theme)
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, "config.rc", "theme = light\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 8)
	ready := make(chan struct{})
	go func() {
		close(ready)
		_ = Watch(ctx, path, func(c *Config, err error) {
			if err == nil && c != nil {
				got <- c.Theme
			}
		})
	}()
	<-ready

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case theme := <-got:
			if theme == "dark" {
				return
			}
		case <-tick.C:
			// The watcher may not be registered on the first write.
			if err := os.WriteFile(path, []byte("theme = dark\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
