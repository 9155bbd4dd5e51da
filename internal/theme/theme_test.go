package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Test\n# comment\nbackground: #102030\nAccent: #11223380\nUnknown: #000000\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 0xFF}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.Accent.A != 0x80 {
		t.Errorf("Accent alpha = %d", th.Accent.A)
	}
	if th.Foreground != Default().Foreground {
		t.Errorf("unset fields should keep defaults")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #12\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no embedded themes")
	}
	l := &Loader{}
	for _, n := range names {
		th, err := l.Load(n)
		if err != nil {
			t.Fatalf("load %s: %v", n, err)
		}
		if th.Name == "" {
			t.Errorf("theme %s has no name", n)
		}
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"inline": {Name: "Inline"}}}

	th, err := l.Load("mine")
	if err != nil || th.Name != "Mine" {
		t.Fatalf("config dir theme: %v %+v", err, th)
	}
	th, err = l.Load("inline")
	if err != nil || th.Name != "Inline" {
		t.Fatalf("custom theme: %v %+v", err, th)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected missing theme error")
	}
	if th, _ := l.Load(""); th.Name != "Default" {
		t.Fatalf("empty name should give default, got %q", th.Name)
	}
}

func TestFieldsListsColours(t *testing.T) {
	fields := Default().Fields()
	if len(fields) != 14 || fields[0].Name != "Background" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}
