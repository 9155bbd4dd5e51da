//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"sync"
	"testing"
)

func TestReadWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() { initOnce = sync.Once{}; initErr = nil })

	if _, err := ReadText(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadText: expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadImage: expected errNoDisplay, got %v", err)
	}
}

func TestRequestWithoutServer(t *testing.T) {
	t.Setenv("DISPLAY", ":doodlegate-missing")
	s := &selectionOwner{}
	if _, err := s.request(s.atoms.png); err == nil {
		t.Fatal("expected error without an X server")
	}
}
