package engine

import (
	"image"
	"image/color"

	"github.com/example/doodlegate/internal/input"
)

// Event is anything Dispatch accepts.
type Event interface {
	isEvent()
}

// Click is a click on the locked preview.
type Click struct{}

// PointerDown starts a stroke at a display position.
type PointerDown struct{ Raw input.Raw }

// PointerMove extends the stroke in progress.
type PointerMove struct{ Raw input.Raw }

// PointerUp finishes the stroke in progress.
type PointerUp struct{}

// PointerLeave is the pointer leaving the surface. It finishes the stroke
// like PointerUp.
type PointerLeave struct{}

// SetColor changes the live brush colour.
type SetColor struct{ Color color.RGBA }

// SetThickness changes the live brush width. Out of range values are
// clamped.
type SetThickness struct{ Value float64 }

// Undo removes the newest stroke of the running session.
type Undo struct{}

// ClearAll drops every stroke.
type ClearAll struct{}

// SetViewport tells the engine where the surface is displayed.
type SetViewport struct{ Viewport input.Viewport }

// SetBase replaces the base picture. A nil image makes the surface
// unavailable.
type SetBase struct{ Image image.Image }

// sessionExpired is delivered by the scheduler when the post-session delay
// runs out.
type sessionExpired struct{ gen uint64 }

func (Click) isEvent()          {}
func (PointerDown) isEvent()    {}
func (PointerMove) isEvent()    {}
func (PointerUp) isEvent()      {}
func (PointerLeave) isEvent()   {}
func (SetColor) isEvent()       {}
func (SetThickness) isEvent()   {}
func (Undo) isEvent()           {}
func (ClearAll) isEvent()       {}
func (SetViewport) isEvent()    {}
func (SetBase) isEvent()        {}
func (sessionExpired) isEvent() {}
