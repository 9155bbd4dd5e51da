// Package stroke defines freehand strokes, the brush they are drawn with and
// the recorder that turns pointer gestures into strokes.
package stroke

import (
	"image/color"

	"github.com/example/doodlegate/internal/geom"
)

// Stroke is a committed polyline with its own colour and width.
type Stroke struct {
	Points    []geom.Point
	Color     color.RGBA
	Thickness float64
}

// Visible reports whether the stroke draws anything. A single point has no
// segment and renders nothing.
func (s Stroke) Visible() bool { return len(s.Points) >= 2 }

// Clone returns a deep copy.
func (s Stroke) Clone() Stroke {
	pts := make([]geom.Point, len(s.Points))
	copy(pts, s.Points)
	s.Points = pts
	return s
}
