package input

import "github.com/example/doodlegate/internal/geom"

// Viewport describes where the drawing surface is shown. Origin and
// Displayed are in display coordinates; Logical is the pixel size of the
// surface itself.
type Viewport struct {
	Origin    geom.Point
	Displayed geom.Size
	Logical   geom.Size
}

// Identity returns a viewport that shows a surface of the given size 1:1 at
// the display origin.
func Identity(logical geom.Size) Viewport {
	return Viewport{Displayed: logical, Logical: logical}
}

// Mounted reports whether the surface is currently shown at a usable size.
func (v Viewport) Mounted() bool {
	return !v.Displayed.Empty() && !v.Logical.Empty()
}

// Bounds returns the displayed rectangle.
func (v Viewport) Bounds() geom.Rect {
	return geom.Rect{Min: v.Origin, Size: v.Displayed}
}

// Scale returns the per-axis factor from display to surface units.
func (v Viewport) Scale() (sx, sy float64) {
	return v.Logical.W / v.Displayed.W, v.Logical.H / v.Displayed.H
}

// Map converts a raw event into surface coordinates. Results outside the
// surface are not clamped. An unmounted viewport or a touch event without
// contacts maps to the zero point.
func Map(raw Raw, vp Viewport) geom.Point {
	if !vp.Mounted() {
		return geom.Point{}
	}
	pos, ok := raw.Position()
	if !ok {
		return geom.Point{}
	}
	sx, sy := vp.Scale()
	d := pos.Sub(vp.Origin)
	return geom.Pt(d.X*sx, d.Y*sy)
}

// Unmap converts a surface coordinate back into display space.
func Unmap(p geom.Point, vp Viewport) geom.Point {
	if !vp.Mounted() {
		return vp.Origin
	}
	sx, sy := vp.Scale()
	return geom.Pt(p.X/sx, p.Y/sy).Add(vp.Origin)
}
