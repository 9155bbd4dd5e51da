// Package render paints the drawing surface: the base picture, the
// committed strokes and the stroke in progress, always in that order.
package render

import (
	"image"
	"image/color"
	"reflect"
	"sync"

	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/stroke"
)

// Canvas receives paint operations. Implementations decide how to
// rasterise them.
type Canvas interface {
	// DrawBase fills the whole surface with img, stretched to fit.
	DrawBase(img image.Image)
	// StrokePath draws an open polyline with round caps and joins.
	StrokePath(points []geom.Point, c color.RGBA, width float64)
}

// Scene is everything needed to paint one frame.
type Scene struct {
	Size    image.Point
	Base    image.Image
	Strokes []stroke.Stroke
	// Draft is the stroke being drawn, already styled with the live brush.
	Draft *stroke.Stroke
}

// Compositor paints scenes. It keeps the last scaled base image so repeated
// frames only pay for the strokes.
type Compositor struct {
	mu        sync.Mutex
	baseSrc   image.Image
	baseSize  image.Point
	baseCache *image.RGBA
}

// NewCompositor returns an empty compositor.
func NewCompositor() *Compositor { return &Compositor{} }

// Paint sends the scene to cv: base, committed strokes, then the draft.
// Strokes with fewer than two points are skipped.
func (c *Compositor) Paint(cv Canvas, sc Scene) {
	if sc.Base != nil {
		cv.DrawBase(c.scaledBase(sc.Base, sc.Size))
	}
	for _, s := range sc.Strokes {
		if !s.Visible() {
			continue
		}
		cv.StrokePath(s.Points, s.Color, s.Thickness)
	}
	if sc.Draft != nil && sc.Draft.Visible() {
		cv.StrokePath(sc.Draft.Points, sc.Draft.Color, sc.Draft.Thickness)
	}
}

// Live rasterises the scene including the draft.
func (c *Compositor) Live(sc Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: sc.Size})
	c.Paint(NewRasterCanvas(dst), sc)
	return dst
}

// Flatten rasterises the committed state only. It is what export and the
// locked preview show.
func (c *Compositor) Flatten(sc Scene) *image.RGBA {
	sc.Draft = nil
	return c.Live(sc)
}

func (c *Compositor) scaledBase(src image.Image, size image.Point) image.Image {
	if src.Bounds().Size() == size && src.Bounds().Min == (image.Point{}) {
		return src
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.baseCache != nil && sameImage(c.baseSrc, src) && c.baseSize == size {
		return c.baseCache
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	scaleInto(dst, src)
	c.baseSrc = src
	c.baseSize = size
	c.baseCache = dst
	return dst
}

// sameImage reports whether a and b are the same image value. Dynamic types
// that cannot be compared are never considered the same.
func sameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
