package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/example/doodlegate/internal/geom"
)

// RasterCanvas paints into an RGBA image using gg.
type RasterCanvas struct {
	dst *image.RGBA
	dc  *gg.Context
}

// NewRasterCanvas wraps dst. dst must start at the origin.
func NewRasterCanvas(dst *image.RGBA) *RasterCanvas {
	return &RasterCanvas{dst: dst, dc: gg.NewContextForRGBA(dst)}
}

// DrawBase copies img over the whole canvas, scaling when sizes differ.
func (r *RasterCanvas) DrawBase(img image.Image) {
	b := r.dst.Bounds()
	if img.Bounds().Size() == b.Size() {
		draw.Draw(r.dst, b, img, img.Bounds().Min, draw.Src)
		return
	}
	scaleInto(r.dst, img)
}

// StrokePath draws points as one path.
func (r *RasterCanvas) StrokePath(points []geom.Point, c color.RGBA, width float64) {
	if len(points) < 2 {
		return
	}
	dc := r.dc
	dc.Push()
	defer dc.Pop()
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.NewSubPath()
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// Image returns the destination image.
func (r *RasterCanvas) Image() *image.RGBA { return r.dst }

func scaleInto(dst *image.RGBA, src image.Image) {
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}
