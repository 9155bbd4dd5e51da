package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/fogleman/gg"
)

// DefaultSize is the logical surface size when nothing else is configured.
var DefaultSize = image.Pt(500, 500)

// DefaultBase paints the stand-in portrait used when no base image is
// configured.
func DefaultBase(size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	dc := gg.NewContextForRGBA(dst)
	w, h := float64(size.X), float64(size.Y)

	bg := gg.NewLinearGradient(0, 0, 0, h)
	bg.AddColorStop(0, color.RGBA{0x8E, 0xC5, 0xFC, 0xFF})
	bg.AddColorStop(1, color.RGBA{0xE0, 0xC3, 0xFC, 0xFF})
	dc.SetFillStyle(bg)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	cx, cy := w/2, h*0.48
	r := w * 0.3

	// shoulders
	dc.SetRGB255(0x2D, 0x34, 0x36)
	dc.DrawEllipse(cx, h*1.02, w*0.42, h*0.24)
	dc.Fill()

	// face
	dc.SetRGB255(0xF5, 0xCB, 0xA7)
	dc.DrawEllipse(cx, cy, r*0.86, r)
	dc.Fill()

	// hair
	dc.SetRGB255(0x4B, 0x37, 0x2A)
	dc.DrawArc(cx, cy-r*0.35, r*0.9, gg.Radians(180), gg.Radians(360))
	dc.Fill()

	// eyes
	dc.SetRGB255(0xFF, 0xFF, 0xFF)
	for _, dx := range []float64{-0.33, 0.33} {
		dc.DrawEllipse(cx+dx*r, cy-r*0.08, r*0.16, r*0.11)
	}
	dc.Fill()
	dc.SetRGB255(0x2D, 0x34, 0x36)
	for _, dx := range []float64{-0.33, 0.33} {
		dc.DrawCircle(cx+dx*r, cy-r*0.08, r*0.07)
	}
	dc.Fill()

	// smile
	dc.SetRGB255(0x8B, 0x3A, 0x3A)
	dc.SetLineWidth(w * 0.012)
	dc.SetLineCap(gg.LineCapRound)
	dc.DrawArc(cx, cy+r*0.2, r*0.4, gg.Radians(20), gg.Radians(160))
	dc.Stroke()
	return dst
}

// DecodeBase reads an image in any registered format.
func DecodeBase(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode base image: %w", err)
	}
	return toRGBA(img), nil
}

// LoadBase opens and decodes path.
func LoadBase(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeBase(f)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
