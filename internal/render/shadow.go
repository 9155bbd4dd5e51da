package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

// CardOptions styles the framed preview shown while drawing is locked.
type CardOptions struct {
	CornerRadius  float64
	ShadowRadius  int
	ShadowOffset  image.Point
	ShadowOpacity float64
}

// DefaultCardOptions matches the rounded preview of the window shell.
func DefaultCardOptions() CardOptions {
	return CardOptions{
		CornerRadius:  24,
		ShadowRadius:  12,
		ShadowOffset:  image.Pt(0, 8),
		ShadowOpacity: 0.35,
	}
}

// Card is a framed preview. Inset is where the source image's top-left
// corner landed inside Image.
type Card struct {
	Image *image.RGBA
	Inset image.Point
}

// MakeCard rounds the corners of img and puts a soft shadow under it. The
// returned image is larger than img by the shadow's reach.
func MakeCard(img image.Image, opts CardOptions) Card {
	if img == nil || img.Bounds().Empty() {
		return Card{}
	}
	rounded := roundCorners(img, opts.CornerRadius)
	if opts.ShadowOpacity <= 0 {
		return Card{Image: rounded}
	}
	return dropShadow(rounded, opts)
}

func roundCorners(img image.Image, radius float64) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if radius <= 0 {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	dc := gg.NewContextForRGBA(dst)
	dc.DrawRoundedRectangle(0, 0, float64(b.Dx()), float64(b.Dy()), radius)
	dc.Clip()
	dc.DrawImage(toRGBA(img), 0, 0)
	return dst
}

func dropShadow(img *image.RGBA, opts CardOptions) Card {
	reach := opts.ShadowRadius
	if reach < 0 {
		reach = 0
	}
	opacity := opts.ShadowOpacity
	if opacity > 1 {
		opacity = 1
	}
	src := img.Bounds()
	shadowRect := src.Inset(-reach).Add(opts.ShadowOffset)
	all := src.Union(shadowRect)
	inset := src.Min.Sub(all.Min)

	alpha := image.NewAlpha(image.Rect(0, 0, all.Dx(), all.Dy()))
	at := src.Add(inset).Add(opts.ShadowOffset)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			alpha.SetAlpha(at.Min.X+x-src.Min.X, at.Min.Y+y-src.Min.Y, color.Alpha{A: uint8(float64(a) * opacity)})
		}
	}
	boxBlur(alpha, reach)

	out := image.NewRGBA(alpha.Bounds())
	draw.DrawMask(out, out.Bounds(), image.Black, image.Point{}, alpha, image.Point{}, draw.Over)
	draw.Draw(out, src.Add(inset), img, src.Min, draw.Over)
	return Card{Image: out, Inset: inset}
}

// boxBlur runs a horizontal then a vertical running-sum blur in place.
func boxBlur(m *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	line := make([]uint8, max(w, h))
	pass := func(n int, get func(i int) uint8, set func(i int, v uint8)) {
		for i := 0; i < n; i++ {
			line[i] = get(i)
		}
		sum := 0
		for i := -radius; i <= radius; i++ {
			if i >= 0 && i < n {
				sum += int(line[i])
			}
		}
		window := 2*radius + 1
		for i := 0; i < n; i++ {
			set(i, uint8(sum/window))
			if out := i - radius; out >= 0 {
				sum -= int(line[out])
			}
			if in := i + radius + 1; in < n {
				sum += int(line[in])
			}
		}
	}
	for y := 0; y < h; y++ {
		row := y * m.Stride
		pass(w, func(i int) uint8 { return m.Pix[row+i] }, func(i int, v uint8) { m.Pix[row+i] = v })
	}
	for x := 0; x < w; x++ {
		pass(h, func(i int) uint8 { return m.Pix[i*m.Stride+x] }, func(i int, v uint8) { m.Pix[i*m.Stride+x] = v })
	}
}
