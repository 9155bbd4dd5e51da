package appstate

import (
	"image"
	"math"

	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/stroke"
)

const (
	statusHeight = 28
	hintHeight   = 22
	panelWidth   = 140
	pad          = 8
	swatchSize   = 20
	swatchCols   = 6
	hueHeight    = 14
	sliderHeight = 18
	presetHeight = 22
	buttonHeight = 26
)

// layout is where every part of the window goes for one window size.
type layout struct {
	width, height int

	status   image.Rectangle
	progress image.Rectangle
	hint     image.Rectangle
	panel    image.Rectangle
	area     image.Rectangle
	surface  image.Rectangle

	swatches []image.Rectangle
	hue      image.Rectangle
	presets  []image.Rectangle
	slider   image.Rectangle
	buttons  []image.Rectangle
}

// windowSize is the initial window size that shows the surface unscaled.
func windowSize(logical image.Point) image.Point {
	return image.Pt(logical.X+panelWidth+2*pad, logical.Y+statusHeight+hintHeight+2*pad)
}

func computeLayout(width, height int, logical image.Point, swatches, presets, buttons int) layout {
	l := layout{width: width, height: height}
	l.status = image.Rect(0, 0, width, statusHeight)
	l.progress = image.Rect(width/2, 8, width-pad, statusHeight-8)
	l.hint = image.Rect(0, height-hintHeight, width, height)
	l.panel = image.Rect(0, statusHeight, panelWidth, height-hintHeight)
	l.area = image.Rect(panelWidth+pad, statusHeight+pad, width-pad, height-hintHeight-pad)
	l.surface = fitRect(logical, l.area)

	y := l.panel.Min.Y + pad
	x0 := l.panel.Min.X + pad
	for i := 0; i < swatches; i++ {
		col, row := i%swatchCols, i/swatchCols
		x := x0 + col*swatchSize
		top := y + row*swatchSize
		l.swatches = append(l.swatches, image.Rect(x+1, top+1, x+swatchSize-1, top+swatchSize-1))
	}
	y += ((swatches + swatchCols - 1) / swatchCols) * swatchSize
	y += pad
	l.hue = image.Rect(x0, y, l.panel.Max.X-pad, y+hueHeight)
	y = l.hue.Max.Y + pad

	if presets > 0 {
		w := (l.panel.Dx() - 2*pad) / presets
		for i := 0; i < presets; i++ {
			x := x0 + i*w
			l.presets = append(l.presets, image.Rect(x+1, y, x+w-1, y+presetHeight))
		}
		y += presetHeight + pad
	}
	l.slider = image.Rect(x0, y, l.panel.Max.X-pad, y+sliderHeight)
	y = l.slider.Max.Y + 2*pad

	for i := 0; i < buttons; i++ {
		l.buttons = append(l.buttons, image.Rect(x0, y, l.panel.Max.X-pad, y+buttonHeight))
		y += buttonHeight + 4
	}
	return l
}

// fitRect returns the largest rectangle with the aspect ratio of logical
// that fits centred inside area.
func fitRect(logical image.Point, area image.Rectangle) image.Rectangle {
	if logical.X <= 0 || logical.Y <= 0 || area.Empty() {
		return image.Rectangle{}
	}
	zx := float64(area.Dx()) / float64(logical.X)
	zy := float64(area.Dy()) / float64(logical.Y)
	z := math.Min(zx, zy)
	w := int(float64(logical.X) * z)
	h := int(float64(logical.Y) * z)
	x0 := area.Min.X + (area.Dx()-w)/2
	y0 := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// viewport describes where the surface is shown so pointer positions can
// be mapped back to surface pixels.
func (l layout) viewport(logical image.Point) input.Viewport {
	return input.Viewport{
		Origin:    geom.Pt(float64(l.surface.Min.X), float64(l.surface.Min.Y)),
		Displayed: geom.Sz(float64(l.surface.Dx()), float64(l.surface.Dy())),
		Logical:   geom.Sz(float64(logical.X), float64(logical.Y)),
	}
}

func hitIndex(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

func fraction(r image.Rectangle, x int) float64 {
	if r.Dx() <= 1 {
		return 0
	}
	f := float64(x-r.Min.X) / float64(r.Dx()-1)
	return math.Max(0, math.Min(1, f))
}

// hueAt maps a horizontal position on the hue bar to degrees.
func hueAt(r image.Rectangle, x int) float64 {
	return fraction(r, x) * 360
}

// thicknessAt maps a horizontal position on the width slider to a whole
// brush width.
func thicknessAt(r image.Rectangle, x int) float64 {
	v := stroke.MinThickness + fraction(r, x)*(stroke.MaxThickness-stroke.MinThickness)
	return math.Round(v)
}

// sliderX is the inverse of thicknessAt.
func sliderX(r image.Rectangle, thickness float64) int {
	f := (stroke.ClampThickness(thickness) - stroke.MinThickness) / (stroke.MaxThickness - stroke.MinThickness)
	return r.Min.X + int(math.Round(f*float64(r.Dx()-1)))
}
