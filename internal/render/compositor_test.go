package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/stroke"
)

type op struct {
	kind   string
	color  color.RGBA
	points []geom.Point
	width  float64
}

type recordingCanvas struct {
	ops []op
}

func (r *recordingCanvas) DrawBase(img image.Image) {
	r.ops = append(r.ops, op{kind: "base"})
}

func (r *recordingCanvas) StrokePath(points []geom.Point, c color.RGBA, width float64) {
	r.ops = append(r.ops, op{kind: "stroke", color: c, points: append([]geom.Point(nil), points...), width: width})
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func seg(c color.RGBA, pts ...geom.Point) stroke.Stroke {
	return stroke.Stroke{Points: pts, Color: c, Thickness: 6}
}

func TestPaintOrder(t *testing.T) {
	draft := seg(green, geom.Pt(0, 0), geom.Pt(5, 5))
	sc := Scene{
		Size: image.Pt(20, 20),
		Base: solid(20, 20, color.RGBA{A: 255}),
		Strokes: []stroke.Stroke{
			seg(red, geom.Pt(1, 1), geom.Pt(2, 2)),
			seg(blue, geom.Pt(3, 3)),
			seg(blue, geom.Pt(3, 3), geom.Pt(4, 4), geom.Pt(5, 4)),
		},
		Draft: &draft,
	}
	var rc recordingCanvas
	NewCompositor().Paint(&rc, sc)
	assert.Equal(t, []op{
		{kind: "base"},
		{kind: "stroke", color: red, points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, width: 6},
		{kind: "stroke", color: blue, points: []geom.Point{{X: 3, Y: 3}, {X: 4, Y: 4}, {X: 5, Y: 4}}, width: 6},
		{kind: "stroke", color: green, points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, width: 6},
	}, rc.ops)
}

func TestPaintPassesStrokeGeometry(t *testing.T) {
	pts := []geom.Point{geom.Pt(10, 10), geom.Pt(20, 20), geom.Pt(30, 10)}
	draft := stroke.Stroke{Points: []geom.Point{geom.Pt(40, 40), geom.Pt(45, 60)}, Color: blue, Thickness: 12}
	sc := Scene{
		Size:    image.Pt(500, 500),
		Base:    solid(500, 500, color.RGBA{255, 255, 255, 255}),
		Strokes: []stroke.Stroke{{Points: pts, Color: red, Thickness: 5}},
		Draft:   &draft,
	}
	var rc recordingCanvas
	NewCompositor().Paint(&rc, sc)
	require.Len(t, rc.ops, 3)
	assert.Equal(t, op{kind: "base"}, rc.ops[0])
	assert.Equal(t, op{kind: "stroke", color: red, points: pts, width: 5}, rc.ops[1])
	assert.Equal(t, op{kind: "stroke", color: blue, points: draft.Points, width: 12}, rc.ops[2])

	img := NewCompositor().Flatten(sc)
	assert.Equal(t, red, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(42, 50))
}

// sliceImage is a non-comparable image.Image.
type sliceImage struct {
	pix []color.RGBA
	w   int
}

func (s sliceImage) ColorModel() color.Model { return color.RGBAModel }
func (s sliceImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.w, len(s.pix)/s.w)
}
func (s sliceImage) At(x, y int) color.Color { return s.pix[y*s.w+x] }

func TestScaledBaseAcceptsNonComparableImages(t *testing.T) {
	pix := make([]color.RGBA, 4*4)
	for i := range pix {
		pix[i] = green
	}
	base := sliceImage{pix: pix, w: 4}
	c := NewCompositor()
	sc := Scene{Size: image.Pt(8, 8), Base: base}
	require.NotPanics(t, func() {
		c.Flatten(sc)
		c.Flatten(sc)
	})
	assert.Equal(t, green, c.Flatten(sc).RGBAAt(4, 4))
}

func TestPaintSkipsSinglePointDraft(t *testing.T) {
	draft := seg(green, geom.Pt(1, 1))
	var rc recordingCanvas
	NewCompositor().Paint(&rc, Scene{Size: image.Pt(4, 4), Draft: &draft})
	assert.Empty(t, rc.ops)
}

func TestLiveMatchesFlattenWithoutDraft(t *testing.T) {
	sc := Scene{
		Size: image.Pt(64, 64),
		Base: DefaultBase(image.Pt(128, 128)),
		Strokes: []stroke.Stroke{
			seg(red, geom.Pt(4, 4), geom.Pt(60, 60)),
			seg(blue, geom.Pt(60, 4), geom.Pt(30, 30), geom.Pt(4, 60)),
		},
	}
	c := NewCompositor()
	live := c.Live(sc)
	flat := c.Flatten(sc)
	require.Equal(t, live.Bounds(), flat.Bounds())
	assert.Equal(t, live.Pix, flat.Pix)

	again := NewCompositor().Flatten(sc)
	assert.Equal(t, flat.Pix, again.Pix, "flatten must be deterministic")
}

func TestFlattenIgnoresDraft(t *testing.T) {
	draft := seg(green, geom.Pt(0, 32), geom.Pt(64, 32))
	sc := Scene{Size: image.Pt(64, 64), Base: solid(64, 64, color.RGBA{255, 255, 255, 255}), Draft: &draft}
	c := NewCompositor()
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Flatten(sc).RGBAAt(32, 32))
	assert.Equal(t, green, c.Live(sc).RGBAAt(32, 32))
}

func TestBaseIsStretchedToFill(t *testing.T) {
	base := solid(10, 40, red)
	img := NewCompositor().Flatten(Scene{Size: image.Pt(50, 50), Base: base})
	for _, p := range []image.Point{{0, 0}, {49, 0}, {0, 49}, {49, 49}, {25, 25}} {
		assert.Equal(t, red, img.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestStrokeUsesItsOwnWidth(t *testing.T) {
	white := solid(40, 40, color.RGBA{255, 255, 255, 255})
	thin := stroke.Stroke{Points: []geom.Point{{X: 0, Y: 20}, {X: 40, Y: 20}}, Color: red, Thickness: 2}
	thick := thin
	thick.Thickness = 16
	c := NewCompositor()
	a := c.Flatten(Scene{Size: image.Pt(40, 40), Base: white, Strokes: []stroke.Stroke{thin}})
	b := c.Flatten(Scene{Size: image.Pt(40, 40), Base: white, Strokes: []stroke.Stroke{thick}})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, a.RGBAAt(20, 26))
	assert.Equal(t, red, b.RGBAAt(20, 26))
}

func TestDefaultBaseIsOpaque(t *testing.T) {
	img := DefaultBase(DefaultSize)
	require.Equal(t, DefaultSize, img.Bounds().Size())
	for _, p := range []image.Point{{0, 0}, {250, 250}, {499, 499}} {
		assert.Equal(t, uint8(255), img.RGBAAt(p.X, p.Y).A)
	}
}
