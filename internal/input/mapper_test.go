package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlegate/internal/geom"
)

func TestMapScalesDisplayToSurface(t *testing.T) {
	vp := Viewport{
		Origin:    geom.Pt(100, 50),
		Displayed: geom.Sz(250, 250),
		Logical:   geom.Sz(500, 500),
	}
	tests := []struct {
		name string
		raw  Raw
		want geom.Point
	}{
		{"origin", At(100, 50), geom.Pt(0, 0)},
		{"centre", At(225, 175), geom.Pt(250, 250)},
		{"far corner", At(350, 300), geom.Pt(500, 500)},
		{"outside is not clamped", At(90, 40), geom.Pt(-20, -20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Map(tt.raw, vp))
		})
	}
}

func TestMapNonUniformScale(t *testing.T) {
	vp := Viewport{Displayed: geom.Sz(1000, 250), Logical: geom.Sz(500, 500)}
	assert.Equal(t, geom.Pt(50, 40), Map(At(100, 20), vp))
}

func TestMapUnmountedIsZero(t *testing.T) {
	vp := Viewport{Logical: geom.Sz(500, 500)}
	assert.False(t, vp.Mounted())
	assert.Equal(t, geom.Point{}, Map(At(30, 40), vp))
}

func TestMapUnmapRoundTrip(t *testing.T) {
	vp := Viewport{Origin: geom.Pt(12, 8), Displayed: geom.Sz(400, 400), Logical: geom.Sz(500, 500)}
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 490}, {X: 250, Y: 125.5}} {
		back := Map(At(Unmap(p, vp).X, Unmap(p, vp).Y), vp)
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestFromMouse(t *testing.T) {
	raw := FromMouse(mouse.Event{X: 3.5, Y: 7, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	assert.Equal(t, Pointer, raw.Source)
	assert.Equal(t, geom.Pt(3.5, 7), raw.Pos)
}

func TestTouchUsesFirstActiveContact(t *testing.T) {
	vp := Identity(geom.Sz(500, 500))
	var set TouchSet

	raw := set.Apply(touch.Event{X: 10, Y: 20, Sequence: 7, Type: touch.TypeBegin})
	assert.Equal(t, geom.Pt(10, 20), Map(raw, vp))

	raw = set.Apply(touch.Event{X: 300, Y: 300, Sequence: 3, Type: touch.TypeBegin})
	assert.Equal(t, geom.Pt(10, 20), Map(raw, vp), "second finger must not steal the stroke")

	raw = set.Apply(touch.Event{X: 15, Y: 25, Sequence: 7, Type: touch.TypeMove})
	assert.Equal(t, geom.Pt(15, 25), Map(raw, vp))

	raw = set.Apply(touch.Event{Sequence: 7, Type: touch.TypeEnd})
	assert.Equal(t, geom.Pt(15, 25), Map(raw, vp))
	require.Equal(t, 1, set.Len())
	assert.Equal(t, geom.Pt(300, 300), Map(set.Raw(), vp))
}

func TestTouchWithoutContactsMapsToZero(t *testing.T) {
	vp := Identity(geom.Sz(500, 500))
	assert.Equal(t, geom.Point{}, Map(Raw{Source: Touch}, vp))
}
