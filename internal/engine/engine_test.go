package engine

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/schedule"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
)

func newEngine(t *testing.T) (*Engine, *schedule.Manual) {
	t.Helper()
	clock := schedule.NewManual()
	e := New(WithScheduler(clock), WithSize(image.Pt(100, 100)))
	return e, clock
}

func unlock(t *testing.T, e *Engine) {
	t.Helper()
	need := e.State().Required() - e.State().ClicksInPhase
	for i := uint64(0); i < need; i++ {
		e.OnClick()
	}
	require.Equal(t, session.Unlocked, e.State().Phase)
}

func draw(e *Engine, pts ...geom.Point) {
	e.OnPointerDown(input.At(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		e.OnPointerMove(input.At(p.X, p.Y))
	}
	e.OnPointerUp()
}

func line(e *Engine, i int) {
	y := float64(10 + i*10)
	draw(e, geom.Pt(10, y), geom.Pt(90, y))
}

func TestClicksUnlockDrawing(t *testing.T) {
	e, _ := newEngine(t)
	for i := 0; i < 9; i++ {
		e.OnClick()
	}
	assert.False(t, e.OnPointerDown(input.At(5, 5)), "locked surface ignores input")
	e.OnClick()
	assert.Equal(t, session.Unlocked, e.State().Phase)
	assert.False(t, e.OnClick(), "extra clicks are ignored")
	assert.True(t, e.OnPointerDown(input.At(5, 5)))
}

func TestFullSessionLifecycle(t *testing.T) {
	e, clock := newEngine(t)
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	snap := e.Snapshot()
	assert.Equal(t, session.Unlocked, snap.State.Phase, "still unlocked during the delay")
	assert.Equal(t, 5, snap.Strokes)
	assert.True(t, snap.EndPending)

	assert.False(t, e.OnPointerDown(input.At(50, 50)), "quota spent")

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, session.Unlocked, e.State().Phase)
	clock.Advance(time.Millisecond)

	st := e.State()
	assert.Equal(t, session.State{Phase: session.Locked, Round: 2, StrokesInSession: 5}, st)
	assert.EqualValues(t, 20, st.Required())
	assert.Len(t, e.Strokes(), 5, "history survives the round change")

	unlock(t, e)
	assert.Zero(t, e.State().StrokesInSession)
	line(e, 0)
	assert.Len(t, e.Strokes(), 6)
}

func TestUndoIsScopedToSession(t *testing.T) {
	e, clock := newEngine(t)
	unlock(t, e)
	assert.False(t, e.Undo(), "nothing to undo yet")
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	clock.Advance(time.Second)
	assert.False(t, e.Undo(), "locked sessions are final")

	unlock(t, e)
	assert.False(t, e.Undo(), "previous round's strokes are out of reach")
	line(e, 0)
	require.True(t, e.Undo())
	assert.Len(t, e.Strokes(), 5)
	assert.Zero(t, e.State().StrokesInSession)
	assert.False(t, e.Undo())
}

func TestUndoDuringDelayFreesSlot(t *testing.T) {
	e, clock := newEngine(t)
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	require.True(t, e.Undo())
	assert.Equal(t, 4, e.State().StrokesInSession)
	assert.True(t, e.Snapshot().EndPending, "the pending lock is not cancelled")
	clock.Advance(time.Second)
	assert.Equal(t, session.Locked, e.State().Phase)
	assert.Equal(t, 2, e.State().Round)
}

func TestClearAll(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	line(e, 0)
	line(e, 1)
	e.OnPointerDown(input.At(1, 1))
	e.OnPointerMove(input.At(2, 2))

	require.True(t, e.ClearAll())
	snap := e.Snapshot()
	assert.Zero(t, snap.Strokes)
	assert.Zero(t, snap.State.StrokesInSession)
	assert.False(t, snap.Drawing)
	assert.Equal(t, session.Unlocked, snap.State.Phase)
	assert.Equal(t, 1, snap.State.Round)
}

func TestClearAllSpansRounds(t *testing.T) {
	e, clock := newEngine(t)
	for round := 1; round <= 2; round++ {
		unlock(t, e)
		for i := 0; i < session.SessionSize; i++ {
			line(e, i)
		}
		clock.Advance(time.Second)
		require.Equal(t, round+1, e.State().Round)
	}
	unlock(t, e)
	line(e, 0)
	line(e, 1)

	before := e.Snapshot()
	require.Equal(t, 12, before.Strokes)
	require.Equal(t, "round 3 unlocked 2/5 strokes", before.State.String())

	require.True(t, e.ClearAll())
	after := e.Snapshot()
	assert.Zero(t, after.Strokes)
	assert.Equal(t, "round 3 unlocked 0/5 strokes", after.State.String())
	assert.False(t, e.Undo(), "nothing left to undo")
}

func TestSinglePointStrokeConsumesQuota(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	draw(e, geom.Pt(40, 40))
	assert.Equal(t, 1, e.State().StrokesInSession)
	require.Len(t, e.Strokes(), 1)
	assert.False(t, e.Strokes()[0].Visible())

	base := New(WithScheduler(schedule.NewManual()), WithSize(image.Pt(100, 100))).Preview()
	assert.Equal(t, base.Pix, e.Preview().Pix, "a dot draws nothing")
}

func TestPointerLeaveCommits(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	e.OnPointerDown(input.At(10, 10))
	e.OnPointerMove(input.At(20, 20))
	require.True(t, e.OnPointerLeave())
	assert.Len(t, e.Strokes(), 1)
	assert.False(t, e.OnPointerUp(), "nothing left to finish")
}

func TestViewportMapping(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	e.SetViewport(input.Viewport{Origin: geom.Pt(200, 100), Displayed: geom.Sz(50, 50), Logical: geom.Sz(100, 100)})
	draw(e, geom.Pt(200, 100), geom.Pt(225, 125))
	require.Len(t, e.Strokes(), 1)
	assert.Equal(t, []geom.Point{{0, 0}, {50, 50}}, e.Strokes()[0].Points)
}

func TestUnavailableSurfaceIgnoresInput(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	e.SetViewport(input.Viewport{Logical: geom.Sz(100, 100)})
	assert.False(t, e.OnPointerDown(input.At(1, 1)))

	e.SetViewport(input.Identity(geom.Sz(100, 100)))
	e.SetBase(nil)
	assert.False(t, e.OnPointerDown(input.At(1, 1)))
	assert.False(t, e.OnClick())
	_, err := e.Export()
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
}

func TestUnmountMidStrokeDropsDraft(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	e.OnPointerDown(input.At(1, 1))
	e.SetViewport(input.Viewport{})
	assert.False(t, e.OnPointerUp())
	assert.Zero(t, e.State().StrokesInSession)
}

func TestBrushAppliesAtCommit(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	red := color.RGBA{255, 0, 0, 255}
	e.OnPointerDown(input.At(10, 10))
	e.OnPointerMove(input.At(20, 20))
	e.SetColor(red)
	e.SetThickness(99)
	e.OnPointerUp()
	s := e.Strokes()[0]
	assert.Equal(t, red, s.Color)
	assert.Equal(t, stroke.MaxThickness, s.Thickness)
}

func TestLiveAndExportArePixelConsistent(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	line(e, 0)
	draw(e, geom.Pt(5, 5), geom.Pt(50, 80), geom.Pt(95, 5))

	art, err := e.Export()
	require.NoError(t, err)
	assert.Equal(t, e.Render().Pix, art.Image.Pix)
	assert.Equal(t, e.Preview().Pix, art.Image.Pix)

	again, err := e.Export()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(art.PNG, again.PNG), "export must be deterministic")
	assert.Equal(t, "masterpiece-round-1-2-strokes.png", art.Filename)
}

func TestRenderIncludesDraft(t *testing.T) {
	e, _ := newEngine(t)
	unlock(t, e)
	e.SetThickness(10)
	e.OnPointerDown(input.At(0, 50))
	e.OnPointerMove(input.At(100, 50))
	assert.NotEqual(t, e.Preview().Pix, e.Render().Pix)
	assert.Equal(t, e.Render().Pix, e.View().Pix)
}

func TestExportEmptyHistory(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Export()
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestCancelSessionEnd(t *testing.T) {
	e, clock := newEngine(t)
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	var last Snapshot
	calls := 0
	e.Subscribe(func(s Snapshot) { last = s; calls++ })
	require.True(t, e.Snapshot().EndPending)

	require.True(t, e.CancelSessionEnd())
	require.Equal(t, 1, calls, "subscribers hear about the cancel")
	assert.False(t, last.EndPending)
	assert.False(t, e.CancelSessionEnd())
	assert.Equal(t, 1, calls)
	clock.Advance(time.Minute)
	assert.Equal(t, session.Unlocked, e.State().Phase)
}

func TestOnlyOnePendingLock(t *testing.T) {
	e, clock := newEngine(t)
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	e.ClearAll()
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	assert.Equal(t, 1, clock.Pending())
	clock.Advance(time.Second)
	assert.Equal(t, 2, e.State().Round)
}

func TestSubscribersSeeTimerTransition(t *testing.T) {
	e, clock := newEngine(t)
	var seen []session.Phase
	cancel := e.Subscribe(func(s Snapshot) { seen = append(seen, s.State.Phase) })
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		line(e, i)
	}
	clock.Advance(time.Second)
	require.NotEmpty(t, seen)
	assert.Equal(t, session.Locked, seen[len(seen)-1])

	cancel()
	n := len(seen)
	e.OnClick()
	assert.Len(t, seen, n)
}

func TestRealSchedulerLocksAfterDelay(t *testing.T) {
	e := New(WithSize(image.Pt(20, 20)), WithEndDelay(10*time.Millisecond))
	locked := make(chan struct{}, 1)
	e.Subscribe(func(s Snapshot) {
		if s.State.Round == 2 {
			select {
			case locked <- struct{}{}:
			default:
			}
		}
	})
	unlock(t, e)
	for i := 0; i < session.SessionSize; i++ {
		draw(e, geom.Pt(1, 1), geom.Pt(5, 5))
	}
	select {
	case <-locked:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
	assert.Equal(t, session.Locked, e.State().Phase)
}
