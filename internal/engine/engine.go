// Package engine ties the session gate, the stroke recorder, the history
// and the compositor together behind one event funnel. Shells feed it
// input and read images back; they never touch the parts directly.
package engine

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/example/doodlegate/internal/export"
	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/history"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/render"
	"github.com/example/doodlegate/internal/schedule"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
)

// DefaultEndDelay is how long a finished session stays on screen before the
// gate locks again.
const DefaultEndDelay = time.Second

// ErrSurfaceUnavailable is returned when there is no base image to draw on.
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// ErrNothingToExport is returned by Export when no stroke has been drawn.
var ErrNothingToExport = export.ErrNothingToExport

// Engine is safe for concurrent use. Listeners run on the goroutine that
// caused the change, which for the end of a session is the scheduler's.
type Engine struct {
	mu       sync.Mutex
	state    session.State
	history  history.Store
	recorder stroke.Recorder
	brush    stroke.Brush
	viewport input.Viewport
	base     image.Image
	size     image.Point

	comp      *render.Compositor
	sched     schedule.Scheduler
	delay     time.Duration
	pending   schedule.Timer
	gen       uint64
	exportOpt export.Options
	logger    *slog.Logger

	listenMu  sync.Mutex
	listeners map[int]func(Snapshot)
	nextID    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the clock used for the post-session delay.
func WithScheduler(s schedule.Scheduler) Option { return func(e *Engine) { e.sched = s } }

// WithEndDelay overrides DefaultEndDelay.
func WithEndDelay(d time.Duration) Option { return func(e *Engine) { e.delay = d } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithSize sets the logical surface size.
func WithSize(size image.Point) Option { return func(e *Engine) { e.size = size } }

// WithBase sets the base picture. Without it a stand-in portrait is drawn.
func WithBase(img image.Image) Option { return func(e *Engine) { e.base = img } }

// WithBrush sets the starting brush.
func WithBrush(b stroke.Brush) Option { return func(e *Engine) { e.brush = b } }

// WithExportOptions sets artifact naming.
func WithExportOptions(o export.Options) Option { return func(e *Engine) { e.exportOpt = o } }

// WithState starts from a given session state.
func WithState(s session.State) Option { return func(e *Engine) { e.state = s } }

// New creates an engine in round one, locked.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:     session.Initial(),
		brush:     stroke.DefaultBrush(),
		size:      render.DefaultSize,
		comp:      render.NewCompositor(),
		sched:     schedule.Real{},
		delay:     DefaultEndDelay,
		logger:    slog.New(slog.DiscardHandler),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(e)
	}
	if e.base == nil {
		e.base = render.DefaultBase(e.size)
	}
	e.brush = e.brush.WithThickness(e.brush.Thickness)
	e.viewport = input.Identity(geom.Sz(float64(e.size.X), float64(e.size.Y)))
	return e
}

// Snapshot is a consistent read of the engine's observable state.
type Snapshot struct {
	State      session.State
	Brush      stroke.Brush
	Strokes    int
	Drawing    bool
	EndPending bool
	Available  bool
	Viewport   input.Viewport
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.listenMu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.listenMu.Unlock()
	return func() {
		e.listenMu.Lock()
		delete(e.listeners, id)
		e.listenMu.Unlock()
	}
}

// Dispatch applies ev and reports whether anything changed.
func (e *Engine) Dispatch(ev Event) bool {
	e.mu.Lock()
	changed := e.apply(ev)
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if changed {
		e.notify(snap)
	}
	return changed
}

func (e *Engine) notify(snap Snapshot) {
	e.listenMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.listenMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (e *Engine) apply(ev Event) bool {
	switch ev := ev.(type) {
	case Click:
		return e.click()
	case PointerDown:
		return e.pointerDown(ev.Raw)
	case PointerMove:
		return e.pointerMove(ev.Raw)
	case PointerUp, PointerLeave:
		return e.finishStroke()
	case SetColor:
		if e.brush.Color == ev.Color {
			return false
		}
		e.brush.Color = ev.Color
		return true
	case SetThickness:
		next := e.brush.WithThickness(ev.Value)
		if next == e.brush {
			return false
		}
		e.brush = next
		return true
	case Undo:
		return e.undo()
	case ClearAll:
		return e.clearAll()
	case SetViewport:
		e.viewport = ev.Viewport
		if !e.availableLocked() {
			e.recorder.Cancel()
		}
		return true
	case SetBase:
		e.base = ev.Image
		if !e.availableLocked() {
			e.recorder.Cancel()
		}
		return true
	case sessionExpired:
		return e.expire(ev.gen)
	}
	return false
}

func (e *Engine) availableLocked() bool {
	return e.base != nil && e.viewport.Mounted()
}

func (e *Engine) click() bool {
	if e.base == nil {
		return false
	}
	next, eff := session.Reduce(e.state, session.Clicked)
	if !eff.Accepted {
		return false
	}
	e.state = next
	if eff.Unlocked {
		e.logger.Info("drawing unlocked", "round", next.Round, "clicks", next.ClicksInPhase)
	}
	return true
}

func (e *Engine) pointerDown(raw input.Raw) bool {
	if !e.availableLocked() || !e.state.CanBeginStroke() {
		e.logger.Debug("pointer down ignored", "state", e.state.String())
		return false
	}
	return e.recorder.Begin(input.Map(raw, e.viewport))
}

func (e *Engine) pointerMove(raw input.Raw) bool {
	if !e.recorder.Recording() || !e.availableLocked() {
		return false
	}
	return e.recorder.Extend(input.Map(raw, e.viewport))
}

func (e *Engine) finishStroke() bool {
	s, ok := e.recorder.Finish(e.brush)
	if !ok {
		return false
	}
	next, eff := session.Reduce(e.state, session.Committed)
	if !eff.Accepted {
		return true
	}
	e.state = next
	e.history.Append(s)
	if !s.Visible() {
		e.logger.Debug("single point stroke committed", "strokes", next.StrokesInSession)
	}
	if eff.Complete {
		e.logger.Info("session complete", "round", next.Round, "strokes", e.history.Len())
		e.scheduleEnd()
	}
	return true
}

func (e *Engine) scheduleEnd() {
	if e.pending != nil {
		return
	}
	e.gen++
	gen := e.gen
	e.pending = e.sched.AfterFunc(e.delay, func() {
		e.Dispatch(sessionExpired{gen: gen})
	})
}

func (e *Engine) expire(gen uint64) bool {
	if e.pending == nil || gen != e.gen {
		return false
	}
	e.pending = nil
	e.recorder.Cancel()
	e.state, _ = session.Reduce(e.state, session.Expired)
	e.logger.Info("round advanced", "round", e.state.Round, "required", e.state.Required())
	return true
}

func (e *Engine) undo() bool {
	next, eff := session.Reduce(e.state, session.Undone)
	if !eff.Accepted {
		return false
	}
	if _, ok := e.history.RemoveLast(); !ok {
		return false
	}
	e.state = next
	return true
}

func (e *Engine) clearAll() bool {
	n := e.history.Clear()
	e.recorder.Cancel()
	e.state, _ = session.Reduce(e.state, session.Cleared)
	e.logger.Debug("history cleared", "removed", n)
	return true
}

// CancelSessionEnd stops a pending post-session lock. Normal play never
// calls it.
func (e *Engine) CancelSessionEnd() bool {
	e.mu.Lock()
	if e.pending == nil {
		e.mu.Unlock()
		return false
	}
	e.pending.Stop()
	e.pending = nil
	e.gen++
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return true
}

// OnClick counts a click on the locked preview.
func (e *Engine) OnClick() bool { return e.Dispatch(Click{}) }

// OnPointerDown starts a stroke.
func (e *Engine) OnPointerDown(raw input.Raw) bool { return e.Dispatch(PointerDown{Raw: raw}) }

// OnPointerMove extends the stroke in progress.
func (e *Engine) OnPointerMove(raw input.Raw) bool { return e.Dispatch(PointerMove{Raw: raw}) }

// OnPointerUp commits the stroke in progress.
func (e *Engine) OnPointerUp() bool { return e.Dispatch(PointerUp{}) }

// OnPointerLeave commits the stroke in progress.
func (e *Engine) OnPointerLeave() bool { return e.Dispatch(PointerLeave{}) }

// SetColor changes the brush colour.
func (e *Engine) SetColor(c color.RGBA) bool { return e.Dispatch(SetColor{Color: c}) }

// SetThickness changes the brush width.
func (e *Engine) SetThickness(v float64) bool { return e.Dispatch(SetThickness{Value: v}) }

// Undo removes the newest stroke of the running session.
func (e *Engine) Undo() bool { return e.Dispatch(Undo{}) }

// ClearAll removes every stroke.
func (e *Engine) ClearAll() bool { return e.Dispatch(ClearAll{}) }

// SetViewport records where the surface is displayed.
func (e *Engine) SetViewport(vp input.Viewport) bool { return e.Dispatch(SetViewport{Viewport: vp}) }

// SetBase swaps the base picture.
func (e *Engine) SetBase(img image.Image) bool { return e.Dispatch(SetBase{Image: img}) }

// State returns the session state.
func (e *Engine) State() session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Brush returns the live brush.
func (e *Engine) Brush() stroke.Brush {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brush
}

// Size returns the logical surface size.
func (e *Engine) Size() image.Point { return e.size }

// Viewport returns the current viewport.
func (e *Engine) Viewport() input.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// Strokes returns a copy of the history.
func (e *Engine) Strokes() []stroke.Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Snapshot()
}

// Snapshot returns the observable state in one read.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:      e.state,
		Brush:      e.brush,
		Strokes:    e.history.Len(),
		Drawing:    e.recorder.Recording(),
		EndPending: e.pending != nil,
		Available:  e.availableLocked(),
		Viewport:   e.viewport,
	}
}

func (e *Engine) scene(withDraft bool) render.Scene {
	sc := render.Scene{Size: e.size, Base: e.base, Strokes: e.history.Snapshot()}
	if withDraft {
		if d, ok := e.recorder.Draft(e.brush); ok {
			sc.Draft = &d
		}
	}
	return sc
}

// Render returns the live surface including the stroke in progress.
func (e *Engine) Render() *image.RGBA {
	e.mu.Lock()
	sc := e.scene(true)
	e.mu.Unlock()
	return e.comp.Live(sc)
}

// Preview returns the committed drawing without the stroke in progress.
func (e *Engine) Preview() *image.RGBA {
	e.mu.Lock()
	sc := e.scene(false)
	e.mu.Unlock()
	return e.comp.Flatten(sc)
}

// View returns what a shell should show: the live surface while drawing is
// unlocked, the committed preview otherwise.
func (e *Engine) View() *image.RGBA {
	e.mu.Lock()
	unlocked := e.state.Phase == session.Unlocked
	sc := e.scene(unlocked)
	e.mu.Unlock()
	return e.comp.Live(sc)
}

// Export flattens the drawing into an artifact.
func (e *Engine) Export() (*export.Artifact, error) {
	e.mu.Lock()
	if e.base == nil {
		e.mu.Unlock()
		return nil, ErrSurfaceUnavailable
	}
	if e.history.Len() == 0 {
		e.mu.Unlock()
		return nil, ErrNothingToExport
	}
	sc := e.scene(false)
	round := e.state.Round
	opts := e.exportOpt
	e.mu.Unlock()
	return export.New(e.comp.Flatten(sc), round, len(sc.Strokes), opts)
}
