package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/render"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
	"github.com/example/doodlegate/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	labelFace   font.Face = basicfont.Face7x13
	statusFace  font.Face = basicfont.Face7x13
	messageFace font.Face = basicfont.Face7x13
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	faces := []struct {
		dst  *font.Face
		size float64
	}{{&labelFace, 12}, {&statusFace, 15}, {&messageFace, 26}}
	for _, fc := range faces {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: fc.size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("font face: %v", err)
			continue
		}
		*fc.dst = face
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.Invalidate()
	}
}

// Invalidate drops the cached renderings, for example after a theme change.
func (cb *CacheButton) Invalidate() { cb.cache = [4]*image.RGBA{} }

// ActionButton is a labelled panel button.
type ActionButton struct {
	label      string
	hint       string
	theme      func() *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	th := b.theme()
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	case StateDisabled:
		bg, fg = th.ButtonDisabled, th.Foreground
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, th.ButtonBorder, 1)
	baseline := b.rect.Min.Y + (b.rect.Dy()+labelFace.Metrics().Ascent.Ceil())/2 - 1
	drawString(dst, labelFace, b.rect.Min.X+8, baseline, b.label, fg)
	if b.hint != "" {
		w := measure(labelFace, b.hint)
		drawString(dst, labelFace, b.rect.Max.X-8-w, baseline, b.hint, fg)
	}
}

func (b *ActionButton) Rect() image.Rectangle { return b.rect }

func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

func measure(face font.Face, s string) int {
	return (&font.Drawer{Face: face}).MeasureString(s).Ceil()
}

func drawString(dst *image.RGBA, face font.Face, x, baseline int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, baseline)}
	d.DrawString(s)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func fill(img *image.RGBA, rect image.Rectangle, col color.Color) {
	draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Over)
}

// drawHueBar paints the hue strip and a marker at the given hue.
func drawHueBar(dst *image.RGBA, r image.Rectangle, hue float64, marker color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		col := stroke.HueColor(hueAt(r, x))
		draw.Draw(dst, image.Rect(x, r.Min.Y, x+1, r.Max.Y), &image.Uniform{col}, image.Point{}, draw.Src)
	}
	mx := r.Min.X + int(hue/360*float64(r.Dx()-1))
	fill(dst, image.Rect(mx-1, r.Min.Y-2, mx+2, r.Max.Y+2), marker)
}

func drawSlider(dst *image.RGBA, r image.Rectangle, thickness float64, th *theme.Theme) {
	mid := r.Min.Y + r.Dy()/2
	fill(dst, image.Rect(r.Min.X, mid-1, r.Max.X, mid+1), th.PanelBorder)
	kx := sliderX(r, thickness)
	fill(dst, image.Rect(r.Min.X, mid-1, kx, mid+1), th.Accent)
	fill(dst, image.Rect(kx-3, r.Min.Y, kx+4, r.Max.Y), th.ButtonBackground)
	drawRect(dst, image.Rect(kx-3, r.Min.Y, kx+4, r.Max.Y), th.ButtonBorder, 1)
}

func drawPreset(dst *image.RGBA, r image.Rectangle, p stroke.Preset, selected bool, th *theme.Theme) {
	bg := th.PanelBackground
	if selected {
		bg = th.ProgressTodo
	}
	draw.Draw(dst, r, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, r, th.PanelBorder, 1)
	h := int(p.Value / 2)
	if h < 1 {
		h = 1
	}
	mid := r.Min.Y + r.Dy()/2
	fill(dst, image.Rect(r.Min.X+6, mid-h/2, r.Max.X-6, mid-h/2+h), th.Foreground)
}

// drawProgress shows clicks towards unlocking while locked and the strokes
// used while unlocked.
func drawProgress(dst *image.RGBA, r image.Rectangle, snap engine.Snapshot, th *theme.Theme) {
	st := snap.State
	if st.Phase == session.Locked {
		fill(dst, r, th.ProgressTodo)
		req := st.Required()
		done := r.Dx()
		if req > 0 && st.ClicksInPhase < req {
			done = int(float64(r.Dx()) * float64(st.ClicksInPhase) / float64(req))
		}
		fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+done, r.Max.Y), th.Accent)
		return
	}
	gap := 4
	w := (r.Dx() - gap*(session.SessionSize-1)) / session.SessionSize
	for i := 0; i < session.SessionSize; i++ {
		x := r.Min.X + i*(w+gap)
		col := th.ProgressTodo
		switch {
		case i < st.StrokesInSession && snap.EndPending:
			col = th.Warning
		case i < st.StrokesInSession:
			col = th.ProgressDone
		}
		fill(dst, image.Rect(x, r.Min.Y, x+w, r.Max.Y), col)
	}
}

func statusText(snap engine.Snapshot) string {
	st := snap.State
	switch {
	case !snap.Available:
		return "No picture to draw on"
	case snap.EndPending:
		return fmt.Sprintf("Round %d: session over", st.Round)
	case st.Phase == session.Locked:
		return fmt.Sprintf("Round %d: %d/%d clicks", st.Round, st.ClicksInPhase, st.Required())
	default:
		return fmt.Sprintf("Round %d: %d/%d strokes", st.Round, st.StrokesInSession, session.SessionSize)
	}
}

type paintState struct {
	layout       layout
	theme        *theme.Theme
	engine       *engine.Engine
	snap         engine.Snapshot
	buttons      []*CacheButton
	hoverButton  int
	pressButton  int
	hue          float64
	baseVersion  int
	message      string
	messageUntil time.Time
}

// painter owns the frame buffers and caches of the paint goroutine.
type painter struct {
	cardKey struct{ round, strokes, base int }
	card    render.Card
}

func (p *painter) previewCard(st paintState) render.Card {
	key := struct{ round, strokes, base int }{st.snap.State.Round, st.snap.Strokes, st.baseVersion}
	if p.card.Image == nil || key != p.cardKey {
		p.card = render.MakeCard(st.engine.Preview(), render.DefaultCardOptions())
		p.cardKey = key
	}
	return p.card
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	l := st.layout
	b, err := s.NewBuffer(image.Point{l.width, l.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	switch {
	case !st.snap.Available:
		msg := "Paste a picture with Ctrl+V"
		drawString(dst, statusFace, l.area.Min.X+(l.area.Dx()-measure(statusFace, msg))/2, l.area.Min.Y+l.area.Dy()/2, msg, th.Foreground)
	case st.snap.State.Phase == session.Unlocked:
		view := st.engine.View()
		xdraw.ApproxBiLinear.Scale(dst, l.surface, view, view.Bounds(), draw.Src, nil)
	default:
		card := p.previewCard(st)
		if card.Image != nil {
			size := st.engine.Size()
			zx := float64(l.surface.Dx()) / float64(size.X)
			zy := float64(l.surface.Dy()) / float64(size.Y)
			cb := card.Image.Bounds()
			r := image.Rect(
				l.surface.Min.X-int(float64(card.Inset.X)*zx),
				l.surface.Min.Y-int(float64(card.Inset.Y)*zy),
				l.surface.Min.X+int(float64(cb.Dx()-card.Inset.X)*zx),
				l.surface.Min.Y+int(float64(cb.Dy()-card.Inset.Y)*zy),
			)
			xdraw.ApproxBiLinear.Scale(dst, r, card.Image, cb, draw.Over, nil)
		}
		if !st.snap.EndPending {
			left := st.snap.State.Required() - st.snap.State.ClicksInPhase
			msg := fmt.Sprintf("Click %d more to draw", left)
			drawBanner(dst, l.surface, msg, th)
		}
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, l.status, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	drawString(dst, statusFace, pad, statusHeight-9, statusText(st.snap), th.Foreground)
	drawProgress(dst, l.progress, st.snap, th)

	draw.Draw(dst, l.panel, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	fill(dst, image.Rect(l.panel.Max.X-1, l.panel.Min.Y, l.panel.Max.X, l.panel.Max.Y), th.PanelBorder)
	brush := st.snap.Brush
	for i, sw := range stroke.Palette() {
		if i >= len(l.swatches) {
			break
		}
		r := l.swatches[i]
		draw.Draw(dst, r, &image.Uniform{sw.Color}, image.Point{}, draw.Src)
		if sw.Color == brush.Color {
			drawRect(dst, r, th.Foreground, 2)
		} else {
			drawRect(dst, r, th.PanelBorder, 1)
		}
	}
	drawHueBar(dst, l.hue, st.hue, th.Foreground)
	for i, p := range stroke.Presets() {
		if i < len(l.presets) {
			drawPreset(dst, l.presets[i], p, p.Value == brush.Thickness, th)
		}
	}
	drawSlider(dst, l.slider, brush.Thickness, th)
	drawString(dst, labelFace, l.slider.Min.X, l.slider.Max.Y+12, fmt.Sprintf("Width %g", brush.Thickness), th.Foreground)
	if ctx.Err() != nil {
		return
	}

	for i, btn := range st.buttons {
		state := StateDefault
		switch {
		case i == st.pressButton:
			state = StatePressed
		case i == st.hoverButton:
			state = StateHover
		}
		btn.Draw(dst, state)
	}

	draw.Draw(dst, l.hint, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	hint := "Space click  U undo  X clear  Ctrl+S save  Ctrl+C copy  Q quit"
	if st.message != "" && time.Now().Before(st.messageUntil) {
		hint = st.message
	}
	drawString(dst, labelFace, pad, l.height-7, hint, th.Foreground)

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawBanner(dst *image.RGBA, area image.Rectangle, msg string, th *theme.Theme) {
	wmsg := measure(messageFace, msg)
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := area.Min.X + (area.Dx()-wmsg)/2
	py := area.Min.Y + (area.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-10, py-ascent-8, px+wmsg+10, py+descent+8)
	bg := th.PanelBackground
	bg.A = 230
	draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.Accent, 2)
	drawString(dst, messageFace, px, py, msg, th.Foreground)
}
