package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlegate/internal/clipboard"
	"github.com/example/doodlegate/internal/config"
	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/notify"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
	"github.com/example/doodlegate/internal/theme"
)

// ThemeResolver picks the theme for a freshly loaded configuration.
type ThemeResolver func(cfg *config.Config) (*theme.Theme, error)

// AppState holds what the window shell needs around an engine.
type AppState struct {
	Engine   *engine.Engine
	Theme    *theme.Theme
	Notifier *notify.Notifier
	SaveDir  string

	configPath string
	resolve    ThemeResolver
	onClose    func()
	closeOnce  sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEngine sets the engine driven by the window.
func WithEngine(e *engine.Engine) Option { return func(a *AppState) { a.Engine = e } }

// WithTheme sets the starting theme.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithSaveDir sets where saved drawings go.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithConfigWatch reloads the theme and notification settings whenever the
// file at path changes.
func WithConfigWatch(path string, resolve ThemeResolver) Option {
	return func(a *AppState) {
		a.configPath = path
		a.resolve = resolve
	}
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Engine == nil {
		a.Engine = engine.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

type engineChanged struct{ snap engine.Snapshot }

type configChanged struct {
	cfg   *config.Config
	theme *theme.Theme
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	eng := a.Engine
	logical := eng.Size()
	win := windowSize(logical)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: win.X, Height: win.Y, Title: "DoodleGate"})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unsubscribe := eng.Subscribe(func(snap engine.Snapshot) { w.Send(engineChanged{snap}) })
	defer unsubscribe()

	if a.configPath != "" && a.resolve != nil {
		go func() {
			err := config.Watch(ctx, a.configPath, func(cfg *config.Config, err error) {
				if err != nil {
					log.Printf("reload config: %v", err)
					return
				}
				th, err := a.resolve(cfg)
				if err != nil {
					log.Printf("reload theme: %v", err)
					return
				}
				w.Send(configChanged{cfg: cfg, theme: th})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("watch config: %v", err)
			}
		}()
	}

	th := a.Theme
	currentTheme := func() *theme.Theme { return th }
	snap := eng.Snapshot()
	hue := float64(stroke.DefaultHue)
	baseVersion := 0
	var message string
	var messageUntil time.Time
	var confirmClear bool
	var touches input.TouchSet
	var dragging int // 0 none, 1 hue, 2 slider
	drawing := false
	hoverButton, pressButton := -1, -1

	say := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(2 * time.Second)
		log.Print(msg)
	}

	save := func() {
		art, err := eng.Export()
		if err != nil {
			if errors.Is(err, engine.ErrNothingToExport) {
				say("Draw something first")
				return
			}
			log.Printf("save: %v", err)
			return
		}
		path, err := art.Save(a.SaveDir)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		a.Notifier.Save(path)
		say(fmt.Sprintf("saved %s", path))
	}

	copyDrawing := func() {
		art, err := eng.Export()
		if err != nil {
			if errors.Is(err, engine.ErrNothingToExport) {
				say("Draw something first")
				return
			}
			log.Printf("copy: %v", err)
			return
		}
		if err := clipboard.Publish(clipboard.Offer{PNG: art.PNG, Text: art.ShareText}); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		a.Notifier.Copy(art.Filename)
		say("drawing copied to clipboard")
	}

	paste := func() {
		img, err := clipboard.ReadImage()
		if err != nil {
			log.Printf("paste: %v", err)
			return
		}
		eng.SetBase(img)
		baseVersion++
		say("pasted picture")
	}

	clearAll := func() {
		if !confirmClear {
			confirmClear = true
			say("press X again to clear everything")
			return
		}
		confirmClear = false
		eng.ClearAll()
		say("cleared")
	}

	buttons := []*CacheButton{
		{Button: &ActionButton{label: "Undo", hint: "U", theme: currentTheme, onActivate: func() { eng.Undo() }}},
		{Button: &ActionButton{label: "Clear", hint: "X", theme: currentTheme, onActivate: clearAll}},
		{Button: &ActionButton{label: "Save", hint: "^S", theme: currentTheme, onActivate: save}},
		{Button: &ActionButton{label: "Copy", hint: "^C", theme: currentTheme, onActivate: copyDrawing}},
	}
	swatches := stroke.Palette()
	presets := stroke.Presets()
	var lay layout
	relayout := func(width, height int) {
		lay = computeLayout(width, height, logical, len(swatches), len(presets), len(buttons))
		for i, b := range buttons {
			b.SetRect(lay.buttons[i])
		}
		eng.SetViewport(lay.viewport(logical))
	}
	relayout(win.X, win.Y)

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		for _, sc := range keys.KeyboardShortcuts() {
			keyboardAction[sc] = name
		}
	}
	register("click", shortcutList{{Rune: ' '}}, func() { eng.OnClick() })
	register("undo", shortcutList{{Rune: 'u'}, {Rune: 'z', Modifiers: key.ModControl}}, func() { eng.Undo() })
	register("clear", shortcutList{{Rune: 'x'}}, clearAll)
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, save)
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, copyDrawing)
	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, paste)
	register("thinner", shortcutList{{Rune: '['}}, func() { eng.SetThickness(snap.Brush.Thickness - 1) })
	register("thicker", shortcutList{{Rune: ']'}}, func() { eng.SetThickness(snap.Brush.Thickness + 1) })

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		p := &painter{}
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			p.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	setHue := func(x int) {
		hue = hueAt(lay.hue, x)
		eng.SetColor(stroke.HueColor(hue))
	}

	// pointer handles a surface press, drag or release at p.
	pointer := func(raw input.Raw, p image.Point, dir mouse.Direction) {
		if snap.State.Phase == session.Locked {
			if dir == mouse.DirPress && p.In(lay.surface) {
				eng.OnClick()
			}
			return
		}
		switch dir {
		case mouse.DirPress:
			if p.In(lay.surface) {
				drawing = eng.OnPointerDown(raw)
			}
		case mouse.DirRelease:
			if drawing {
				eng.OnPointerUp()
				drawing = false
			}
		case mouse.DirNone:
			if !drawing {
				return
			}
			if p.In(lay.surface) {
				eng.OnPointerMove(raw)
				return
			}
			eng.OnPointerLeave()
			drawing = false
		}
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			relayout(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case engineChanged:
			prev := snap
			snap = e.snap
			if !snap.Drawing {
				drawing = false
			}
			if prev.State.Phase == session.Locked && snap.State.Phase == session.Unlocked {
				a.Notifier.Unlocked(snap.State.Round, session.SessionSize)
			}
			if snap.State.Round > prev.State.Round {
				a.Notifier.RoundOver(snap.State.Round, snap.State.Required(), eng.Preview())
			}
			w.Send(paint.Event{})
		case configChanged:
			th = e.theme
			for _, b := range buttons {
				b.Invalidate()
			}
			a.Notifier.Enable(notify.EventSave, e.cfg.Notify.Save)
			a.Notifier.Enable(notify.EventCopy, e.cfg.Notify.Copy)
			a.Notifier.Enable(notify.EventUnlock, e.cfg.Notify.Unlock)
			a.Notifier.Enable(notify.EventRound, e.cfg.Notify.Round)
			say(fmt.Sprintf("theme %s loaded", th.Name))
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := paintState{
				layout:       lay,
				theme:        th,
				engine:       eng,
				snap:         snap,
				buttons:      buttons,
				hoverButton:  hoverButton,
				pressButton:  pressButton,
				hue:          hue,
				baseVersion:  baseVersion,
				message:      message,
				messageUntil: messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case touch.Event:
			raw := touches.Apply(e)
			pos, _ := raw.Position()
			p := image.Pt(int(pos.X), int(pos.Y))
			switch e.Type {
			case touch.TypeBegin:
				if touches.Len() == 1 {
					pointer(raw, p, mouse.DirPress)
				}
			case touch.TypeMove:
				pointer(raw, p, mouse.DirNone)
			case touch.TypeEnd:
				if touches.Len() == 0 {
					pointer(raw, p, mouse.DirRelease)
				}
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease {
				dragging = 0
				if pressButton >= 0 && p.In(buttons[pressButton].Rect()) {
					buttons[pressButton].Activate()
				}
				pressButton = -1
				w.Send(paint.Event{})
			}
			if dragging != 0 && e.Direction == mouse.DirNone {
				if dragging == 1 {
					setHue(p.X)
				} else {
					eng.SetThickness(thicknessAt(lay.slider, p.X))
				}
				continue
			}
			if p.In(lay.panel) && !drawing {
				hb := hitIndex(lay.buttons, p)
				if hb != hoverButton {
					hoverButton = hb
					w.Send(paint.Event{})
				}
				if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
					continue
				}
				confirmClear = confirmClear && hb == 1
				switch {
				case hb >= 0:
					pressButton = hb
				case hitIndex(lay.swatches, p) >= 0:
					eng.SetColor(swatches[hitIndex(lay.swatches, p)].Color)
				case p.In(lay.hue.Inset(-2)):
					dragging = 1
					setHue(p.X)
				case hitIndex(lay.presets, p) >= 0:
					eng.SetThickness(presets[hitIndex(lay.presets, p)].Value)
				case p.In(lay.slider):
					dragging = 2
					eng.SetThickness(thicknessAt(lay.slider, p.X))
				}
				w.Send(paint.Event{})
				continue
			}
			if hoverButton != -1 {
				hoverButton = -1
				w.Send(paint.Event{})
			}
			if e.Button == mouse.ButtonLeft || e.Direction == mouse.DirNone {
				pointer(input.FromMouse(e), p, e.Direction)
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}
			if e.Rune < 0 {
				ks = KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}
			}
			if name, ok := keyboardAction[ks]; ok {
				if name != "clear" {
					confirmClear = false
				}
				actions[name]()
				w.Send(paint.Event{})
				continue
			}
			confirmClear = false
			switch r := e.Rune; {
			case r >= '1' && r <= '9':
				idx := int(r - '1')
				if idx < len(swatches) {
					eng.SetColor(swatches[idx].Color)
				}
			case r == 'q' || r == 'Q' || e.Code == key.CodeEscape:
				stopPaint()
				return
			}
		}
	}
}
