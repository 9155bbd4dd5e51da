// Package tui is the terminal shell. The surface is drawn with half block
// characters so every cell shows two pixels, and the mouse draws on it.
package tui

import (
	"errors"
	"fmt"
	"math"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
	"github.com/example/doodlegate/internal/theme"
)

const (
	sidebarWidth = 26
	hueStep      = 15
)

// refreshMsg tells the model the engine changed outside of Update, for
// example when the post session delay ran out.
type refreshMsg struct{}

// Option configures the model.
type Option func(*Model)

// WithTheme sets the colours.
func WithTheme(t *theme.Theme) Option { return func(m *Model) { m.theme = t } }

// WithSaveDir sets where s writes drawings.
func WithSaveDir(dir string) Option { return func(m *Model) { m.saveDir = dir } }

// WithCopier replaces the text clipboard writer.
func WithCopier(fn func(string) error) Option { return func(m *Model) { m.copyText = fn } }

// WithSaved registers a callback for every written file.
func WithSaved(fn func(path string)) Option { return func(m *Model) { m.saved = fn } }

// Model is the bubbletea model of the terminal shell.
type Model struct {
	eng      *engine.Engine
	theme    *theme.Theme
	saveDir  string
	copyText func(string) error
	saved    func(string)

	width, height int
	surface       cellRect
	snap          engine.Snapshot
	hue           float64
	drawing       bool
	confirmClear  bool
	message       string
	quitting      bool
}

// cellRect is a block of terminal cells.
type cellRect struct{ x, y, cols, rows int }

func (r cellRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.cols && y >= r.y && y < r.y+r.rows
}

// New returns a model driving eng.
func New(eng *engine.Engine, opts ...Option) *Model {
	m := &Model{
		eng:      eng,
		theme:    theme.Default(),
		copyText: clipboard.WriteAll,
		hue:      stroke.DefaultHue,
		snap:     eng.Snapshot(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Run starts the terminal program and blocks until it quits.
func Run(eng *engine.Engine, opts ...Option) error {
	m := New(eng, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	// Listeners also run inside Update, where a blocking Send would deadlock.
	cancel := eng.Subscribe(func(engine.Snapshot) { go p.Send(refreshMsg{}) })
	defer cancel()
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

// layout fits the surface into the space left of the sidebar. Each cell is
// one pixel wide and two tall, so the aspect ratio is kept by giving the
// surface twice as many pixel rows as cell rows.
func (m *Model) layout() {
	size := m.eng.Size()
	availW := m.width - sidebarWidth - 1
	availH := m.height - 3
	if availW < 1 || availH < 1 || size.X <= 0 || size.Y <= 0 {
		m.surface = cellRect{}
		m.eng.SetViewport(input.Viewport{})
		return
	}
	cols := availW
	if byH := int(float64(2*availH) * float64(size.X) / float64(size.Y)); byH < cols {
		cols = byH
	}
	rows := int(math.Round(float64(cols) * float64(size.Y) / float64(size.X) / 2))
	if rows < 1 {
		rows = 1
	}
	if rows > availH {
		rows = availH
	}
	m.surface = cellRect{x: 0, y: 1, cols: cols, rows: rows}
	m.eng.SetViewport(input.Viewport{
		Origin:    geom.Pt(float64(m.surface.x), float64(m.surface.y)),
		Displayed: geom.Sz(float64(cols), float64(rows)),
		Logical:   geom.Sz(float64(size.X), float64(size.Y)),
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case refreshMsg:
		m.snap = m.eng.Snapshot()
		if !m.snap.Drawing {
			m.drawing = false
		}
		return m, nil
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}
	m.snap = m.eng.Snapshot()
	return m, nil
}

// cellPoint is the centre of the cell under the mouse in cell units.
func cellPoint(msg tea.MouseMsg) input.Raw {
	return input.At(float64(msg.X)+0.5, float64(msg.Y)+0.5)
}

func (m *Model) mouse(msg tea.MouseMsg) {
	inside := m.surface.contains(msg.X, msg.Y)
	switch msg.Type {
	case tea.MouseLeft:
		if m.drawing {
			m.drag(msg, inside)
			return
		}
		if !inside {
			return
		}
		if m.eng.State().Phase == session.Locked {
			m.eng.OnClick()
			return
		}
		m.drawing = m.eng.OnPointerDown(cellPoint(msg))
	case tea.MouseMotion:
		if m.drawing {
			m.drag(msg, inside)
		}
	case tea.MouseRelease:
		if m.drawing {
			m.eng.OnPointerUp()
			m.drawing = false
		}
	}
}

func (m *Model) drag(msg tea.MouseMsg, inside bool) {
	if inside {
		m.eng.OnPointerMove(cellPoint(msg))
		return
	}
	m.eng.OnPointerLeave()
	m.drawing = false
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k != "x" {
		m.confirmClear = false
	}
	m.message = ""
	switch k {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case " ", "space", "enter":
		m.eng.OnClick()
	case "u", "ctrl+z":
		if !m.eng.Undo() {
			m.message = "nothing to undo in this session"
		}
	case "x":
		if !m.confirmClear {
			m.confirmClear = true
			m.message = "press x again to clear everything"
			return nil
		}
		m.confirmClear = false
		m.eng.ClearAll()
		m.message = "cleared"
	case "[":
		m.eng.SetThickness(m.eng.Brush().Thickness - 1)
	case "]":
		m.eng.SetThickness(m.eng.Brush().Thickness + 1)
	case "h":
		m.setHue(m.hue - hueStep)
	case "H":
		m.setHue(m.hue + hueStep)
	case "s":
		m.save()
	case "y":
		m.copyShare()
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			idx := int(k[0] - '1')
			if pal := stroke.Palette(); idx < len(pal) {
				m.eng.SetColor(pal[idx].Color)
			}
		}
	}
	return nil
}

func (m *Model) setHue(h float64) {
	m.hue = math.Mod(h+360, 360)
	m.eng.SetColor(stroke.HueColor(m.hue))
}

func (m *Model) save() {
	art, err := m.eng.Export()
	if err != nil {
		m.message = exportMessage(err)
		return
	}
	path, err := art.Save(m.saveDir)
	if err != nil {
		m.message = fmt.Sprintf("save failed: %v", err)
		return
	}
	if m.saved != nil {
		m.saved(path)
	}
	m.message = "saved " + path
}

func (m *Model) copyShare() {
	art, err := m.eng.Export()
	if err != nil {
		m.message = exportMessage(err)
		return
	}
	if err := m.copyText(art.ShareText); err != nil {
		m.message = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.message = "share text copied"
}

func exportMessage(err error) string {
	if errors.Is(err, engine.ErrNothingToExport) {
		return "draw something first"
	}
	return err.Error()
}
