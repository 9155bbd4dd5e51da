package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
)

const halfBlock = "▀"

func rgb(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.theme
	status := lipgloss.NewStyle().
		Foreground(rgb(th.Foreground)).
		Background(rgb(th.PanelBackground)).
		Bold(true).
		Width(m.width).
		Render(m.statusLine())

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.surfaceView(), " ", m.sidebar())

	footer := "space click  u undo  x clear  [ ] width  h/H hue  1-9 colour  s save  y copy  q quit"
	if m.message != "" {
		footer = m.message
	}
	footer = lipgloss.NewStyle().Foreground(rgb(th.Foreground)).Faint(m.message == "").Render(footer)

	return lipgloss.JoinVertical(lipgloss.Left, status, body, footer)
}

func (m *Model) statusLine() string {
	st := m.snap.State
	var gate string
	switch {
	case !m.snap.Available:
		gate = "no surface"
	case m.snap.EndPending:
		gate = "session over"
	case st.Phase == session.Locked:
		gate = fmt.Sprintf("locked %d/%d clicks %s", st.ClicksInPhase, st.Required(), bar(int(st.ClicksInPhase), int(min(st.Required(), 1<<20)), 20))
	default:
		gate = fmt.Sprintf("drawing %d/%d strokes %s", st.StrokesInSession, session.SessionSize, bar(st.StrokesInSession, session.SessionSize, session.SessionSize))
	}
	return fmt.Sprintf(" Round %d  %s", st.Round, gate)
}

// bar draws a text progress bar width cells wide.
func bar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	if done > total {
		done = total
	}
	n := done * width / total
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", width-n) + "]"
}

// surfaceView downsamples the current view to two pixels per cell.
func (m *Model) surfaceView() string {
	r := m.surface
	if r.cols <= 0 || r.rows <= 0 {
		return ""
	}
	src := m.eng.View()
	px := image.NewRGBA(image.Rect(0, 0, r.cols, r.rows*2))
	xdraw.ApproxBiLinear.Scale(px, px.Bounds(), src, src.Bounds(), draw.Src, nil)

	var sb strings.Builder
	for row := 0; row < r.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < r.cols; col++ {
			top := px.RGBAAt(col, row*2)
			bottom := px.RGBAAt(col, row*2+1)
			sb.WriteString(lipgloss.NewStyle().Foreground(rgb(top)).Background(rgb(bottom)).Render(halfBlock))
		}
	}
	if m.snap.State.Phase == session.Locked && !m.snap.EndPending {
		return lipgloss.JoinVertical(lipgloss.Left, sb.String(), m.gateHint())
	}
	return sb.String()
}

func (m *Model) gateHint() string {
	st := m.snap.State
	left := st.Required() - st.ClicksInPhase
	return lipgloss.NewStyle().Foreground(rgb(m.theme.Accent)).Bold(true).
		Render(fmt.Sprintf("click %d more to draw", left))
}

func (m *Model) sidebar() string {
	th := m.theme
	brush := m.snap.Brush
	title := lipgloss.NewStyle().Foreground(rgb(th.Accent)).Bold(true)
	text := lipgloss.NewStyle().Foreground(rgb(th.Foreground))

	lines := []string{title.Render("Brush")}
	lines = append(lines,
		lipgloss.NewStyle().Background(rgb(brush.Color)).Render("    ")+" "+text.Render(stroke.Hex(brush.Color)),
		text.Render(fmt.Sprintf("width %g", brush.Thickness)),
		text.Render(fmt.Sprintf("hue %.0f", m.hue)),
		"",
		title.Render("Colours"),
	)
	for i, sw := range stroke.Palette() {
		if i >= 9 {
			break
		}
		mark := " "
		if sw.Color == brush.Color {
			mark = ">"
		}
		lines = append(lines, mark+fmt.Sprintf("%d ", i+1)+
			lipgloss.NewStyle().Background(rgb(sw.Color)).Render("  ")+" "+text.Render(sw.Name))
	}
	lines = append(lines, "", text.Render(fmt.Sprintf("strokes %d", m.snap.Strokes)))
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(rgb(th.PanelBorder)).
		PaddingLeft(1).
		Render(strings.Join(lines, "\n"))
}
