// Package script drives an engine from line oriented commands. It backs the
// replay and interactive commands.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/export"
	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/input"
	"github.com/example/doodlegate/internal/schedule"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Clock is a virtual clock the wait command can advance. When it is nil
// wait sleeps on the wall clock.
type Clock interface {
	Advance(d time.Duration) int
}

// Hooks are optional side effects for commands that leave the engine.
type Hooks struct {
	// Saved runs after export wrote a file.
	Saved func(path string)
	// Copy places an artifact on the clipboard.
	Copy func(a *export.Artifact) error
}

// Interpreter executes commands against one engine.
type Interpreter struct {
	Engine *engine.Engine
	Out    io.Writer
	Clock  Clock
	Hooks  Hooks

	touches input.TouchSet
	line    int
}

// New returns an interpreter writing replies to out.
func New(e *engine.Engine, out io.Writer, clock Clock) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{Engine: e, Out: out, Clock: clock}
}

// NewVirtual returns an interpreter over a fresh virtual clock. Extra
// engine options are applied after the scheduler.
func NewVirtual(out io.Writer, opts ...engine.Option) *Interpreter {
	clock := schedule.NewManual()
	e := engine.New(append([]engine.Option{engine.WithScheduler(clock)}, opts...)...)
	return New(e, out, clock)
}

// LineError reports which script line failed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Run executes every line of r. It stops at the first error or at quit.
func (i *Interpreter) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		i.line++
		text := sc.Text()
		if err := i.Exec(text); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return &LineError{Line: i.line, Text: strings.TrimSpace(text), Err: err}
		}
	}
	return sc.Err()
}

// Exec runs one command. Blank lines and # comments are ignored.
func (i *Interpreter) Exec(line string) error {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return nil
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	e := i.Engine
	switch cmd {
	case "click":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("click: invalid count %q", args[0])
			}
			n = v
		}
		for k := 0; k < n; k++ {
			e.OnClick()
		}
	case "unlock":
		for e.State().Phase == session.Locked {
			if !e.OnClick() {
				break
			}
		}
	case "down", "move":
		p, err := point(cmd, args)
		if err != nil {
			return err
		}
		if cmd == "down" {
			e.OnPointerDown(input.At(p.X, p.Y))
		} else {
			e.OnPointerMove(input.At(p.X, p.Y))
		}
	case "up":
		e.OnPointerUp()
	case "leave":
		e.OnPointerLeave()
	case "touch":
		return i.touch(args)
	case "viewport":
		return i.viewport(args)
	case "color":
		if len(args) != 1 {
			return fmt.Errorf("color: want one argument")
		}
		c, err := stroke.ParseColor(args[0])
		if err != nil {
			return err
		}
		e.SetColor(c)
	case "hue":
		v, err := number("hue", args)
		if err != nil {
			return err
		}
		e.SetColor(stroke.HueColor(v))
	case "width":
		v, err := number("width", args)
		if err != nil {
			return err
		}
		e.SetThickness(v)
	case "undo":
		e.Undo()
	case "clear":
		e.ClearAll()
	case "wait":
		d := engine.DefaultEndDelay
		if len(args) > 0 {
			v, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("wait: %w", err)
			}
			d = v
		}
		if i.Clock != nil {
			i.Clock.Advance(d)
		} else {
			time.Sleep(d)
		}
	case "status":
		i.status()
	case "export", "save":
		return i.export(args)
	case "copy":
		return i.copy()
	case "share":
		a, err := e.Export()
		if err != nil {
			return err
		}
		fmt.Fprintln(i.Out, a.ShareText)
		fmt.Fprintln(i.Out, export.ShareURL(a.ShareText))
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (i *Interpreter) status() {
	snap := i.Engine.Snapshot()
	fmt.Fprintf(i.Out, "%s, history %d, brush %s %gpx", snap.State, snap.Strokes, stroke.Hex(snap.Brush.Color), snap.Brush.Thickness)
	if snap.Drawing {
		fmt.Fprint(i.Out, ", drawing")
	}
	if snap.EndPending {
		fmt.Fprint(i.Out, ", session ending")
	}
	fmt.Fprintln(i.Out)
}

func (i *Interpreter) export(args []string) error {
	a, err := i.Engine.Export()
	if err != nil {
		return err
	}
	path := a.Filename
	if len(args) > 0 {
		path = args[0]
	}
	if err := a.WriteFile(path); err != nil {
		return err
	}
	fmt.Fprintf(i.Out, "saved %s\n", path)
	if i.Hooks.Saved != nil {
		i.Hooks.Saved(path)
	}
	return nil
}

func (i *Interpreter) copy() error {
	if i.Hooks.Copy == nil {
		return fmt.Errorf("copy: clipboard not available")
	}
	a, err := i.Engine.Export()
	if err != nil {
		return err
	}
	if err := i.Hooks.Copy(a); err != nil {
		return err
	}
	fmt.Fprintln(i.Out, "copied to clipboard")
	return nil
}

func (i *Interpreter) touch(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("touch: want begin|move|end id [x y]")
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("touch: invalid id %q", args[1])
	}
	ev := touch.Event{Sequence: touch.Sequence(id)}
	switch args[0] {
	case "begin", "move":
		p, err := point("touch "+args[0], args[2:])
		if err != nil {
			return err
		}
		ev.X, ev.Y = float32(p.X), float32(p.Y)
		ev.Type = touch.TypeBegin
		if args[0] == "move" {
			ev.Type = touch.TypeMove
		}
	case "end":
		ev.Type = touch.TypeEnd
	default:
		return fmt.Errorf("touch: unknown phase %q", args[0])
	}
	first := i.touches.Len() == 0
	raw := i.touches.Apply(ev)
	switch ev.Type {
	case touch.TypeBegin:
		if first {
			i.Engine.OnPointerDown(raw)
		}
	case touch.TypeMove:
		i.Engine.OnPointerMove(raw)
	case touch.TypeEnd:
		if i.touches.Len() == 0 {
			i.Engine.OnPointerUp()
		}
	}
	return nil
}

func (i *Interpreter) viewport(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("viewport: want originX originY width height")
	}
	var v [4]float64
	for k, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("viewport: invalid number %q", a)
		}
		v[k] = f
	}
	size := i.Engine.Size()
	i.Engine.SetViewport(input.Viewport{
		Origin:    geom.Pt(v[0], v[1]),
		Displayed: geom.Sz(v[2], v[3]),
		Logical:   geom.Sz(float64(size.X), float64(size.Y)),
	})
	return nil
}

func point(cmd string, args []string) (geom.Point, error) {
	if len(args) != 2 {
		return geom.Point{}, fmt.Errorf("%s: want x y", cmd)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%s: invalid x %q", cmd, args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%s: invalid y %q", cmd, args[1])
	}
	return geom.Pt(x, y), nil
}

func number(cmd string, args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: want one number", cmd)
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", cmd, args[0])
	}
	return v, nil
}
