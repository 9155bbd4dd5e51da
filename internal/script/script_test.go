package script

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/export"
	"github.com/example/doodlegate/internal/geom"
	"github.com/example/doodlegate/internal/session"
	"github.com/example/doodlegate/internal/stroke"
)

func run(t *testing.T, src string) (*Interpreter, string, error) {
	t.Helper()
	var out bytes.Buffer
	in := NewVirtual(&out, engine.WithSize(image.Pt(100, 100)))
	err := in.Run(strings.NewReader(src))
	return in, out.String(), err
}

func TestFullRoundScript(t *testing.T) {
	in, out, err := run(t, `
# unlock and spend the whole session
unlock
color #00FF00
width 8
down 10 10
move 50 50
up
down 10 90
move 90 10
leave
down 1 1
up
down 2 2
up
down 3 3
move 4 4
up
status
wait
status
`)
	require.NoError(t, err)
	st := in.Engine.State()
	assert.Equal(t, session.Locked, st.Phase)
	assert.Equal(t, 2, st.Round)
	assert.Len(t, in.Engine.Strokes(), 5)
	assert.Contains(t, out, "round 1 unlocked 5/5 strokes, history 5, brush #00FF00 8px, session ending")
	assert.Contains(t, out, "round 2 locked 0/20 clicks")
}

func TestClickCount(t *testing.T) {
	in, _, err := run(t, "click 9\n")
	require.NoError(t, err)
	assert.EqualValues(t, 9, in.Engine.State().ClicksInPhase)
}

func TestViewportScalesInput(t *testing.T) {
	in, _, err := run(t, "unlock\nviewport 100 100 50 50\ndown 100 100\nmove 150 125\nup\n")
	require.NoError(t, err)
	require.Len(t, in.Engine.Strokes(), 1)
	assert.Equal(t, []geom.Point{{0, 0}, {100, 50}}, in.Engine.Strokes()[0].Points)
}

func TestTouchFollowsFirstFinger(t *testing.T) {
	in, _, err := run(t, `unlock
touch begin 1 10 10
touch begin 2 80 80
touch move 1 20 20
touch end 1
touch end 2
`)
	require.NoError(t, err)
	require.Len(t, in.Engine.Strokes(), 1)
	pts := in.Engine.Strokes()[0].Points
	assert.Equal(t, geom.Pt(10, 10), pts[0])
	assert.Equal(t, geom.Pt(20, 20), pts[len(pts)-1])
}

func TestHueAndUndo(t *testing.T) {
	in, _, err := run(t, "unlock\nhue 120\ndown 1 1\nmove 9 9\nup\nundo\n")
	require.NoError(t, err)
	assert.Empty(t, in.Engine.Strokes())
	assert.Equal(t, "#47EB47", stroke.Hex(in.Engine.Brush().Color))
}

func TestExportAndShare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	var saved string
	var out bytes.Buffer
	in := NewVirtual(&out, engine.WithSize(image.Pt(50, 50)))
	in.Hooks.Saved = func(p string) { saved = p }
	err := in.Run(strings.NewReader("unlock\ndown 1 1\nmove 40 40\nup\nexport " + path + "\nshare\n"))
	require.NoError(t, err)
	assert.Equal(t, path, saved)
	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Round 1 with 1 stroke")
	assert.Contains(t, out.String(), "https://twitter.com/intent/tweet?text=")
}

func TestExportEmptyIsError(t *testing.T) {
	_, _, err := run(t, "unlock\nexport x.png\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrNothingToExport)
	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)
}

func TestCopyHook(t *testing.T) {
	var got *export.Artifact
	var out bytes.Buffer
	in := NewVirtual(&out, engine.WithSize(image.Pt(20, 20)))
	in.Hooks.Copy = func(a *export.Artifact) error { got = a; return nil }
	require.NoError(t, in.Run(strings.NewReader("unlock\ndown 1 1\nmove 5 5\nup\ncopy\n")))
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Strokes)
}

func TestErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"bogus", 1},
		{"\n\ndown 1", 3},
		{"click x", 1},
		{"status\nwidth big", 2},
		{"touch wiggle 1", 1},
		{"viewport 1 2 3", 1},
		{"color nope", 1},
		{"copy", 1},
	}
	for _, tt := range tests {
		_, _, err := run(t, tt.src)
		var le *LineError
		require.True(t, errors.As(err, &le), "src %q", tt.src)
		assert.Equal(t, tt.line, le.Line, "src %q", tt.src)
	}
}

func TestQuitStopsRun(t *testing.T) {
	in, _, err := run(t, "click\nquit\nclick\n")
	require.NoError(t, err)
	assert.EqualValues(t, 1, in.Engine.State().ClicksInPhase)
}
