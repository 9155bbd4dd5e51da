package main

import (
	"flag"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/tui"
)

// tuiCmd runs the game in the terminal.
type tuiCmd struct {
	*root
	fs *flag.FlagSet
}

func parseTUICmd(args []string, r *root) (*tuiCmd, error) {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	t := &tuiCmd{root: r, fs: fs}
	fs.Usage = usageFunc(t)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: t}
	}
	return t, nil
}

func (t *tuiCmd) FlagSet() *flag.FlagSet { return t.fs }

func (t *tuiCmd) Template() string { return "tui.txt" }

func (t *tuiCmd) Run() error {
	// The terminal is the screen, so engine logs would corrupt it.
	t.verbose = false
	opts, err := t.engineOptions()
	if err != nil {
		return err
	}
	return tui.Run(engine.New(opts...),
		tui.WithTheme(t.activeTheme),
		tui.WithSaveDir(t.saveDir),
		tui.WithSaved(t.notifySave),
	)
}
