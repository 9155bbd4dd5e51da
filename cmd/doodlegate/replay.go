package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/export"
	"github.com/example/doodlegate/internal/schedule"
	"github.com/example/doodlegate/internal/script"
)

// replayCmd runs a command script on a virtual clock and writes the result.
type replayCmd struct {
	*root
	fs          *flag.FlagSet
	script      string
	output      string
	toClipboard bool
	share       bool
	quiet       bool
	stdin       io.Reader
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.script, "script", "-", "script file to run, - for stdin")
	fs.StringVar(&c.output, "output", "", "file to write the drawing to (.png or .pdf); defaults to the generated name")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the drawing to the clipboard instead of writing a file")
	fs.BoolVar(&c.share, "share", false, "print the share text and link")
	fs.BoolVar(&c.quiet, "quiet", false, "do not echo command replies")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && c.script == "-" {
		c.script = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.toClipboard && c.output != "" {
		return nil, fmt.Errorf("-output cannot be combined with -to-clipboard")
	}
	return c, nil
}

func (c *replayCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *replayCmd) Template() string { return "replay.txt" }

func (c *replayCmd) Run() error {
	in := c.stdin
	if c.script != "-" {
		f, err := os.Open(c.script)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	clock := schedule.NewManual()
	opts, err := c.engineOptions(engine.WithScheduler(clock))
	if err != nil {
		return err
	}
	out := c.stdout
	if c.quiet {
		out = io.Discard
	}
	interp := script.New(engine.New(opts...), out, clock)
	interp.Hooks.Saved = c.notifySave
	interp.Hooks.Copy = c.copyArtifact
	if err := interp.Run(in); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	art, err := interp.Engine.Export()
	if errors.Is(err, engine.ErrNothingToExport) {
		fmt.Fprintln(c.stderr, "nothing to export: the script drew no strokes")
		return err
	}
	if err != nil {
		return err
	}
	if c.share {
		fmt.Fprintln(c.stdout, art.ShareText)
		fmt.Fprintln(c.stdout, export.ShareURL(art.ShareText))
	}
	if c.toClipboard {
		if err := c.copyArtifact(art); err != nil {
			return fmt.Errorf("failed to copy drawing: %w", err)
		}
		fmt.Fprintln(c.stdout, "copied to clipboard")
		return nil
	}

	path := c.output
	if path == "" {
		path, err = art.Save(c.saveDir)
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		err = art.WriteFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to write drawing: %w", err)
	}
	c.notifySave(path)
	fmt.Fprintf(c.stdout, "wrote %s (round %d, %d strokes)\n", path, art.Round, art.Strokes)
	return nil
}
