package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/script"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives an engine on the wall clock from typed commands.
type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	execs commandList
	stdin io.Reader
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	c := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(c)
	fs.Var(&c.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *interactiveCmd) Template() string { return "interactive.txt" }

func (c *interactiveCmd) newInterpreter() (*script.Interpreter, error) {
	opts, err := c.engineOptions()
	if err != nil {
		return nil, err
	}
	interp := script.New(engine.New(opts...), c.stdout, nil)
	interp.Hooks.Saved = c.notifySave
	interp.Hooks.Copy = c.copyArtifact
	return interp, nil
}

func (c *interactiveCmd) Run() error {
	interp, err := c.newInterpreter()
	if err != nil {
		return err
	}
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			if err := interp.Exec(line); err != nil {
				if errors.Is(err, script.ErrQuit) {
					return nil
				}
				return fmt.Errorf("%s: %w", line, err)
			}
		}
		return nil
	}

	fmt.Fprintln(c.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		if err := interp.Exec(scanner.Text()); err != nil {
			if errors.Is(err, script.ErrQuit) {
				break
			}
			fmt.Fprintln(c.stderr, err)
		}
	}
	return scanner.Err()
}
