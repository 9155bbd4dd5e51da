package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/example/doodlegate/internal/stroke"
	"github.com/example/doodlegate/internal/theme"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	current := c.config.StartBrush().Color
	fmt.Fprintln(c.stdout, "available palette colors (* marks the starting brush color):")
	for idx, entry := range stroke.Palette() {
		marker := " "
		if entry.Color == current {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx+1, entry.Name, stroke.Hex(entry.Color), swatchBlock(entry.Color.R, entry.Color.G, entry.Color.B))
	}
	fmt.Fprintf(c.stdout, "starting brush: %s %s\n", stroke.Hex(current), swatchBlock(current.R, current.G, current.B))
	fmt.Fprintln(c.stdout, "any #RRGGBB value or SVG color name is accepted too")
	return nil
}

func swatchBlock(r, g, b uint8) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ExitOnError)
	cmd := &widthsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	current := c.config.StartBrush().Thickness
	fmt.Fprintf(c.stdout, "stroke widths range from %gpx to %gpx (* marks the starting width):\n", stroke.MinThickness, stroke.MaxThickness)
	for _, p := range stroke.Presets() {
		marker := " "
		if p.Value == current {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %-7s %3gpx\n", marker, p.Name, p.Value)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *widthsCmd) Template() string {
	return "widths.txt"
}

type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	fmt.Fprintln(c.stdout, "built in themes (* marks the active theme):")
	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	names := append([]string{"default"}, theme.Names()...)
	var custom []string
	for name := range c.config.Themes {
		custom = append(custom, name)
	}
	sort.Strings(custom)
	names = append(names, custom...)
	for _, name := range names {
		t, err := resolveTheme(c.config, name)
		if err != nil {
			fmt.Fprintf(c.stderr, "warning: %v\n", err)
			continue
		}
		marker := " "
		if t.Name == active {
			marker = "*"
		}
		acc := t.Accent
		fmt.Fprintf(c.stdout, "%s %-12s %s\n", marker, name, swatchBlock(acc.R, acc.G, acc.B))
	}
	return nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *themesCmd) Template() string {
	return "themes.txt"
}
