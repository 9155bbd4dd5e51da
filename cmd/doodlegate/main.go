package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/doodlegate/internal/clipboard"
	"github.com/example/doodlegate/internal/config"
	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/export"
	"github.com/example/doodlegate/internal/notify"
	"github.com/example/doodlegate/internal/render"
	"github.com/example/doodlegate/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	gateAlerts  bool
	roundAlerts bool
	themeName   string
	basePath    string
	baseClip    bool
	saveDir     string
	verbose     bool
	activeTheme *theme.Theme
	stdout      io.Writer
	stderr      io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	override := configPathOverride
	if env := os.Getenv("DOODLEGATE_CONFIG"); env != "" {
		override = env
	}
	loader := config.NewLoader(version, override)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:         flag.NewFlagSet("doodlegate", flag.ExitOnError),
		program:    "doodlegate",
		notifier:   notify.New(prefs),
		config:     cfg,
		configPath: loader.GetConfigPath(),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.gateAlerts, "notify-unlock", cfg.Notify.Unlock, "show a desktop notification when drawing unlocks")
	r.fs.BoolVar(&r.roundAlerts, "notify-round", cfg.Notify.Round, "show a desktop notification when a session ends")
	r.fs.StringVar(&r.basePath, "base", cfg.BaseImage, "picture to draw on (png, jpeg or gif)")
	r.fs.BoolVar(&r.baseClip, "base-from-clipboard", false, "draw on the picture currently on the clipboard")
	r.fs.StringVar(&r.saveDir, "save-dir", cfg.SaveDir, "directory saved drawings are written to")
	r.fs.BoolVar(&r.verbose, "v", false, "log engine events to stderr")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) subcommand(name string) *root {
	sub := *r
	sub.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &sub
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventUnlock, r.gateAlerts)
		r.notifier.Enable(notify.EventRound, r.roundAlerts)
	}

	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("DOODLEGATE_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}
	t, err := resolveTheme(r.config, themeName)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "play":
		cmd, err = parsePlayCmd(subArgs, r.subcommand(cmdName))
	case "tui":
		cmd, err = parseTUICmd(subArgs, r.subcommand(cmdName))
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r.subcommand(cmdName))
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r.subcommand(cmdName))
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r.subcommand(cmdName))
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r.subcommand(cmdName))
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme looks the name up in the config's themes first, then the
// theme loader. An empty name is the default theme.
func resolveTheme(cfg *config.Config, name string) (*theme.Theme, error) {
	if t, ok := cfg.Themes[name]; ok {
		return t, nil
	}
	if name == "" || name == "default" {
		return theme.Default(), nil
	}
	return theme.NewLoader().Load(name)
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) logger() *slog.Logger {
	if !r.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (r *root) loadBase() (image.Image, error) {
	switch {
	case r.baseClip:
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("failed to read picture from clipboard: %w", err)
		}
		return img, nil
	case r.basePath != "":
		img, err := render.LoadBase(r.basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load base picture: %w", err)
		}
		return img, nil
	}
	return nil, nil
}

// engineOptions builds the engine settings shared by every command. extra
// options are applied last.
func (r *root) engineOptions(extra ...engine.Option) ([]engine.Option, error) {
	base, err := r.loadBase()
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithBrush(r.config.StartBrush()),
		engine.WithLogger(r.logger()),
		engine.WithExportOptions(export.Options{
			Prefix:   r.config.FilenamePrefix,
			Hashtags: r.config.Share.Hashtags,
		}),
	}
	if n := r.config.SurfaceSize; n > 0 {
		opts = append(opts, engine.WithSize(image.Pt(n, n)))
	}
	if base != nil {
		opts = append(opts, engine.WithBase(base))
		if r.config.SurfaceSize <= 0 {
			opts = append(opts, engine.WithSize(base.Bounds().Size()))
		}
	}
	return append(opts, extra...), nil
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

// copyArtifact publishes the drawing and its share text.
func (r *root) copyArtifact(a *export.Artifact) error {
	if err := clipboard.Publish(clipboard.Offer{PNG: a.PNG, Text: a.ShareText}); err != nil {
		return err
	}
	r.notifyCopy(a.Filename)
	return nil
}
