package main

import (
	"flag"

	"github.com/example/doodlegate/internal/appstate"
	"github.com/example/doodlegate/internal/config"
	"github.com/example/doodlegate/internal/engine"
	"github.com/example/doodlegate/internal/theme"
)

// playCmd opens the drawing window.
type playCmd struct {
	*root
	fs    *flag.FlagSet
	watch bool
}

func parsePlayCmd(args []string, r *root) (*playCmd, error) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	p := &playCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.BoolVar(&p.watch, "watch-config", true, "reload the theme when the config file changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func (p *playCmd) FlagSet() *flag.FlagSet { return p.fs }

func (p *playCmd) Template() string { return "play.txt" }

func (p *playCmd) Run() error {
	opts, err := p.engineOptions()
	if err != nil {
		return err
	}
	st := []appstate.Option{
		appstate.WithEngine(engine.New(opts...)),
		appstate.WithTheme(p.activeTheme),
		appstate.WithNotifier(p.notifier),
		appstate.WithSaveDir(p.saveDir),
	}
	if p.watch && p.configPath != "" {
		name := p.themeName
		st = append(st, appstate.WithConfigWatch(p.configPath, func(cfg *config.Config) (*theme.Theme, error) {
			if name != "" {
				return resolveTheme(cfg, name)
			}
			return resolveTheme(cfg, cfg.Theme)
		}))
	}
	appstate.New(st...).Run()
	return nil
}
