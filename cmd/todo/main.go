package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	// Root flags (apply to every action), then the TOML file underneath them.
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, args, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(cli.ExitOK)
		}
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(cli.ExitUsage)
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	logger, err := logging.New(os.Stderr, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(cli.ExitUsage)
	}
	if cfg.File != "" {
		logger.Debug("config file applied", "path", cfg.File)
	}

	ui.SetTheme(cfg.Theme)

	code := cli.Run(args, cli.Options{
		Config: *cfg,
		Logger: logger,
	})
	os.Exit(code)
}
