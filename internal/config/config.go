// Package config resolves CLI settings from defaults, an optional TOML file
// and root flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/tada/internal/store/textstore"
)

const (
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"
)

// ProjectFileNames are looked up in the working directory when -config is not given.
var ProjectFileNames = []string{"todo.toml", ".todo.toml"}

var (
	ValidThemes    = []string{"classic", "neon", "mono"}
	ValidLogLevels = []string{"debug", "info", "warn", "error"}
)

// Config holds resolved settings.
type Config struct {
	DBPath   string `toml:"db_path"`
	Theme    string `toml:"theme"`
	Group    bool   `toml:"group"`
	LogLevel string `toml:"log_level"`

	// File is the config file that was applied, empty if none.
	File string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:   textstore.DefaultPath,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

// Load applies defaults, then the config file, then flags parsed from args.
// It returns the resolved config and the remaining positional arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	cfg := Default()

	var (
		flagFile  string
		flagCfg   = cfg
		flagsSeen = map[string]bool{}
	)
	fs.StringVar(&flagFile, "config", "", "path to a TOML config file")
	fs.StringVar(&flagCfg.DBPath, "db", cfg.DBPath, "path to the todo file")
	fs.StringVar(&flagCfg.Theme, "theme", cfg.Theme, "output theme (classic|neon|mono)")
	fs.BoolVar(&flagCfg.Group, "group", cfg.Group, "group output by pending/done")
	fs.StringVar(&flagCfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) { flagsSeen[f.Name] = true })

	path := flagFile
	if path == "" {
		path = findProjectConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(&cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	// Flags override the file.
	if flagsSeen["db"] {
		cfg.DBPath = flagCfg.DBPath
	}
	if flagsSeen["theme"] {
		cfg.Theme = flagCfg.Theme
	}
	if flagsSeen["group"] {
		cfg.Group = flagCfg.Group
	}
	if flagsSeen["log-level"] {
		cfg.LogLevel = flagCfg.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, fs.Args(), nil
}

// Validate normalizes and checks enumerated fields.
func (c *Config) Validate() error {
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path is empty")
	}
	if !slices.Contains(ValidThemes, c.Theme) {
		return fmt.Errorf("invalid theme %q: must be one of %v", c.Theme, ValidThemes)
	}
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.LogLevel, ValidLogLevels)
	}
	return nil
}

// Write renders c as a TOML document that Load can read back.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func findProjectConfigFile() string {
	for _, name := range ProjectFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}
