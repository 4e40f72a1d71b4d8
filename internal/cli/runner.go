package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/textstore"
	"github.com/idilsaglam/tada/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ListRunner drives the interactive list and returns the edited records and
// whether anything changed.
type ListRunner func(records []model.Record) ([]model.Record, bool, error)

// Options carry resolved settings and I/O for a single run.
type Options struct {
	Config config.Config
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger

	// RunList replaces the terminal UI; nil uses the bubbletea program.
	RunList ListRunner
}

func (o Options) withDefaults() Options {
	if o.Config.DBPath == "" {
		o.Config = config.Default()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.RunList == nil {
		o.RunList = runInteractiveList
	}
	return o
}

// Run dispatches actions and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt = opt.withDefaults()

	cmd, err := parseCommand(args)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		if errors.Is(err, ErrUnknownAction) || errors.Is(err, ErrMissingArgument) {
			fmt.Fprintln(opt.Stderr)
			PrintHelp(opt.Stderr)
		}
		return ExitUsage
	}
	opt.Logger.Debug("dispatch", "action", cmd.action, "db", opt.Config.DBPath)

	switch cmd.action {
	case actionHelp:
		PrintHelp(opt.Stdout)
		return ExitOK
	case actionConfig:
		return doConfig(opt)
	case actionList:
		return doList(opt)
	case actionTUI:
		return doInteractive(opt)
	case actionAdd:
		return doAdd(opt, cmd.item)
	case actionRemove:
		return doRemove(opt, cmd.item)
	case actionDone:
		return doToggle(opt, cmd.item)
	}
	// parseCommand only returns known actions.
	ui.Fail(opt.Stderr, "unhandled action: "+cmd.action)
	return ExitError
}

// PrintHelp writes usage text to w.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny CLI

Usage:
  todo [flags] <action> [item...]

Actions:
  add <item...>      Add an item, marked true (multiple words are joined)
  rm <item...>       Remove an item by name
  done <item...>     Flip the true/false flag of an item
  ls                 List items
  tui                Browse and edit items interactively
  config             Print the resolved configuration as TOML

Flags:
  -db <path>         Todo file (default %s)
  -config <path>     TOML config file (default ./todo.toml or ./.todo.toml)
  -theme <name>      classic | neon | mono
  -group             Group ls output by pending/done
  -log-level <lvl>   debug | info | warn | error

Examples:
  todo add "Buy milk"
  todo ls
  todo done Buy milk
  todo rm Buy milk
`, textstore.DefaultPath)
}

// -------------- action impls ----------------

func load(opt Options) (*textstore.Store, bool) {
	s, err := textstore.Load(opt.Config.DBPath)
	if err != nil {
		opt.Logger.Error("load failed", "path", opt.Config.DBPath, "err", err)
		ui.Fail(opt.Stderr, "load: "+err.Error())
		var pe *textstore.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: every line must be `name<TAB>true` or `name<TAB>false`"))
		}
		return nil, false
	}
	opt.Logger.Debug("loaded", "path", s.Path(), "items", s.Len())
	return s, true
}

func save(opt Options, s *textstore.Store) bool {
	n := s.Len()
	if err := s.Save(); err != nil {
		opt.Logger.Error("save failed", "path", s.Path(), "err", err)
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return false
	}
	opt.Logger.Debug("saved", "path", s.Path(), "items", n)
	return true
}

func doAdd(opt Options, item string) int {
	s, ok := load(opt)
	if !ok {
		return ExitError
	}
	if err := s.Insert(item); err != nil {
		ui.Fail(opt.Stderr, "add: "+err.Error())
		return ExitError
	}
	if !save(opt, s) {
		return ExitError
	}
	ui.OK(opt.Stdout, "added")
	return ExitOK
}

func doRemove(opt Options, item string) int {
	s, ok := load(opt)
	if !ok {
		return ExitError
	}
	removed, err := s.Remove(item)
	if err != nil {
		ui.Fail(opt.Stderr, "rm: "+err.Error())
		return ExitError
	}
	if !removed {
		ui.Fail(opt.Stderr, "rm: no such item: "+item)
		fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: run `todo ls` to see item names"))
		return ExitError
	}
	if !save(opt, s) {
		return ExitError
	}
	ui.OK(opt.Stdout, "removed")
	return ExitOK
}

func doToggle(opt Options, item string) int {
	s, ok := load(opt)
	if !ok {
		return ExitError
	}
	done, found := s.Get(item)
	if !found {
		ui.Fail(opt.Stderr, "done: no such item: "+item)
		fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: run `todo ls` to see item names"))
		return ExitError
	}
	if err := s.Set(item, !done); err != nil {
		ui.Fail(opt.Stderr, "done: "+err.Error())
		return ExitError
	}
	if !save(opt, s) {
		return ExitError
	}
	ui.OK(opt.Stdout, "toggled")
	return ExitOK
}

func doList(opt Options) int {
	s, ok := load(opt)
	if !ok {
		return ExitError
	}
	records := s.Records()
	t := ui.Current()

	d, p := s.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymOK), d,
		t.Pending.Render("•"), p,
		t.Accent.Render("Total"), len(records),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Config.Group {
		lines = append(lines, groupLines(records)...)
	} else {
		lines = append(lines, flatLines(records)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(opt.Stdout, lines)
	return ExitOK
}

// doInteractive saves through a fresh Store so the file only changes when
// the list was edited.
func doInteractive(opt Options) int {
	s, ok := load(opt)
	if !ok {
		return ExitError
	}
	records, changed, err := opt.RunList(s.Records())
	if err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return ExitError
	}
	if !changed {
		return ExitOK
	}
	out := textstore.New(s.Path())
	for _, r := range records {
		if err := out.Set(r.Name, r.Done); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return ExitError
		}
	}
	if !save(opt, out) {
		return ExitError
	}
	ui.OK(opt.Stdout, "saved")
	return ExitOK
}

func doConfig(opt Options) int {
	if err := opt.Config.Write(opt.Stdout); err != nil {
		ui.Fail(opt.Stderr, "config: "+err.Error())
		return ExitError
	}
	return ExitOK
}

// -------------- rendering helpers --------------

func flatLines(records []model.Record) []string {
	t := ui.Current()
	if len(records) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(records))
	for i, r := range records {
		idx := fmt.Sprintf("%2d.", i+1)
		box, style := t.BoxUnchecked, t.Muted
		if r.Done {
			box, style = t.BoxChecked, t.Success
		}
		name := r.Name
		if len([]rune(name)) > 80 {
			name = string([]rune(name)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), style.Render(box), name))
	}
	return out
}

func groupLines(records []model.Record) []string {
	t := ui.Current()
	var pend, done []model.Record
	for _, r := range records {
		if r.Done {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
