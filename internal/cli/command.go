package cli

import (
	"fmt"
	"strings"
)

const (
	actionAdd    = "add"
	actionList   = "ls"
	actionRemove = "rm"
	actionDone   = "done"
	actionTUI    = "tui"
	actionConfig = "config"
	actionHelp   = "help"
)

// command is one parsed invocation: `<action> <item...>`.
type command struct {
	action string
	item   string
}

// parseCommand validates positional arguments before any file is touched.
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, &ArgError{Name: "action"}
	}
	action, rest := args[0], args[1:]

	switch action {
	case "help", "-h", "--help":
		return command{action: actionHelp}, nil
	case actionList, actionTUI, actionConfig:
		return command{action: action}, nil
	case actionAdd, actionRemove, actionDone:
		item := strings.TrimSpace(strings.Join(rest, " "))
		if item == "" {
			return command{}, &ArgError{Name: "item"}
		}
		if err := validateItem(item); err != nil {
			return command{}, err
		}
		return command{action: action, item: item}, nil
	}
	return command{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

// validateItem rejects names the line format cannot represent.
func validateItem(name string) error {
	if strings.ContainsAny(name, "\t\r\n") {
		return fmt.Errorf("%w: %q contains a tab or line break", ErrInvalidItem, name)
	}
	return nil
}
