// Package cmdef defines the abstract command-line interface description that
// cmdesk consumes: a program name, its arguments, and nested sub-command
// alternatives. The tree is plain data; cmdesk walks it to build its runtime
// state, it never parses command-line text itself.
package cmdef

import (
	"fmt"
	"strings"
)

// Action describes how repeated occurrences of an argument accumulate.
type Action int

const (
	// ActionSet stores a single value, the last occurrence wins.
	ActionSet Action = iota
	// ActionAppend collects every occurrence into an ordered list.
	ActionAppend
	// ActionSetTrue is a boolean toggle with no value.
	ActionSetTrue
	// ActionCount counts occurrences (-v, -vv, -vvv).
	ActionCount
)

// String returns the YAML spelling of the action.
func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionAppend:
		return "append"
	case ActionSetTrue:
		return "flag"
	case ActionCount:
		return "count"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ValueHint tags an argument whose value names a filesystem path, so a
// presentation layer can offer a file or directory picker. The core only
// carries the tag.
type ValueHint int

const (
	// HintNone marks a plain value.
	HintNone ValueHint = iota
	// HintFile marks a value naming a file.
	HintFile
	// HintDir marks a value naming a directory.
	HintDir
	// HintAnyPath marks a value naming either a file or a directory.
	HintAnyPath
)

// String returns the YAML spelling of the hint.
func (h ValueHint) String() string {
	switch h {
	case HintNone:
		return "none"
	case HintFile:
		return "file"
	case HintDir:
		return "dir"
	case HintAnyPath:
		return "path"
	default:
		return fmt.Sprintf("hint(%d)", int(h))
	}
}

// Arg describes one argument of a command.
type Arg struct {
	// ID is the stable identifier, unique within its command.
	ID string `yaml:"id"`
	// Long is the long flag spelling without leading dashes ("verbose").
	Long string `yaml:"long,omitempty"`
	// Short is the short flag spelling without the leading dash ("v").
	Short string `yaml:"short,omitempty"`
	// Help is an optional description shown next to the argument.
	Help string `yaml:"help,omitempty"`
	// Required rejects a run while the argument has no value. Only
	// meaningful for ActionSet arguments.
	Required bool `yaml:"required,omitempty"`
	// UseEquals joins flag and value into one "--flag=value" token.
	UseEquals bool `yaml:"use_equals,omitempty"`
	// Action selects the accumulation behavior.
	Action Action `yaml:"action,omitempty"`
	// Defaults holds default value(s), used as placeholder and reset
	// target. They are never submitted implicitly.
	Defaults []string `yaml:"defaults,omitempty"`
	// Choices restricts the value to a closed set when non-empty.
	Choices []string `yaml:"choices,omitempty"`
	// Hint tags path-valued arguments for pickers.
	Hint ValueHint `yaml:"hint,omitempty"`
}

// Positional reports whether the argument has no flag spelling and is
// emitted bare, by declaration order.
func (a *Arg) Positional() bool {
	return a.Long == "" && a.Short == ""
}

// Command describes one command: its own arguments plus zero or more named
// sub-command alternatives, each itself a full Command.
type Command struct {
	// Name is the command name. For a sub-command it is also the leading
	// token emitted when the branch is serialized.
	Name string `yaml:"name"`
	// Help is an optional description shown at the top of the form.
	Help string `yaml:"help,omitempty"`
	// Args lists the command's own arguments in declaration order.
	Args []Arg `yaml:"args,omitempty"`
	// Subcommands lists the alternatives the user picks exactly one of.
	Subcommands []Command `yaml:"subcommands,omitempty"`
	// SubcommandOptional permits running with no sub-command selected.
	SubcommandOptional bool `yaml:"subcommand_optional,omitempty"`
}

// Validate checks the definition tree for schema defects: empty names,
// duplicate argument ids, and toggle/count arguments without a flag
// spelling (those have no way to appear in an argument vector).
func (c *Command) Validate() error {
	return c.validate(c.Name)
}

func (c *Command) validate(path string) error {
	if c.Name == "" {
		return fmt.Errorf("command %q: empty name", path)
	}
	seen := make(map[string]struct{}, len(c.Args))
	for i := range c.Args {
		arg := &c.Args[i]
		if arg.ID == "" {
			return fmt.Errorf("command %q: argument %d has no id", path, i)
		}
		if _, dup := seen[arg.ID]; dup {
			return fmt.Errorf("command %q: duplicate argument id %q", path, arg.ID)
		}
		seen[arg.ID] = struct{}{}
		if (arg.Action == ActionSetTrue || arg.Action == ActionCount) && arg.Positional() {
			return fmt.Errorf("command %q: argument %q: %s action requires a long or short flag", path, arg.ID, arg.Action)
		}
		if strings.ContainsAny(arg.Long, " =") || strings.ContainsAny(arg.Short, " =") {
			return fmt.Errorf("command %q: argument %q: flag spelling contains reserved characters", path, arg.ID)
		}
	}
	names := make(map[string]struct{}, len(c.Subcommands))
	for i := range c.Subcommands {
		sub := &c.Subcommands[i]
		if _, dup := names[sub.Name]; dup {
			return fmt.Errorf("command %q: duplicate sub-command %q", path, sub.Name)
		}
		names[sub.Name] = struct{}{}
		if err := sub.validate(path + " " + sub.Name); err != nil {
			return err
		}
	}
	return nil
}

// Subcommand returns the sub-command alternative with the given name,
// or nil if none matches.
func (c *Command) Subcommand(name string) *Command {
	for i := range c.Subcommands {
		if c.Subcommands[i].Name == name {
			return &c.Subcommands[i]
		}
	}
	return nil
}
