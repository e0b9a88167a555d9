// Package spec builds the immutable argument model cmdesk works from: one
// ArgSpec per declared argument, one Model per command, derived once from a
// cmdef definition tree and never mutated afterwards.
package spec

import (
	"cmdesk/pkg/cmdef"
)

// Cardinality is the closed set of argument value shapes. Every consumer
// switches exhaustively over these four cases.
type Cardinality int

const (
	// Single holds one text value.
	Single Cardinality = iota
	// Multiple holds an ordered, user-extendable list of text values.
	Multiple
	// Flag holds a boolean.
	Flag
	// Counter holds a non-negative occurrence count.
	Counter
)

// String returns a short name for the cardinality.
func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	case Flag:
		return "flag"
	case Counter:
		return "counter"
	default:
		return "unknown"
	}
}

// ArgSpec is the static description of one argument.
type ArgSpec struct {
	// ID is the stable identifier, used for error correlation.
	ID string
	// DisplayName is the human label derived from ID.
	DisplayName string
	// Token is the literal flag token ("--verbose", "-v"), empty for
	// positional arguments.
	Token string
	// Help is the optional description.
	Help string
	// Required rejects assembly while a Single value is empty.
	Required bool
	// UseEquals joins token and value with "=" into one argument.
	UseEquals bool
	// Cardinality selects the value shape.
	Cardinality Cardinality
	// Defaults holds the declared default value(s); placeholder and reset
	// target only, never submitted implicitly.
	Defaults []string
	// Choices restricts the value to a closed set when non-empty.
	Choices []string
	// Hint tags path-valued arguments; consumed by the presentation layer.
	Hint cmdef.ValueHint
}

// Positional reports whether the argument is emitted bare, without a token.
func (s *ArgSpec) Positional() bool {
	return s.Token == ""
}

// Default returns the first declared default, or "" when none exists.
func (s *ArgSpec) Default() string {
	if len(s.Defaults) == 0 {
		return ""
	}
	return s.Defaults[0]
}

// Model is the argument model of one command: its own ArgSpecs in
// declaration order plus one child Model per sub-command alternative.
type Model struct {
	// Name is the command name.
	Name string
	// Help is the optional command description.
	Help string
	// Args lists the ArgSpecs in declaration order.
	Args []ArgSpec
	// Subcommands lists the alternatives in declaration order.
	Subcommands []*Model
	// SubcommandRequired marks an unset choice as a validation failure.
	SubcommandRequired bool
}

// Subcommand returns the child model with the given name, or nil.
func (m *Model) Subcommand(name string) *Model {
	for _, sub := range m.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Build derives the full model from a definition tree.
func Build(cmd *cmdef.Command) *Model {
	m := &Model{
		Name:               cmd.Name,
		Help:               cmd.Help,
		Args:               make([]ArgSpec, 0, len(cmd.Args)),
		SubcommandRequired: len(cmd.Subcommands) > 0 && !cmd.SubcommandOptional,
	}
	for i := range cmd.Args {
		m.Args = append(m.Args, buildArg(&cmd.Args[i]))
	}
	for i := range cmd.Subcommands {
		m.Subcommands = append(m.Subcommands, Build(&cmd.Subcommands[i]))
	}
	return m
}

func buildArg(arg *cmdef.Arg) ArgSpec {
	token := ""
	switch {
	case arg.Long != "":
		token = "--" + arg.Long
	case arg.Short != "":
		token = "-" + arg.Short
	}

	var card Cardinality
	switch arg.Action {
	case cmdef.ActionAppend:
		card = Multiple
	case cmdef.ActionSetTrue:
		card = Flag
	case cmdef.ActionCount:
		card = Counter
	default:
		card = Single
	}

	return ArgSpec{
		ID:          arg.ID,
		DisplayName: SentenceCase(arg.ID),
		Token:       token,
		Help:        arg.Help,
		Required:    arg.Required,
		UseEquals:   arg.UseEquals,
		Cardinality: card,
		Defaults:    append([]string(nil), arg.Defaults...),
		Choices:     append([]string(nil), arg.Choices...),
		Hint:        arg.Hint,
	}
}
