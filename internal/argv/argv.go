// Package argv turns a state tree into the ordered token list handed to the
// process supervisor. Assembly is pure and deterministic: declaration order
// and current values fully determine the result.
package argv

import (
	"fmt"

	"cmdesk/internal/locale"
	"cmdesk/internal/spec"
	"cmdesk/internal/state"
)

// MissingRequiredError reports a required Single argument left empty.
type MissingRequiredError struct {
	// ID is the offending argument id, for error correlation.
	ID string
	// DisplayName is the human label for the message payload.
	DisplayName string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("required argument %q is empty", e.ID)
}

// MessageID returns the identifier the presentation layer renders this
// failure under.
func (e *MissingRequiredError) MessageID() string { return locale.MsgRequiredMissing }

// MissingSubcommandError reports a command that requires a sub-command
// while none is selected.
type MissingSubcommandError struct {
	// Command is the command name, for the message payload.
	Command string
}

func (e *MissingSubcommandError) Error() string {
	return fmt.Sprintf("command %q requires a sub-command", e.Command)
}

// MessageID returns the identifier the presentation layer renders this
// failure under.
func (e *MissingSubcommandError) MessageID() string { return locale.MsgMissingSubcommand }

// InternalError reports a schema defect, not a user mistake: a Flag or
// Counter argument with no invocation token. The definition validator makes
// this unreachable for trees it accepted.
type InternalError struct {
	ID     string
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error on argument %q: %s", e.ID, e.Reason)
}

// MessageID returns the identifier the presentation layer renders this
// failure under.
func (e *InternalError) MessageID() string { return locale.MsgInternalError }

// Assemble serializes the state tree into argument tokens. It fails fast on
// the first offending argument and never mutates state; the caller decides
// how to surface the failure.
func Assemble(n *state.Node) ([]string, error) {
	return assemble(n, nil)
}

func assemble(n *state.Node, args []string) ([]string, error) {
	var err error
	for _, av := range n.Values {
		args, err = appendValue(args, av)
		if err != nil {
			return nil, err
		}
	}

	if n.Choice != nil {
		// The chosen branch leads with its own name token.
		args = append(args, n.Choice.ID)
		return assemble(n.Choice.Node, args)
	}
	if n.Model.SubcommandRequired {
		return nil, &MissingSubcommandError{Command: n.Model.Name}
	}
	return args, nil
}

func appendValue(args []string, av *state.ArgValue) ([]string, error) {
	s := av.Spec
	switch v := av.Value.(type) {
	case *state.SingleValue:
		if v.Entry.Text == "" {
			if s.Required {
				return nil, &MissingRequiredError{ID: s.ID, DisplayName: s.DisplayName}
			}
			return args, nil
		}
		return appendToken(args, s, v.Entry.Text), nil

	case *state.MultipleValue:
		for _, entry := range v.Entries {
			args = appendToken(args, s, entry.Text)
		}
		return args, nil

	case *state.FlagValue:
		if !v.Set {
			return args, nil
		}
		if s.Positional() {
			return nil, &InternalError{ID: s.ID, Reason: "flag without invocation token"}
		}
		return append(args, s.Token), nil

	case *state.CounterValue:
		if v.Count > 0 && s.Positional() {
			return nil, &InternalError{ID: s.ID, Reason: "counter without invocation token"}
		}
		for i := 0; i < v.Count; i++ {
			args = append(args, s.Token)
		}
		return args, nil

	default:
		return nil, &InternalError{ID: s.ID, Reason: "unknown value kind"}
	}
}

// appendToken emits one value under the spec's token rule: "token=value" as
// one argument, "token value" as two, or the bare value for positionals.
func appendToken(args []string, s *spec.ArgSpec, value string) []string {
	switch {
	case s.Positional():
		return append(args, value)
	case s.UseEquals:
		return append(args, s.Token+"="+value)
	default:
		return append(args, s.Token, value)
	}
}
