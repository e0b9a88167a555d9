// Package state holds the mutable runtime side of cmdesk: one ArgValue per
// ArgSpec and a recursive node tree that mirrors the spec model. The tree is
// built once when the program starts and mutated in place by user edits.
package state

import (
	"github.com/google/uuid"

	"cmdesk/internal/spec"
)

// Entry is one text value plus a stable synthetic identity. The identity
// keeps selection widgets stable across redraws; it carries no meaning and
// never reaches an argument vector.
type Entry struct {
	Text string
	ID   uuid.UUID
}

// NewEntry returns an Entry with a fresh identity.
func NewEntry(text string) Entry {
	return Entry{Text: text, ID: uuid.New()}
}

// Value is the closed set of runtime value shapes, one per cardinality.
// Consumers type-switch over the four concrete types.
type Value interface {
	value()
}

// SingleValue holds the text of a Single argument.
type SingleValue struct {
	Entry Entry
}

// MultipleValue holds the ordered entries of a Multiple argument.
type MultipleValue struct {
	Entries []Entry
}

// FlagValue holds the boolean of a Flag argument.
type FlagValue struct {
	Set bool
}

// CounterValue holds the non-negative count of a Counter argument.
type CounterValue struct {
	Count int
}

func (*SingleValue) value()   {}
func (*MultipleValue) value() {}
func (*FlagValue) value()     {}
func (*CounterValue) value()  {}

// ArgValue is the mutable runtime state for one ArgSpec.
type ArgValue struct {
	// Spec is the immutable descriptor this value belongs to.
	Spec *spec.ArgSpec
	// Value holds the current value, shaped by Spec.Cardinality.
	Value Value
	// ValidationError holds the transient message painted by a failed
	// run attempt, cleared on the next edit or run.
	ValidationError string
}

// newArgValue creates the empty value for a spec: empty string, empty list,
// false, or zero.
func newArgValue(s *spec.ArgSpec) *ArgValue {
	av := &ArgValue{Spec: s}
	switch s.Cardinality {
	case spec.Single:
		av.Value = &SingleValue{Entry: NewEntry("")}
	case spec.Multiple:
		av.Value = &MultipleValue{}
	case spec.Flag:
		av.Value = &FlagValue{}
	case spec.Counter:
		av.Value = &CounterValue{}
	}
	return av
}

// Empty reports whether the value is at its empty representation.
func (av *ArgValue) Empty() bool {
	switch v := av.Value.(type) {
	case *SingleValue:
		return v.Entry.Text == ""
	case *MultipleValue:
		return len(v.Entries) == 0
	case *FlagValue:
		return !v.Set
	case *CounterValue:
		return v.Count == 0
	default:
		return true
	}
}
