package state

import (
	"fmt"

	"cmdesk/internal/spec"
)

// Choice records the currently selected sub-command branch of a node.
type Choice struct {
	// ID is the chosen sub-command name.
	ID string
	// Node is the freshly built child state for that branch.
	Node *Node
}

// Node is one command's runtime state: its ArgValues in declaration order
// plus, when the command has sub-commands, the selected branch. The node
// shape mirrors the spec model exactly; only the choice and the values
// mutate.
type Node struct {
	// Model is the immutable command model this node mirrors.
	Model *spec.Model
	// Values lists the ArgValues in declaration order.
	Values []*ArgValue
	// Choice is the selected sub-command branch, nil when none is chosen
	// or the command has no sub-commands.
	Choice *Choice

	byID map[string]*ArgValue
}

// NewNode builds the runtime state for a command model. Every value starts
// at its empty representation and no sub-command is selected.
func NewNode(m *spec.Model) *Node {
	n := &Node{
		Model:  m,
		Values: make([]*ArgValue, 0, len(m.Args)),
		byID:   make(map[string]*ArgValue, len(m.Args)),
	}
	for i := range m.Args {
		av := newArgValue(&m.Args[i])
		n.Values = append(n.Values, av)
		n.byID[av.Spec.ID] = av
	}
	return n
}

// Value returns the ArgValue for an id, or nil when the node has none.
func (n *Node) Value(id string) *ArgValue {
	return n.byID[id]
}

// SetSingle replaces the text of a Single argument and clears its
// validation error.
func (n *Node) SetSingle(id, text string) error {
	av, v, err := lookupValue[*SingleValue](n, id)
	if err != nil {
		return err
	}
	v.Entry.Text = text
	av.ValidationError = ""
	return nil
}

// ResetSingleToDefault restores a Single argument to its declared default.
func (n *Node) ResetSingleToDefault(id string) error {
	av, v, err := lookupValue[*SingleValue](n, id)
	if err != nil {
		return err
	}
	v.Entry.Text = av.Spec.Default()
	av.ValidationError = ""
	return nil
}

// AddMultiple appends a new entry to a Multiple argument.
func (n *Node) AddMultiple(id, text string) error {
	av, v, err := lookupValue[*MultipleValue](n, id)
	if err != nil {
		return err
	}
	v.Entries = append(v.Entries, NewEntry(text))
	av.ValidationError = ""
	return nil
}

// SetMultiple replaces the text of one entry of a Multiple argument.
func (n *Node) SetMultiple(id string, index int, text string) error {
	av, v, err := lookupValue[*MultipleValue](n, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(v.Entries) {
		return fmt.Errorf("argument %q: index %d out of range", id, index)
	}
	v.Entries[index].Text = text
	av.ValidationError = ""
	return nil
}

// RemoveMultiple deletes one entry of a Multiple argument.
func (n *Node) RemoveMultiple(id string, index int) error {
	av, v, err := lookupValue[*MultipleValue](n, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(v.Entries) {
		return fmt.Errorf("argument %q: index %d out of range", id, index)
	}
	v.Entries = append(v.Entries[:index], v.Entries[index+1:]...)
	av.ValidationError = ""
	return nil
}

// ResetMultipleToDefault replaces all entries of a Multiple argument with
// its declared defaults, each under a fresh identity.
func (n *Node) ResetMultipleToDefault(id string) error {
	av, v, err := lookupValue[*MultipleValue](n, id)
	if err != nil {
		return err
	}
	v.Entries = v.Entries[:0]
	for _, def := range av.Spec.Defaults {
		v.Entries = append(v.Entries, NewEntry(def))
	}
	av.ValidationError = ""
	return nil
}

// ToggleFlag flips a Flag argument.
func (n *Node) ToggleFlag(id string) error {
	av, v, err := lookupValue[*FlagValue](n, id)
	if err != nil {
		return err
	}
	v.Set = !v.Set
	av.ValidationError = ""
	return nil
}

// IncrementCounter raises a Counter argument by one.
func (n *Node) IncrementCounter(id string) error {
	av, v, err := lookupValue[*CounterValue](n, id)
	if err != nil {
		return err
	}
	v.Count++
	av.ValidationError = ""
	return nil
}

// DecrementCounter lowers a Counter argument by one, floored at zero.
func (n *Node) DecrementCounter(id string) error {
	av, v, err := lookupValue[*CounterValue](n, id)
	if err != nil {
		return err
	}
	if v.Count > 0 {
		v.Count--
	}
	av.ValidationError = ""
	return nil
}

// SelectSubcommand replaces the node's choice with a freshly built child
// for the named alternative. Edits made in a previously selected branch are
// discarded; switching back does not restore them.
func (n *Node) SelectSubcommand(id string) error {
	sub := n.Model.Subcommand(id)
	if sub == nil {
		return fmt.Errorf("command %q: no sub-command %q", n.Model.Name, id)
	}
	n.Choice = &Choice{ID: id, Node: NewNode(sub)}
	return nil
}

// ClearSubcommand unsets the choice. Assembly fails afterwards when the
// command requires a sub-command.
func (n *Node) ClearSubcommand() {
	n.Choice = nil
}

// At walks the selected branches along the given sub-command names and
// returns the node there, or nil when the path diverges from the current
// selection.
func (n *Node) At(path ...string) *Node {
	cur := n
	for _, id := range path {
		if cur.Choice == nil || cur.Choice.ID != id {
			return nil
		}
		cur = cur.Choice.Node
	}
	return cur
}

// ApplyValidationError paints a message onto the ArgValue with the given id
// anywhere in the selected tree. An id with no match is dropped silently;
// that indicates a caller bug, not a user condition.
func (n *Node) ApplyValidationError(id, message string) {
	if av := n.byID[id]; av != nil {
		av.ValidationError = message
		return
	}
	if n.Choice != nil {
		n.Choice.Node.ApplyValidationError(id, message)
	}
}

// ClearValidationErrors removes every painted message in the selected tree.
// Called at the start of each run attempt.
func (n *Node) ClearValidationErrors() {
	for _, av := range n.Values {
		av.ValidationError = ""
	}
	if n.Choice != nil {
		n.Choice.Node.ClearValidationErrors()
	}
}

// lookupValue resolves an id to its ArgValue and asserts the value shape.
func lookupValue[T Value](n *Node, id string) (*ArgValue, T, error) {
	var zero T
	av := n.byID[id]
	if av == nil {
		return nil, zero, fmt.Errorf("command %q: no argument %q", n.Model.Name, id)
	}
	v, ok := av.Value.(T)
	if !ok {
		return nil, zero, fmt.Errorf("argument %q: wrong kind %s", id, av.Spec.Cardinality)
	}
	return av, v, nil
}
