package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cmdesk/internal/locale"
	"cmdesk/internal/spec"
	"cmdesk/internal/state"
	"cmdesk/pkg/cmdef"
)

// rowKind discriminates the flattened form rows.
type rowKind int

const (
	// rowScalar covers Single, Flag and Counter values.
	rowScalar rowKind = iota
	// rowEntry is one existing entry of a Multiple value.
	rowEntry
	// rowNewEntry is the trailing "new value" slot of a Multiple value.
	rowNewEntry
	// rowChoice is a node's sub-command selector.
	rowChoice
)

// formRow is one navigable line of the argument form.
type formRow struct {
	kind  rowKind
	node  *state.Node
	av    *state.ArgValue
	entry int
}

// Form renders the command state tree as a navigable list of rows and
// applies edits back to it. Selecting a sub-command swaps the branch and
// rebuilds the rows; edits in an abandoned branch are gone for good.
type Form struct {
	root  *state.Node
	table *locale.Table

	rows    []formRow
	cursor  int
	input   textinput.Model
	editing bool
	width   int

	labelStyle lipgloss.Style
	dimStyle   lipgloss.Style
	errStyle   lipgloss.Style
	cursorMark lipgloss.Style
}

// NewForm creates a Form over the given state tree.
func NewForm(root *state.Node, table *locale.Table) *Form {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	f := &Form{
		root:  root,
		table: table,
		input: ti,
		width: 80,

		labelStyle: lipgloss.NewStyle().Bold(true),
		dimStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		cursorMark: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	}
	f.rebuild()
	return f
}

// SetWidth sets the rendering width.
func (f *Form) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 8
}

// Editing reports whether a text edit is in progress. While true, the app
// must route all key input here.
func (f *Form) Editing() bool {
	return f.editing
}

// rebuild reflattens the selected branch chain into rows and clamps the
// cursor.
func (f *Form) rebuild() {
	f.rows = f.rows[:0]
	for node := f.root; node != nil; {
		for _, av := range node.Values {
			switch v := av.Value.(type) {
			case *state.MultipleValue:
				for i := range v.Entries {
					f.rows = append(f.rows, formRow{kind: rowEntry, node: node, av: av, entry: i})
				}
				f.rows = append(f.rows, formRow{kind: rowNewEntry, node: node, av: av})
			default:
				f.rows = append(f.rows, formRow{kind: rowScalar, node: node, av: av})
			}
		}
		if len(node.Model.Subcommands) > 0 {
			f.rows = append(f.rows, formRow{kind: rowChoice, node: node})
		}
		if node.Choice == nil {
			break
		}
		node = node.Choice.Node
	}
	if f.cursor >= len(f.rows) {
		f.cursor = len(f.rows) - 1
	}
	if f.cursor < 0 {
		f.cursor = 0
	}
}

// Update handles key input for the form.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	if f.editing {
		return f.updateEditing(key)
	}
	if len(f.rows) == 0 {
		return f, nil
	}

	row := &f.rows[f.cursor]
	switch key.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < len(f.rows)-1 {
			f.cursor++
		}
	case "enter":
		return f.activate(row)
	case "left", "h":
		f.adjust(row, -1)
	case "right", "l":
		f.adjust(row, +1)
	case "r":
		f.reset(row)
	case "d":
		if row.kind == rowEntry {
			_ = row.node.RemoveMultiple(row.av.Spec.ID, row.entry)
			f.rebuild()
		}
	}
	return f, nil
}

// activate handles enter on a row: toggle, increment, select, or begin a
// text edit.
func (f *Form) activate(row *formRow) (*Form, tea.Cmd) {
	switch row.kind {
	case rowScalar:
		switch v := row.av.Value.(type) {
		case *state.SingleValue:
			if len(row.av.Spec.Choices) > 0 {
				f.cycleValueChoice(row, +1)
				return f, nil
			}
			return f.beginEdit(v.Entry.Text, f.placeholder(row.av.Spec))
		case *state.FlagValue:
			_ = row.node.ToggleFlag(row.av.Spec.ID)
		case *state.CounterValue:
			_ = row.node.IncrementCounter(row.av.Spec.ID)
		}
	case rowEntry:
		v := row.av.Value.(*state.MultipleValue)
		return f.beginEdit(v.Entries[row.entry].Text, "")
	case rowNewEntry:
		return f.beginEdit("", f.table.Get(locale.MsgNewValue))
	case rowChoice:
		f.cycleChoice(row.node, +1)
	}
	return f, nil
}

// adjust handles left/right on a row.
func (f *Form) adjust(row *formRow, delta int) {
	switch row.kind {
	case rowScalar:
		switch row.av.Value.(type) {
		case *state.CounterValue:
			if delta > 0 {
				_ = row.node.IncrementCounter(row.av.Spec.ID)
			} else {
				_ = row.node.DecrementCounter(row.av.Spec.ID)
			}
		case *state.SingleValue:
			if len(row.av.Spec.Choices) > 0 {
				f.cycleValueChoice(row, delta)
			}
		}
	case rowChoice:
		f.cycleChoice(row.node, delta)
	}
}

// reset restores a row's argument to its declared default.
func (f *Form) reset(row *formRow) {
	if row.av == nil {
		return
	}
	switch row.av.Value.(type) {
	case *state.SingleValue:
		_ = row.node.ResetSingleToDefault(row.av.Spec.ID)
	case *state.MultipleValue:
		_ = row.node.ResetMultipleToDefault(row.av.Spec.ID)
		f.rebuild()
	}
}

// cycleValueChoice moves a closed-set Single value through its choices.
func (f *Form) cycleValueChoice(row *formRow, delta int) {
	choices := row.av.Spec.Choices
	v := row.av.Value.(*state.SingleValue)
	cur := -1
	for i, c := range choices {
		if c == v.Entry.Text {
			cur = i
			break
		}
	}
	next := (cur + delta + len(choices) + 1) % (len(choices) + 1)
	if next == len(choices) {
		_ = row.node.SetSingle(row.av.Spec.ID, "")
	} else {
		_ = row.node.SetSingle(row.av.Spec.ID, choices[next])
	}
}

// cycleChoice moves a node's sub-command selection forward or backward.
// An optional selector includes an unset slot in the cycle.
func (f *Form) cycleChoice(node *state.Node, delta int) {
	subs := node.Model.Subcommands
	options := len(subs)
	if !node.Model.SubcommandRequired {
		options++
	}
	cur := options - 1 // unset slot, or last sub when required
	if node.Choice != nil {
		for i, sub := range subs {
			if sub.Name == node.Choice.ID {
				cur = i
				break
			}
		}
	} else if node.Model.SubcommandRequired {
		cur = -1
	}
	next := (cur + delta + options) % options
	if next >= len(subs) {
		node.ClearSubcommand()
	} else {
		_ = node.SelectSubcommand(subs[next].Name)
	}
	f.rebuild()
}

// beginEdit focuses the shared text input over the current row.
func (f *Form) beginEdit(current, placeholder string) (*Form, tea.Cmd) {
	f.editing = true
	f.input.SetValue(current)
	f.input.Placeholder = placeholder
	f.input.CursorEnd()
	return f, f.input.Focus()
}

// updateEditing routes keys to the text input; enter commits, esc cancels.
func (f *Form) updateEditing(key tea.KeyMsg) (*Form, tea.Cmd) {
	switch key.String() {
	case "enter":
		f.commit(f.input.Value())
		f.endEdit()
		return f, nil
	case "esc":
		f.endEdit()
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(key)
	return f, cmd
}

func (f *Form) endEdit() {
	f.editing = false
	f.input.Blur()
	f.input.Reset()
}

// commit writes the edited text back into the tree.
func (f *Form) commit(text string) {
	row := &f.rows[f.cursor]
	switch row.kind {
	case rowScalar:
		_ = row.node.SetSingle(row.av.Spec.ID, text)
	case rowEntry:
		_ = row.node.SetMultiple(row.av.Spec.ID, row.entry, text)
	case rowNewEntry:
		if text != "" {
			_ = row.node.AddMultiple(row.av.Spec.ID, text)
			f.rebuild()
		}
	}
}

// placeholder is the ghost text for an empty Single value: the declared
// default when present, otherwise a path-hint prompt.
func (f *Form) placeholder(s *spec.ArgSpec) string {
	if def := s.Default(); def != "" {
		return def
	}
	switch s.Hint {
	case cmdef.HintFile:
		return f.table.Get(locale.MsgSelectFile)
	case cmdef.HintDir:
		return f.table.Get(locale.MsgSelectDirectory)
	case cmdef.HintAnyPath:
		return f.table.Get(locale.MsgSelectFile)
	}
	return ""
}

// View renders the form.
func (f *Form) View() string {
	if len(f.rows) == 0 {
		return f.dimStyle.Render("No arguments")
	}

	var b strings.Builder
	for i := range f.rows {
		row := &f.rows[i]
		mark := "  "
		if i == f.cursor {
			mark = f.cursorMark.Render("> ")
		}
		b.WriteString(mark)
		b.WriteString(f.renderRow(row, i == f.cursor))
		b.WriteString("\n")
		if row.av != nil && row.av.ValidationError != "" && (row.kind == rowScalar || row.kind == rowNewEntry) {
			b.WriteString("    ")
			b.WriteString(f.errStyle.Render(row.av.ValidationError))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRow renders one row's label and value.
func (f *Form) renderRow(row *formRow, selected bool) string {
	switch row.kind {
	case rowChoice:
		label := f.labelStyle.Render(spec.SentenceCase(row.node.Model.Name))
		current := f.dimStyle.Render("(none)")
		if row.node.Choice != nil {
			current = row.node.Choice.ID
		}
		return fmt.Sprintf("%s: < %s >", label, current)

	case rowNewEntry:
		return fmt.Sprintf("%s: %s", f.label(row.av.Spec),
			f.dimStyle.Render("+ "+f.table.Get(locale.MsgNewValue)))

	case rowEntry:
		v := row.av.Value.(*state.MultipleValue)
		if selected && f.editing {
			return fmt.Sprintf("%s[%d]: %s", f.label(row.av.Spec), row.entry, f.input.View())
		}
		return fmt.Sprintf("%s[%d]: %s", f.label(row.av.Spec), row.entry, v.Entries[row.entry].Text)

	default:
		switch v := row.av.Value.(type) {
		case *state.SingleValue:
			if selected && f.editing {
				return fmt.Sprintf("%s: %s", f.label(row.av.Spec), f.input.View())
			}
			text := v.Entry.Text
			if text == "" {
				if ph := f.placeholder(row.av.Spec); ph != "" {
					text = f.dimStyle.Render(ph)
				}
			}
			return fmt.Sprintf("%s: %s", f.label(row.av.Spec), text)
		case *state.FlagValue:
			box := "[ ]"
			if v.Set {
				box = "[x]"
			}
			return fmt.Sprintf("%s %s", box, f.label(row.av.Spec))
		case *state.CounterValue:
			return fmt.Sprintf("%s: - %d +", f.label(row.av.Spec), v.Count)
		}
	}
	return ""
}

// label renders an argument's display name with its optional marker.
func (f *Form) label(s *spec.ArgSpec) string {
	name := f.labelStyle.Render(s.DisplayName)
	if !s.Required && s.Cardinality == spec.Single {
		return name + " " + f.dimStyle.Render(f.table.Get(locale.MsgOptional))
	}
	return name
}
