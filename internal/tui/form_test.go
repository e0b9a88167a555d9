package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cmdesk/internal/locale"
	"cmdesk/internal/spec"
	"cmdesk/internal/state"
	"cmdesk/pkg/cmdef"
)

func press(t *testing.T, f *Form, keys ...tea.KeyMsg) *Form {
	t.Helper()
	for _, k := range keys {
		f, _ = f.Update(k)
	}
	return f
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func buildForm(t *testing.T, cmd *cmdef.Command) (*Form, *state.Node) {
	t.Helper()
	node := state.NewNode(spec.Build(cmd))
	return NewForm(node, locale.Default()), node
}

func TestFormToggleFlag(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "force", Long: "force", Action: cmdef.ActionSetTrue}},
	})

	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter})
	if !node.Value("force").Value.(*state.FlagValue).Set {
		t.Error("flag not set after enter")
	}

	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter})
	if node.Value("force").Value.(*state.FlagValue).Set {
		t.Error("flag still set after second enter")
	}
}

func TestFormCounterAdjust(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "verbose", Short: "v", Action: cmdef.ActionCount}},
	})

	form = press(t, form,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyLeft})
	if got := node.Value("verbose").Value.(*state.CounterValue).Count; got != 1 {
		t.Errorf("count = %d, want 1", got)
	}

	// Floor at zero.
	form = press(t, form, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if got := node.Value("verbose").Value.(*state.CounterValue).Count; got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestFormEditSingle(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "name", Long: "name", Action: cmdef.ActionSet}},
	})

	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter})
	if !form.Editing() {
		t.Fatal("Editing() = false after enter on a text row")
	}

	form = press(t, form, runes("hi"), tea.KeyMsg{Type: tea.KeyEnter})
	if form.Editing() {
		t.Error("Editing() = true after commit")
	}
	if got := node.Value("name").Value.(*state.SingleValue).Entry.Text; got != "hi" {
		t.Errorf("text = %q, want %q", got, "hi")
	}
}

func TestFormEscCancelsEdit(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "name", Long: "name", Action: cmdef.ActionSet}},
	})

	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter}, runes("junk"), tea.KeyMsg{Type: tea.KeyEsc})
	if form.Editing() {
		t.Error("Editing() = true after esc")
	}
	if got := node.Value("name").Value.(*state.SingleValue).Entry.Text; got != "" {
		t.Errorf("text = %q, want empty after cancel", got)
	}
}

func TestFormMultipleAddAndRemove(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "files", Long: "file", Action: cmdef.ActionAppend}},
	})

	// The only row is the "new value" slot.
	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter}, runes("a.txt"), tea.KeyMsg{Type: tea.KeyEnter})
	entries := node.Value("files").Value.(*state.MultipleValue).Entries
	if len(entries) != 1 || entries[0].Text != "a.txt" {
		t.Fatalf("entries = %v, want one entry a.txt", entries)
	}

	// The cursor lands on the freshly added entry; delete it.
	form = press(t, form, runes("d"))
	if got := len(node.Value("files").Value.(*state.MultipleValue).Entries); got != 0 {
		t.Errorf("entries after delete = %d, want 0", got)
	}
}

func TestFormSubcommandCycle(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Subcommands: []cmdef.Command{
			{Name: "build", Args: []cmdef.Arg{{ID: "release", Long: "release", Action: cmdef.ActionSetTrue}}},
			{Name: "clean"},
		},
		SubcommandOptional: true,
	})

	if node.Choice != nil {
		t.Fatal("choice set before any selection")
	}

	form = press(t, form, tea.KeyMsg{Type: tea.KeyEnter})
	if node.Choice == nil || node.Choice.ID != "build" {
		t.Fatalf("choice = %v, want build", node.Choice)
	}

	// The build branch's rows appear after the selector.
	if len(form.rows) != 2 {
		t.Errorf("rows = %d, want selector plus one argument", len(form.rows))
	}

	form = press(t, form, tea.KeyMsg{Type: tea.KeyRight})
	if node.Choice == nil || node.Choice.ID != "clean" {
		t.Fatalf("choice = %v, want clean", node.Choice)
	}

	// One more step wraps to the unset slot of an optional selector.
	form = press(t, form, tea.KeyMsg{Type: tea.KeyRight})
	if node.Choice != nil {
		t.Errorf("choice = %v, want cleared", node.Choice)
	}
}

func TestFormViewShowsValidationError(t *testing.T) {
	form, node := buildForm(t, &cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{{ID: "name", Long: "name", Action: cmdef.ActionSet, Required: true}},
	})

	node.ApplyValidationError("name", "Name is required")
	view := form.View()
	if !strings.Contains(view, "Name is required") {
		t.Errorf("view missing validation error:\n%s", view)
	}
}
