package state

import (
	"testing"

	"cmdesk/internal/spec"
	"cmdesk/pkg/cmdef"
)

func testModel(t *testing.T) *spec.Model {
	t.Helper()
	return spec.Build(&cmdef.Command{
		Name: "tool",
		Args: []cmdef.Arg{
			{ID: "name", Long: "name", Defaults: []string{"anon"}},
			{ID: "include", Long: "include", Action: cmdef.ActionAppend, Defaults: []string{"a", "b"}},
			{ID: "force", Long: "force", Action: cmdef.ActionSetTrue},
			{ID: "verbose", Short: "v", Action: cmdef.ActionCount},
		},
		Subcommands: []cmdef.Command{
			{Name: "build", Args: []cmdef.Arg{{ID: "target", Long: "target"}}},
			{Name: "clean"},
		},
	})
}

func TestNewNodeStartsEmpty(t *testing.T) {
	n := NewNode(testModel(t))

	if len(n.Values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(n.Values))
	}
	for _, av := range n.Values {
		if !av.Empty() {
			t.Errorf("argument %q should start empty", av.Spec.ID)
		}
		if av.ValidationError != "" {
			t.Errorf("argument %q should start without validation error", av.Spec.ID)
		}
	}
	if n.Choice != nil {
		t.Error("no sub-command should be selected initially")
	}
}

func TestSingleMutations(t *testing.T) {
	n := NewNode(testModel(t))

	if err := n.SetSingle("name", "alice"); err != nil {
		t.Fatalf("SetSingle: %v", err)
	}
	v := n.Value("name").Value.(*SingleValue)
	if v.Entry.Text != "alice" {
		t.Errorf("text = %q, want alice", v.Entry.Text)
	}

	id := v.Entry.ID
	if err := n.SetSingle("name", "bob"); err != nil {
		t.Fatalf("SetSingle: %v", err)
	}
	if v.Entry.ID != id {
		t.Error("editing text must keep the entry identity stable")
	}

	if err := n.ResetSingleToDefault("name"); err != nil {
		t.Fatalf("ResetSingleToDefault: %v", err)
	}
	if v.Entry.Text != "anon" {
		t.Errorf("after reset text = %q, want anon", v.Entry.Text)
	}

	if err := n.SetSingle("missing", "x"); err == nil {
		t.Error("expected error for unknown id")
	}
	if err := n.SetSingle("force", "x"); err == nil {
		t.Error("expected error for wrong kind")
	}
}

func TestMultipleMutations(t *testing.T) {
	n := NewNode(testModel(t))

	if err := n.AddMultiple("include", "src"); err != nil {
		t.Fatalf("AddMultiple: %v", err)
	}
	if err := n.AddMultiple("include", "test"); err != nil {
		t.Fatalf("AddMultiple: %v", err)
	}

	v := n.Value("include").Value.(*MultipleValue)
	if len(v.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(v.Entries))
	}
	if v.Entries[0].ID == v.Entries[1].ID {
		t.Error("entries must carry distinct identities")
	}

	if err := n.SetMultiple("include", 1, "docs"); err != nil {
		t.Fatalf("SetMultiple: %v", err)
	}
	if v.Entries[1].Text != "docs" {
		t.Errorf("entry 1 = %q, want docs", v.Entries[1].Text)
	}

	if err := n.RemoveMultiple("include", 0); err != nil {
		t.Fatalf("RemoveMultiple: %v", err)
	}
	if len(v.Entries) != 1 || v.Entries[0].Text != "docs" {
		t.Errorf("after remove entries = %+v", v.Entries)
	}

	if err := n.RemoveMultiple("include", 5); err == nil {
		t.Error("expected out of range error")
	}
	if err := n.SetMultiple("include", -1, "x"); err == nil {
		t.Error("expected out of range error")
	}

	if err := n.ResetMultipleToDefault("include"); err != nil {
		t.Fatalf("ResetMultipleToDefault: %v", err)
	}
	if len(v.Entries) != 2 || v.Entries[0].Text != "a" || v.Entries[1].Text != "b" {
		t.Errorf("after reset entries = %+v", v.Entries)
	}
}

func TestFlagAndCounter(t *testing.T) {
	n := NewNode(testModel(t))

	if err := n.ToggleFlag("force"); err != nil {
		t.Fatalf("ToggleFlag: %v", err)
	}
	if !n.Value("force").Value.(*FlagValue).Set {
		t.Error("flag should be set after one toggle")
	}
	n.ToggleFlag("force")
	if n.Value("force").Value.(*FlagValue).Set {
		t.Error("flag should be clear after two toggles")
	}

	c := n.Value("verbose").Value.(*CounterValue)
	n.IncrementCounter("verbose")
	n.IncrementCounter("verbose")
	n.IncrementCounter("verbose")
	if c.Count != 3 {
		t.Errorf("count = %d, want 3", c.Count)
	}
	n.DecrementCounter("verbose")
	if c.Count != 2 {
		t.Errorf("count = %d, want 2", c.Count)
	}
	// Floor at zero: decrementing past zero is a no-op.
	n.DecrementCounter("verbose")
	n.DecrementCounter("verbose")
	n.DecrementCounter("verbose")
	if c.Count != 0 {
		t.Errorf("count = %d, want 0", c.Count)
	}
}

func TestSelectSubcommandDiscardsEdits(t *testing.T) {
	n := NewNode(testModel(t))

	if err := n.SelectSubcommand("build"); err != nil {
		t.Fatalf("SelectSubcommand: %v", err)
	}
	if err := n.Choice.Node.SetSingle("target", "release"); err != nil {
		t.Fatalf("SetSingle: %v", err)
	}

	if err := n.SelectSubcommand("clean"); err != nil {
		t.Fatalf("SelectSubcommand: %v", err)
	}
	if err := n.SelectSubcommand("build"); err != nil {
		t.Fatalf("SelectSubcommand: %v", err)
	}

	// Switching away and back builds a fresh child; the edit is gone.
	v := n.Choice.Node.Value("target").Value.(*SingleValue)
	if v.Entry.Text != "" {
		t.Errorf("edit survived branch switch: %q", v.Entry.Text)
	}

	if err := n.SelectSubcommand("nope"); err == nil {
		t.Error("expected error for unknown sub-command")
	}

	n.ClearSubcommand()
	if n.Choice != nil {
		t.Error("ClearSubcommand should unset the choice")
	}
}

func TestAt(t *testing.T) {
	n := NewNode(testModel(t))
	n.SelectSubcommand("build")

	if got := n.At(); got != n {
		t.Error("empty path should return the node itself")
	}
	if got := n.At("build"); got != n.Choice.Node {
		t.Error("At should follow the selected branch")
	}
	if got := n.At("clean"); got != nil {
		t.Error("At must return nil for an unselected branch")
	}
	if got := n.At("build", "deeper"); got != nil {
		t.Error("At must return nil past a leaf")
	}
}

func TestValidationErrors(t *testing.T) {
	n := NewNode(testModel(t))
	n.SelectSubcommand("build")

	n.ApplyValidationError("target", "is required")
	if got := n.Choice.Node.Value("target").ValidationError; got != "is required" {
		t.Errorf("child validation error = %q", got)
	}
	for _, av := range n.Values {
		if av.ValidationError != "" {
			t.Errorf("unrelated argument %q was painted", av.Spec.ID)
		}
	}

	// Unknown ids are dropped silently.
	n.ApplyValidationError("does-not-exist", "boom")

	// Edits clear the painted message.
	n.ApplyValidationError("name", "is required")
	n.SetSingle("name", "x")
	if got := n.Value("name").ValidationError; got != "" {
		t.Errorf("edit should clear validation error, got %q", got)
	}

	n.ApplyValidationError("name", "is required")
	n.ClearValidationErrors()
	if n.Value("name").ValidationError != "" || n.Choice.Node.Value("target").ValidationError != "" {
		t.Error("ClearValidationErrors should clear the whole selected tree")
	}
}
