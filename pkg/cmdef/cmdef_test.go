package cmdef

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr string
	}{
		{
			name: "valid tree",
			cmd: Command{
				Name: "tool",
				Args: []Arg{
					{ID: "input"},
					{ID: "verbose", Short: "v", Action: ActionCount},
				},
				Subcommands: []Command{
					{Name: "build", Args: []Arg{{ID: "release", Long: "release", Action: ActionSetTrue}}},
					{Name: "clean"},
				},
			},
		},
		{
			name:    "empty name",
			cmd:     Command{},
			wantErr: "empty name",
		},
		{
			name: "duplicate arg id",
			cmd: Command{
				Name: "tool",
				Args: []Arg{{ID: "x"}, {ID: "x"}},
			},
			wantErr: "duplicate argument id",
		},
		{
			name: "positional flag action",
			cmd: Command{
				Name: "tool",
				Args: []Arg{{ID: "force", Action: ActionSetTrue}},
			},
			wantErr: "requires a long or short flag",
		},
		{
			name: "positional count action in subcommand",
			cmd: Command{
				Name: "tool",
				Subcommands: []Command{
					{Name: "run", Args: []Arg{{ID: "level", Action: ActionCount}}},
				},
			},
			wantErr: "requires a long or short flag",
		},
		{
			name: "duplicate subcommand",
			cmd: Command{
				Name:        "tool",
				Subcommands: []Command{{Name: "a"}, {Name: "a"}},
			},
			wantErr: "duplicate sub-command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPositional(t *testing.T) {
	if !(&Arg{ID: "x"}).Positional() {
		t.Error("arg without spellings should be positional")
	}
	if (&Arg{ID: "x", Long: "x"}).Positional() {
		t.Error("arg with long spelling should not be positional")
	}
	if (&Arg{ID: "x", Short: "x"}).Positional() {
		t.Error("arg with short spelling should not be positional")
	}
}

func TestLoad(t *testing.T) {
	doc := `
program: /usr/bin/pk
command:
  name: pk
  help: package helper
  args:
    - id: config
      long: config
      hint: file
    - id: verbose
      short: v
      action: count
  subcommands:
    - name: install
      args:
        - id: package_name
          required: true
        - id: dev
          long: dev
          action: flag
    - name: list
`
	def, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if def.Executable() != "/usr/bin/pk" {
		t.Errorf("Executable() = %q, want /usr/bin/pk", def.Executable())
	}
	if got := len(def.Command.Args); got != 2 {
		t.Fatalf("expected 2 root args, got %d", got)
	}
	if def.Command.Args[0].Hint != HintFile {
		t.Errorf("config hint = %v, want HintFile", def.Command.Args[0].Hint)
	}
	if def.Command.Args[1].Action != ActionCount {
		t.Errorf("verbose action = %v, want ActionCount", def.Command.Args[1].Action)
	}

	install := def.Command.Subcommand("install")
	if install == nil {
		t.Fatal("missing install sub-command")
	}
	if !install.Args[0].Required {
		t.Error("package_name should be required")
	}
	if install.Args[1].Action != ActionSetTrue {
		t.Errorf("dev action = %v, want ActionSetTrue", install.Args[1].Action)
	}
	if def.Command.Subcommand("missing") != nil {
		t.Error("Subcommand should return nil for unknown name")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "command: ["},
		{"bad action", "command:\n  name: t\n  args:\n    - id: a\n      action: explode"},
		{"bad hint", "command:\n  name: t\n  args:\n    - id: a\n      hint: socket"},
		{"invalid tree", "command:\n  name: t\n  args:\n    - id: a\n    - id: a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExecutableDefaultsToName(t *testing.T) {
	def := Definition{Command: Command{Name: "grep"}}
	if def.Executable() != "grep" {
		t.Errorf("Executable() = %q, want grep", def.Executable())
	}
}
