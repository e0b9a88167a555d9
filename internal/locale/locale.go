// Package locale supplies user-facing strings as an opaque table keyed by
// fixed message identifiers. The core never hardcodes display text; it hands
// identifiers plus structured payload to whoever renders them. English
// defaults ship built in, a YAML file can override any subset.
package locale

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixed message identifiers. Error phrasing.
const (
	MsgRequiredMissing   = "required-field-missing"
	MsgMissingSubcommand = "missing-subcommand"
	MsgEnvKeyEmpty       = "env-key-empty"
	MsgInternalError     = "internal-error"
	MsgSpawnFailed       = "spawn-failed"
)

// Fixed message identifiers. UI labels.
const (
	MsgArguments        = "arguments"
	MsgEnvVariables     = "env-variables"
	MsgInput            = "input"
	MsgOutput           = "output"
	MsgText             = "text"
	MsgFile             = "file"
	MsgWorkingDirectory = "working-directory"
	MsgRun              = "run"
	MsgKill             = "kill"
	MsgRunning          = "running"
	MsgExited           = "exited"
	MsgKilled           = "killed"
	MsgOptional         = "optional"
	MsgNewValue         = "new-value"
	MsgReset            = "reset"
	MsgResetToDefault   = "reset-to-default"
	MsgSelectFile       = "select-file"
	MsgSelectDirectory  = "select-directory"
)

// defaults is the built-in English table. Messages with payload use
// fmt.Sprintf verbs.
var defaults = map[string]string{
	MsgRequiredMissing:   "%s is required",
	MsgMissingSubcommand: "pick a sub-command for %s",
	MsgEnvKeyEmpty:       "environment variable name can't be empty",
	MsgInternalError:     "internal error: %s",
	MsgSpawnFailed:       "failed to start: %s",

	MsgArguments:        "Arguments",
	MsgEnvVariables:     "Env variables",
	MsgInput:            "Input",
	MsgOutput:           "Output",
	MsgText:             "Text",
	MsgFile:             "File",
	MsgWorkingDirectory: "Working directory",
	MsgRun:              "Run",
	MsgKill:             "Kill",
	MsgRunning:          "Running",
	MsgExited:           "Exited",
	MsgKilled:           "Killed",
	MsgOptional:         "(optional)",
	MsgNewValue:         "New value",
	MsgReset:            "Reset",
	MsgResetToDefault:   "Reset to default",
	MsgSelectFile:       "Select file...",
	MsgSelectDirectory:  "Select directory...",
}

// Table resolves message identifiers to display strings.
type Table struct {
	messages map[string]string
}

// Default returns a table with the built-in English strings.
func Default() *Table {
	msgs := make(map[string]string, len(defaults))
	for id, s := range defaults {
		msgs[id] = s
	}
	return &Table{messages: msgs}
}

// LoadFile returns the default table with overrides applied from a YAML
// file of identifier: string pairs. Unknown identifiers are rejected so a
// typo in a locale file surfaces instead of silently falling back.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locale file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse locale file: %w", err)
	}

	t := Default()
	for id, s := range overrides {
		if _, known := defaults[id]; !known {
			return nil, fmt.Errorf("locale file %s: unknown message id %q", path, id)
		}
		t.messages[id] = s
	}
	return t, nil
}

// Get returns the string for an identifier. Unknown identifiers come back
// verbatim so a missed lookup stays visible.
func (t *Table) Get(id string) string {
	if s, ok := t.messages[id]; ok {
		return s
	}
	return id
}

// Format resolves an identifier and interpolates its payload.
func (t *Table) Format(id string, args ...any) string {
	if len(args) == 0 {
		return t.Get(id)
	}
	return fmt.Sprintf(t.Get(id), args...)
}
