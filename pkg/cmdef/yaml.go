package cmdef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the top-level document of a wrapper-mode YAML file. Program
// names the external executable to supervise; Command describes its CLI.
type Definition struct {
	// Program is the executable path or name resolved through PATH.
	// Defaults to the root command name when empty.
	Program string `yaml:"program,omitempty"`
	// Command is the root of the CLI description.
	Command Command `yaml:"command"`
}

// Executable returns the program to spawn for this definition.
func (d *Definition) Executable() string {
	if d.Program != "" {
		return d.Program
	}
	return d.Command.Name
}

// LoadFile reads and validates a wrapper-mode definition from a YAML file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return Load(data)
}

// Load parses and validates a wrapper-mode definition from YAML bytes.
func Load(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := def.Command.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return &def, nil
}

// UnmarshalYAML decodes an action from its YAML spelling.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "set":
		*a = ActionSet
	case "append":
		*a = ActionAppend
	case "flag", "set_true":
		*a = ActionSetTrue
	case "count":
		*a = ActionCount
	default:
		return fmt.Errorf("unknown action %q", s)
	}
	return nil
}

// MarshalYAML encodes an action as its YAML spelling.
func (a Action) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML decodes a value hint from its YAML spelling.
func (h *ValueHint) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "none":
		*h = HintNone
	case "file":
		*h = HintFile
	case "dir", "directory":
		*h = HintDir
	case "path", "any":
		*h = HintAnyPath
	default:
		return fmt.Errorf("unknown value hint %q", s)
	}
	return nil
}

// MarshalYAML encodes a value hint as its YAML spelling.
func (h ValueHint) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}
