package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cmdesk/internal/spec"
	"cmdesk/pkg/cmdef"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition]",
	Short: "Check a definition file",
	Long: `Parse a YAML definition file and report problems: duplicate argument
ids, flags without a spelling, reserved characters in names. Also checks
that the wrapped program can be found on PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := defaultDefinition
	if len(args) > 0 {
		path = args[0]
	}

	def, err := cmdef.LoadFile(path)
	if err != nil {
		printStatus("✗", err.Error(), color.FgRed)
		return fmt.Errorf("definition %s is invalid", path)
	}
	printStatus("✓", fmt.Sprintf("Definition parses: %s", path), color.FgGreen)

	if _, err := exec.LookPath(def.Executable()); err != nil {
		printStatus("⚠", fmt.Sprintf("Program %q not found in PATH (you can still edit arguments)", def.Executable()), color.FgYellow)
	} else {
		printStatus("✓", fmt.Sprintf("Program found: %s", def.Executable()), color.FgGreen)
	}

	model := spec.Build(&def.Command)
	fmt.Println()
	printModel(model, 0)
	return nil
}

// printModel prints the argument tree, one line per argument and
// sub-command.
func printModel(m *spec.Model, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s\n", indent, color.CyanString(m.Name))
	for i := range m.Args {
		a := &m.Args[i]
		token := a.Token
		if token == "" {
			token = "(positional)"
		}
		req := ""
		if a.Required {
			req = color.YellowString(" required")
		}
		fmt.Printf("%s  %-20s %s %s%s\n", indent, a.DisplayName, token, a.Cardinality, req)
	}
	for _, sub := range m.Subcommands {
		printModel(sub, depth+1)
	}
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
