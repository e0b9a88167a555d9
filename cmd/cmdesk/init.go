package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	initForce      bool
	initWithConfig bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a starter definition file",
	Long: `Write a commented starter definition (` + defaultDefinition + `) into a
directory, defaulting to the current one.

Examples:
  cmdesk init                # Starter file in the current directory
  cmdesk init ./myproject    # Starter file in a specific directory
  cmdesk init --with-config  # Also write a .cmdesk.yaml settings template`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initWithConfig, "with-config", false, "Also write a .cmdesk.yaml settings template")
}

const starterDefinition = `# cmdesk definition file.
# Describe the command-line interface of the program to wrap.
program: echo
command:
  name: echo
  help: Print arguments to standard output
  args:
    - id: message
      help: Text to print
      required: true
    - id: no_newline
      short: n
      action: flag
      help: Do not output the trailing newline
`

const starterConfig = `# cmdesk settings.
tui:
  refresh_rate: 100ms
  output_lines: 10000
features:
  env: true
  stdin: false
  working_dir: true
history:
  enabled: true
  retention: 720h
`

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}
	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := writeStarter(filepath.Join(absPath, defaultDefinition), starterDefinition); err != nil {
		return err
	}
	printStatus("✓", "Created "+defaultDefinition, color.FgGreen)

	if initWithConfig {
		if err := writeStarter(filepath.Join(absPath, ".cmdesk.yaml"), starterConfig); err != nil {
			return err
		}
		printStatus("✓", "Created .cmdesk.yaml", color.FgGreen)
	}

	fmt.Printf("\n%s cmdesk initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Printf("  1. Edit %s to describe your program\n", defaultDefinition)
	fmt.Println("  2. Run 'cmdesk validate' to check it")
	fmt.Println("  3. Run 'cmdesk' to open the form")
	return nil
}

// writeStarter writes a template file, refusing to clobber without --force.
func writeStarter(path, content string) error {
	if _, err := os.Stat(path); err == nil && !initForce {
		printStatus("⚠", filepath.Base(path)+" already exists (use --force to overwrite)", color.FgYellow)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
