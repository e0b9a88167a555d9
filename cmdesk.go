// Package cmdesk opens an interactive terminal form over a program's own
// command-line interface. The program describes its CLI as a cmdef.Command
// tree and calls Run; cmdesk renders the form, and when the user hits run
// it re-executes the current binary with the assembled argument vector and
// a reserved marker variable set. The re-entered process detects the
// marker, clears it, and jumps straight into the callback.
package cmdesk

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cmdesk/internal/config"
	"cmdesk/internal/locale"
	"cmdesk/internal/logging"
	"cmdesk/internal/session"
	"cmdesk/internal/spec"
	"cmdesk/internal/state"
	"cmdesk/internal/tui"
	"cmdesk/pkg/cmdef"
)

// Settings selects the optional run-settings tabs and tunes the terminal
// view. The zero value shows the argument form only.
type Settings struct {
	// EnableEnv shows the environment variable tab.
	EnableEnv bool
	// EnvDesc is an optional description line above the env list.
	EnvDesc string
	// EnableStdin shows the input source selector.
	EnableStdin bool
	// StdinDesc is an optional description line above the selector.
	StdinDesc string
	// EnableWorkingDir shows the working directory field.
	EnableWorkingDir bool
	// WorkingDirDesc is an optional description line above the field.
	WorkingDirDesc string
	// LocalePath overrides display strings from a YAML file.
	LocalePath string
	// LogPath enables file logging when non-empty.
	LogPath string
}

// IsChildRun reports whether this process is a re-entered child. It
// clears the marker so nested uses of cmdesk open their own form. Exposed
// for callers that need to branch before Run.
func IsChildRun() bool {
	return session.IsChildRun()
}

// Run opens the form for cmd, or, in a re-entered child, immediately
// invokes fn with the argument vector the form assembled. Run returns
// after the form is closed or fn finishes.
func Run(cmd *cmdef.Command, settings Settings, fn func(args []string)) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if session.IsChildRun() {
		fn(os.Args[1:])
		return nil
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot locate own executable: %w", err)
	}

	table := locale.Default()
	if settings.LocalePath != "" {
		table, err = locale.LoadFile(settings.LocalePath)
		if err != nil {
			return err
		}
	}

	logger, err := logging.New(settings.LogPath, "info")
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Default()
	cfg.Features.Env = settings.EnableEnv
	cfg.Features.EnvDesc = settings.EnvDesc
	cfg.Features.Stdin = settings.EnableStdin
	cfg.Features.StdinDesc = settings.StdinDesc
	cfg.Features.WorkingDir = settings.EnableWorkingDir
	cfg.Features.WorkingDirDesc = settings.WorkingDirDesc

	root := state.NewNode(spec.Build(cmd))
	orch := session.New(root, session.Options{
		Executable: self,
		MarkChild:  true,
		Locale:     table,
		Logger:     logger,
	})

	app := tui.New(orch, cfg, logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
