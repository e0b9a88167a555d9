package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cmdesk/internal/config"
	"cmdesk/internal/history"
	"cmdesk/internal/locale"
	"cmdesk/internal/logging"
	"cmdesk/internal/session"
	"cmdesk/internal/spec"
	"cmdesk/internal/state"
	"cmdesk/internal/tui"
	"cmdesk/pkg/cmdef"
)

// defaultDefinition is the wrapper-mode definition file looked up when no
// argument is given.
const defaultDefinition = "cmdesk.def.yaml"

var rootCmd = &cobra.Command{
	Use:   "cmdesk [definition]",
	Short: "Terminal front-end for command-line programs",
	Long: `cmdesk reads a YAML description of a command-line interface and opens
an interactive terminal form over it: fill in arguments, flip flags, pick
sub-commands, then run the program and watch its output live.

The definition argument defaults to ` + defaultDefinition + ` in the
current directory. See 'cmdesk init' for a starter file.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	path := defaultDefinition
	if len(args) > 0 {
		path = args[0]
	}

	def, err := cmdef.LoadFile(path)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = logging.DefaultPath()
	}
	logger, err := logging.New(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	table := locale.Default()
	if cfg.Locale.Path != "" {
		table, err = locale.LoadFile(cfg.Locale.Path)
		if err != nil {
			return err
		}
	}

	var store *history.Store
	if cfg.History.Enabled {
		histPath := cfg.History.Path
		if histPath == "" {
			histPath = history.DefaultPath()
		}
		store, err = history.Open(histPath)
		if err != nil {
			logger.Warn("history store unavailable", zap.Error(err))
		} else {
			defer store.Close()
			if cfg.History.Retention > 0 {
				if _, err := store.PurgeOlderThan(cfg.History.Retention); err != nil {
					logger.Warn("history purge failed", zap.Error(err))
				}
			}
		}
	}

	root := state.NewNode(spec.Build(&def.Command))
	orch := session.New(root, session.Options{
		Executable: def.Executable(),
		History:    store,
		Locale:     table,
		Logger:     logger,
	})
	if cfg.Run.WorkingDir != "" {
		orch.SetWorkDir(cfg.Run.WorkingDir)
	}

	logger.Info("starting",
		zap.String("definition", path),
		zap.String("program", def.Executable()))

	app := tui.New(orch, cfg, logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
