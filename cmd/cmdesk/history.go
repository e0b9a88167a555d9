package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cmdesk/internal/config"
	"cmdesk/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Long:  `Show the most recent recorded runs, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	for _, r := range runs {
		status := r.Status
		switch status {
		case "exited":
			if r.ExitCode == 0 {
				status = color.GreenString("exited(0)")
			} else {
				status = color.RedString(fmt.Sprintf("exited(%d)", r.ExitCode))
			}
		case "killed":
			status = color.YellowString(status)
		case "running":
			status = color.CyanString(status)
		}
		fmt.Printf("%s  %-14s %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			strings.Join(r.Argv, " "))
	}
	return nil
}
