package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"cmdesk/internal/config"
	"cmdesk/internal/locale"
	"cmdesk/internal/proc"
	"cmdesk/internal/session"
	"cmdesk/internal/spec"
)

// tickMsg drives output polling at the configured refresh rate.
type tickMsg time.Time

// App is the main bubbletea model for the cmdesk TUI.
type App struct {
	orch  *session.Orchestrator
	cfg   *config.Config
	table *locale.Table
	log   *zap.Logger

	tabBar TabBar
	form   *Form
	env    *EnvPanel
	inputP *InputPanel
	stream *OutputStream
	view   viewport.Model

	// width is the terminal width.
	width int
	// height is the terminal height.
	height int
	// notice is the transient footer message from the last run attempt.
	notice string
	// flushed records that the trailing partial line of an exited run
	// was already pushed into the stream.
	flushed bool
	// quitting indicates the app is shutting down.
	quitting bool

	titleStyle  lipgloss.Style
	noticeStyle lipgloss.Style
	footerStyle lipgloss.Style
}

// New creates the App around a configured orchestrator.
func New(orch *session.Orchestrator, cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	table := orch.Locale()

	ids := []int{TabArguments}
	labels := []string{table.Get(locale.MsgArguments)}
	if cfg.Features.Env {
		ids = append(ids, TabEnv)
		labels = append(labels, table.Get(locale.MsgEnvVariables))
	}
	if cfg.Features.Stdin || cfg.Features.WorkingDir {
		ids = append(ids, TabInput)
		labels = append(labels, table.Get(locale.MsgInput))
	}
	ids = append(ids, TabOutput)
	labels = append(labels, table.Get(locale.MsgOutput))

	a := &App{
		orch:   orch,
		cfg:    cfg,
		table:  table,
		log:    log,
		tabBar: NewTabBar(ids, labels),
		form:   NewForm(orch.Root(), table),
		stream: NewOutputStream(cfg.TUI.OutputLines),
		view:   viewport.New(80, 20),

		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		noticeStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		footerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
	if cfg.Features.Env {
		a.env = NewEnvPanel(orch, table, cfg.Features.EnvDesc)
	}
	if cfg.Features.Stdin || cfg.Features.WorkingDir {
		a.inputP = NewInputPanel(orch, table,
			cfg.Features.Stdin, cfg.Features.WorkingDir,
			cfg.Features.StdinDesc, cfg.Features.WorkingDirDesc)
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.tick()
}

// tick schedules the next output poll.
func (a *App) tick() tea.Cmd {
	rate := a.cfg.TUI.RefreshRate
	if rate <= 0 {
		rate = 100 * time.Millisecond
	}
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// editing reports whether any panel holds a focused text input.
func (a *App) editing() bool {
	if a.form.Editing() {
		return true
	}
	if a.env != nil && a.env.Editing() {
		return true
	}
	if a.inputP != nil && a.inputP.Editing() {
		return true
	}
	return false
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.form.SetWidth(msg.Width)
		a.view.Width = msg.Width
		a.view.Height = msg.Height - 6

	case tickMsg:
		if h := a.orch.Handle(); h != nil {
			changed := a.stream.Feed(h.Output())
			// Once the child is gone no more bytes arrive, so the
			// held-back partial line has to be pushed out even on a
			// tick that read nothing new.
			if h.Status() != proc.StatusRunning && !a.flushed {
				a.flushed = true
				if a.stream.Flush() {
					changed = true
				}
			}
			if changed {
				a.view.SetContent(strings.Join(a.stream.Lines(), "\n"))
				a.view.GotoBottom()
			}
		}
		return a, a.tick()
	}

	return a, nil
}

// handleKey routes a key press to the global bindings or the active panel.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.editing() {
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			_ = a.orch.Kill()
			return a, tea.Quit
		case "ctrl+r":
			a.runAttempt()
			return a, nil
		case "ctrl+k":
			if err := a.orch.Kill(); err != nil {
				a.log.Warn("kill failed", zap.Error(err))
			}
			return a, nil
		case "tab", "shift+tab", "1", "2", "3", "4":
			var cmd tea.Cmd
			a.tabBar, cmd = a.tabBar.Update(msg)
			return a, cmd
		}
	} else if msg.String() == "ctrl+c" {
		a.quitting = true
		_ = a.orch.Kill()
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.tabBar.ActiveID() {
	case TabArguments:
		a.form, cmd = a.form.Update(msg)
	case TabEnv:
		a.env, cmd = a.env.Update(msg)
	case TabInput:
		a.inputP, cmd = a.inputP.Update(msg)
	case TabOutput:
		a.view, cmd = a.view.Update(msg)
	}
	return a, cmd
}

// runAttempt starts a run and surfaces any failure in the footer. The
// validation painting onto individual arguments is done by the
// orchestrator; the footer carries run-level notices only.
func (a *App) runAttempt() {
	a.notice = ""
	a.stream.Reset()
	a.flushed = false
	a.view.SetContent("")

	_, err := a.orch.Run()
	if err != nil {
		var re *session.RunError
		if errors.As(err, &re) {
			a.notice = re.Render(a.table)
		} else {
			a.notice = err.Error()
		}
		a.log.Warn("run rejected", zap.Error(err))
		return
	}

	// Jump to the output tab so the user sees the child immediately.
	for i, id := range a.tabBar.ids {
		if id == TabOutput {
			a.tabBar.SetActive(i)
			break
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var content string
	switch a.tabBar.ActiveID() {
	case TabArguments:
		content = a.form.View()
	case TabEnv:
		content = a.env.View()
	case TabInput:
		content = a.inputP.View()
	case TabOutput:
		content = a.view.View()
	}

	title := a.titleStyle.Render(spec.SentenceCase(a.orch.Root().Model.Name))
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, a.tabBar.View(), content, a.footer())
}

// footer renders the status line and key help.
func (a *App) footer() string {
	status := a.statusLine()
	help := fmt.Sprintf("ctrl+r %s · ctrl+k %s · tab · q",
		strings.ToLower(a.table.Get(locale.MsgRun)),
		strings.ToLower(a.table.Get(locale.MsgKill)))

	if a.notice != "" {
		return a.noticeStyle.Render(a.notice) + "\n" + a.footerStyle.Render(help)
	}
	if status != "" {
		return status + "\n" + a.footerStyle.Render(help)
	}
	return a.footerStyle.Render(help)
}

// statusLine describes the tracked child, if any.
func (a *App) statusLine() string {
	h := a.orch.Handle()
	if h == nil {
		return ""
	}
	switch h.Status() {
	case proc.StatusRunning:
		return fmt.Sprintf("%s (pid %d)", a.table.Get(locale.MsgRunning), h.PID())
	case proc.StatusExited:
		return fmt.Sprintf("%s (%d)", a.table.Get(locale.MsgExited), h.ExitCode())
	case proc.StatusKilled:
		return a.table.Get(locale.MsgKilled)
	case proc.StatusSpawnFailed:
		return a.noticeStyle.Render(a.table.Format(locale.MsgSpawnFailed, h.SpawnError()))
	}
	return ""
}
