package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cmdesk/internal/locale"
	"cmdesk/internal/session"
)

// envPhase tracks the two-step key/value edit of an env row.
type envPhase int

const (
	envIdle envPhase = iota
	envEditKey
	envEditValue
)

// EnvPanel edits the environment variable overrides handed to the child.
// Pairs are kept in insertion order; a duplicate key later in the list wins
// at spawn time.
type EnvPanel struct {
	orch   *session.Orchestrator
	table  *locale.Table
	desc   string
	cursor int
	phase  envPhase
	// pendingKey holds the committed key while the value is being edited.
	pendingKey string
	input      textinput.Model

	dimStyle   lipgloss.Style
	cursorMark lipgloss.Style
}

// NewEnvPanel creates an EnvPanel bound to the orchestrator's env list.
func NewEnvPanel(orch *session.Orchestrator, table *locale.Table, desc string) *EnvPanel {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 40

	return &EnvPanel{
		orch:  orch,
		table: table,
		desc:  desc,
		input: ti,

		dimStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		cursorMark: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	}
}

// Editing reports whether a key or value edit is in progress.
func (p *EnvPanel) Editing() bool {
	return p.phase != envIdle
}

// Update handles key input for the env tab.
func (p *EnvPanel) Update(msg tea.Msg) (*EnvPanel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.phase != envIdle {
		return p.updateEditing(key)
	}

	vars := p.orch.Env()
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(vars) {
			p.cursor++
		}
	case "enter":
		if p.cursor == len(vars) {
			p.orch.AddEnv()
		}
		ev := p.orch.Env()[p.cursor]
		p.phase = envEditKey
		p.input.SetValue(ev.Key)
		p.input.CursorEnd()
		return p, p.input.Focus()
	case "d":
		if p.cursor < len(vars) {
			p.orch.RemoveEnv(p.cursor)
			if p.cursor > 0 {
				p.cursor--
			}
		}
	}
	return p, nil
}

func (p *EnvPanel) updateEditing(key tea.KeyMsg) (*EnvPanel, tea.Cmd) {
	switch key.String() {
	case "enter":
		if p.phase == envEditKey {
			p.pendingKey = p.input.Value()
			p.phase = envEditValue
			p.input.SetValue(p.orch.Env()[p.cursor].Value)
			p.input.CursorEnd()
			return p, nil
		}
		p.orch.SetEnv(p.cursor, p.pendingKey, p.input.Value())
		p.endEdit()
		return p, nil
	case "esc":
		p.endEdit()
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(key)
	return p, cmd
}

func (p *EnvPanel) endEdit() {
	p.phase = envIdle
	p.pendingKey = ""
	p.input.Blur()
	p.input.Reset()
}

// View renders the env tab.
func (p *EnvPanel) View() string {
	var b strings.Builder
	if p.desc != "" {
		b.WriteString(p.dimStyle.Render(p.desc))
		b.WriteString("\n\n")
	}

	vars := p.orch.Env()
	for i, ev := range vars {
		mark := "  "
		if i == p.cursor {
			mark = p.cursorMark.Render("> ")
		}
		keyText, valText := ev.Key, ev.Value
		if i == p.cursor && p.phase == envEditKey {
			keyText = p.input.View()
		}
		if i == p.cursor && p.phase == envEditValue {
			keyText = p.pendingKey
			valText = p.input.View()
		}
		b.WriteString(fmt.Sprintf("%s%s = %s\n", mark, keyText, valText))
	}

	mark := "  "
	if p.cursor == len(vars) {
		mark = p.cursorMark.Render("> ")
	}
	b.WriteString(mark)
	b.WriteString(p.dimStyle.Render("+ " + p.table.Get(locale.MsgNewValue)))
	b.WriteString("\n")
	return b.String()
}
