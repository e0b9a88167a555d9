package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cmdesk/internal/locale"
	"cmdesk/internal/proc"
	"cmdesk/internal/session"
)

// stdinMode is the selected input source kind.
type stdinMode int

const (
	stdinNone stdinMode = iota
	stdinText
	stdinFile
)

// inputRow indexes the rows of the input tab.
const (
	inputRowStdin = iota
	inputRowWork
)

// InputPanel selects the child's stdin source (none, inline text, or a
// file) and its working directory. Either section can be disabled by
// configuration.
type InputPanel struct {
	orch  *session.Orchestrator
	table *locale.Table

	stdinEnabled bool
	workEnabled  bool
	stdinDesc    string
	workDesc     string

	mode    stdinMode
	text    string
	path    string
	cursor  int
	editing bool
	input   textinput.Model

	dimStyle   lipgloss.Style
	cursorMark lipgloss.Style
}

// NewInputPanel creates an InputPanel. At least one of the two sections is
// expected to be enabled, otherwise the tab should not be shown at all.
func NewInputPanel(orch *session.Orchestrator, table *locale.Table, stdinEnabled, workEnabled bool, stdinDesc, workDesc string) *InputPanel {
	ti := textinput.New()
	ti.CharLimit = 2000
	ti.Width = 60

	p := &InputPanel{
		orch:         orch,
		table:        table,
		stdinEnabled: stdinEnabled,
		workEnabled:  workEnabled,
		stdinDesc:    stdinDesc,
		workDesc:     workDesc,
		path:         orch.WorkDir(),
		input:        ti,

		dimStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		cursorMark: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	}
	if !stdinEnabled {
		p.cursor = inputRowWork
	}
	return p
}

// Editing reports whether a text edit is in progress.
func (p *InputPanel) Editing() bool {
	return p.editing
}

// Update handles key input for the input tab.
func (p *InputPanel) Update(msg tea.Msg) (*InputPanel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.editing {
		return p.updateEditing(key)
	}

	switch key.String() {
	case "up", "k":
		if p.cursor == inputRowWork && p.stdinEnabled {
			p.cursor = inputRowStdin
		}
	case "down", "j":
		if p.cursor == inputRowStdin && p.workEnabled {
			p.cursor = inputRowWork
		}
	case "left", "h":
		if p.cursor == inputRowStdin {
			p.cycleMode(-1)
		}
	case "right", "l":
		if p.cursor == inputRowStdin {
			p.cycleMode(+1)
		}
	case "enter":
		return p.beginEdit()
	}
	return p, nil
}

// cycleMode steps the stdin source kind and re-applies the selection.
func (p *InputPanel) cycleMode(delta int) {
	p.mode = stdinMode((int(p.mode) + delta + 3) % 3)
	p.apply()
}

// beginEdit opens the text input for the selected row when it carries
// editable text.
func (p *InputPanel) beginEdit() (*InputPanel, tea.Cmd) {
	switch {
	case p.cursor == inputRowStdin && p.mode == stdinText:
		p.input.SetValue(p.text)
		p.input.Placeholder = ""
	case p.cursor == inputRowStdin && p.mode == stdinFile:
		p.input.SetValue(p.text)
		p.input.Placeholder = p.table.Get(locale.MsgSelectFile)
	case p.cursor == inputRowWork:
		p.input.SetValue(p.path)
		p.input.Placeholder = p.table.Get(locale.MsgSelectDirectory)
	default:
		return p, nil
	}
	p.editing = true
	p.input.CursorEnd()
	return p, p.input.Focus()
}

func (p *InputPanel) updateEditing(key tea.KeyMsg) (*InputPanel, tea.Cmd) {
	switch key.String() {
	case "enter":
		if p.cursor == inputRowWork {
			p.path = p.input.Value()
		} else {
			p.text = p.input.Value()
		}
		p.apply()
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

func (p *InputPanel) endEdit() {
	p.editing = false
	p.input.Blur()
	p.input.Reset()
}

// apply pushes the panel state into the orchestrator.
func (p *InputPanel) apply() {
	switch p.mode {
	case stdinNone:
		p.orch.SetStdin(nil)
	case stdinText:
		p.orch.SetStdin(proc.StdinText(p.text))
	case stdinFile:
		p.orch.SetStdin(proc.StdinFile(p.text))
	}
	p.orch.SetWorkDir(p.path)
}

// modeLabel names the current stdin source kind.
func (p *InputPanel) modeLabel() string {
	switch p.mode {
	case stdinText:
		return p.table.Get(locale.MsgText)
	case stdinFile:
		return p.table.Get(locale.MsgFile)
	}
	return "-"
}

// View renders the input tab.
func (p *InputPanel) View() string {
	var b strings.Builder

	if p.stdinEnabled {
		if p.stdinDesc != "" {
			b.WriteString(p.dimStyle.Render(p.stdinDesc))
			b.WriteString("\n\n")
		}
		mark := "  "
		if p.cursor == inputRowStdin {
			mark = p.cursorMark.Render("> ")
		}
		value := p.text
		if p.cursor == inputRowStdin && p.editing {
			value = p.input.View()
		}
		b.WriteString(fmt.Sprintf("%s%s: < %s >", mark, p.table.Get(locale.MsgInput), p.modeLabel()))
		if p.mode != stdinNone {
			b.WriteString("  " + value)
		}
		b.WriteString("\n")
	}

	if p.workEnabled {
		if p.workDesc != "" {
			b.WriteString("\n")
			b.WriteString(p.dimStyle.Render(p.workDesc))
			b.WriteString("\n")
		}
		mark := "  "
		if p.cursor == inputRowWork {
			mark = p.cursorMark.Render("> ")
		}
		value := p.path
		if p.cursor == inputRowWork && p.editing {
			value = p.input.View()
		}
		if value == "" {
			value = p.dimStyle.Render(p.table.Get(locale.MsgSelectDirectory))
		}
		b.WriteString(fmt.Sprintf("%s%s: %s\n", mark, p.table.Get(locale.MsgWorkingDirectory), value))
	}

	return b.String()
}
