// Package tui provides the terminal user interface for cmdesk.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab identifiers. The env and input tabs only appear when the
// corresponding features are enabled, so positions are not fixed;
// the TabBar maps identifiers to positions at construction.
const (
	TabArguments = iota
	TabEnv
	TabInput
	TabOutput
)

// TabBar is a navigation component for switching between views.
type TabBar struct {
	tabs   []string
	ids    []int
	active int

	// Styles
	activeStyle   lipgloss.Style
	inactiveStyle lipgloss.Style
	barStyle      lipgloss.Style
}

// NewTabBar creates a TabBar over the given (id, label) pairs in order.
func NewTabBar(ids []int, labels []string) TabBar {
	return TabBar{
		tabs: labels,
		ids:  ids,

		activeStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),

		inactiveStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2),

		barStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),
	}
}

// Update handles keyboard input for tab navigation.
func (t TabBar) Update(msg tea.Msg) (TabBar, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			t.active = (t.active + 1) % len(t.tabs)
		case "shift+tab":
			t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
		case "1", "2", "3", "4":
			t.SetActive(int(msg.String()[0] - '1'))
		}
	}
	return t, nil
}

// View renders the tab bar.
func (t TabBar) View() string {
	var renderedTabs []string

	for i, tab := range t.tabs {
		if i == t.active {
			renderedTabs = append(renderedTabs, t.activeStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, t.inactiveStyle.Render(tab))
		}
	}

	return t.barStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...))
}

// SetActive sets the active tab by position, clamped to valid range.
func (t *TabBar) SetActive(index int) {
	if index < 0 {
		t.active = 0
	} else if index >= len(t.tabs) {
		t.active = len(t.tabs) - 1
	} else {
		t.active = index
	}
}

// ActiveID returns the identifier of the currently active tab.
func (t TabBar) ActiveID() int {
	return t.ids[t.active]
}

// Tabs returns the tab labels.
func (t TabBar) Tabs() []string {
	return t.tabs
}
