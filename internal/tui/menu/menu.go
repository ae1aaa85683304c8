// ABOUTME: Tab bar for the TUI main screens
// ABOUTME: Shows the tabs the current session may use and switches between them

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
	"github.com/markalston/gestao-pecas/internal/uistate"
)

// TabSelectedMsg is sent when the user picks a different tab
type TabSelectedMsg struct {
	Tab uistate.Tab
}

type option struct {
	label   string
	value   uistate.Tab
	enabled bool
}

// Menu is the row of tabs under the header
type Menu struct {
	options  []option
	selected uistate.Tab
}

// New creates a tab bar with only the listing enabled, as for a guest
func New() *Menu {
	m := &Menu{selected: uistate.TabListagem}
	for _, t := range uistate.AllTabs {
		m.options = append(m.options, option{label: t.String(), value: t, enabled: t == uistate.TabListagem})
	}
	return m
}

// SetState enables exactly the tabs st makes visible and follows its active tab
func (m *Menu) SetState(st uistate.State) {
	for i := range m.options {
		m.options[i].enabled = st.Visible(m.options[i].value)
	}
	m.selected = st.Active
}

// Selected returns the highlighted tab
func (m *Menu) Selected() uistate.Tab {
	return m.selected
}

// Enabled returns the visible tabs in display order
func (m *Menu) Enabled() []uistate.Tab {
	var tabs []uistate.Tab
	for _, o := range m.options {
		if o.enabled {
			tabs = append(tabs, o.value)
		}
	}
	return tabs
}

// Update handles tab switching keys. In a form only alt+N switches, so plain
// digits and tab keep reaching the form fields.
func (m *Menu) Update(msg tea.KeyMsg, inForm bool) tea.Cmd {
	key := msg.String()
	if strings.HasPrefix(key, "alt+") {
		key = strings.TrimPrefix(key, "alt+")
	} else if inForm {
		return nil
	}

	tabs := m.Enabled()
	if len(tabs) == 0 {
		return nil
	}
	switch key {
	case "tab", "right", "l":
		return m.selectTab(tabs[(m.index(tabs)+1)%len(tabs)])
	case "shift+tab", "left", "h":
		return m.selectTab(tabs[(m.index(tabs)-1+len(tabs))%len(tabs)])
	case "1", "2", "3", "4":
		n := int(key[0] - '1')
		if n < len(tabs) {
			return m.selectTab(tabs[n])
		}
	}
	return nil
}

func (m *Menu) index(tabs []uistate.Tab) int {
	for i, t := range tabs {
		if t == m.selected {
			return i
		}
	}
	return 0
}

func (m *Menu) selectTab(t uistate.Tab) tea.Cmd {
	if t == m.selected {
		return nil
	}
	return func() tea.Msg { return TabSelectedMsg{Tab: t} }
}

// View renders the enabled tabs numbered in display order
func (m *Menu) View() string {
	var parts []string
	n := 0
	for _, o := range m.options {
		if !o.enabled {
			continue
		}
		n++
		label := fmt.Sprintf("%d %s %s", n, icons.ForTab(o.value).String(), o.label)
		if o.value == m.selected {
			parts = append(parts, styles.TabActive.Render(label))
		} else {
			parts = append(parts, styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
