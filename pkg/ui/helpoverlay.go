package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard and mouse shortcuts
type HelpOverlayModel struct {
	visible bool
	keys    KeyMap
	theme   Theme
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(keys KeyMap, theme Theme) HelpOverlayModel {
	return HelpOverlayModel{
		keys:  keys,
		theme: theme,
	}
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Sticky Sheet Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(12)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	section := func(title string, bindings []key.Binding) {
		b.WriteString(sectionStyle.Render(title) + "\n")
		for _, kb := range bindings {
			h := kb.Help()
			b.WriteString("  " + keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}

	section("FLICK", []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right})
	section("POSITION", []key.Binding{m.keys.Reveal, m.keys.Hide, m.keys.Freeze})
	section("VIEW", []key.Binding{m.keys.ScrollUp, m.keys.ScrollDown, m.keys.Help, m.keys.Quit})

	b.WriteString(sectionStyle.Render("MOUSE") + "\n")
	mouse := []struct{ key, desc string }{
		{"drag", "Move the sheet, release to rest"},
		{"click", "Advance from the first stop"},
		{"wheel", "Flick"},
	}
	for _, s := range mouse {
		b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}

	b.WriteString("\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
