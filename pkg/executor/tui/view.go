package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/agentbrowser/pkg/shell"
)

const maxTabLabel = 24

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	snap := m.shell.Snapshot()

	if m.sourceActive {
		return m.buildSourceView()
	}

	sections := []string{
		m.buildTabBar(snap),
		m.buildOmnibar(snap),
		m.buildStatus(snap),
		m.buildTips(),
	}
	if toast := m.buildToast(); toast != "" {
		sections = append(sections, toast)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildTabBar renders one cell per tab in display order.
func (m *model) buildTabBar(snap shell.Snapshot) string {
	cells := make([]string, 0, len(snap.Tabs))
	for i, tab := range snap.Tabs {
		label := truncate(tab.Label, maxTabLabel)
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		if tab.IsGenerated {
			label = generatedMarkStyle.Render("✦ ") + label
		}
		if tab.Active {
			cells = append(cells, activeTabStyle.Render(label))
		} else {
			cells = append(cells, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// buildOmnibar renders navigation controls, the input and the submit label.
func (m *model) buildOmnibar(snap shell.Snapshot) string {
	d := snap.Display
	nav := strings.Join([]string{
		navControl("◀", d.BackEnabled),
		navControl("▶", d.ForwardEnabled),
		navControl("⟳", d.ReloadEnabled),
	}, " ")

	action := modeStyle.Render("[" + d.Mode.ActionLabel() + "]")
	box := inputBoxStyle
	if !d.SubmitEnabled {
		box = disabledInputBoxStyle
		action = navDisabledStyle.Render("[" + d.Mode.ActionLabel() + "]")
	}
	input := box.Width(max(m.width-lipgloss.Width(nav)-lipgloss.Width(action)-4, 20)).Render(m.omnibar.View())

	return lipgloss.JoinHorizontal(lipgloss.Center, nav, " ", input, " ", action)
}

func navControl(glyph string, enabled bool) string {
	if enabled {
		return navEnabledStyle.Render(glyph)
	}
	return navDisabledStyle.Render(glyph)
}

// buildStatus renders the status line with a spinner while the agent works.
func (m *model) buildStatus(snap shell.Snapshot) string {
	status := snap.Display.Status
	if snap.Pending {
		status = m.spinner.View() + " " + status
	}
	if strings.HasPrefix(snap.Display.Status, "Agent error:") {
		return errorStyle.Padding(0, 1).Render(status)
	}
	return statusStyle.Render(status)
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  Enter go • Ctrl+G ask agent • /search, /agent prefixes • Ctrl+T new tab • Ctrl+W close • Ctrl+N/P switch • Alt+←/→ history • Ctrl+R reload • Ctrl+Y copy • Ctrl+O source • Ctrl+C quit")
}

func (m *model) buildToast() string {
	if !m.toast.active || time.Now().After(m.toast.showUntil) {
		return ""
	}
	style := toastStyle
	if m.toast.isError {
		style = style.BorderForeground(salmonPink)
	}
	return style.Render(m.toast.message)
}

// buildSourceView renders the generated document viewer.
func (m *model) buildSourceView() string {
	title := sourceTitleStyle.Render("Generated source")
	help := sourceHelpStyle.Render("↑/↓ scroll • Esc close")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		sourceBoxStyle.Render(m.source.View()),
		help,
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
