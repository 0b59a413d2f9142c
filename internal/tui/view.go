package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/tui/components/dashboard"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == constants.StateOnboarding {
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.form.View(), m.viewFormError()))
	}

	var content string
	switch m.state {
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateHabits:
		content = docStyle.Render(m.habitList.View())
	case constants.StateSettings:
		content = m.viewSettings()
	case constants.StateHistory:
		content = docStyle.Render(m.calendarModel.View())
	case constants.StateNewIdentity:
		content = docStyle.Render(m.form.View())
	case constants.StateSuggestions:
		content = docStyle.Render(m.suggestModel.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	}

	var status string
	if m.statusMsg != "" {
		status = warningStyle.Render(m.statusMsg)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Dashboard", "Habits", "Settings"} {
		if m.activeTab() == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab maps sub-views to the tab they belong to.
func (m Model) activeTab() constants.SessionState {
	switch m.state {
	case constants.StateDashboard, constants.StateHabits, constants.StateSettings:
		return m.state
	case constants.StateConfirmReset:
		return constants.StateSettings
	default:
		return constants.StateHabits
	}
}

func (m Model) viewDashboard() string {
	list := m.habits.List()
	now := m.now().In(m.habits.Location())
	width := m.width - 4
	if width <= 0 {
		width = 80
	}
	return docStyle.Render(dashboard.Render(metrics.Summarize(list, now), list, m.profile.FirstName(), width))
}

func (m Model) viewSettings() string {
	provider := "built-in ideas"
	if m.profile.APICredential != "" {
		provider = "live (" + m.cfg.Suggest.Model + ")"
	}
	rows := []string{
		labelStyle.Render("Name") + m.profile.DisplayName,
		labelStyle.Render("API key") + m.profile.MaskedCredential(),
		labelStyle.Render("Suggestions") + provider,
		labelStyle.Render("Storage") + m.storePath,
		labelStyle.Render("Timezone") + m.cfg.Timezone,
		"",
		warningStyle.Render("Press R to reset your profile."),
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) viewFormError() string {
	if m.formError == "" {
		return ""
	}
	return dangerStyle.Render("Error: " + m.formError)
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, ok := m.habits.Get(m.habitToDeleteID); ok {
		name = h.Action
	}
	return lipgloss.Place(m.width, m.contentHeight(),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q?", name)),
			constants.DeleteWarning,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, m.contentHeight(),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Reset your profile?"),
			constants.ResetWarning,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
