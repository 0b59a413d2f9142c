package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/tui/components/suggestions"
)

// mainTabs is the number of tab views (Dashboard, Habits, Settings).
const mainTabs = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitList.SetSize(msg.Width-4, m.contentHeight()-2)
		m.suggestModel.SetSize(msg.Width-4, m.contentHeight()-2)

	case suggestionsMsg:
		return m.handleSuggestions(msg), nil
	case habitlist.NewIdentityMsg:
		m.startNewIdentity()
		return m, m.form.Init()
	case habitlist.ToggleHabitMsg:
		return m.handleToggle(msg.ID), nil
	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	case habitlist.ShowHistoryMsg:
		return m.handleShowHistory(msg.ID), nil
	case calendar.CloseMsg:
		m.state = constants.StateHabits
		return m, nil
	case suggestions.AddSuggestionMsg:
		return m.handleAddSuggestion(msg), nil
	case suggestions.RefreshMsg:
		cmd := m.requestSuggestions(msg.Identity, msg.Context)
		return m, cmd
	case suggestions.CloseMsg:
		// Invalidate any request still in flight
		m.suggestSeq++
		m.state = constants.StateHabits
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case constants.StateOnboarding:
		return m.updateOnboarding(msg)
	case constants.StateNewIdentity:
		return m.updateIdentityForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateConfirmReset:
		return m.updateConfirmReset(msg)
	case constants.StateHistory:
		var cmd tea.Cmd
		m.calendarModel, cmd = m.calendarModel.Update(msg)
		return m, cmd
	case constants.StateSuggestions:
		var cmd tea.Cmd
		m.suggestModel, cmd = m.suggestModel.Update(msg)
		return m, cmd
	}

	return m.updateTabs(msg)
}

// updateTabs handles the Dashboard, Habits and Settings views.
func (m Model) updateTabs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !(m.state == constants.StateHabits && m.habitList.Filtering()) {
		switch {
		case key.Matches(km, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(km, m.keys.Tab):
			m.state = (m.state + 1) % mainTabs
			m.statusMsg = ""
			return m, nil
		case key.Matches(km, m.keys.ShiftTab):
			m.state = (m.state - 1 + mainTabs) % mainTabs
			m.statusMsg = ""
			return m, nil
		case key.Matches(km, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case m.state == constants.StateSettings && key.Matches(km, m.keys.Reset):
			m.previousState = m.state
			m.state = constants.StateConfirmReset
			return m, nil
		}
	}

	if m.state == constants.StateHabits {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateOnboarding(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.completeOnboarding()
	case huh.StateAborted:
		// Nothing to fall back to without a profile
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateIdentityForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.startSuggestions(m.identityForm.Identity, m.identityForm.Context)
	case huh.StateAborted:
		m.state = m.previousState
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Yes):
		m.handleDelete(m.habitToDeleteID)
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	case key.Matches(km, m.keys.No):
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	}
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Yes):
		return m.handleReset()
	case key.Matches(km, m.keys.No):
		m.state = constants.StateSettings
	}
	return m, nil
}
