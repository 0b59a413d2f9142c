package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/suggest"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/tui/components/suggestions"
)

// suggestionsMsg carries a provider response tagged with its request number.
type suggestionsMsg struct {
	seq      int
	identity string
	items    []models.Suggestion
}

func (m Model) completeOnboarding() (tea.Model, tea.Cmd) {
	err := m.profiles.Save(models.UserProfile{
		DisplayName:   m.onboardingForm.Name,
		APICredential: m.onboardingForm.Credential,
	})
	if err != nil {
		m.formError = err.Error()
		m.form = NewOnboardingForm(m.onboardingForm)
		return m, m.form.Init()
	}

	m.profile, m.hasProfile = m.profiles.Load()
	m.form = nil
	m.onboardingForm = nil
	m.formError = ""
	m.state = constants.StateDashboard
	return m, nil
}

func (m Model) startSuggestions(identity, personalContext string) (tea.Model, tea.Cmd) {
	identity = strings.TrimSpace(identity)
	personalContext = strings.TrimSpace(personalContext)
	m.form = nil
	m.identityForm = nil
	m.suggestModel = suggestions.New(identity, personalContext, m.width-4, m.contentHeight()-2)
	m.state = constants.StateSuggestions
	fetch := m.requestSuggestions(identity, personalContext)
	return m, tea.Batch(m.suggestModel.Tick(), fetch)
}

// requestSuggestions bumps the sequence number and fetches in the background.
func (m *Model) requestSuggestions(identity, personalContext string) tea.Cmd {
	m.suggestSeq++
	seq := m.suggestSeq
	newProvider, cfg, p := m.newProvider, m.cfg.Suggest, m.profile

	return func() tea.Msg {
		provider := newProvider(suggest.ResolveCredential(p), cfg)
		ctx := context.Background()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		return suggestionsMsg{seq: seq, identity: identity, items: provider.Suggest(ctx, identity, personalContext)}
	}
}

func (m Model) handleSuggestions(msg suggestionsMsg) Model {
	if msg.seq != m.suggestSeq || m.state != constants.StateSuggestions {
		logger.Debug("Dropping stale suggestions", "seq", msg.seq, "current", m.suggestSeq)
		return m
	}
	m.suggestModel.SetSuggestions(suggest.Filter(msg.items, m.habits.List(), msg.identity))
	return m
}

func (m Model) handleAddSuggestion(msg suggestions.AddSuggestionMsg) Model {
	h, err := m.habits.Add(models.NewHabit(msg.Identity, msg.Suggestion.Cue, msg.Suggestion.Action))
	switch {
	case err != nil && h.ID == "":
		m.statusMsg = fmt.Sprintf("Could not add habit: %v", err)
		return m
	case err != nil:
		m.statusMsg = fmt.Sprintf("Added, but not saved: %v", err)
	default:
		m.statusMsg = fmt.Sprintf("Added: %s", h.Action)
	}
	m.suggestModel.Remove(msg.Suggestion)
	m.refresh()
	return m
}

func (m Model) handleToggle(id string) Model {
	h, result, err := m.habits.ToggleToday(id)
	switch {
	case err != nil:
		m.statusMsg = fmt.Sprintf("Not saved: %v", err)
	case result == habits.ToggleCompleted:
		m.statusMsg = fmt.Sprintf("✓ %s (streak %d)", h.Action, h.Streak)
	case result == habits.ToggleUndone:
		m.statusMsg = fmt.Sprintf("○ %s (streak %d)", h.Action, h.Streak)
	}
	m.refresh()
	return m
}

func (m *Model) handleDelete(id string) {
	if err := m.habits.Remove(id); err != nil {
		m.statusMsg = fmt.Sprintf("Not saved: %v", err)
	} else {
		m.statusMsg = ""
	}
	m.refresh()
}

func (m Model) handleShowHistory(id string) Model {
	h, ok := m.habits.Get(id)
	if !ok {
		return m
	}
	now := m.now().In(m.habits.Location())
	m.calendarModel = calendar.New(h, now, m.habits.Today())
	m.state = constants.StateHistory
	return m
}

func (m Model) handleReset() (tea.Model, tea.Cmd) {
	if err := m.profiles.Clear(); err != nil {
		m.statusMsg = fmt.Sprintf("Could not reset profile: %v", err)
		m.state = constants.StateSettings
		return m, nil
	}
	m.profile = models.UserProfile{}
	m.hasProfile = false
	m.statusMsg = ""
	m.startOnboarding()
	return m, m.form.Init()
}
