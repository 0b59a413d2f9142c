// Package suggestions shows cue/action ideas for one identity.
package suggestions

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

// AddSuggestionMsg asks the parent to create a habit from a suggestion.
type AddSuggestionMsg struct {
	Identity   string
	Suggestion models.Suggestion
}

type RefreshMsg struct {
	Identity string
	Context  string
}

type CloseMsg struct{}

type Item struct {
	Suggestion models.Suggestion
}

func (i Item) Title() string       { return i.Suggestion.Action }
func (i Item) Description() string { return "Cue: " + i.Suggestion.Cue }
func (i Item) FilterValue() string { return i.Suggestion.Action }

type KeyMap struct {
	Add     key.Binding
	Refresh key.Binding
	Back    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add habit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}

type Model struct {
	Identity string
	Context  string
	Loading  bool

	list    list.Model
	spinner spinner.Model
	keys    KeyMap
}

func New(identity, personalContext string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Ideas for " + identity
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Refresh, keys.Back}
	}

	return Model{
		Identity: identity,
		Context:  personalContext,
		Loading:  true,
		list:     l,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:     keys,
	}
}

// SetSuggestions ends the loading state.
func (m *Model) SetSuggestions(s []models.Suggestion) {
	m.Loading = false
	items := make([]list.Item, len(s))
	for i, sg := range s {
		items[i] = Item{Suggestion: sg}
	}
	m.list.SetItems(items)
}

// Remove drops the suggestion once it has been added.
func (m *Model) Remove(s models.Suggestion) {
	for i, it := range m.list.Items() {
		if it.(Item).Suggestion == s {
			m.list.RemoveItem(i)
			return
		}
	}
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Tick starts the loading spinner.
func (m Model) Tick() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }
		case m.Loading:
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.Loading = true
			identity, ctx := m.Identity, m.Context
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg { return RefreshMsg{Identity: identity, Context: ctx} })
		case key.Matches(msg, m.keys.Add):
			if i, ok := m.list.SelectedItem().(Item); ok {
				identity := m.Identity
				return m, func() tea.Msg { return AddSuggestionMsg{Identity: identity, Suggestion: i.Suggestion} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Loading {
		return "\n  " + m.spinner.View() + " Thinking of habits for " + m.Identity + "..."
	}
	if len(m.list.Items()) == 0 {
		return "\n  No suggestions left for " + m.Identity + ".\n  Press 'r' to refresh or esc to go back."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
