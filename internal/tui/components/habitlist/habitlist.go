package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

type NewIdentityMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type ShowHistoryMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	DoneToday bool
}

func (i Item) Title() string {
	mark := "○"
	if i.DoneToday {
		mark = "✓"
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Habit.Color)).Render("●")
	return fmt.Sprintf("%s %s %s", mark, dot, i.Habit.Action)
}

func (i Item) Description() string {
	return fmt.Sprintf("I am a %s · %s · streak %d", i.Habit.IdentityLabel, i.Habit.Cue, i.Habit.Streak)
}

func (i Item) FilterValue() string { return i.Habit.IdentityLabel + " " + i.Habit.Action }

type KeyMap struct {
	Toggle  key.Binding
	History key.Binding
	Delete  key.Binding
	New     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "toggle today"),
		),
		History: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "history"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new identity"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	today string
}

func New(habits []models.Habit, today string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.History, keys.Delete, keys.New}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	m := Model{list: l, keys: keys}
	m.SetHabits(habits, today)
	return m
}

// SetHabits replaces the items, keeping the cursor where it was.
func (m *Model) SetHabits(habits []models.Habit, today string) {
	m.today = today
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, DoneToday: h.HasDay(today)}
	}
	m.list.SetItems(items)
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.Habit{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewIdentityMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: h.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.History):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ShowHistoryMsg{ID: h.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'n' to start with an identity."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the user is typing a filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
