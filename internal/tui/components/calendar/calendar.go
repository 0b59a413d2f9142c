// Package calendar renders a month of completions for one habit.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(4).
			Align(lipgloss.Center)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(4).
			Align(lipgloss.Center)

	todayStyle = dayStyle.
			Underline(true).
			Bold(true)

	monthStyle = lipgloss.NewStyle().Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Render draws month for h. Completed days use the habit's colour, today is
// underlined.
func Render(h models.Habit, month time.Time, today string) string {
	var b strings.Builder
	b.WriteString(monthStyle.Render(month.Format("January 2006")))
	b.WriteString("\n")

	header := make([]string, len(weekdays))
	for i, d := range weekdays {
		header[i] = headerStyle.Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	color := h.Color
	if color == "" {
		color = "42"
	}
	doneStyle := dayStyle.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(color)).
		Bold(true)

	cells := utils.MonthGrid(month.Year(), month.Month(), month.Location())
	row := make([]string, 0, 7)
	flush := func() {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		row = row[:0]
	}
	for _, cell := range cells {
		if cell.IsZero() {
			row = append(row, dayStyle.Render(""))
		} else {
			day := cell.Format(constants.DateFormat)
			style := dayStyle
			switch {
			case h.HasDay(day) && day == today:
				style = doneStyle.Underline(true)
			case h.HasDay(day):
				style = doneStyle
			case day == today:
				style = todayStyle
			}
			row = append(row, style.Render(fmt.Sprintf("%d", cell.Day())))
		}
		if len(row) == 7 {
			flush()
		}
	}
	if len(row) > 0 {
		flush()
	}
	return b.String()
}

// CompletedInMonth counts completions of h that fall in month.
func CompletedInMonth(h models.Habit, month time.Time) int {
	prefix := month.Format(constants.MonthFormat) + "-"
	n := 0
	for _, d := range h.CompletedDates {
		if strings.HasPrefix(d, prefix) {
			n++
		}
	}
	return n
}

type KeyMap struct {
	Prev key.Binding
	Next key.Binding
	Back key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
	}
}

// CloseMsg is sent when the user leaves the calendar.
type CloseMsg struct{}

// Model is the interactive month view for a single habit.
type Model struct {
	Habit models.Habit
	Month time.Time
	Keys  KeyMap
	today string
	now   time.Time
}

// New opens the calendar on the month containing now.
func New(h models.Habit, now time.Time, today string) Model {
	return Model{
		Habit: h,
		Month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		Keys:  DefaultKeyMap(),
		today: today,
		now:   now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.Keys.Prev):
			m.Month = m.Month.AddDate(0, -1, 0)
		case key.Matches(msg, m.Keys.Next):
			m.Month = m.Month.AddDate(0, 1, 0)
		case key.Matches(msg, m.Keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	h := m.Habit
	title := fmt.Sprintf("I am a %s · %s → %s", h.IdentityLabel, h.Cue, h.Action)
	footer := fmt.Sprintf("%d this month · streak %d · %d in a row",
		CompletedInMonth(h, m.Month), h.Streak, metrics.ConsecutiveStreak(h, m.now))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		Render(h, m.Month, m.today),
		"",
		footerStyle.Render(footer),
	)
}
