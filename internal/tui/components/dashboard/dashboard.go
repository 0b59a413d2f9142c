// Package dashboard renders the metrics overview shared by the TUI and the
// dashboard command.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
)

const (
	recentLimit = 5
	minBarWidth = 10
)

var (
	greetingStyle = lipgloss.NewStyle().Bold(true)
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8")).Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	cardValueStyle = lipgloss.NewStyle().Bold(true)

	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f43f5e"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type card struct {
	label string
	value string
	trend string
	sub   string
}

// Render draws the greeting, the four metric cards, the identity bar chart
// and the recent activity list, fitted to width columns.
func Render(s metrics.Summary, habits []models.Habit, firstName string, width int) string {
	if width <= 0 {
		width = 80
	}
	sections := []string{
		greetingStyle.Render("Welcome back, ") + nameStyle.Render(firstName),
		subtleStyle.Render("Aggregated metrics from your identities."),
		"",
		renderCards(s, width),
		sectionStyle.Render("Identity Reinforcement"),
		renderChart(s.Identities, width),
		sectionStyle.Render("Recent Activity"),
		renderRecent(habits),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func trendStyle(d metrics.Direction) lipgloss.Style {
	switch d {
	case metrics.DirectionUp:
		return upStyle
	case metrics.DirectionDown:
		return downStyle
	default:
		return neutralStyle
	}
}

func renderCards(s metrics.Summary, width int) string {
	cards := []card{
		{label: "Total Actions", value: fmt.Sprintf("%d", s.TotalCompletions),
			trend: trendStyle(s.Trend.Direction).Render(s.Trend.Value), sub: "vs last 7 days"},
		{label: "Active Identities", value: fmt.Sprintf("%d", s.ActiveIdentities)},
		{label: "Longest Streak", value: fmt.Sprintf("%d days", s.TopStreak)},
		{label: "Level", value: fmt.Sprintf("%d", s.Level)},
	}

	// Four across when there is room, two by two otherwise
	perRow := 4
	if width < 80 {
		perRow = 2
	}
	cardWidth := width/perRow - 2
	if cardWidth < 16 {
		cardWidth = 16
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		lines := []string{subtleStyle.Render(c.label), cardValueStyle.Render(c.value)}
		if c.trend != "" {
			lines = append(lines, c.trend+" "+subtleStyle.Render(c.sub))
		} else {
			lines = append(lines, "")
		}
		rendered[i] = cardStyle.Width(cardWidth).Render(strings.Join(lines, "\n"))
	}

	var rows []string
	for i := 0; i < len(rendered); i += perRow {
		end := min(i+perRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderChart(counts []metrics.IdentityCount, width int) string {
	if len(counts) == 0 {
		return subtleStyle.Render("No data available yet. Start tracking habits!")
	}

	labelWidth := 0
	peak := 0
	for _, c := range counts {
		labelWidth = max(labelWidth, lipgloss.Width(c.Identity))
		peak = max(peak, c.Count)
	}
	barWidth := max(width-labelWidth-8, minBarWidth)

	lines := make([]string, len(counts))
	for i, c := range counts {
		n := 0
		if peak > 0 {
			n = c.Count * barWidth / peak
		}
		if c.Count > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ChartColors[i%len(constants.ChartColors)])).
			Render(strings.Repeat("█", n))
		lines[i] = fmt.Sprintf("%-*s %s %d", labelWidth, c.Identity, bar, c.Count)
	}
	return strings.Join(lines, "\n")
}

func renderRecent(habits []models.Habit) string {
	if len(habits) == 0 {
		return subtleStyle.Render("No recent activity.")
	}
	n := min(len(habits), recentLimit)
	lines := make([]string, n)
	for i, h := range habits[:n] {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
		lines[i] = fmt.Sprintf("%s %s %s  %s",
			dot, h.Action, subtleStyle.Render("("+h.IdentityLabel+")"),
			subtleStyle.Render(fmt.Sprintf("Streak: %d", h.Streak)))
	}
	return strings.Join(lines, "\n")
}
