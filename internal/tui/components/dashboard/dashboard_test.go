package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
)

func TestRenderSections(t *testing.T) {
	habits := []models.Habit{
		{ID: "1", IdentityLabel: "Runner", Action: "Put on shoes", Streak: 4, Color: "#10b981"},
		{ID: "2", IdentityLabel: "Reader", Action: "Read a page", Streak: 1, Color: "#6366f1"},
	}
	s := metrics.Summary{
		TotalCompletions: 12,
		ActiveIdentities: 2,
		TopStreak:        4,
		Level:            2,
		Trend:            metrics.Trend{Value: "+100%", Direction: metrics.DirectionUp},
		Identities:       []metrics.IdentityCount{{Identity: "Runner", Count: 8}, {Identity: "Reader", Count: 4}},
	}

	out := ansi.Strip(Render(s, habits, "Ada", 100))
	for _, want := range []string{
		"Welcome back, Ada",
		"Total Actions", "12", "+100%", "vs last 7 days",
		"Active Identities",
		"Longest Streak", "4 days",
		"Level",
		"Identity Reinforcement", "Runner", "Reader",
		"Recent Activity", "Put on shoes", "Streak: 4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	out := ansi.Strip(Render(metrics.Summary{Level: 1, Trend: metrics.Trend{Value: "0%", Direction: metrics.DirectionNeutral}}, nil, "User", 60))
	for _, want := range []string{"Welcome back, User", "No data available yet", "No recent activity."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestChartScalesToPeak(t *testing.T) {
	out := renderChart([]metrics.IdentityCount{{Identity: "A", Count: 10}, {Identity: "B", Count: 5}}, 41)
	lines := strings.Split(ansi.Strip(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	a := strings.Count(lines[0], "█")
	b := strings.Count(lines[1], "█")
	if a != 2*b {
		t.Errorf("bar lengths %d and %d, want 2:1", a, b)
	}
}
