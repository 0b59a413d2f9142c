package suggest

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

var mockSuggestions = []models.Suggestion{
	{Action: "Read 1 page", Cue: "After I pour my coffee"},
	{Action: "Put on running shoes", Cue: "When I get home from work"},
	{Action: "Meditate for 1 minute", Cue: "Before I brush my teeth"},
	{Action: "Drink a glass of water", Cue: "After I wake up"},
	{Action: "Write one sentence", Cue: "After I open my laptop"},
}

// Mock returns a fixed set of suggestions after Delay.
type Mock struct {
	Delay time.Duration
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Suggest(ctx context.Context, identity, _ string) []models.Suggestion {
	if strings.TrimSpace(identity) == "" {
		return []models.Suggestion{}
	}
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return []models.Suggestion{}
		case <-timer.C:
		}
	}
	out := make([]models.Suggestion, len(mockSuggestions))
	copy(out, mockSuggestions)
	return out
}
