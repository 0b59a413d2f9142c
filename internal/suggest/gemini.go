package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

const maxResponseBytes = 1 << 20

// Gemini calls the generateContent endpoint once per request.
type Gemini struct {
	credential string
	endpoint   string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGemini(credential string, cfg config.Suggest) *Gemini {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Gemini{
		credential: credential,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (g *Gemini) Name() string { return "gemini" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

var responseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"suggestions": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"action": map[string]any{"type": "STRING", "description": "The small atomic action to take."},
					"cue":    map[string]any{"type": "STRING", "description": "The trigger or time to do it."},
				},
				"required": []string{"action", "cue"},
			},
		},
	},
}

func buildPrompt(identity, personalContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the book \"Atomic Habits\" by James Clear, suggest 5 distinct atomic habits (tiny, 2-minute actions) for someone who wants to adopt the identity of: %q.\n", identity)
	if personalContext = strings.TrimSpace(personalContext); personalContext != "" {
		fmt.Fprintf(&b, "\nThe user provided the following personal context/constraints: %q. Ensure the habits are tailored to this situation.\n", personalContext)
	}
	b.WriteString("\nReturn a JSON object with a list of suggestions. Each suggestion must have an \"action\" (the habit) and a \"cue\" (a likely trigger).")
	return b.String()
}

func (g *Gemini) Suggest(ctx context.Context, identity, personalContext string) []models.Suggestion {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return []models.Suggestion{}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		logger.Warn("Suggestion request not sent", "error", err)
		return []models.Suggestion{}
	}

	start := time.Now()
	body, err := g.generate(ctx, buildPrompt(identity, personalContext))
	if err != nil {
		logger.Warn("Suggestion request failed", "provider", g.Name(), "error", err)
		return []models.Suggestion{}
	}

	suggestions := parseSuggestions(body)
	logger.Debug("Suggestions received", "provider", g.Name(), "count", len(suggestions), "elapsed", time.Since(start))
	return suggestions
}

func (g *Gemini) generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.credential)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error.message").String())
	}
	return body, nil
}

// parseSuggestions pulls the model's JSON text out of the response envelope
// and keeps only complete pairs.
func parseSuggestions(body []byte) []models.Suggestion {
	out := []models.Suggestion{}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() || !gjson.Valid(text.String()) {
		logger.Warn("Suggestion response had no usable text")
		return out
	}

	gjson.Get(text.String(), "suggestions").ForEach(func(_, item gjson.Result) bool {
		action := strings.TrimSpace(item.Get("action").String())
		cue := strings.TrimSpace(item.Get("cue").String())
		if action == "" || cue == "" {
			logger.Debug("Skipping incomplete suggestion", "action", action, "cue", cue)
			return true
		}
		out = append(out, models.Suggestion{Action: action, Cue: cue})
		return true
	})
	return out
}
