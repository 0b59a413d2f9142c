package suggest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
)

func testConfig(endpoint string) config.Suggest {
	return config.Suggest{
		Model:    "test-model",
		Endpoint: endpoint,
		Timeout:  2 * time.Second,
	}
}

func envelope(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return body
}

func TestNewPicksProvider(t *testing.T) {
	if p := New("", testConfig("http://unused")); p.Name() != "mock" {
		t.Errorf("New(\"\") = %s, want mock", p.Name())
	}
	if p := New("  ", testConfig("http://unused")); p.Name() != "mock" {
		t.Errorf("New(blank) = %s, want mock", p.Name())
	}
	if p := New("key", testConfig("http://unused")); p.Name() != "gemini" {
		t.Errorf("New(key) = %s, want gemini", p.Name())
	}
}

func TestMock(t *testing.T) {
	m := &Mock{}
	got := m.Suggest(context.Background(), "Reader", "")
	if len(got) != 5 {
		t.Fatalf("mock returned %d suggestions, want 5", len(got))
	}
	if got[0].Action != "Read 1 page" || got[0].Cue != "After I pour my coffee" {
		t.Errorf("first suggestion = %+v", got[0])
	}

	// Callers may mutate the result freely
	got[0].Action = "changed"
	if again := m.Suggest(context.Background(), "Reader", ""); again[0].Action != "Read 1 page" {
		t.Error("mock suggestions leaked a shared slice")
	}

	if blank := m.Suggest(context.Background(), "  ", ""); len(blank) != 0 {
		t.Errorf("blank identity returned %d suggestions", len(blank))
	}
}

func TestMockHonorsContext(t *testing.T) {
	m := &Mock{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := m.Suggest(ctx, "Reader", ""); len(got) != 0 {
		t.Errorf("cancelled mock returned %d suggestions", len(got))
	}
}

func TestGeminiRequestAndParse(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write(envelope(t, `{"suggestions":[{"action":"Read 1 page","cue":"After dinner"},{"action":"","cue":"no action"},{"action":"Stretch","cue":"After waking"},{"cue":"missing action"}]}`))
	}))
	defer server.Close()

	g := NewGemini("secret", testConfig(server.URL+"/"))
	got := g.Suggest(context.Background(), "Reader", "I work nights")

	if gotPath != "/models/test-model:generateContent" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	raw, _ := json.Marshal(gotBody)
	if !strings.Contains(string(raw), "I work nights") || !strings.Contains(string(raw), "application/json") {
		t.Errorf("request body missing context or mime type: %s", raw)
	}

	want := []models.Suggestion{{Action: "Read 1 page", Cue: "After dinner"}, {Action: "Stretch", Cue: "After waking"}}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGeminiFailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom"}}`))
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}},
		{"text not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write(envelope(t, "Here are some habits!"))
		}},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}},
		{"no suggestions key", func(w http.ResponseWriter, r *http.Request) {
			w.Write(envelope(t, `{"ideas":[]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got := NewGemini("k", testConfig(server.URL)).Suggest(context.Background(), "Reader", "")
			if got == nil || len(got) != 0 {
				t.Errorf("Suggest() = %v, want empty", got)
			}
		})
	}
}

func TestGeminiUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if got := NewGemini("k", testConfig(url)).Suggest(context.Background(), "Reader", ""); len(got) != 0 {
		t.Errorf("unreachable provider returned %v", got)
	}
}

func TestGeminiBlankIdentitySkipsCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	NewGemini("k", testConfig(server.URL)).Suggest(context.Background(), "   ", "")
	if called {
		t.Error("blank identity should not reach the provider")
	}
}

func TestGeminiRateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope(t, `{"suggestions":[{"action":"a","cue":"c"}]}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MinInterval = time.Hour
	g := NewGemini("k", cfg)

	if got := g.Suggest(context.Background(), "Reader", ""); len(got) != 1 {
		t.Fatalf("first call = %v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if got := g.Suggest(ctx, "Reader", ""); len(got) != 0 {
		t.Errorf("rate-limited call = %v, want empty", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("Runner", "")
	if !strings.Contains(p, `"Runner"`) || strings.Contains(p, "personal context") {
		t.Errorf("prompt without context = %q", p)
	}
	p = buildPrompt("Runner", "bad knees")
	if !strings.Contains(p, "bad knees") {
		t.Errorf("prompt with context = %q", p)
	}
}

func TestResolveCredential(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.APIKeyEnvVar, "from-env")

	if got := ResolveCredential(models.UserProfile{APICredential: " profile-key "}); got != "profile-key" {
		t.Errorf("profile credential = %q", got)
	}
	if got := ResolveCredential(models.UserProfile{}); got != "from-env" {
		t.Errorf("env fallback = %q", got)
	}

	if err := keyring.SetAPICredential("keyring-key"); err != nil {
		t.Fatalf("SetAPICredential failed: %v", err)
	}
	if got := ResolveCredential(models.UserProfile{}); got != "keyring-key" {
		t.Errorf("keyring credential = %q", got)
	}
}

func TestFilter(t *testing.T) {
	existing := []models.Habit{
		{IdentityLabel: "Reader", Action: "Read 1 Page"},
		{IdentityLabel: "Runner", Action: "Stretch"},
	}
	in := []models.Suggestion{{Action: "read 1 page", Cue: "x"}, {Action: "Stretch", Cue: "y"}}
	got := Filter(in, existing, "reader")
	if len(got) != 1 || got[0].Action != "Stretch" {
		t.Errorf("Filter = %+v", got)
	}
}
