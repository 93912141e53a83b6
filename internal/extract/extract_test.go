package extract

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/config"
)

func TestRemoteExtract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/extract" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["script"] != "finish the deck by friday" {
			t.Errorf("unexpected script %q", body["script"])
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"extracted_data":{"title":"Finish the deck","description":"","priority":"High","start_date":"","due_date":"2025-07-25","category":"work"}}}`)
	}))
	defer ts.Close()

	got, err := NewRemote(ts.URL, nil).Extract(t.Context(), "  finish the deck by friday ")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Title != "Finish the deck" || got.Priority != "high" || got.DueDate != "2025-07-25" {
		t.Fatalf("unexpected extraction %+v", got)
	}
	if got.Category == nil || *got.Category != "work" {
		t.Fatalf("unexpected category %v", got.Category)
	}
}

func TestRemoteRejectsEmptyScriptWithoutCall(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer ts.Close()

	if _, err := NewRemote(ts.URL, nil).Extract(t.Context(), "   "); !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestRemoteFailures(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()
	if _, err := NewRemote(failing.URL, nil).Extract(t.Context(), "x"); err == nil || !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("expected status error, got %v", err)
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer empty.Close()
	if _, err := NewRemote(empty.URL, nil).Extract(t.Context(), "x"); err == nil {
		t.Fatal("expected missing extracted_data error")
	}
}

func TestOpenAIExtract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth %q", r.Header.Get("Authorization"))
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model %v", req["model"])
		}
		content := `{"title":"Call the bank","description":"about the card","priority":"urgent","start_date":"","due_date":"2025-07-21","category":null}`
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	o := NewOpenAI(OpenAIConfig{BaseURL: ts.URL, APIKey: "sk-test"}, ts.Client())
	o.now = func() time.Time { return time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC) }
	got, err := o.Extract(t.Context(), "call the bank tomorrow about the card, it's urgent")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Title != "Call the bank" || got.Priority != "urgent" || got.Category != nil {
		t.Fatalf("unexpected extraction %+v", got)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default().Extractor
	ex, err := New(cfg, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(*Remote); !ok {
		t.Fatalf("expected remote backend, got %T", ex)
	}

	cfg.Backend = config.BackendOpenAI
	if _, err := New(cfg, time.Second); err == nil {
		t.Fatal("openai backend without key must fail")
	}
	cfg.APIKey = "sk"
	if ex, err := New(cfg, time.Second); err != nil {
		t.Fatal(err)
	} else if _, ok := ex.(*OpenAI); !ok {
		t.Fatalf("expected openai backend, got %T", ex)
	}

	cfg.Backend = "llama"
	if _, err := New(cfg, time.Second); err == nil {
		t.Fatal("unknown backend must fail")
	}
}
