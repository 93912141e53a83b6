package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/session"
)

func TestNormalizeRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "http://localhost:6789/oauth2callback"},
		{"urn:ietf:wg:oauth:2.0:oob", "http://localhost:6789/oauth2callback"},
		{"http://localhost", "http://localhost:6789"},
		{"http://127.0.0.1:8080/cb", "http://127.0.0.1:6789/cb"},
		{"https://example.com/cb", "https://example.com/cb"},
	}
	for _, tc := range tests {
		if got := normalizeRedirect(tc.in, 6789); got != tc.want {
			t.Fatalf("normalizeRedirect(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCallbackHandler(t *testing.T) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := callbackHandler("s1", codeCh, errCh)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?state=wrong&code=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for state mismatch, got %d", rec.Code)
	}
	if err := <-errCh; !strings.Contains(err.Error(), "state mismatch") {
		t.Fatalf("unexpected error: %v", err)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?state=s1&code=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if code := <-codeCh; code != "abc" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestTokenFileRoundTripAndSignOut(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "token.json")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := saveToken(path, tok); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file must be private, got %v", info.Mode().Perm())
	}
	got, err := tokenFromFile(path)
	if err != nil || got.AccessToken != "a" || got.RefreshToken != "r" {
		t.Fatalf("unexpected token %+v err=%v", got, err)
	}

	p := NewProvider(config.AuthConfig{TokenFile: path}, nil)
	if err := p.SignOut(); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file should be removed, err=%v", err)
	}
	if err := p.SignOut(); err != nil {
		t.Fatalf("second sign out should be a no-op: %v", err)
	}
}

func TestRestoreWithoutTokenYieldsEmptyEvent(t *testing.T) {
	p := NewProvider(config.AuthConfig{TokenFile: filepath.Join(t.TempDir(), "token.json")}, nil)
	ev, err := p.Restore(t.Context())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ev.Kind != session.InitialSession || ev.ProviderToken != "" {
		t.Fatalf("unexpected event %+v", ev)
	}
}
