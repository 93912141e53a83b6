package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/session"
	"github.com/sandeepkv93/zen/internal/update"
)

type fakeIdentity struct {
	token     string
	signedOut bool
}

func (f *fakeIdentity) Restore(context.Context) (session.Event, error) {
	return session.Event{Kind: session.InitialSession, ProviderToken: f.token}, nil
}

func (f *fakeIdentity) SignIn(context.Context) (session.Event, error) {
	f.token = "prov-1"
	return session.Event{Kind: session.SignedIn, ProviderToken: f.token}, nil
}

func (f *fakeIdentity) SignOut() error {
	f.signedOut = true
	f.token = ""
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newService serves mux behind a login endpoint for user 3 and points the
// config at it.
func newService(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, api.LoginResponse{
			User:        model.User{ID: 3, Username: "ana", FullName: "Ana Lima", Email: "ana@example.com"},
			AccessToken: "app-1",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ZEN_SERVICE_URL", srv.URL)
}

func run(t *testing.T, id Identity, args ...string) (string, error) {
	t.Helper()
	return runApp(t, &App{Identity: id}, args...)
}

func runApp(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.Out = &out
	app.Err = io.Discard
	app.Now = func() time.Time { return time.Date(2025, time.July, 16, 9, 0, 0, 0, time.UTC) }
	root := NewRootCmd(app)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestParseInvite(t *testing.T) {
	cases := []struct {
		raw  string
		team int64
		role string
		ok   bool
	}{
		{raw: "https://zen.example/join?team_id=3&role=member", team: 3, role: "member", ok: true},
		{raw: "/join?team_id=12&role=admin", team: 12, role: "admin", ok: true},
		{raw: "https://zen.example/join?team_id=3", ok: false},
		{raw: "https://zen.example/join?role=member", ok: false},
		{raw: "https://zen.example/join?team_id=abc&role=member", ok: false},
		{raw: "https://zen.example/join?team_id=-1&role=member", ok: false},
		{raw: "%zz", ok: false},
	}
	for _, tc := range cases {
		team, role, err := ParseInvite(tc.raw)
		if !tc.ok {
			if !errors.Is(err, ErrInvalidInvite) {
				t.Fatalf("ParseInvite(%q) expected ErrInvalidInvite, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil || team != tc.team || role != tc.role {
			t.Fatalf("ParseInvite(%q) = %d, %q, %v", tc.raw, team, role, err)
		}
	}
}

func TestWhoami(t *testing.T) {
	newService(t, http.NewServeMux())
	out, err := run(t, &fakeIdentity{token: "prov-1"}, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Ana Lima (#3)") || !strings.Contains(out, "ana@example.com") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCommandsRequireSignIn(t *testing.T) {
	newService(t, http.NewServeMux())
	_, err := run(t, &fakeIdentity{}, "tasks", "list")
	if !errors.Is(err, errNotSignedIn) {
		t.Fatalf("expected errNotSignedIn, got %v", err)
	}
}

func TestFailedExchangeReportsConnectionError(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ZEN_SERVICE_URL", srv.URL)

	_, err := run(t, &fakeIdentity{token: "prov-1"}, "whoami")
	if !errors.Is(err, errNotConnected) {
		t.Fatalf("expected errNotConnected, got %v", err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	newService(t, http.NewServeMux())
	id := &fakeIdentity{}
	out, err := run(t, id, "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Welcome back, Ana Lima!") {
		t.Fatalf("unexpected login output: %q", out)
	}

	out, err = run(t, id, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !id.signedOut || !strings.Contains(out, "successfully signed out") {
		t.Fatalf("expected provider sign out, output %q", out)
	}
}

func TestTasksList(t *testing.T) {
	mux := http.NewServeMux()
	var query string
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		if r.Header.Get("Authorization") != "Bearer app-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, []model.Task{
			{ID: 1, Title: "Write report", Status: model.StatusTodo, Priority: model.PriorityHigh},
			{ID: 2, Title: "Ship release", Status: model.StatusDone, Priority: model.PriorityLow},
		})
	})
	newService(t, mux)

	out, err := run(t, &fakeIdentity{token: "prov-1"}, "tasks", "list", "--limit", "2")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	for _, want := range []string{"skip=0", "limit=2", "assignee_id=3"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected %s in query %q", want, query)
		}
	}
	if !strings.Contains(out, "Write report") || !strings.Contains(out, "Completed") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "--skip 2 --limit 2") {
		t.Fatalf("expected next page hint for a full page: %q", out)
	}
}

func TestTasksStatus(t *testing.T) {
	mux := http.NewServeMux()
	var patched []model.Status
	mux.HandleFunc("GET /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		task := model.Task{ID: 1, Title: "Write report", Status: model.StatusTodo, Priority: model.PriorityHigh}
		if r.PathValue("id") == "2" {
			task.ID, task.Status = 2, model.StatusDone
		}
		writeJSON(w, task)
	})
	mux.HandleFunc("PATCH /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in api.TaskUpdate
		_ = json.NewDecoder(r.Body).Decode(&in)
		patched = append(patched, in.Status)
		writeJSON(w, model.Task{ID: 1, Title: in.Title, Status: in.Status})
	})
	newService(t, mux)

	out, err := run(t, &fakeIdentity{token: "prov-1"}, "tasks", "status", "1", "in-progress")
	if err != nil {
		t.Fatalf("tasks status: %v", err)
	}
	if !strings.Contains(out, "Task status updated to in progress") {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(patched) != 1 || patched[0] != model.StatusInProgress {
		t.Fatalf("expected one in_progress update, got %v", patched)
	}

	_, err = run(t, &fakeIdentity{token: "prov-1"}, "tasks", "status", "2", "todo")
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(patched) != 1 {
		t.Fatalf("expected no request for an invalid transition, got %v", patched)
	}
}

func TestTasksAdd(t *testing.T) {
	mux := http.NewServeMux()
	var got api.NewTask
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, model.Task{ID: 9, Title: got.Title, Status: got.Status, Priority: got.Priority})
	})
	newService(t, mux)

	out, err := run(t, &fakeIdentity{token: "prov-1"}, "tasks", "add", "Buy", "milk", "--priority", "high", "--due", "2025-07-20")
	if err != nil {
		t.Fatalf("tasks add: %v", err)
	}
	if got.Title != "Buy milk" || got.Priority != model.PriorityHigh || got.CreatorID != 3 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.DueDate == nil || got.DueDate.Format(time.DateOnly) != "2025-07-20" {
		t.Fatalf("expected due date, got %v", got.DueDate)
	}
	if !strings.Contains(out, "#9 Buy milk") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestJoin(t *testing.T) {
	mux := http.NewServeMux()
	var query string
	mux.HandleFunc("POST /teams/3/join", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	})
	newService(t, mux)

	out, err := run(t, &fakeIdentity{token: "prov-1"}, "join", "https://zen.example/join?team_id=3&role=member")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !strings.Contains(query, "user_id=3") || !strings.Contains(query, "role=member") {
		t.Fatalf("unexpected query: %q", query)
	}
	if !strings.Contains(out, "successfully added to the team") {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := run(t, &fakeIdentity{token: "prov-1"}, "join"); !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected ErrInvalidInvite, got %v", err)
	}
}

func TestReportWeeklyWritesPDF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /weekly-reports/generate-demo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.WeeklyReport{
			ID:             1,
			UserID:         3,
			DateStart:      model.Timestamp{Time: time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)},
			DateEnd:        model.Timestamp{Time: time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)},
			TotalTasks:     4,
			CompletedTasks: 3,
			AISummary:      "Solid week.",
			Status:         "completed",
		})
	})
	newService(t, mux)

	path := filepath.Join(t.TempDir(), "weekly.pdf")
	out, err := run(t, &fakeIdentity{token: "prov-1"}, "report", "weekly", "--pdf", path)
	if err != nil {
		t.Fatalf("report weekly: %v", err)
	}
	if !strings.Contains(out, "Jul 14, 2025 - Jul 20, 2025") || !strings.Contains(out, "3 (75.0%)") {
		t.Fatalf("unexpected output: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("expected a PDF file")
	}
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	newService(t, http.NewServeMux())
	t.Setenv("ZEN_OPENAI_API_KEY", "sk-secret")

	out, err := run(t, &fakeIdentity{}, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-secret") {
		t.Fatalf("api key leaked: %q", out)
	}
	if !strings.Contains(out, "page_size: 10") || !strings.Contains(out, "work_seconds: 1500") {
		t.Fatalf("unexpected output: %q", out)
	}
}

type heldWakeLock struct{ held bool }

func (w *heldWakeLock) Acquire() error { w.held = true; return nil }
func (w *heldWakeLock) Release() error { w.held = false; return nil }

func TestCloseModelReleasesWakeLock(t *testing.T) {
	wake := &heldWakeLock{}
	var m tea.Model = update.NewModel(update.Deps{WakeLock: wake}, update.DefaultOptions())
	for _, key := range []string{"2", "f", " "} {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
	if !wake.held {
		t.Fatal("expected focus mode to hold the wake lock")
	}
	closeModel(m)
	if wake.held {
		t.Fatal("expected wake lock released after the program exits")
	}
	closeModel(nil)
}

type googleIdentity struct{ fakeIdentity }

func (g *googleIdentity) TokenSource(context.Context) (oauth2.TokenSource, error) {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.token}), nil
}

func runGoogle(t *testing.T, h http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	newService(t, http.NewServeMux())
	gsrv := httptest.NewServer(h)
	t.Cleanup(gsrv.Close)
	app := &App{
		Identity:        &googleIdentity{fakeIdentity{token: "prov-1"}},
		CalendarOptions: []option.ClientOption{option.WithEndpoint(gsrv.URL + "/"), option.WithHTTPClient(gsrv.Client())},
	}
	return runApp(t, app, args...)
}

func TestGoogleCalendars(t *testing.T) {
	out, err := runGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/users/me/calendarList") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"items":[{"id":"ana@example.com","summary":"Ana","primary":true},{"id":"work","summary":"Work"}]}`)
	}, "calendar", "google", "calendars")
	if err != nil {
		t.Fatalf("calendars: %v", err)
	}
	if !strings.Contains(out, "* ana@example.com") || !strings.Contains(out, "work") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestGoogleEventLifecycle(t *testing.T) {
	var requests []string
	var body map[string]any
	h := func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		body = nil
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"id":"e9","summary":"Focus block","start":{"dateTime":"2025-07-21T10:00:00Z"},"end":{"dateTime":"2025-07-21T10:30:00Z"}}`)
	}

	out, err := runGoogle(t, h, "calendar", "google", "add", "Focus", "block", "--start", "2025-07-21T10:00:00Z", "--duration", "30m")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Event created: e9") {
		t.Fatalf("unexpected output: %q", out)
	}
	end, _ := body["end"].(map[string]any)
	if body["summary"] != "Focus block" || end["dateTime"] != "2025-07-21T10:30:00Z" {
		t.Fatalf("unexpected create body %v", body)
	}

	if _, err := runGoogle(t, h, "calendar", "google", "--calendar", "work", "update", "e9", "Deep", "work", "--start", "2025-07-21T10:00:00Z"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if body["summary"] != "Deep work" {
		t.Fatalf("unexpected update body %v", body)
	}

	if _, err := runGoogle(t, h, "calendar", "google", "delete", "e9"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"POST /calendars/primary/events", "PUT /calendars/work/events/e9", "DELETE /calendars/primary/events/e9"}
	if len(requests) != len(want) {
		t.Fatalf("unexpected requests %v", requests)
	}
	for i, w := range want {
		method, path, _ := strings.Cut(w, " ")
		if !strings.HasPrefix(requests[i], method+" ") || !strings.HasSuffix(requests[i], path) {
			t.Fatalf("request %d = %q, want %q", i, requests[i], w)
		}
	}
}

func TestGoogleCalendarRequiresTokenSource(t *testing.T) {
	newService(t, http.NewServeMux())
	_, err := run(t, &fakeIdentity{token: "prov-1"}, "calendar", "google", "calendars")
	if !errors.Is(err, errNoGoogleCalendar) {
		t.Fatalf("expected errNoGoogleCalendar, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errNotConnected, "Failed to connect to server"},
		{fmt.Errorf("join: %w", errJoinFailed), "Failed to join team. You might already be a member."},
		{errReportFailed, "Failed to generate weekly report. Please try again."},
		{errNotSignedIn, errNotSignedIn.Error()},
	}
	for _, tt := range tests {
		if got := userMessage(tt.err); got != tt.want {
			t.Errorf("userMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
