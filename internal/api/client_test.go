package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

type tokenOnly string

func (t tokenOnly) BearerToken() string { return string(t) }

func TestLoginPostsProviderToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not send authorization, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["access_token"] != "provider-123" {
			t.Errorf("unexpected access_token %q", body["access_token"])
		}
		_, _ = io.WriteString(w, `{"user":{"id":3,"email":"a@b.c","username":"ana"},"access_token":"app-xyz"}`)
	}))
	defer ts.Close()

	resp, err := New(ts.URL).Login(t.Context(), "provider-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "app-xyz" || resp.User.ID != 3 {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestAuthorizedCallSendsBearer(t *testing.T) {
	var gotAuth, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":1,"title":"a","status":"todo","priority":"low","creator_id":3}]`)
	}))
	defer ts.Close()

	client := New(ts.URL).WithSession(tokenOnly("app-xyz"))
	status := model.StatusTodo
	tasks, err := client.ListTasks(t.Context(), TaskQuery{Skip: 10, Limit: 10, AssigneeID: 3, Status: &status})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "a" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if gotAuth != "Bearer app-xyz" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotQuery != "assignee_id=3&limit=10&skip=10&status=todo" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestAuthRequiredWithoutSessionIssuesNoRequest(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	client := New(ts.URL).WithSession(nil)
	if _, err := client.ListTasks(t.Context(), TaskQuery{Limit: 10}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := client.SyncTaskToCalendar(t.Context(), 1, 2); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Task not found"}`)
	}))
	defer ts.Close()

	_, err := New(ts.URL).WithSession(tokenOnly("t")).GetTask(t.Context(), 42)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != 404 || se.Method != http.MethodGet || se.Path != "/tasks/42" {
		t.Fatalf("unexpected status error: %+v", se)
	}
	if se.Detail() != "Task not found" || !IsStatus(err, 404) {
		t.Fatalf("unexpected detail %q", se.Detail())
	}
	if Message(err) != "Task not found (404)" {
		t.Fatalf("unexpected message %q", Message(err))
	}
}

func TestUpdateTaskSendsFullBody(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/tasks/5" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"id":5,"title":"Ship","status":"in_progress","priority":"high","creator_id":1}`)
	}))
	defer ts.Close()

	created := model.Timestamp{Time: time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)}
	task := model.Task{ID: 5, Title: "Ship", Status: model.StatusTodo, Priority: model.PriorityHigh, CreatedAt: created}
	got, err := New(ts.URL).WithSession(tokenOnly("t")).UpdateTask(t.Context(), 5, UpdateFromTask(task, model.StatusInProgress))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Fatalf("unexpected status %q", got.Status)
	}
	for _, key := range []string{"title", "description", "project_id", "assignee_id", "status", "priority", "start_date", "due_date"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("PATCH body missing %q: %v", key, body)
		}
	}
	if body["start_date"] != "2025-07-01T08:00:00Z" {
		t.Fatalf("start_date should fall back to created_at, got %v", body["start_date"])
	}
}

func TestJoinTeamUsesQueryAndNoBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/teams/7/join" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("user_id") != "3" || r.URL.Query().Get("role") != "member" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) != 0 {
			t.Errorf("expected empty body, got %q", data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	if err := New(ts.URL).JoinTeam(t.Context(), 7, 3, "member"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := New(ts.URL).JoinTeam(t.Context(), 7, 3, " "); err == nil {
		t.Fatal("expected role error")
	}
}

func TestBreakdownAcceptsListOrEnvelope(t *testing.T) {
	payloads := []string{
		`[{"id":11,"title":"step one","status":"todo","priority":"low","creator_id":1}]`,
		`{"subtasks":[{"id":11,"title":"step one","status":"todo","priority":"low","creator_id":1}]}`,
	}
	for _, payload := range payloads {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tasks/4/breakdown" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = io.WriteString(w, payload)
		}))
		subtasks, err := New(ts.URL).WithSession(tokenOnly("t")).BreakdownTask(t.Context(), 4)
		ts.Close()
		if err != nil {
			t.Fatalf("breakdown: %v", err)
		}
		if len(subtasks) != 1 || subtasks[0].ID != 11 {
			t.Fatalf("unexpected subtasks for %s: %+v", payload, subtasks)
		}
	}
}

func TestWeeklyReportAndCalendarQueries(t *testing.T) {
	var queries []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		if strings.HasPrefix(r.URL.Path, "/weekly-reports") {
			_, _ = io.WriteString(w, `{"id":1,"user_id":3,"date_start":"2025-07-14","date_end":"2025-07-20","total_tasks":4}`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer ts.Close()

	start := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	client := New(ts.URL).WithSession(tokenOnly("t"))
	report, err := client.GenerateWeeklyReport(t.Context(), 3, start, end)
	if err != nil || report.TotalTasks != 4 {
		t.Fatalf("unexpected report %+v err=%v", report, err)
	}
	if _, err := client.ListCalendarEvents(t.Context(), 3, start, end); err != nil {
		t.Fatalf("calendar events: %v", err)
	}

	want := []string{
		"/weekly-reports/generate-demo?end_date=2025-07-20&report_type=weekly&start_date=2025-07-14&user_id=3",
		"/calendar/events?end_date=2025-07-20&start_date=2025-07-14&user_id=3",
	}
	if len(queries) != len(want) {
		t.Fatalf("unexpected requests: %v", queries)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Fatalf("request %d = %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestMessageForTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url).ListTeams(t.Context())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if Message(err) != "Failed to connect to server" {
		t.Fatalf("unexpected message %q", Message(err))
	}
}
