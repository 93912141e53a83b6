package gcal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := NewWithHTTPClient(t.Context(), ts.Client(), option.WithEndpoint(ts.URL+"/"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestListEvents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" || q.Get("maxResults") != "50" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2025-07-21T09:00:00Z"},"end":{"dateTime":"2025-07-21T09:15:00Z"}},
			{"id":"e2","summary":"Offsite","start":{"date":"2025-07-22"},"end":{"date":"2025-07-23"}}
		]}`)
	})

	events, err := c.ListEvents(t.Context(), "", time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 || events[0].Summary != "Standup" || events[0].AllDay {
		t.Fatalf("unexpected events %+v", events)
	}
	if !events[1].AllDay || events[1].Start.Day() != 22 {
		t.Fatalf("expected all-day event on the 22nd, got %+v", events[1])
	}
}

func TestCreateEventValidatesAndSends(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"id":"new","summary":"Focus block","start":{"dateTime":"2025-07-21T10:00:00Z"},"end":{"dateTime":"2025-07-21T11:00:00Z"}}`)
	})

	if _, err := c.CreateEvent(t.Context(), "", EventInput{Summary: " "}); err == nil {
		t.Fatal("expected validation error")
	}

	start := time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC)
	ev, err := c.CreateEvent(t.Context(), "", EventInput{Summary: "Focus block", Start: start, End: start.Add(time.Hour), Attendees: []string{"a@b.c"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID != "new" || !ev.Start.Equal(start) {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got["summary"] != "Focus block" {
		t.Fatalf("unexpected body %v", got)
	}
	if attendees, _ := got["attendees"].([]any); len(attendees) != 1 {
		t.Fatalf("expected one attendee, got %v", got["attendees"])
	}
}

func TestDeleteEvent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || !strings.HasSuffix(r.URL.Path, "/calendars/work/events/e9") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteEvent(t.Context(), "work", "e9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
