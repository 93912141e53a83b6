package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const PrimaryCalendar = "primary"

// Client talks to Google Calendar directly with the provider token.
type Client struct {
	srv *calendar.Service
}

// New builds a client from a provider token source.
func New(ctx context.Context, src oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	if src == nil {
		return nil, errors.New("gcal: token source is required")
	}
	opts = append([]option.ClientOption{option.WithTokenSource(src)}, opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: create calendar service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// NewWithHTTPClient builds a client over an already-authorized HTTP client.
func NewWithHTTPClient(ctx context.Context, hc *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: create calendar service: %w", err)
	}
	return &Client{srv: srv}, nil
}

type Calendar struct {
	ID      string
	Summary string
	Primary bool
}

type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Attendees   []string
	HTMLLink    string
}

// EventInput is what CreateEvent and UpdateEvent send.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Summary) == "" {
		return errors.New("gcal: event summary is required")
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return errors.New("gcal: event start and end are required")
	}
	if in.End.Before(in.Start) {
		return errors.New("gcal: event ends before it starts")
	}
	return nil
}

func (in EventInput) toAPI() *calendar.Event {
	ev := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       &calendar.EventDateTime{DateTime: in.Start.Format(time.RFC3339), TimeZone: in.Start.Location().String()},
		End:         &calendar.EventDateTime{DateTime: in.End.Format(time.RFC3339), TimeZone: in.End.Location().String()},
	}
	for _, email := range in.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}
	return ev
}

func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	resp, err := c.srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list calendars: %w", err)
	}
	out := make([]Calendar, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, Calendar{ID: item.Id, Summary: item.Summary, Primary: item.Primary})
	}
	return out, nil
}

// ListEvents returns upcoming single events from "from", ordered by start.
func (c *Client) ListEvents(ctx context.Context, calendarID string, from time.Time, max int64) ([]Event, error) {
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	if max <= 0 {
		max = 50
	}
	resp, err := c.srv.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		MaxResults(max).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list events: %w", err)
	}
	out := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, fromAPI(item))
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, calendarID string, in EventInput) (Event, error) {
	if err := in.validate(); err != nil {
		return Event{}, err
	}
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	created, err := c.srv.Events.Insert(calendarID, in.toAPI()).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("gcal: create event: %w", err)
	}
	return fromAPI(created), nil
}

func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, in EventInput) (Event, error) {
	if err := in.validate(); err != nil {
		return Event{}, err
	}
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	updated, err := c.srv.Events.Update(calendarID, eventID, in.toAPI()).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("gcal: update event: %w", err)
	}
	return fromAPI(updated), nil
}

func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	if err := c.srv.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gcal: delete event: %w", err)
	}
	return nil
}

func fromAPI(item *calendar.Event) Event {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
	}
	ev.Start, ev.AllDay = parseEventTime(item.Start)
	ev.End, _ = parseEventTime(item.End)
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, a.Email)
	}
	return ev
}

func parseEventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err == nil {
			return t, false
		}
	}
	if dt.Date != "" {
		t, err := time.Parse(time.DateOnly, dt.Date)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
