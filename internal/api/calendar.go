package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func (c *Client) SyncTaskToCalendar(ctx context.Context, taskID, userID int64) error {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/calendar/sync/task/%d", taskID), query: q, auth: true}, nil)
}

// ListCalendarEvents returns events between from and to, inclusive by date.
func (c *Client) ListCalendarEvents(ctx context.Context, userID int64, from, to time.Time) ([]model.CalendarEvent, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("start_date", from.Format(time.DateOnly))
	q.Set("end_date", to.Format(time.DateOnly))
	var out []model.CalendarEvent
	err := c.do(ctx, request{method: http.MethodGet, path: "/calendar/events", query: q, auth: true}, &out)
	return out, err
}
