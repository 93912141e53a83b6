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

// MemberDashboard fetches a member's dashboard, scoped to a team when teamID is set.
func (c *Client) MemberDashboard(ctx context.Context, userID int64, teamID *int64) (model.MemberDashboardResponse, error) {
	var q url.Values
	if teamID != nil {
		q = url.Values{}
		q.Set("team_id", strconv.FormatInt(*teamID, 10))
	}
	var out model.MemberDashboardResponse
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/dashboard/member/%d", userID), query: q, auth: true}, &out)
	return out, err
}

func (c *Client) SprintDashboard(ctx context.Context, teamID int64) (model.SprintDashboard, error) {
	var out model.SprintDashboard
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/dashboard/sprint/%d", teamID)}, &out)
	return out, err
}

func (c *Client) GenerateWeeklyReport(ctx context.Context, userID int64, start, end time.Time) (model.WeeklyReport, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("report_type", "weekly")
	q.Set("start_date", start.Format(time.DateOnly))
	q.Set("end_date", end.Format(time.DateOnly))
	var out model.WeeklyReport
	err := c.do(ctx, request{method: http.MethodPost, path: "/weekly-reports/generate-demo", query: q}, &out)
	return out, err
}
