package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sandeepkv93/zen/internal/model"
)

type TeamInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	var out []model.Team
	err := c.do(ctx, request{method: http.MethodGet, path: "/teams"}, &out)
	return out, err
}

// GetTeamMembers returns the member roster; the service serves it from /teams/{id}.
func (c *Client) GetTeamMembers(ctx context.Context, teamID int64) ([]model.TeamMember, error) {
	var out []model.TeamMember
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/teams/%d", teamID)}, &out)
	return out, err
}

func (c *Client) CreateTeam(ctx context.Context, in TeamInput) (model.Team, error) {
	var out model.Team
	err := c.do(ctx, request{method: http.MethodPost, path: "/teams", body: in, auth: true}, &out)
	return out, err
}

// JoinTeam adds userID to the team with role. The request has no body.
func (c *Client) JoinTeam(ctx context.Context, teamID, userID int64, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return errors.New("api: role is required")
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("role", role)
	return c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/teams/%d/join", teamID), query: q}, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/"}, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/users/%d", id)}, &out)
	return out, err
}
