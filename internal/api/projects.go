package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sandeepkv93/zen/internal/model"
)

type ProjectInput struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Status      string           `json:"status,omitempty"`
	TeamID      *int64           `json:"team_id,omitempty"`
	OwnerID     *int64           `json:"owner_id,omitempty"`
	DueDate     *model.Timestamp `json:"due_date,omitempty"`
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := c.do(ctx, request{method: http.MethodGet, path: "/projects"}, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id int64) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/projects/%d", id)}, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, request{method: http.MethodPost, path: "/projects", body: in, auth: true}, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/projects/%d", id), body: in, auth: true}, &out)
	return out, err
}
