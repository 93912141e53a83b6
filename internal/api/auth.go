package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sandeepkv93/zen/internal/model"
)

type LoginResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// Login exchanges a provider access token for an app session.
func (c *Client) Login(ctx context.Context, providerToken string) (LoginResponse, error) {
	if strings.TrimSpace(providerToken) == "" {
		return LoginResponse{}, errors.New("api: provider token is required")
	}
	var out LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"access_token": providerToken},
	}, &out)
	if err != nil {
		return LoginResponse{}, err
	}
	if out.AccessToken == "" {
		return LoginResponse{}, errors.New("api: login response has no access_token")
	}
	return out, nil
}
