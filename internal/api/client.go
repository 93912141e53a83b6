package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var ErrNoSession = errors.New("api: no session")

// Credentials is anything that carries the app access token issued by /auth/login.
type Credentials interface {
	BearerToken() string
}

// Client is a stateless proxy to the task service. Each call is a single
// request/response with no retry.
type Client struct {
	baseURL    string
	timeout    time.Duration
	base       *http.Client
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.base = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 15 * time.Second,
		base:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = c.plainClient()
	return c
}

func (c *Client) plainClient() *http.Client {
	hc := *c.base
	hc.Timeout = c.timeout
	return &hc
}

// WithSession returns a copy that sends the session's bearer token. A nil
// or empty session yields an unauthorized copy.
func (c *Client) WithSession(s Credentials) *Client {
	cp := *c
	cp.token = ""
	cp.httpClient = c.plainClient()
	if s == nil {
		return &cp
	}
	token := strings.TrimSpace(s.BearerToken())
	if token == "" {
		return &cp
	}
	cp.token = token
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.timeout
	cp.httpClient = hc
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Authorized() bool {
	return c.token != ""
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.auth && c.token == "" {
		return ErrNoSession
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("api: marshal %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("api: create %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", r.method, r.path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}
