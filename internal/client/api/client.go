// Package api is the HTTP client for the task manager REST API.
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

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"taskmanager/internal/client/credentials"
	"taskmanager/internal/infrastructure/logging"
)

type resource int

const (
	resourceAuth resource = iota
	resourceTasks
	resourceCategories
	resourceTags
)

// AuthPolicy selects which resources carry the bearer token.
type AuthPolicy struct {
	Tasks      bool
	Categories bool
	Tags       bool
}

// DefaultAuthPolicy attaches the token to every resource.
func DefaultAuthPolicy() AuthPolicy {
	return AuthPolicy{Tasks: true, Categories: true, Tags: true}
}

func (p AuthPolicy) attaches(r resource) bool {
	switch r {
	case resourceTasks:
		return p.Tasks
	case resourceCategories:
		return p.Categories
	case resourceTags:
		return p.Tags
	default:
		return false
	}
}

// Client talks to the API rooted at baseURL (for example
// http://localhost:8080/api).
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	policy  AuthPolicy
	logger  *log.Logger

	Auth       *AuthService
	Tasks      *TaskService
	Categories *CategoryService
	Tags       *TagService
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAuthPolicy overrides DefaultAuthPolicy.
func WithAuthPolicy(p AuthPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client whose token is read from store on every request.
func New(baseURL string, store credentials.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  credentials.TokenSource(store),
		policy:  DefaultAuthPolicy(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthService{client: c, store: store}
	c.Tasks = &TaskService{client: c}
	c.Categories = &CategoryService{client: c}
	c.Tags = &TagService{client: c}
	return c
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, res resource, op, method, path string, query url.Values, body, out any) error {
	fail := func(status int, msg string, err error) error {
		return &RequestError{Op: op, Method: method, Path: path, StatusCode: status, Message: msg, Err: err}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	bearer := false
	if c.policy.attaches(res) {
		tok, err := c.tokens.Token()
		switch {
		case err == nil:
			tok.SetAuthHeader(req)
			bearer = true
		case errors.Is(err, credentials.ErrNoToken):
		default:
			return fail(0, "", fmt.Errorf("read token: %w", err))
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "bearer", bearer, "err", err)
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "bearer", bearer)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &eb) != nil || eb.Message == "" {
			eb.Message = strings.TrimSpace(string(raw))
		}
		return fail(resp.StatusCode, eb.Message, nil)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func idPath(prefix string, id int64, suffix ...string) string {
	return fmt.Sprintf("%s/%d%s", prefix, id, strings.Join(suffix, ""))
}
