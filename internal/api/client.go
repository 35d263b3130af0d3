// Package api is the REST client for the music quiz backend. Every screen of
// the application talks to the server through it; the session controller sees
// it only through its QuestionSource/ResultReporter interfaces.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the stored session for authenticated requests.
// store.Store satisfies it.
type TokenSource interface {
	Auth(ctx context.Context) (store.Auth, error)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom TLS).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "api").Logger()
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the backend's error body. Some endpoints use "message", the
// user endpoints use "error".
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do runs one request. body (if non-nil) is sent as JSON; out (if non-nil)
// receives the decoded JSON response. authed requests carry the stored bearer
// token and fail fast with domain.ErrUnauthorized when no live session exists.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.prepare(ctx, req, authed); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) prepare(ctx context.Context, req *http.Request, authed bool) error {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if !authed {
		return nil
	}
	auth, err := c.tokens.Auth(ctx)
	if err != nil {
		return err
	}
	if !auth.Valid(time.Now()) {
		return domain.ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	return nil
}

// statusError turns a non-2xx response into an error, preferring the
// backend's own message when its body carries one.
func (c *Client) statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.log.Debug().Int("status", resp.StatusCode).
		Str("path", resp.Request.URL.Path).Msg("request failed")

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		if strings.HasPrefix(resp.Request.URL.Path, "/game/") {
			return domain.ErrGameNotFound
		}
	}

	var body apiError
	if err := json.Unmarshal(data, &body); err == nil && body.text() != "" {
		return fmt.Errorf("%s", body.text())
	}
	return fmt.Errorf("something went wrong, please try again (status %d)", resp.StatusCode)
}
