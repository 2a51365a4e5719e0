package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

const defaultHTTPTimeout = 10 * time.Second

var _ APIClient = (*Client)(nil)

// Client talks to the booking backend. It performs no retries; a
// failed call surfaces to the immediate caller only.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      Logger
	debug       bool
	tokenSource func() string
}

// NewClient creates a backend client from configuration.
func NewClient(cfg *Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     defLogger{},
		debug:      cfg.Debug,
	}
}

// WithLogger overrides the client logger.
func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient swaps the underlying HTTP client (tests, custom
// transports).
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// WithTokenSource attaches the bearer token to every request. Wire it
// to the session store so authenticated collaborator calls carry the
// current token.
func (c *Client) WithTokenSource(source func() string) *Client {
	c.tokenSource = source
	return c
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/usuario/login", req, out); err != nil {
		return nil, err
	}

	if out.Token == "" {
		return nil, goerrors.New("login response carried no token", goerrors.CategoryOperation).
			WithTextCode(textCodeRemoteFailure)
	}

	return out, nil
}

// Register creates a new account and returns the backend's
// representation of it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserAccount, error) {
	out := &UserAccount{}
	if err := c.do(ctx, http.MethodPost, "/api/usuario", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForgotPassword asks the backend to start a password reset for the
// given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword finalizes a reset. Token and password travel as query
// parameters with an empty body so special characters in the new
// password go through parameter encoding instead of body encoding.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	params := url.Values{}
	params.Set("token", token)
	params.Set("nuevaPassword", newPassword)

	return c.do(ctx, http.MethodPost, "/api/auth/reset-password?"+params.Encode(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode request payload")
		}
		if c.debug {
			c.logger.Debug("%s %s payload:\n%s", method, path, print.MaybePrettyJSON(body))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "backend request failed").
			WithTextCode(textCodeRemoteFailure).
			WithMetadata(map[string]any{"path": path})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to read backend response").
			WithTextCode(textCodeRemoteFailure).
			WithMetadata(map[string]any{"path": path})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.remoteError(path, resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "unexpected backend response payload").
				WithTextCode(textCodeRemoteFailure).
				WithMetadata(map[string]any{"path": path})
		}
	}

	return nil
}

// remoteError maps a non-2xx response onto a rich error, surfacing the
// backend's message detail when one was provided.
func (c *Client) remoteError(path string, status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = fmt.Sprintf("backend rejected request with status %d", status)
	}

	metadata := map[string]any{
		"path":   path,
		"status": status,
	}
	if payload.Message != "" {
		metadata["detail"] = payload.Message
	}

	return goerrors.New(message, goerrors.CategoryOperation).
		WithTextCode(textCodeRemoteFailure).
		WithMetadata(metadata)
}
