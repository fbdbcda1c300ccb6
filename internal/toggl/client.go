// Package toggl is the HTTP client for the Toggl v8 API.
//
// Every call is a single request: there are no retries. Failures come back as
// *errors.RemoteError carrying the HTTP status when one was received.
package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
)

// CreatedWith identifies this client to Toggl on created entries.
const CreatedWith = "togglcmder"

// Client talks to the Toggl API with one API token.
type Client struct {
	client    *http.Client
	baseURL   string
	token     string
	userAgent string
	logger    *slog.Logger
	now       func() time.Time
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// New creates a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = CreatedWith
	}
	return &Client{
		client:    hc,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		userAgent: ua,
		logger:    logger.With(logging.KeyComponent, "toggl"),
		now:       time.Now,
	}
}

// do sends one request. body, when non-nil, is sent as JSON. The response is
// decoded into out, unwrapping a {"data": ...} envelope when present.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &apperrors.RemoteError{Op: op, Cause: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &apperrors.RemoteError{Op: op, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.SetBasicAuth(c.token, "api_token")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &apperrors.RemoteError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.logger.DebugContext(ctx, "request",
		logging.KeyOperation, op,
		"method", method,
		logging.KeyURL, c.baseURL+path,
		logging.KeyStatus, resp.StatusCode,
		logging.KeyDuration, time.Since(start).Milliseconds(),
	)
	if err != nil {
		return &apperrors.RemoteError{Op: op, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var cause error
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			cause = fmt.Errorf("%s", truncate(msg, 200))
		}
		return &apperrors.RemoteError{Op: op, StatusCode: resp.StatusCode, Cause: cause}
	}

	if out == nil {
		return nil
	}
	if err := decodeData(raw, out); err != nil {
		return &apperrors.RemoteError{Op: op, StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsNotFound reports whether err is a 404 from Toggl.
func IsNotFound(err error) bool {
	re, ok := apperrors.AsRemoteError(err)
	return ok && re.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether Toggl rejected the API token.
func IsUnauthorized(err error) bool {
	re, ok := apperrors.AsRemoteError(err)
	return ok && (re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden)
}
