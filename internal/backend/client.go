// Package backend is the JSON HTTP client for the delivery platform API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/g7food/client/internal/apperr"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 15 * time.Second

const msgTimeout = "The request timed out. Try again."

// TokenSource yields the bearer token for authenticated calls. An empty token
// means the call goes out without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is an HTTP client for the backend API. It does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a new backend API client. tokens may be nil.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// do sends one request and decodes a JSON response into dest (which may be nil).
// Every failure comes back as an *apperr.AppError.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			slog.Warn("reading access token", "error", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(ctx, err)
	}
	slog.Debug("backend call", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	return decodeResponse(resp.StatusCode, resp.Header.Get("Content-Type"), raw, dest)
}

func transportErr(ctx context.Context, err error) error {
	var ne interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperr.NetworkErr(msgTimeout, err)
	}
	if ctx.Err() != nil {
		return apperr.NetworkErr("", ctx.Err())
	}
	return apperr.NetworkErr("", err)
}

// errorBody is the shape of backend error payloads.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeResponse(status int, contentType string, raw []byte, dest any) error {
	ok := status >= 200 && status < 300

	if !isJSON(contentType) {
		if looksLikeHTML(raw) {
			return apperr.MalformedErr("", fmt.Errorf("server returned HTML (HTTP %d)", status))
		}
		if ok && len(bytes.TrimSpace(raw)) == 0 && dest == nil {
			return nil
		}
		if !ok {
			return apperr.ServerErr(status, "")
		}
		return apperr.MalformedErr("", fmt.Errorf("unexpected content type %q", contentType))
	}

	if !ok {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return apperr.ServerErr(status, msg)
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return apperr.MalformedErr("", fmt.Errorf("parsing JSON: %w", err))
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func looksLikeHTML(raw []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(raw[:min(len(raw), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, body, dest)
}

// Health probes GET /health. A nil error means the backend answered 2xx.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}
