// Package apiclient talks to the Code Legends REST API.
//
// Read helpers degrade the way the web apps always did: list calls log and
// return an empty slice, lookups by id return nil on 404, and Me returns nil on
// 401. Mutations return *Error carrying the backend's message or a Portuguese
// fallback naming the action.
package apiclient

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

	"codelegends_gateway/logger"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logger.Logger
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: hc,
		log:        log.With("component", "APIClient"),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request. token may be empty for public endpoints. A non-2xx
// status is returned as *Error with the backend message, or fallback when the
// body carries none.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any, fallback string) error {
	var rdr io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
		rdr = &buf
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Status: 0, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, raw, fallback)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeBody(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

// decodeBody accepts both bare payloads and {"data": payload} envelopes.
func decodeBody(raw []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

// list fetches a collection. Failures are logged and yield an empty result.
func list[T any](ctx context.Context, c *Client, path, token string) []T {
	out, err := fetch[T](ctx, c, path, token)
	if err != nil {
		c.log.Warn("list request failed", "path", path, "error", err)
		return []T{}
	}
	return out
}

// fetch is list without the degradation, for callers that must tell an empty
// collection from a failed request.
func fetch[T any](ctx context.Context, c *Client, path, token string) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, "Erro ao carregar dados"); err != nil {
		return nil, err
	}
	if out == nil {
		return []T{}, nil
	}
	return out, nil
}

// lookup fetches one resource. 404 yields (nil, nil).
func lookup[T any](ctx context.Context, c *Client, path, token, fallback string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, fallback); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		c.log.Warn("lookup request failed", "path", path, "error", err)
		return nil, err
	}
	return &out, nil
}

func send[T any](ctx context.Context, c *Client, method, path, token string, body any, fallback string) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, token, body, &out, fallback); err != nil {
		c.log.Warn("mutation failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	return &out, nil
}

func (c *Client) remove(ctx context.Context, path, token, fallback string) error {
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil, fallback); err != nil {
		c.log.Warn("delete failed", "path", path, "error", err)
		return err
	}
	return nil
}

func pathf(format string, args ...any) string {
	esc := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			esc[i] = url.PathEscape(s)
		} else {
			esc[i] = a
		}
	}
	return fmt.Sprintf(format, esc...)
}
