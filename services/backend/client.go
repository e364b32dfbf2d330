// Package backendsvc is the typed client for the remote attainment REST
// API. The backend is an external collaborator: this package only shapes
// requests and decodes responses, it never recomputes what the server owns.
package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
)

// TokenSource yields a fresh bearer token for authenticated calls.
// session.Manager is the only production implementation; the call is not
// sent when it reports core.ErrUnauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

func NewClient() *Client {
	return &Client{
		base: strings.TrimRight(core.Conf.GetString("backendBaseURL"), "/"),
		http: &http.Client{Timeout: core.Conf.GetDuration("backendTimeout")},
	}
}

// NewClientAt targets an explicit base URL (tests, alternate deployments).
func NewClientAt(baseURL string, timeout ...time.Duration) *Client {
	to := 15 * time.Second
	if len(timeout) > 0 {
		to = timeout[0]
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: to},
	}
}

// UseTokens wires the session manager in after construction; the manager
// itself authenticates through this client, so the two meet at runtime.
func (c *Client) UseTokens(ts TokenSource) { c.tokens = ts }

// errorPayload is the backend's error envelope.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p errorPayload) text() string {
	if p.Error != "" {
		return p.Error
	}
	return p.Message
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out, true)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out, true)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// anon skips bearer injection (auth endpoints only).
func (c *Client) anon(ctx context.Context, method, path string, in, out interface{}) error {
	return c.do(ctx, method, path, nil, in, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out interface{}, authed bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.base + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if authed {
		if c.tokens == nil {
			return core.ErrUnauthenticated
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err // the request is never sent without a valid session
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(core.NewBackendError(0, err.Error()), "calling backend")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload errorPayload
		_ = json.NewDecoder(res.Body).Decode(&payload)
		msg := payload.text()
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return core.NewBackendError(res.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}
