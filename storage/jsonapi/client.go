// Package jsonapi implements the core repository interfaces over the
// platform's JSON:API-flavored REST backend.
package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
)

// TokenFunc yields the current session token, or "" when unauthenticated.
type TokenFunc func() string

type Client struct {
	baseURL string
	http    *http.Client
	// submit carries no client-enforced timeout; presence submission
	// relies on the server side to bound it.
	submit *http.Client
	token  TokenFunc
	log    core.Logger
}

func NewClient(conf *core.Config, token TokenFunc, log core.Logger) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: conf.API.BaseURL,
		http:    &http.Client{Timeout: conf.API.Timeout},
		submit:  &http.Client{},
		token:   token,
		log:     log,
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string, authed bool) (*http.Request, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if authed {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// do issues one request and decodes the JSON:API document on 2xx. A non-2xx
// status becomes a *core.RemoteError carrying the body's error message.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload interface{}, out *Document, authed bool) error {
	var body io.Reader
	var contentType string
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, q, body, contentType, authed)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

// checkStatus drains the error body of non-2xx responses looking for a
// human-readable message; raw codes never surface to users.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if err := json.Unmarshal(raw, &body); err == nil {
			msg = body.Error
			if msg == "" {
				msg = body.Message
			}
		}
	}
	return &core.RemoteError{StatusCode: resp.StatusCode, Msg: msg}
}

// isStatus reports whether err is a backend rejection with the given code.
func isStatus(err error, code int) bool {
	var re *core.RemoteError
	return errors.As(err, &re) && re.StatusCode == code
}
