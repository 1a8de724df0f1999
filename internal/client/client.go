// Package client talks to a running callqueue daemon over its control API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/notifyhub/callqueue/internal/api/handler"
	"github.com/notifyhub/callqueue/internal/service"
)

// StatusError is returned for any response outside 2xx. Message holds the
// daemon's {"error": ...} text when there is one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status code %d", e.StatusCode)
	}
	return fmt.Sprintf("status code %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

type Client struct {
	c    *http.Client
	base string
}

// New returns a client for the daemon listening at base ("http://127.0.0.1:8080").
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{c: hc, base: strings.TrimRight(base, "/")}
}

func (c *Client) Queue(ctx context.Context) (service.QueueView, error) {
	var v service.QueueView
	err := c.do(ctx, http.MethodGet, "/api/v1/queue", nil, &v)
	return v, err
}

func (c *Client) Accept(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodPost, "/api/v1/queue/"+strconv.Itoa(itemID)+"/accept", nil, nil)
}

func (c *Client) Settings(ctx context.Context) (handler.SettingsResponse, error) {
	var s handler.SettingsResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, &s)
	return s, err
}

// UpdateSettings sends only the non-nil fields; an empty string clears one.
func (c *Client) UpdateSettings(ctx context.Context, req handler.SettingsRequest) (handler.SettingsResponse, error) {
	var s handler.SettingsResponse
	err := c.do(ctx, http.MethodPut, "/api/v1/settings", req, &s)
	return s, err
}

func (c *Client) TestSound(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/alerts/test-sound", nil, nil)
}

func (c *Client) TestVibration(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/alerts/test-vibration", nil, nil)
}

func (c *Client) StopAlert(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/alerts", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, resp any) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	res, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&e)
		return &StatusError{StatusCode: res.StatusCode, Message: e.Error}
	}
	if resp == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
