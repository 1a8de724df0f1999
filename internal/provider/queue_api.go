package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/notifyhub/callqueue/internal/domain"
)

// maxBody bounds how much of a response is read when decoding a queue.
const maxBody = 1 << 20

// HTTPQueueProvider talks to the queue API at <baseURL>/<apiKey>.
// The base URL is injected from config so tests can point to httptest servers.
type HTTPQueueProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPQueueProvider builds a provider. A zero timeout leaves requests
// unbounded; only the caller's context can end them.
func NewHTTPQueueProvider(baseURL string, timeout time.Duration) *HTTPQueueProvider {
	return &HTTPQueueProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues GET <base>/<apiKey>?lastHash=<fp>[&server=<name>] and decodes
// the JSON array of pending items. Any non-2xx status is an error.
func (p *HTTPQueueProvider) Fetch(ctx context.Context, fr FetchRequest) ([]domain.QueueItem, error) {
	q := url.Values{}
	q.Set("lastHash", fr.LastHash)
	if fr.ServerName != "" {
		q.Set("server", fr.ServerName)
	}
	endpoint, err := p.endpoint(fr.APIKey, q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	var items []domain.QueueItem
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// "null" decodes to a nil slice; the queue is then empty, not unknown.
	if items == nil {
		items = []domain.QueueItem{}
	}
	return items, nil
}

// Acknowledge issues PUT <base>/<apiKey>?actionId=<id>. The response body is
// not consumed beyond draining it for connection reuse.
func (p *HTTPQueueProvider) Acknowledge(ctx context.Context, apiKey string, itemID int) error {
	q := url.Values{}
	q.Set("actionId", strconv.Itoa(itemID))
	endpoint, err := p.endpoint(apiKey, q)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (p *HTTPQueueProvider) endpoint(apiKey string, q url.Values) (string, error) {
	if apiKey == "" {
		return "", domain.ErrNotConfigured
	}
	u, err := url.JoinPath(p.baseURL, apiKey)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	return u + "?" + q.Encode(), nil
}

// compile-time check that HTTPQueueProvider implements QueueProvider
var _ QueueProvider = (*HTTPQueueProvider)(nil)
