package provider

import (
	"context"
	"sync"

	"github.com/notifyhub/callqueue/internal/domain"
)

// MockQueueProvider is a hand-written, in-memory QueueProvider used in unit
// tests. Tests set the queue contents and error overrides directly.
type MockQueueProvider struct {
	mu    sync.Mutex
	items []domain.QueueItem

	// Optional error overrides. Set in tests to simulate failure paths.
	FetchErr error
	AckErr   error

	// Block, when non-nil, makes Fetch wait until it is closed or ctx ends.
	Block chan struct{}

	FetchCalls []FetchRequest
	AckCalls   []int
}

func NewMockQueueProvider(items ...domain.QueueItem) *MockQueueProvider {
	return &MockQueueProvider{items: items}
}

// SetItems replaces the queue returned by subsequent fetches.
func (m *MockQueueProvider) SetItems(items ...domain.QueueItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

func (m *MockQueueProvider) SetFetchErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErr = err
}

func (m *MockQueueProvider) Fetch(ctx context.Context, req FetchRequest) ([]domain.QueueItem, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, req)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := make([]domain.QueueItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MockQueueProvider) Acknowledge(_ context.Context, _ string, itemID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AckCalls = append(m.AckCalls, itemID)
	if m.AckErr != nil {
		return m.AckErr
	}
	remaining := m.items[:0:0]
	for _, it := range m.items {
		if it.ID != itemID {
			remaining = append(remaining, it)
		}
	}
	m.items = remaining
	return nil
}

// FetchCount returns how many fetches have been issued so far.
func (m *MockQueueProvider) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}

// Acked returns a copy of the acknowledged item IDs, in call order.
func (m *MockQueueProvider) Acked() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.AckCalls...)
}

// LastFetch returns the most recent fetch request.
func (m *MockQueueProvider) LastFetch() FetchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.FetchCalls) == 0 {
		return FetchRequest{}
	}
	return m.FetchCalls[len(m.FetchCalls)-1]
}

var _ QueueProvider = (*MockQueueProvider)(nil)
