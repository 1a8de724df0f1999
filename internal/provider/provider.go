package provider

import (
	"context"

	"github.com/notifyhub/callqueue/internal/domain"
)

// FetchRequest carries everything one poll needs. LastHash is sent so the
// server can short-circuit unchanged queues; the client does not rely on it.
type FetchRequest struct {
	APIKey     string
	LastHash   string
	ServerName string
}

// QueueProvider abstracts the remote service-request queue.
// Mocking this interface in tests gives full control over queue contents
// and failures without making real HTTP calls.
type QueueProvider interface {
	Fetch(ctx context.Context, req FetchRequest) ([]domain.QueueItem, error)
	Acknowledge(ctx context.Context, apiKey string, itemID int) error
}
