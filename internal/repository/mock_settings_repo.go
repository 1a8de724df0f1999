package repository

import (
	"context"
	"sync"

	"github.com/notifyhub/callqueue/internal/domain"
)

// MockSettingsRepository is a hand-written, in-memory implementation of
// SettingsRepository used in unit tests. No mock-generation library needed.
type MockSettingsRepository struct {
	mu     sync.RWMutex
	values map[string]string

	// Optional error overrides. Set in tests to simulate failure paths.
	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{values: make(map[string]string)}
}

func (m *MockSettingsRepository) Get(_ context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *MockSettingsRepository) Set(_ context.Context, key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockSettingsRepository) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Has reports whether key currently holds a value.
func (m *MockSettingsRepository) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}
