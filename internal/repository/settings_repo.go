package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/notifyhub/callqueue/internal/domain"
)

// SettingsRepository is a durable key/value store for the device settings.
// The SQLite implementation is in sqlite_settings_repo.go and the PostgreSQL
// one in pg_settings_repo.go. Tests use a hand-written mock (mock_settings_repo.go).
type SettingsRepository interface {
	// Get returns domain.ErrNotFound when the key has no value.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LoadSettings reads both slots. A missing slot is an unset field, not an error.
func LoadSettings(ctx context.Context, repo SettingsRepository) (domain.Settings, error) {
	apiKey, err := getOptional(ctx, repo, domain.SettingAPIKey)
	if err != nil {
		return domain.Settings{}, err
	}
	server, err := getOptional(ctx, repo, domain.SettingServerName)
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings{APIKey: apiKey, ServerName: server}.Normalize(), nil
}

// SaveSettings persists non-empty fields and removes empty ones.
func SaveSettings(ctx context.Context, repo SettingsRepository, s domain.Settings) error {
	s = s.Normalize()
	if err := putOptional(ctx, repo, domain.SettingAPIKey, s.APIKey); err != nil {
		return err
	}
	return putOptional(ctx, repo, domain.SettingServerName, s.ServerName)
}

func getOptional(ctx context.Context, repo SettingsRepository, key string) (string, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

func putOptional(ctx context.Context, repo SettingsRepository, key, value string) error {
	if value == "" {
		if err := repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		return nil
	}
	if err := repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
