package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/notifyhub/callqueue/internal/db"
	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/repository"
)

func newSQLiteRepo(t *testing.T) repository.SettingsRepository {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nested", "settings.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return repository.NewSQLiteSettingsRepository(conn)
}

// repoContract runs the same behaviour checks against any implementation.
func repoContract(t *testing.T, repo repository.SettingsRepository) {
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Set(ctx, domain.SettingAPIKey, "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, domain.SettingAPIKey, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err := repo.Get(ctx, domain.SettingAPIKey)
	if err != nil || v != "second" {
		t.Fatalf("expected second, got %q (err=%v)", v, err)
	}

	if err := repo.Delete(ctx, domain.SettingAPIKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, domain.SettingAPIKey); err != nil {
		t.Fatalf("deleting a missing key must succeed: %v", err)
	}
	if _, err := repo.Get(ctx, domain.SettingAPIKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteSettingsRepository(t *testing.T) {
	repoContract(t, newSQLiteRepo(t))
}

func TestMockSettingsRepository(t *testing.T) {
	repoContract(t, repository.NewMockSettingsRepository())
}

func TestSQLiteSettingsRepository_ReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	ctx := context.Background()

	conn, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repository.SaveSettings(ctx, repository.NewSQLiteSettingsRepository(conn), domain.Settings{APIKey: "k1", ServerName: "anna"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = conn.Close()

	conn, err = db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer conn.Close()

	got, err := repository.LoadSettings(ctx, repository.NewSQLiteSettingsRepository(conn))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (domain.Settings{APIKey: "k1", ServerName: "anna"}) {
		t.Fatalf("unexpected settings after reopen: %+v", got)
	}
}

func TestSaveSettings_EmptyFieldRemovesValue(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMockSettingsRepository()

	if err := repository.SaveSettings(ctx, repo, domain.Settings{APIKey: "k", ServerName: "anna"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repository.SaveSettings(ctx, repo, domain.Settings{APIKey: "k", ServerName: "  "}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if repo.Has(domain.SettingServerName) {
		t.Fatal("an empty server name must remove the stored value")
	}
	if !repo.Has(domain.SettingAPIKey) {
		t.Fatal("api key must be kept")
	}
}

func TestLoadSettings_Unconfigured(t *testing.T) {
	got, err := repository.LoadSettings(context.Background(), repository.NewMockSettingsRepository())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Configured() {
		t.Fatalf("expected unconfigured settings, got %+v", got)
	}
}

func TestLoadSettings_StoreError(t *testing.T) {
	repo := repository.NewMockSettingsRepository()
	repo.GetErr = errors.New("disk on fire")
	if _, err := repository.LoadSettings(context.Background(), repo); err == nil {
		t.Fatal("expected the store error to surface")
	}
}
