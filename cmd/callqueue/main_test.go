package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	clocktest "k8s.io/utils/clock/testing"

	"github.com/notifyhub/callqueue/internal/alert"
	"github.com/notifyhub/callqueue/internal/api"
	"github.com/notifyhub/callqueue/internal/config"
	"github.com/notifyhub/callqueue/internal/db"
	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/metrics"
	"github.com/notifyhub/callqueue/internal/provider"
	"github.com/notifyhub/callqueue/internal/queue"
	"github.com/notifyhub/callqueue/internal/repository"
	"github.com/notifyhub/callqueue/internal/service"
	"github.com/notifyhub/callqueue/internal/view"
)

type noopScheduler struct{}

func (noopScheduler) Refresh() {}
func (noopScheduler) Restart() {}

type cliTestEnv struct {
	addr  string
	state *queue.State
	prov  *provider.MockQueueProvider
}

var testNow = time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)

func setupCLITestEnv(t *testing.T, settings domain.Settings) *cliTestEnv {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()

	env := &cliTestEnv{
		state: queue.NewState(settings),
		prov:  provider.NewMockQueueProvider(),
	}
	alerter := alert.New(alert.NewBellPlayer(io.Discard, 1, time.Millisecond), alert.Unsupported{}, alert.Timings{}, logger, m.AlertHook())
	svc := service.NewQueueService(env.state, env.prov, alerter, noopScheduler{}, repository.NewMockSettingsRepository(),
		view.NewRenderer(clocktest.NewFakePassiveClock(testNow), time.UTC), logger, m.AckHook())

	srv := httptest.NewServer(api.NewRouter(svc, reg, logger))
	t.Cleanup(func() {
		srv.Close()
		alerter.Stop()
		alerter.Wait()
	})
	env.addr = srv.URL
	return env
}

func runCLI(t *testing.T, addr string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--addr", addr}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestQueueCommand_Table(t *testing.T) {
	env := setupCLITestEnv(t, domain.Settings{APIKey: "key"})
	env.state.Apply(env.state.Begin(), []domain.QueueItem{
		{ID: 41, Created: domain.Timestamp{Time: testNow.Add(-12 * time.Minute)}, Location: "Table 9", ActionType: domain.ActionBill},
		{ID: 42, Created: domain.Timestamp{Time: testNow.Add(-1 * time.Minute)}, Location: "Patio", ActionType: domain.ActionMenu},
	})

	out, _, err := runCLI(t, env.addr, "queue")
	require.NoError(t, err)
	for _, want := range []string{"Table 9", "12 min", "Bill", "Patio", "1 min", "Menu", "06:18"} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "\x1b[", "no colour codes when not writing to a terminal")
}

func TestQueueCommand_JSON(t *testing.T) {
	env := setupCLITestEnv(t, domain.Settings{APIKey: "key"})
	env.state.Apply(env.state.Begin(), []domain.QueueItem{{ID: 7, Created: domain.Timestamp{Time: testNow}, Location: "Bar"}})

	out, _, err := runCLI(t, env.addr, "queue", "-o", "json")
	require.NoError(t, err)

	var v service.QueueView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, 1, v.Count)
	require.Equal(t, "Bar", v.Rows[0].Location)
}

func TestQueueCommand_EmptyAndUnconfigured(t *testing.T) {
	out, _, err := runCLI(t, setupCLITestEnv(t, domain.Settings{APIKey: "key"}).addr, "queue")
	require.NoError(t, err)
	require.Contains(t, out, "Queue is empty")

	out, _, err = runCLI(t, setupCLITestEnv(t, domain.Settings{}).addr, "queue")
	require.NoError(t, err)
	require.Contains(t, out, "No API key configured")

	_, _, err = runCLI(t, setupCLITestEnv(t, domain.Settings{}).addr, "queue", "-o", "yaml")
	require.Error(t, err)
}

func TestAcceptCommand(t *testing.T) {
	env := setupCLITestEnv(t, domain.Settings{APIKey: "key"})

	out, _, err := runCLI(t, env.addr, "accept", "42")
	require.NoError(t, err)
	require.Contains(t, out, "Accepted request 42")
	require.Equal(t, []int{42}, env.prov.Acked())

	_, _, err = runCLI(t, env.addr, "accept", "nope")
	require.Error(t, err)
	require.Len(t, env.prov.Acked(), 1)
}

func TestSettingsCommands(t *testing.T) {
	env := setupCLITestEnv(t, domain.Settings{})

	_, _, err := runCLI(t, env.addr, "settings", "set")
	require.Error(t, err, "set without flags must fail")

	out, _, err := runCLI(t, env.addr, "settings", "set", "--api-key", "abcdef987654", "--server", "anna")
	require.NoError(t, err)
	require.Contains(t, out, "********7654")
	require.Contains(t, out, "anna")
	require.Equal(t, domain.Settings{APIKey: "abcdef987654", ServerName: "anna"}, env.state.Settings())

	// Clearing the server name keeps the key.
	_, _, err = runCLI(t, env.addr, "settings", "set", "--server", "")
	require.NoError(t, err)
	require.Equal(t, domain.Settings{APIKey: "abcdef987654"}, env.state.Settings())

	out, _, err = runCLI(t, env.addr, "settings", "show")
	require.NoError(t, err)
	require.Contains(t, out, "(all)")
}

func TestTestCommands(t *testing.T) {
	env := setupCLITestEnv(t, domain.Settings{})

	out, _, err := runCLI(t, env.addr, "test", "sound")
	require.NoError(t, err)
	require.Contains(t, out, "Sound played")

	_, _, err = runCLI(t, env.addr, "test", "vibration")
	require.ErrorContains(t, err, "not available")

	out, _, err = runCLI(t, env.addr, "silence")
	require.NoError(t, err)
	require.Contains(t, out, "Alert stopped")
}

func TestDaemonUnreachable(t *testing.T) {
	_, _, err := runCLI(t, "http://127.0.0.1:1", "queue")
	require.Error(t, err)
}

// remoteQueue is a stand-in for the hosted queue API.
type remoteQueue struct {
	mu    sync.Mutex
	body  string
	paths []string
}

func (rq *remoteQueue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	rq.paths = append(rq.paths, r.URL.Path)
	if r.Method == http.MethodPut {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, rq.body)
}

func TestNewApp_PollsWithStoredSettings(t *testing.T) {
	remote := &remoteQueue{body: `[
		{"ID": 1, "Created": "2024-05-01T12:00:00Z", "Location": "Table 1", "ActionType": 2},
		{"ID": 2, "Created": "2024-05-01T12:01:00Z", "Location": "Table 2", "ActionType": 0}
	]`}
	upstream := httptest.NewServer(remote)
	defer upstream.Close()

	dbPath := filepath.Join(t.TempDir(), "callqueue.db")
	conn, err := db.OpenSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, repository.SaveSettings(context.Background(), repository.NewSQLiteSettingsRepository(conn),
		domain.Settings{APIKey: "stored-key"}))
	require.NoError(t, conn.Close())

	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("QUEUE_API_URL", upstream.URL+"/action/")
	t.Setenv("POLL_INTERVAL", "20ms")
	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.poller.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
		a.alerter.Stop()
		a.alerter.Wait()
	}()

	daemon := httptest.NewServer(a.handler)
	defer daemon.Close()

	require.Eventually(t, func() bool {
		out, _, err := runCLI(t, daemon.URL, "queue", "-o", "json")
		if err != nil {
			return false
		}
		var v service.QueueView
		return json.Unmarshal([]byte(out), &v) == nil && v.Count == 2
	}, 5*time.Second, 20*time.Millisecond)

	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.True(t, strings.HasSuffix(remote.paths[0], "/action/stored-key"), "got %v", remote.paths)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "bogus"} {
		logger, err := newLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}
}
