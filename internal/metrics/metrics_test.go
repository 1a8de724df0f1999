package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/notifyhub/callqueue/internal/metrics"
)

func TestMetrics_Hooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	onPoll, onItems := m.PollerHooks()
	onPoll("changed", 20*time.Millisecond)
	onPoll("failed", 0)
	onPoll("failed", 0)
	onItems(4)

	alertHook := m.AlertHook()
	alertHook(true)
	alertHook(false)

	ackHook := m.AckHook()
	ackHook(nil)
	ackHook(errors.New("boom"))

	if got := testutil.ToFloat64(m.Polls.WithLabelValues("failed")); got != 2 {
		t.Fatalf("expected 2 failed polls, got %v", got)
	}
	if got := testutil.ToFloat64(m.QueueItems); got != 4 {
		t.Fatalf("expected queue gauge 4, got %v", got)
	}
	if got := testutil.ToFloat64(m.Alerts.WithLabelValues("suppressed")); got != 1 {
		t.Fatalf("expected 1 suppressed alert, got %v", got)
	}
	if got := testutil.ToFloat64(m.Acknowledgments.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed acknowledgement, got %v", got)
	}
}
