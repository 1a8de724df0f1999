package ratelimiter_test

import (
	"testing"

	"github.com/notifyhub/callqueue/internal/ratelimiter"
)

func TestRefreshLimiter_BurstThenDeny(t *testing.T) {
	// A very slow refill keeps the test independent of wall-clock timing.
	rl := ratelimiter.New(0.001, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("refresh %d within burst was denied", i)
		}
	}
	if rl.Allow() {
		t.Fatal("refresh beyond burst should be denied")
	}
}
