package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktest "k8s.io/utils/clock/testing"

	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/view"
)

func TestColour(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{-1, view.Green},
		{0, view.Green},
		{4, view.Green},
		{5, view.Yellow},
		{9, view.Yellow},
		{10, view.Red},
		{90, view.Red},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, view.Colour(tc.minutes), "minutes=%d", tc.minutes)
	}
}

func TestWaitMinutes_Floors(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 4, view.WaitMinutes(created.Add(4*time.Minute+59*time.Second), created))
	require.Equal(t, 5, view.WaitMinutes(created.Add(5*time.Minute), created))
	require.Equal(t, 0, view.WaitMinutes(created, created))
	require.Equal(t, -1, view.WaitMinutes(created.Add(-30*time.Second), created))
}

func TestRenderer_Rows(t *testing.T) {
	require := require.New(t)

	created := time.Date(2024, 5, 1, 13, 7, 0, 0, time.UTC)
	clk := clocktest.NewFakePassiveClock(created.Add(6 * time.Minute))
	r := view.NewRenderer(clk, time.UTC)

	items := []domain.QueueItem{
		{ID: 11, Created: domain.Timestamp{Time: created}, Location: "Table 4", ActionType: domain.ActionBill},
		{ID: 12, Created: domain.Timestamp{Time: created.Add(-10 * time.Minute)}, Location: "Bar", ActionType: 9},
	}

	rows := r.Rows(items)
	require.Len(rows, 2)

	require.Equal(view.Row{ID: 11, WaitMinutes: 6, Colour: view.Yellow, Time: "01:07", Location: "Table 4", Action: "Bill"}, rows[0])
	require.Equal(16, rows[1].WaitMinutes)
	require.Equal(view.Red, rows[1].Colour)
	require.Equal("12:57", rows[1].Time)
	require.Equal("Unknown", rows[1].Action)

	// Time advancing moves the colour without a new poll.
	clk.SetTime(created.Add(10 * time.Minute))
	require.Equal(view.Red, r.Rows(items[:1])[0].Colour)
}

func TestRenderer_EmptyIsNotNil(t *testing.T) {
	r := view.NewRenderer(clocktest.NewFakePassiveClock(time.Now()), nil)
	require.NotNil(t, r.Rows(nil))
}
