package fingerprint_test

import (
	"testing"

	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/fingerprint"
)

func TestOf_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want string
	}{
		// md5("") = d41d8cd98f00b204e9800998ecf8427e
		{"empty list", nil, "d41d8cd9"},
		// md5("12") = c20ad4d76fe97759aa27a0c99bff6710
		{"two items", []int{1, 2}, "c20ad4d7"},
		// md5("123") = 202cb962ac59075b964b07152d234b70
		{"three items", []int{1, 2, 3}, "202cb962"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fingerprint.OfIDs(tc.ids); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestOf_EmptyListIsNotSentinel(t *testing.T) {
	if fingerprint.Of([]domain.QueueItem{}) == fingerprint.Empty {
		t.Fatal("an empty queue must have a fingerprint distinct from the sentinel")
	}
}

func TestOf_Deterministic(t *testing.T) {
	items := []domain.QueueItem{{ID: 10}, {ID: 42}, {ID: 7}}
	first := fingerprint.Of(items)
	for i := 0; i < 10; i++ {
		if got := fingerprint.Of(items); got != first {
			t.Fatalf("iteration %d: expected %s, got %s", i, first, got)
		}
	}
}

func TestOf_OnlyIDsMatter(t *testing.T) {
	a := []domain.QueueItem{{ID: 1, Location: "Table 1"}, {ID: 2, ActionType: domain.ActionBill}}
	b := []domain.QueueItem{{ID: 1, Location: "Terrace"}, {ID: 2, ActionType: domain.ActionMenu}}
	if fingerprint.Of(a) != fingerprint.Of(b) {
		t.Fatal("fingerprint must depend on identifiers only")
	}
}

func TestOf_SequenceChanges(t *testing.T) {
	base := fingerprint.OfIDs([]int{1, 2, 3})

	tests := []struct {
		name string
		ids  []int
	}{
		{"addition", []int{1, 2, 3, 4}},
		{"removal", []int{1, 2}},
		{"reordering", []int{3, 2, 1}},
		{"replacement", []int{1, 2, 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fingerprint.OfIDs(tc.ids); got == base {
				t.Fatalf("expected %v to change the fingerprint", tc.ids)
			}
		})
	}
}
