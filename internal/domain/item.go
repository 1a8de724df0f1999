package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ActionType is the kind of service a guest asked for.
// The remote API sends it as an integer code.
type ActionType int

const (
	ActionMenu     ActionType = 0
	ActionBill     ActionType = 1
	ActionWaitress ActionType = 2
)

// String returns the label shown to staff. Codes outside the known set are
// valid on the wire and render as "Unknown".
func (a ActionType) String() string {
	switch a {
	case ActionMenu:
		return "Menu"
	case ActionBill:
		return "Bill"
	case ActionWaitress:
		return "Waitress"
	}
	return "Unknown"
}

func (a ActionType) IsKnown() bool {
	switch a {
	case ActionMenu, ActionBill, ActionWaitress:
		return true
	}
	return false
}

// QueueItem is a single pending service request as returned by the queue API.
// Items are never mutated after decoding; a changed queue replaces the whole slice.
type QueueItem struct {
	ID         int        `json:"ID"`
	Created    Timestamp  `json:"Created"`
	Location   string     `json:"Location"`
	ActionType ActionType `json:"ActionType"`
}

// zoneless layouts are read as UTC, matching how the queue API stores them.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp wraps time.Time to accept the queue API's creation times, which
// may or may not carry a zone designator.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("%w: null timestamp", ErrMalformedItem)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: timestamp is not a string", ErrMalformedItem)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ParseTimestamp parses RFC 3339 first and falls back to zone-less layouts in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", ErrMalformedItem, s)
}

// IDs returns the item identifiers in response order.
func IDs(items []QueueItem) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
