// Package view turns queue items into the rows shown to staff: wait time,
// urgency colour, creation time, location and action label.
package view

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/notifyhub/callqueue/internal/domain"
)

// Urgency colours, by minutes waited.
const (
	Green  = "green"
	Yellow = "yellow"
	Red    = "red"
)

const (
	yellowAfter = 5
	redAfter    = 10
)

// Row is one rendered queue entry.
type Row struct {
	ID          int    `json:"id"`
	WaitMinutes int    `json:"waitMinutes"`
	Colour      string `json:"colour"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Action      string `json:"action"`
}

// Colour maps a wait in whole minutes to its urgency colour.
func Colour(minutes int) string {
	switch {
	case minutes >= redAfter:
		return Red
	case minutes >= yellowAfter:
		return Yellow
	default:
		return Green
	}
}

// WaitMinutes is the floor of the minutes elapsed since created. A creation
// time in the future yields a negative value.
func WaitMinutes(now, created time.Time) int {
	d := now.Sub(created)
	m := int(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}

// Renderer builds rows against a clock, rendering times in loc.
type Renderer struct {
	clock clock.PassiveClock
	loc   *time.Location
}

// NewRenderer returns a Renderer. A nil loc renders in the local zone.
func NewRenderer(clk clock.PassiveClock, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{clock: clk, loc: loc}
}

// Rows renders items in order.
func (r *Renderer) Rows(items []domain.QueueItem) []Row {
	now := r.clock.Now()
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		wait := WaitMinutes(now, it.Created.Time)
		rows = append(rows, Row{
			ID:          it.ID,
			WaitMinutes: wait,
			Colour:      Colour(wait),
			// 12-hour clock without meridiem, as on the staff handsets.
			Time:     it.Created.In(r.loc).Format("03:04"),
			Location: it.Location,
			Action:   it.ActionType.String(),
		})
	}
	return rows
}
