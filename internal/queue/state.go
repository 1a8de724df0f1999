package queue

import (
	"sync"

	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/fingerprint"
)

// Outcome describes what applying a poll response did to the state.
type Outcome int

const (
	// Unchanged: the fingerprint matched; items were left as they were.
	Unchanged Outcome = iota
	// Loaded: the queue changed but there was no prior fingerprint, so the
	// change is a fresh load and must not alert.
	Loaded
	// Changed: the queue changed relative to a known previous state.
	Changed
	// Stale: the response was requested under settings that have since been
	// replaced and was discarded.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Loaded:
		return "loaded"
	case Changed:
		return "changed"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// ShouldAlert reports whether the outcome warrants the audio/vibration alert.
func (o Outcome) ShouldAlert() bool {
	return o == Changed
}

// Ticket is what a poll needs to build its request. Generation ties the
// eventual response back to the settings it was requested with.
type Ticket struct {
	Settings   domain.Settings
	LastHash   string
	Generation uint64
}

// Snapshot is a read-only copy of the state for rendering.
type Snapshot struct {
	Items       []domain.QueueItem
	Fingerprint string
	Settings    domain.Settings
}

// State owns the mutable client state: current settings, last fingerprint
// and the visible items. Every method takes the lock, so a poll response is
// applied atomically even when several polls overlap.
type State struct {
	mu          sync.Mutex
	settings    domain.Settings
	fingerprint string
	items       []domain.QueueItem
	generation  uint64
}

func NewState(settings domain.Settings) *State {
	return &State{
		settings: settings.Normalize(),
		items:    []domain.QueueItem{},
	}
}

// Begin captures the inputs for one poll.
func (s *State) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{
		Settings:   s.settings,
		LastHash:   s.fingerprint,
		Generation: s.generation,
	}
}

// Apply folds a successful poll response into the state. The item slice is
// replaced wholesale only when the fingerprint differs; an alert is due only
// when a previous non-empty fingerprint existed.
func (s *State) Apply(t Ticket, items []domain.QueueItem) (Outcome, string) {
	fp := fingerprint.Of(items)

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation {
		return Stale, fp
	}
	if fp == s.fingerprint {
		return Unchanged, fp
	}

	outcome := Changed
	if s.fingerprint == fingerprint.Empty {
		outcome = Loaded
	}
	s.items = items
	s.fingerprint = fp
	return outcome, fp
}

// ResetFingerprint forgets the last fingerprint so the next successful poll is
// treated as a fresh load. Items stay visible until that poll replaces them.
func (s *State) ResetFingerprint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = fingerprint.Empty
}

// ReplaceSettings installs new settings and invalidates in-flight polls.
func (s *State) ReplaceSettings(settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Normalize()
	s.generation++
}

func (s *State) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Snapshot returns a copy safe to hand to renderers.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.QueueItem, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:       items,
		Fingerprint: s.fingerprint,
		Settings:    s.settings,
	}
}

// Items returns the current item slice itself, not a copy. Tests use it to
// check that an unchanged poll leaves the slice untouched.
func (s *State) Items() []domain.QueueItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *State) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fingerprint
}
