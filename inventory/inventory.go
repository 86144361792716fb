package inventory

import (
	"sync"

	"kobetex/models"
)

// Seed returns the static cohort list the tracker starts from when no
// persisted seat table exists yet.
func Seed() []models.Session {
	return []models.Session{
		{ID: "2026-09-A", Title: "Formation LaTeX — Septembre", Dates: "7 – 18 septembre 2026", Total: 15, Available: 15},
		{ID: "2026-10-A", Title: "Formation LaTeX — Octobre", Dates: "5 – 16 octobre 2026", Total: 15, Available: 15},
		{ID: "2026-11-A", Title: "Formation LaTeX — Novembre", Dates: "2 – 13 novembre 2026", Total: 15, Available: 15},
	}
}

// Tracker is the mutable seat table, keyed by session id. Sessions are
// created once and never deleted; only the available count moves.
type Tracker struct {
	mu       sync.Mutex
	sessions []models.Session
}

func NewTracker(sessions []models.Session) *Tracker {
	cp := make([]models.Session, len(sessions))
	copy(cp, sessions)
	return &Tracker{sessions: cp}
}

// List returns a snapshot of all sessions.
func (t *Tracker) List() []models.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Session, len(t.sessions))
	copy(out, t.sessions)
	return out
}

// Get returns the session by id.
func (t *Tracker) Get(id string) (models.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return models.Session{}, false
}

// Decrement takes one seat, flooring at zero. Over-decrement is not an
// error: with a single operator the worst case is a seat count that
// reads zero a moment early.
func (t *Tracker) Decrement(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.sessions {
		if t.sessions[i].ID == id && t.sessions[i].Available > 0 {
			t.sessions[i].Available--
			return
		}
	}
}

// Reset restores a session to full capacity.
func (t *Tracker) Reset(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.sessions {
		if t.sessions[i].ID == id {
			t.sessions[i].Available = t.sessions[i].Total
			return
		}
	}
}
