// Package anim advances animation playback on a fixed cadence.
package anim

import (
	"time"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

// DefaultInterval is how long each animation frame stays up.
const DefaultInterval = 500 * time.Millisecond

// Scheduler flips the store to its next frame once per interval. It
// is polled from the main loop rather than driven by a timer, so the
// interval is a floor: frames never advance early, and a busy loop
// just shows them a little longer.
type Scheduler struct {
	store    *matrix.Store
	interval time.Duration
	last     time.Time
}

func NewScheduler(store *matrix.Store, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{store: store, interval: interval}
}

// Reset restarts the cadence so the frame committed at now gets its
// full interval on screen.
func (s *Scheduler) Reset(now time.Time) {
	s.last = now
}

// Tick advances playback when the interval has elapsed, at most one
// frame per call. It does nothing while no animation is active.
func (s *Scheduler) Tick(now time.Time) {
	if !s.store.Active() {
		return
	}
	if s.last.IsZero() {
		s.last = now
		return
	}
	if now.Sub(s.last) < s.interval {
		return
	}
	s.store.AdvanceAnimation()
	s.last = now
}
