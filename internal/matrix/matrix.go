// Package matrix holds the display state for an 8x8 LED panel: the
// static image, the animation frames, and the frame currently driven
// onto the hardware. Buffers only ever change as whole units.
package matrix

import (
	"errors"
	"sync"
)

const (
	// Rows and Cols fix the panel geometry. A row byte maps bit 7 to
	// the leftmost column and bit 0 to the rightmost; 1 is lit.
	Rows = 8
	Cols = 8

	// MaxFrames bounds an animation upload.
	MaxFrames = 10
)

// Frame is one full panel image, rows 0..7 top to bottom. Value
// semantics: assigning a Frame copies all eight rows at once, so a
// reader never sees half of an update.
type Frame [Rows]byte

// Store owns the display buffers. Every mutation replaces whole
// buffers under one lock; accessors hand out copies. The scanner and
// the animation clock therefore never observe frame data and frame
// counters out of step with each other.
type Store struct {
	mu sync.Mutex

	static Frame
	render Frame

	anim   [MaxFrames]Frame
	count  int
	index  int
	active bool
}

func NewStore() *Store {
	return &Store{}
}

// SetStatic installs f as the static image and puts it on screen,
// deactivating any running animation.
func (s *Store) SetStatic(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.static = f
	s.render = f
	s.count = 0
	s.index = 0
	s.active = false
}

// StartAnimation installs frames and begins playback at frame 0. The
// buffer, the counters, the active flag and the render frame change as
// one unit.
func (s *Store) StartAnimation(frames []Frame) error {
	if len(frames) == 0 || len(frames) > MaxFrames {
		return errors.New("frame count out of range")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.anim[:], frames)
	s.count = len(frames)
	s.index = 0
	s.active = true
	s.render = frames[0]
	return nil
}

// StopAnimation empties the animation and falls back to the static
// image. Also the landing state for any failed animation upload: a
// partial frame set is never kept.
func (s *Store) StopAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
	s.index = 0
	s.active = false
	s.anim = [MaxFrames]Frame{}
	s.render = s.static
}

// AdvanceAnimation steps to the next frame, wrapping at the end, and
// swaps it into the render buffer. No-op while inactive.
func (s *Store) AdvanceAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.index = (s.index + 1) % s.count
	s.render = s.anim[s.index]
}

// Render returns the frame currently being driven.
func (s *Store) Render() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render
}

// Static returns the last committed static image.
func (s *Store) Static() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.static
}

// Active reports whether an animation is playing.
func (s *Store) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Animation returns a copy of the stored frames along with the current
// index and the active flag.
func (s *Store) Animation() (frames []Frame, index int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames = make([]Frame, s.count)
	copy(frames, s.anim[:s.count])
	return frames, s.index, s.active
}
