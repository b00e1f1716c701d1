package matrix

import (
	"sync"
	"time"
)

const (
	// DwellMin and DwellMax bound the per-row hold time. Dwell is the
	// sole brightness control: the longer a row stays lit during its
	// slice of the scan, the brighter it reads.
	DwellMin = 500 * time.Microsecond
	DwellMax = 5000 * time.Microsecond
)

// Brightness maps the one-byte protocol setting onto a row dwell
// duration. The scanner only reads it; the receiver only writes it.
type Brightness struct {
	mu    sync.Mutex
	dwell time.Duration
}

// NewBrightness starts at the mid-range default.
func NewBrightness() *Brightness {
	return &Brightness{dwell: (DwellMin + DwellMax) / 2}
}

// Set maps b linearly onto [DwellMin, DwellMax]: 0 is dimmest, 255
// brightest. Takes effect on the next scan step, no ramping.
func (b *Brightness) Set(v byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dwell = DwellMin + (DwellMax-DwellMin)*time.Duration(v)/255
}

// Dwell returns the current per-row hold time.
func (b *Brightness) Dwell() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dwell
}
