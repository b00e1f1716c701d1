package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

var (
	frameA = matrix.Frame{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}
	frameB = matrix.Frame{0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02}
	frameC = matrix.Frame{0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04}
)

func TestTickIdleWithoutAnimation(t *testing.T) {
	store := matrix.NewStore()
	store.SetStatic(frameA)
	s := NewScheduler(store, 0)

	base := time.Now()
	for i := 0; i < 10; i++ {
		s.Tick(base.Add(time.Duration(i) * time.Second))
	}

	assert.Equal(t, frameA, store.Render())
}

func TestTickHoldsEachFrameForTheInterval(t *testing.T) {
	store := matrix.NewStore()
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameA, frameB, frameC}))
	s := NewScheduler(store, 0)

	base := time.Now()
	s.Reset(base)

	s.Tick(base.Add(499 * time.Millisecond))
	assert.Equal(t, frameA, store.Render(), "interval not yet over")

	s.Tick(base.Add(500 * time.Millisecond))
	assert.Equal(t, frameB, store.Render())

	s.Tick(base.Add(999 * time.Millisecond))
	assert.Equal(t, frameB, store.Render(), "cadence restarts from the last advance")

	s.Tick(base.Add(time.Second))
	assert.Equal(t, frameC, store.Render())
}

func TestTickNeverAdvancesEarly(t *testing.T) {
	store := matrix.NewStore()
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameA, frameB}))
	s := NewScheduler(store, 0)

	base := time.Now()
	s.Reset(base)
	for ms := 0; ms < 500; ms += 20 {
		s.Tick(base.Add(time.Duration(ms) * time.Millisecond))
	}

	assert.Equal(t, frameA, store.Render())
}

func TestFirstTickArmsTheCadence(t *testing.T) {
	store := matrix.NewStore()
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameA, frameB}))
	s := NewScheduler(store, 0)

	// no Reset: the first tick only arms the clock
	base := time.Now()
	s.Tick(base)
	assert.Equal(t, frameA, store.Render())

	s.Tick(base.Add(DefaultInterval))
	assert.Equal(t, frameB, store.Render())
}

func TestStalledLoopAdvancesOneFrameAtATime(t *testing.T) {
	store := matrix.NewStore()
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameA, frameB, frameC}))
	s := NewScheduler(store, 0)

	base := time.Now()
	s.Reset(base)

	// the loop went away for well over three intervals
	s.Tick(base.Add(1700 * time.Millisecond))
	assert.Equal(t, frameB, store.Render(), "a stalled loop shows frames longer, never skips them")
}

func TestResetGrantsTheNewFrameAFullInterval(t *testing.T) {
	store := matrix.NewStore()
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameA, frameB}))
	s := NewScheduler(store, 0)

	base := time.Now()
	s.Reset(base)
	s.Tick(base.Add(400 * time.Millisecond))

	// a fresh commit lands mid-cadence
	require.NoError(t, store.StartAnimation([]matrix.Frame{frameC, frameA}))
	s.Reset(base.Add(450 * time.Millisecond))

	s.Tick(base.Add(900 * time.Millisecond))
	assert.Equal(t, frameC, store.Render(), "the new first frame keeps its full interval")

	s.Tick(base.Add(950 * time.Millisecond))
	assert.Equal(t, frameA, store.Render())
}
