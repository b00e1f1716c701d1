package scan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

type chainOp struct {
	blank    bool
	row, col byte
}

type fakeChain struct {
	ops  []chainOp
	fail bool
}

func (c *fakeChain) Latch(rowSelect, columns byte) error {
	c.ops = append(c.ops, chainOp{row: rowSelect, col: columns})
	if c.fail {
		return errors.New("bus gone")
	}
	return nil
}

func (c *fakeChain) Blank() error {
	c.ops = append(c.ops, chainOp{blank: true})
	if c.fail {
		return errors.New("bus gone")
	}
	return nil
}

func (c *fakeChain) Close() error { return nil }

func newTestScanner(chain Chain) (*Scanner, *matrix.Store, *matrix.Brightness, *[]time.Duration) {
	store := matrix.NewStore()
	bright := matrix.NewBrightness()
	s := NewScanner(chain, store, bright)
	slept := &[]time.Duration{}
	s.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return s, store, bright, slept
}

func TestStepWalksRowsInOrder(t *testing.T) {
	chain := &fakeChain{}
	s, store, _, _ := newTestScanner(chain)

	f := matrix.Frame{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}
	store.SetStatic(f)

	for i := 0; i < matrix.Rows; i++ {
		s.Step()
	}

	require.Len(t, chain.ops, 2*matrix.Rows, "each step is one latch and one blank")
	for i := 0; i < matrix.Rows; i++ {
		latch, blank := chain.ops[2*i], chain.ops[2*i+1]
		assert.Equal(t, byte(1<<i), latch.row, "row %d select bit", i)
		assert.Equal(t, f[i], latch.col, "row %d columns", i)
		assert.True(t, blank.blank, "row %d must be blanked before the next one", i)
	}
}

func TestStepWrapsToFirstRow(t *testing.T) {
	chain := &fakeChain{}
	s, _, _, _ := newTestScanner(chain)

	for i := 0; i < matrix.Rows+1; i++ {
		s.Step()
	}

	assert.Equal(t, byte(1), chain.ops[2*matrix.Rows].row, "ninth step starts over at row 0")
}

func TestStepPicksUpMidScanCommit(t *testing.T) {
	chain := &fakeChain{}
	s, store, _, _ := newTestScanner(chain)

	before := matrix.Frame{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
	after := matrix.Frame{0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55}
	store.SetStatic(before)

	s.Step()
	s.Step()
	store.SetStatic(after)
	s.Step()

	assert.Equal(t, before[1], chain.ops[2].col)
	assert.Equal(t, after[2], chain.ops[4].col, "a commit shows on the very next row")
}

func TestStepSleepsForDwell(t *testing.T) {
	chain := &fakeChain{}
	s, _, bright, slept := newTestScanner(chain)

	bright.Set(0)
	s.Step()
	bright.Set(255)
	s.Step()

	require.Len(t, *slept, 2)
	assert.Equal(t, matrix.DwellMin, (*slept)[0])
	assert.Equal(t, matrix.DwellMax, (*slept)[1])
}

func TestStepSurvivesChainErrors(t *testing.T) {
	chain := &fakeChain{fail: true}
	s, _, _, _ := newTestScanner(chain)

	s.Step()
	s.Step()

	assert.Equal(t, byte(2), chain.ops[2].row, "cursor advances past a failed row")
}
