package selftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

func collect(r *Runner) []matrix.Frame {
	var out []matrix.Frame
	var f matrix.Frame
	for r.Step(&f) {
		out = append(out, f)
	}
	return out
}

func TestRowWalkLightsEachRowOnce(t *testing.T) {
	frames := collect(NewRunner(Plan{Kind: RowWalk}))

	require.Len(t, frames, matrix.Rows)
	for i, f := range frames {
		for r := 0; r < matrix.Rows; r++ {
			if r == i {
				assert.Equal(t, byte(0xFF), f[r])
			} else {
				assert.Equal(t, byte(0x00), f[r])
			}
		}
	}
}

func TestColWalkSweepsLeftToRight(t *testing.T) {
	frames := collect(NewRunner(Plan{Kind: ColWalk}))

	require.Len(t, frames, matrix.Cols)
	assert.Equal(t, byte(0x80), frames[0][0], "walk starts at the leftmost column")
	assert.Equal(t, byte(0x01), frames[matrix.Cols-1][0])
	for _, f := range frames {
		for r := 1; r < matrix.Rows; r++ {
			assert.Equal(t, f[0], f[r], "every row shows the same column")
		}
	}
}

func TestAllOnIsASingleFullFrame(t *testing.T) {
	frames := collect(NewRunner(Plan{Kind: AllOn}))

	require.Len(t, frames, 1)
	for r := 0; r < matrix.Rows; r++ {
		assert.Equal(t, byte(0xFF), frames[0][r])
	}
}

func TestNoneProducesNothing(t *testing.T) {
	var f matrix.Frame
	assert.False(t, NewRunner(Plan{}).Step(&f))
}
