package preview

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

var (
	onColor  = color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	offColor = color.NRGBA{R: 0x00, G: 0x00, B: 0x40, A: 0xFF}
)

func newTestDev() (*Dev, *bytes.Buffer) {
	var buf bytes.Buffer
	d := New(&Opts{Writer: &buf, On: onColor, Off: offColor})
	return d, &buf
}

func sweep(t *testing.T, d *Dev, f matrix.Frame) {
	t.Helper()
	for r := 0; r < matrix.Rows; r++ {
		require.NoError(t, d.Latch(byte(1<<r), f[r]))
		require.NoError(t, d.Blank())
	}
}

func TestSweepPaintsEightRows(t *testing.T) {
	d, buf := newTestDev()

	sweep(t, d, matrix.Frame{0xF0, 0, 0, 0, 0, 0, 0, 0x0F})

	out := buf.String()
	assert.Equal(t, matrix.Rows, strings.Count(out, "\n"))
	assert.NotContains(t, out, "\033[8A", "first paint has nothing to rewind over")
	assert.Contains(t, out, ansi256.Default.Block(onColor))
	assert.Contains(t, out, ansi256.Default.Block(offColor))
}

func TestIdenticalSweepDoesNotRepaint(t *testing.T) {
	d, buf := newTestDev()

	f := matrix.Frame{0x18, 0x3C, 0x7E, 0xFF, 0x18, 0x18, 0x18, 0x18}
	sweep(t, d, f)
	before := buf.Len()
	sweep(t, d, f)

	assert.Equal(t, before, buf.Len(), "an unchanged image keeps the terminal quiet")
}

func TestChangedSweepRewindsAndRepaints(t *testing.T) {
	d, buf := newTestDev()

	sweep(t, d, matrix.Frame{0xFF, 0, 0, 0, 0, 0, 0, 0})
	sweep(t, d, matrix.Frame{0, 0, 0, 0, 0, 0, 0, 0xFF})

	assert.Contains(t, buf.String(), "\033[8A")
	assert.Equal(t, 2*matrix.Rows, strings.Count(buf.String(), "\n"))
}

func TestNonSingleRowSelectsAreInvisible(t *testing.T) {
	d, buf := newTestDev()

	require.NoError(t, d.Latch(0x00, 0xFF))
	require.NoError(t, d.Latch(0x81, 0xFF))

	assert.Zero(t, buf.Len())
}

func TestCloseResetsAttributes(t *testing.T) {
	d, buf := newTestDev()

	require.NoError(t, d.Close())

	assert.True(t, strings.HasSuffix(buf.String(), "\n\033[0m"))
}
