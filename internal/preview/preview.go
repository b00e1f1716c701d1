// Package preview implements the register chain as colored blocks in
// a terminal (stdout) using ANSI color codes.
//
// Useful while the panel is still soldered to somebody else's bench.
package preview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math/bits"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

// Opts represents the options available for the terminal display.
type Opts struct {
	Writer  io.Writer
	Palette *ansi256.Palette
	On      color.NRGBA
	Off     color.NRGBA

	_ struct{}
}

// Dev is a register-chain emulator that outputs to the console. It
// accepts the same latches the real chain would and repaints once per
// full sweep, so what shows is what the scan actually produced rather
// than the store's idea of it. Dwell time has no terminal equivalent,
// so brightness does not show.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	on      color.NRGBA
	off     color.NRGBA

	shadow matrix.Frame
	shown  matrix.Frame
	drawn  bool
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	on := opts.On
	if on == (color.NRGBA{}) {
		on = color.NRGBA{R: 0xFF, G: 0xB0, B: 0x00, A: 0xFF}
	}
	off := opts.Off
	if off == (color.NRGBA{}) {
		off = color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xFF}
	}
	return &Dev{w: w, palette: *p, on: on, off: off}
}

func (d *Dev) String() string {
	return "Preview8x8"
}

// Latch records the row addressed by the select byte. Completing the
// bottom row triggers a repaint when the sweep produced a new image.
func (d *Dev) Latch(rowSelect, columns byte) error {
	if bits.OnesCount8(rowSelect) != 1 {
		// nothing visibly driven
		return nil
	}
	row := bits.TrailingZeros8(rowSelect)
	d.shadow[row] = columns
	if row == matrix.Rows-1 && (!d.drawn || d.shadow != d.shown) {
		return d.paint()
	}
	return nil
}

// Blank is when the real chain goes dark between rows; the terminal
// keeps the last full sweep up instead.
func (d *Dev) Blank() error {
	return nil
}

// Close clears the attributes so the terminal is not corrupted.
func (d *Dev) Close() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

func (d *Dev) paint() error {
	// designed to minimize the amount of memory allocated per call
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", matrix.Rows)
	}
	for _, row := range d.shadow {
		_, _ = d.buf.WriteString("\r\033[0m")
		for c := 0; c < matrix.Cols; c++ {
			px := d.off
			if row>>(matrix.Cols-1-c)&1 == 1 {
				px = d.on
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(px))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.shown = d.shadow
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}
