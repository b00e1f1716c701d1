package shiftreg

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIO bit-bangs the chain over three pins for boards without a free
// SPI peripheral. Timing is loose on purpose; a 74HC595 tolerates
// clock edges orders of magnitude slower than it needs, so syscall
// overhead alone paces the bus well within margin.
type GPIO struct {
	data  gpio.PinOut
	clock gpio.PinOut
	latch gpio.PinOut
}

// NewGPIO takes the three already-resolved pins and drives them all
// low so the chain starts from a known idle state.
func NewGPIO(data, clock, latch gpio.PinOut) (*GPIO, error) {
	g := &GPIO{data: data, clock: clock, latch: latch}
	for _, p := range []gpio.PinOut{data, clock, latch} {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("reset %s: %w", p, err)
		}
	}
	return g, nil
}

// OpenGPIO resolves the three pin names from the host registry, in
// data, clock, latch order.
func OpenGPIO(data, clock, latch string) (*GPIO, error) {
	pins := make([]gpio.PinOut, 3)
	for i, name := range []string{data, clock, latch} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no pin named %q", name)
		}
		pins[i] = p
	}
	return NewGPIO(pins[0], pins[1], pins[2])
}

// Latch clocks out the column byte LSB first, then the row-select
// byte MSB first, and pulses the storage latch so both registers
// update together. Columns go first because the first bits shifted
// end up in the far register of the chain.
func (g *GPIO) Latch(rowSelect, columns byte) error {
	for i := 0; i < 8; i++ {
		if err := g.shiftBit(gpio.Level((columns>>i)&1 != 0)); err != nil {
			return err
		}
	}
	for i := 7; i >= 0; i-- {
		if err := g.shiftBit(gpio.Level((rowSelect>>i)&1 != 0)); err != nil {
			return err
		}
	}
	if err := g.latch.Out(gpio.High); err != nil {
		return err
	}
	return g.latch.Out(gpio.Low)
}

// Blank shifts all-zero into both registers.
func (g *GPIO) Blank() error {
	return g.Latch(0, 0)
}

// Close blanks the outputs; the pin handles stay with the registry.
func (g *GPIO) Close() error {
	return g.Blank()
}

func (g *GPIO) shiftBit(level gpio.Level) error {
	if err := g.data.Out(level); err != nil {
		return err
	}
	if err := g.clock.Out(gpio.High); err != nil {
		return err
	}
	return g.clock.Out(gpio.Low)
}
