// Package shiftreg drives the two daisy-chained 74HC595 output
// registers behind the matrix. The far register of the chain sets the
// columns, the near one selects the row, and a single storage-latch
// edge flips both to their new outputs at once.
package shiftreg

import (
	"math/bits"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// DefaultFreq is a comfortable shift clock for a 595 chain on short
// wires; the parts themselves are good for far more.
const DefaultFreq = physic.MegaHertz

// SPI clocks the chain through the hardware SPI peripheral: MOSI
// feeds the serial input, SCLK the shift clock, and chip select acts
// as the storage latch.
type SPI struct {
	conn spi.Conn
	port spi.PortCloser // set when OpenSPI owns the port
}

// NewSPI connects on an already-open port. A zero or negative
// frequency falls back to DefaultFreq.
func NewSPI(p spi.Port, f physic.Frequency) (*SPI, error) {
	if f <= 0 {
		f = DefaultFreq
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return &SPI{conn: c}, nil
}

// OpenSPI opens the named port from the host registry and connects.
// An empty name picks the first available port.
func OpenSPI(name string, f physic.Frequency) (*SPI, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	s, err := NewSPI(p, f)
	if err != nil {
		p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

// Latch shifts the column byte followed by the row-select byte, then
// lets chip select rise so both registers update together. The column
// byte goes out first because the first bits clocked end up deepest in
// the chain, and it is mirrored because its wire order is LSB-leading
// while SPI shifts MSB-leading.
func (s *SPI) Latch(rowSelect, columns byte) error {
	return s.conn.Tx([]byte{bits.Reverse8(columns), rowSelect}, nil)
}

// Blank drops every output so nothing is driven between rows.
func (s *SPI) Blank() error {
	return s.conn.Tx([]byte{0x00, 0x00}, nil)
}

// Close blanks the display and releases the port if OpenSPI owned it.
func (s *SPI) Close() error {
	err := s.Blank()
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
