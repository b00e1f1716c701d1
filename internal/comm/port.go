package comm

import (
	"go.bug.st/serial.v1"
)

// DefaultMode matches the device side of the wire: 9600-8N1.
var DefaultMode = &serial.Mode{
	BaudRate: 9600,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

// OpenPort opens the named serial port and returns a started Link.
// baud <= 0 keeps the default rate.
func OpenPort(name string, baud int) (*Link, error) {
	mode := *DefaultMode
	if baud > 0 {
		mode.BaudRate = baud
	}
	port, err := serial.Open(name, &mode)
	if err != nil {
		return nil, err
	}
	l := NewLink(port)
	l.Start()
	return l, nil
}

// Find probes the available serial ports and returns a started Link on
// the first one that opens, along with its name. The matrix is the
// listening side of the protocol, so there is no handshake to verify a
// peer with; first openable port wins.
func Find(baud int) (*Link, string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, "", err
	}
	for _, name := range ports {
		l, err := OpenPort(name, baud)
		if err == nil {
			return l, name, nil
		}
	}
	return nil, "", ErrNoPortFound
}
