// Package comm pumps a serial byte stream through channels so the
// display loop can poll without blocking, read with a deadline, and
// write diagnostics best-effort. The underlying stream is a real
// serial port on the device and an in-memory pipe in tests and the
// simulator.
package comm

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrClosedPort  = errors.New("serial port is closed")
	ErrReadTimeout = errors.New("read timeout")
	ErrNoPortFound = errors.New("didn't find any available serial port")
)

// DefaultTimeout bounds reads and writes unless the caller says
// otherwise.
var DefaultTimeout = time.Second

// Link wraps an io.ReadWriteCloser with a read pump and a write pump.
// The pumps touch only the OS handle and the channels, never display
// state; all protocol logic stays on the caller's single loop.
type Link struct {
	// ReadTimeout bounds how long ReadByte waits for the next byte.
	ReadTimeout time.Duration
	// WriteTimeout bounds how long Write waits to hand a payload to
	// the write pump before dropping it.
	WriteTimeout time.Duration

	rw io.ReadWriteCloser

	byteCh    chan byte
	wrChan    chan []byte
	errChan   chan error
	closeChan chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ io.ByteReader = &Link{}

// NewLink wraps rw. Call Start before reading or writing.
func NewLink(rw io.ReadWriteCloser) *Link {
	return &Link{
		ReadTimeout:  DefaultTimeout,
		WriteTimeout: DefaultTimeout,
		rw:           rw,
		byteCh:       make(chan byte, 256),
		wrChan:       make(chan []byte),
		errChan:      make(chan error, 1),
		closeChan:    make(chan struct{}),
	}
}

// Start begins the two routines responsible for reading and writing on
// the underlying stream.
func (l *Link) Start() {
	l.wg.Add(2)
	go func() {
		l.readRoutine()
		l.wg.Done()
	}()
	go func() {
		l.writeRoutine()
		l.wg.Done()
	}()
}

// Poll returns one received byte without ever blocking.
func (l *Link) Poll() (byte, bool) {
	select {
	case b := <-l.byteCh:
		return b, true
	default:
		return 0, false
	}
}

// ReadByte waits up to ReadTimeout for the next byte. Buffered bytes
// win over a pending stream error so a command already in flight
// drains before the error surfaces. Timeout returns ErrReadTimeout.
func (l *Link) ReadByte() (byte, error) {
	select {
	case b := <-l.byteCh:
		return b, nil
	default:
	}
	select {
	case b := <-l.byteCh:
		return b, nil
	case err := <-l.errChan:
		return 0, err
	case <-l.closeChan:
		return 0, ErrClosedPort
	case <-time.After(l.ReadTimeout):
		return 0, fmt.Errorf("%w (%s)", ErrReadTimeout, l.ReadTimeout)
	}
}

// Write queues b for the write pump, waiting at most WriteTimeout. A
// full or dead line returns an error and the payload is dropped; the
// caller is never wedged on an unresponsive host.
func (l *Link) Write(b []byte) error {
	select {
	case l.wrChan <- b:
		return nil
	case <-l.closeChan:
		return ErrClosedPort
	case <-time.After(l.WriteTimeout):
		return fmt.Errorf("write timeout (%s)", l.WriteTimeout)
	}
}

// WriteLine queues one diagnostic text line.
func (l *Link) WriteLine(s string) error {
	return l.Write([]byte(s + "\n"))
}

// Close notifies both routines to stop, closes the underlying stream
// to unblock any pending read, then waits for the routines to return.
func (l *Link) Close() error {
	l.closeOnce.Do(func() { close(l.closeChan) })
	err := l.rw.Close()
	l.wg.Wait()
	return err
}

func (l *Link) readRoutine() {
	buf := make([]byte, 64)
	for {
		n, err := l.rw.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case l.byteCh <- buf[i]:
			case <-l.closeChan:
				return
			}
		}
		if err != nil {
			select {
			case l.errChan <- err:
			case <-l.closeChan:
				return
			default:
				// one pending error is signal enough
			}
			if err == io.EOF {
				return
			}
			select {
			case <-l.closeChan:
				return
			case <-time.After(50 * time.Millisecond):
			}
		}
	}
}

func (l *Link) writeRoutine() {
	for {
		var b []byte
		select {
		case b = <-l.wrChan:
		case <-l.closeChan:
			return
		}
		if _, err := l.rw.Write(b); err != nil {
			log.Debug().Err(err).Msg("serial write failed")
		}
	}
}
