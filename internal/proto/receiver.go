package proto

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/comm"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

// Lines written back over the serial channel. Human-readable only; a
// conforming host must not parse them.
const (
	ackFrame      = "Pattern received."
	ackAnimation  = "Animation received."
	ackBrightness = "Brightness set."
	diagUnknown   = "Unknown command received."

	errLineTimeout    = "Error: Read timeout."
	errLineEndMarker  = "Error: Invalid end marker."
	errLineFrameCount = "Error: Invalid frame count."
)

// Hooks observe successful commits. Nil fields are skipped.
type Hooks struct {
	FrameCommitted    func()
	AnimationStarted  func()
	BrightnessChanged func(dwell time.Duration)
}

// Receiver drains one command at a time off the link and commits the
// result. A command lands whole or not at all: a failed single frame
// leaves the static image untouched, a failed animation always clears
// to inactive, and either way the next command is honored. Every
// payload byte read is bounded by the link's ReadTimeout, measured
// from the start of that read attempt.
type Receiver struct {
	link   *comm.Link
	store  *matrix.Store
	bright *matrix.Brightness
	hooks  Hooks
}

func NewReceiver(link *comm.Link, store *matrix.Store, bright *matrix.Brightness, h Hooks) *Receiver {
	return &Receiver{
		link:   link,
		store:  store,
		bright: bright,
		hooks:  h,
	}
}

// Poll handles at most one pending command and returns. It never
// blocks on an idle line: the scan must keep running between commands.
// While a command is mid-reception the loop is held here, which pauses
// scanning; that freeze is an accepted part of the cooperative design.
func (r *Receiver) Poll() {
	b, ok := r.link.Poll()
	if !ok {
		return
	}
	m := Marker(b)
	if err := r.handle(m); err != nil {
		log.Debug().Err(err).Stringer("command", m).Msg("command rejected")
	}
}

// handle consumes the remainder of the command started by m. Failures
// are fully dealt with here, diagnostic line and state policy
// included; the returned error is for logging only and never
// propagates further.
func (r *Receiver) handle(m Marker) error {
	switch m {
	case FrameStart:
		return r.readFrame()
	case AnimStart:
		return r.readAnimation()
	case SetBrightness:
		return r.readBrightness()
	default:
		r.diag(diagUnknown)
		return fmt.Errorf("%w: %s", ErrUnknownMarker, m)
	}
}

func (r *Receiver) readFrame() error {
	var f matrix.Frame
	if err := r.readRows(&f); err != nil {
		// buffers stay exactly as they were before the command
		r.diag(errLineTimeout)
		return err
	}
	end, err := r.link.ReadByte()
	if err != nil {
		r.diag(errLineTimeout)
		return fmt.Errorf("%w: end marker: %v", ErrReadTimeout, err)
	}
	if Marker(end) != FrameEnd {
		r.diag(errLineEndMarker)
		return fmt.Errorf("%w: %s", ErrInvalidEndMarker, Marker(end))
	}
	r.store.SetStatic(f)
	r.diag(ackFrame)
	log.Debug().Msg("static pattern committed")
	if r.hooks.FrameCommitted != nil {
		r.hooks.FrameCommitted()
	}
	return nil
}

func (r *Receiver) readAnimation() error {
	count, err := r.link.ReadByte()
	if err != nil {
		return r.abortAnimation(errLineTimeout, fmt.Errorf("%w: count byte: %v", ErrReadTimeout, err))
	}
	n := int(count)
	if n == 0 || n > matrix.MaxFrames {
		// rejected before any payload read
		return r.abortAnimation(errLineFrameCount, fmt.Errorf("%w: %d", ErrInvalidFrameCount, n))
	}
	frames := make([]matrix.Frame, n)
	for i := range frames {
		if err := r.readRows(&frames[i]); err != nil {
			return r.abortAnimation(errLineTimeout, fmt.Errorf("frame %d: %w", i, err))
		}
	}
	end, err := r.link.ReadByte()
	if err != nil {
		return r.abortAnimation(errLineTimeout, fmt.Errorf("%w: end marker: %v", ErrReadTimeout, err))
	}
	if Marker(end) != AnimEnd {
		return r.abortAnimation(errLineEndMarker, fmt.Errorf("%w: %s", ErrInvalidEndMarker, Marker(end)))
	}
	if err := r.store.StartAnimation(frames); err != nil {
		return r.abortAnimation(errLineFrameCount, err)
	}
	r.diag(ackAnimation)
	log.Debug().Int("frames", n).Msg("animation committed")
	if r.hooks.AnimationStarted != nil {
		r.hooks.AnimationStarted()
	}
	return nil
}

func (r *Receiver) readBrightness() error {
	v, err := r.link.ReadByte()
	if err != nil {
		// setting keeps its previous value
		r.diag(errLineTimeout)
		return fmt.Errorf("%w: setting byte: %v", ErrReadTimeout, err)
	}
	r.bright.Set(v)
	r.diag(ackBrightness)
	log.Debug().Uint8("setting", v).Dur("dwell", r.bright.Dwell()).Msg("brightness changed")
	if r.hooks.BrightnessChanged != nil {
		r.hooks.BrightnessChanged(r.bright.Dwell())
	}
	return nil
}

// readRows fills one frame's worth of row bytes, each read bounded by
// the link's read timeout.
func (r *Receiver) readRows(f *matrix.Frame) error {
	for i := range f {
		b, err := r.link.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: row byte %d: %v", ErrReadTimeout, i, err)
		}
		f[i] = b
	}
	return nil
}

// abortAnimation applies the always-clear policy: a partially received
// frame set must never become visible or resumable, even when an
// earlier animation was playing.
func (r *Receiver) abortAnimation(line string, err error) error {
	r.store.StopAnimation()
	r.diag(line)
	return err
}

// diag writes one best-effort line back at the host. Not
// protocol-framed, never retried; a dropped diagnostic is fine.
func (r *Receiver) diag(line string) {
	_ = r.link.WriteLine(line)
}
