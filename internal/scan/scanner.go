// Package scan paints the matrix one row at a time, fast enough that
// persistence of vision fuses the rows into a steady image.
package scan

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

// Chain is the pair of daisy-chained output registers behind the
// matrix. Latch makes exactly one row visible by presenting its
// select bit and column byte in the same update; Blank forces every
// output dark so the outgoing row cannot ghost into the next one.
type Chain interface {
	Latch(rowSelect, columns byte) error
	Blank() error
	Close() error
}

// Scanner steps through the rows of whatever the store says should be
// showing. It holds only the cursor; image and brightness live with
// their owners so a mid-scan commit shows up on the very next row.
type Scanner struct {
	chain  Chain
	store  *matrix.Store
	bright *matrix.Brightness
	row    int
	sleep  func(time.Duration)
}

func NewScanner(chain Chain, store *matrix.Store, bright *matrix.Brightness) *Scanner {
	return &Scanner{
		chain:  chain,
		store:  store,
		bright: bright,
		sleep:  time.Sleep,
	}
}

// Step lights the current row for the dwell time, blanks it, and
// advances the cursor. Eight consecutive calls paint the whole image
// once. Chain errors are logged and skipped; a dropped row costs one
// refresh, halting the scan would cost the display.
func (s *Scanner) Step() {
	f := s.store.Render()
	if err := s.chain.Latch(byte(1<<s.row), f[s.row]); err != nil {
		log.Debug().Err(err).Int("row", s.row).Msg("row latch failed")
	}
	s.sleep(s.bright.Dwell())
	if err := s.chain.Blank(); err != nil {
		log.Debug().Err(err).Int("row", s.row).Msg("blank failed")
	}
	s.row = (s.row + 1) % matrix.Rows
}
