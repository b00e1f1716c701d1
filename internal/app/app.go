// Package app assembles the firmware loop: one serial poll, one scan
// step, one animation check per pass, all on a single goroutine so no
// piece of state ever needs contending locks around a whole command.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/anim"
	"github.com/coreman2200/funtimes-ledmatrix/internal/comm"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/proto"
	"github.com/coreman2200/funtimes-ledmatrix/internal/scan"
)

// Options configure a Core. Chain and Link are required; zero values
// elsewhere take the usual defaults. Serial timeouts are the link's
// own settings and are configured where it is opened.
type Options struct {
	Chain        scan.Chain
	Link         *comm.Link
	TickInterval time.Duration

	// Brightness is the startup setting, 1..255. Zero keeps the
	// mid-range default; a host that wants true minimum sends the
	// brightness command.
	Brightness int
}

// Core owns every moving part of the firmware.
type Core struct {
	Store   *matrix.Store
	Bright  *matrix.Brightness
	Rx      *proto.Receiver
	Scanner *scan.Scanner
	Sched   *anim.Scheduler

	now func() time.Time
}

func NewCore(o Options) *Core {
	c := &Core{
		Store:  matrix.NewStore(),
		Bright: matrix.NewBrightness(),
		now:    time.Now,
	}
	if o.Brightness > 0 && o.Brightness <= 255 {
		c.Bright.Set(byte(o.Brightness))
	}
	c.Sched = anim.NewScheduler(c.Store, o.TickInterval)
	c.Scanner = scan.NewScanner(o.Chain, c.Store, c.Bright)
	c.Rx = proto.NewReceiver(o.Link, c.Store, c.Bright, proto.Hooks{
		// a fresh animation's first frame gets its full hold time
		AnimationStarted: func() { c.Sched.Reset(c.now()) },
	})
	return c
}

// iterate runs one cooperative pass.
func (c *Core) iterate(now time.Time) {
	c.Rx.Poll()
	c.Scanner.Step()
	c.Sched.Tick(now)
}

// Run drives passes until ctx is done. The loop never sleeps on its
// own; the scanner's dwell inside each pass paces it.
func (c *Core) Run(ctx context.Context) error {
	log.Info().Msg("matrix loop running")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("matrix loop stopped")
			return ctx.Err()
		default:
			c.iterate(c.now())
		}
	}
}
