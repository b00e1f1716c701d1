// matrixsim runs the whole firmware against the terminal preview,
// with a scripted host talking over an in-memory serial line. Handy
// for eyeballing protocol changes without a board or a pseudo-tty.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/app"
	"github.com/coreman2200/funtimes-ledmatrix/internal/comm"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/preview"
)

var (
	heart   = matrix.Frame{0x00, 0x66, 0xFF, 0xFF, 0xFF, 0x7E, 0x3C, 0x18}
	smiley  = matrix.Frame{0x3C, 0x42, 0xA5, 0x81, 0xA5, 0x99, 0x42, 0x3C}
	spinner = []matrix.Frame{
		{0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00},
		{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01},
		{0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18},
		{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80},
	}
)

// pipeRW glues one end of two pipes into the single stream the link
// expects.
type pipeRW struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (p *pipeRW) Close() error {
	var err error
	for _, c := range p.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func main() {
	var (
		pause = flag.Duration("pause", 3*time.Second, "delay between scripted commands")
		debug = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	// the preview owns stdout, so logs go to stderr
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	devRead, hostWrite := io.Pipe() // host -> device
	hostRead, devWrite := io.Pipe() // device -> host

	link := comm.NewLink(&pipeRW{
		Reader:  devRead,
		Writer:  devWrite,
		closers: []io.Closer{devRead, devWrite},
	})
	link.Start()

	chain := preview.New(&preview.Opts{})
	core := app.NewCore(app.Options{Chain: chain, Link: link})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()
	go playScript(ctx, hostWrite, *pause)
	go echoDiagnostics(hostRead)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	<-done
	_ = link.Close()
	_ = chain.Close()
}

// playScript loops a little show: a couple of stills, an animation,
// brightness swings, and one bogus command to show the rejection path.
func playScript(ctx context.Context, w io.Writer, pause time.Duration) {
	cmds := [][]byte{
		brightnessCmd(200),
		frameCmd(heart),
		animationCmd(spinner),
		brightnessCmd(60),
		frameCmd(smiley),
		{0x42},
		brightnessCmd(200),
	}
	for i := 0; ; i = (i + 1) % len(cmds) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(pause):
		}
		if _, err := w.Write(cmds[i]); err != nil {
			return
		}
	}
}

// echoDiagnostics relays the device's feedback lines.
func echoDiagnostics(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		log.Info().Str("device", sc.Text()).Msg("diag")
	}
}

func frameCmd(f matrix.Frame) []byte {
	cmd := []byte{0xFF}
	cmd = append(cmd, f[:]...)
	return append(cmd, 0xFE)
}

func animationCmd(frames []matrix.Frame) []byte {
	cmd := []byte{0xFA, byte(len(frames))}
	for _, f := range frames {
		cmd = append(cmd, f[:]...)
	}
	return append(cmd, 0xFB)
}

func brightnessCmd(v byte) []byte {
	return []byte{0xFC, v}
}
