package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-ledmatrix/internal/app"
	"github.com/coreman2200/funtimes-ledmatrix/internal/comm"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/preview"
	"github.com/coreman2200/funtimes-ledmatrix/internal/scan"
	"github.com/coreman2200/funtimes-ledmatrix/internal/selftest"
	"github.com/coreman2200/funtimes-ledmatrix/internal/shiftreg"
)

func main() {
	// ---- Flags (unset ones defer to config.yaml) ----
	var (
		port       = flag.String("port", "", "serial port (e.g. /dev/ttyUSB0); empty defers to config, then probing")
		baud       = flag.Int("baud", 0, "serial baud rate (0 = config value)")
		driver     = flag.String("driver", "", "display driver: spi | gpio | sim (empty = config value)")
		brightness = flag.Int("brightness", -1, "startup brightness 0..255 (-1 = config value)")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force terminal preview (no hardware output)")
		test       = flag.String("selftest", "", "wiring check before listening: row_walk | col_walk | all_on")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// ---- Load config.yaml, writing one out on first run ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
		if os.IsNotExist(err) {
			if werr := config.Save(*configPath, cfg); werr != nil {
				log.Warn().Err(werr).Str("path", *configPath).Msg("could not write default config")
			} else {
				log.Info().Str("path", *configPath).Msg("wrote default config")
			}
		} else {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		}
	}

	// ---- Effective params (set flags override config) ----
	ePort := cfg.Serial.Port
	if *port != "" {
		ePort = *port
	}
	eBaud := cfg.Serial.Baud
	if *baud > 0 {
		eBaud = *baud
	}
	if eBaud <= 0 {
		eBaud = 9600
	}
	eBright := cfg.Brightness
	if *brightness >= 0 {
		eBright = *brightness
	}
	selected := cfg.Display.Driver
	if *driver != "" {
		selected = *driver
	}
	if *simOnly {
		selected = "sim"
	}

	// ---- Host init (GPIO/SPI registries) ----
	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("host init failed; hardware drivers unavailable")
	}

	// ---- Display driver selection ----
	var chain scan.Chain
	switch selected {
	case "sim":
		chain = preview.New(&preview.Opts{})

	case "spi":
		speed := physic.Frequency(cfg.Display.SPI.SpeedHz) * physic.Hertz
		drv, err := shiftreg.OpenSPI(cfg.Display.SPI.Dev, speed)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.Display.SPI.Dev).
				Msg("SPI init failed; falling back to terminal preview")
			chain = preview.New(&preview.Opts{})
		} else {
			chain = drv
		}

	case "gpio":
		g := cfg.Display.GPIO
		drv, err := shiftreg.OpenGPIO(g.DataPin, g.ClockPin, g.LatchPin)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "gpio").
				Str("data", g.DataPin).Str("clock", g.ClockPin).Str("latch", g.LatchPin).
				Msg("GPIO init failed; falling back to terminal preview")
			chain = preview.New(&preview.Opts{})
		} else {
			chain = drv
		}

	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using terminal preview")
		chain = preview.New(&preview.Opts{})
	}

	// ---- Serial link ----
	var link *comm.Link
	if ePort != "" {
		link, err = comm.OpenPort(ePort, eBaud)
		if err != nil {
			log.Fatal().Err(err).Str("port", ePort).Msg("serial open failed")
		}
	} else {
		var name string
		link, name, err = comm.Find(eBaud)
		if err != nil {
			log.Fatal().Err(err).Msg("no usable serial port")
		}
		ePort = name
	}
	if cfg.Serial.ReadTimeoutMs > 0 {
		link.ReadTimeout = time.Duration(cfg.Serial.ReadTimeoutMs) * time.Millisecond
	}
	if cfg.Serial.WriteTimeoutMs > 0 {
		link.WriteTimeout = time.Duration(cfg.Serial.WriteTimeoutMs) * time.Millisecond
	}
	log.Info().Str("port", ePort).Int("baud", eBaud).Str("driver", selected).Msg("listening")

	// ---- Core loop ----
	core := app.NewCore(app.Options{
		Chain:        chain,
		Link:         link,
		TickInterval: time.Duration(cfg.AnimIntervalMs) * time.Millisecond,
		Brightness:   eBright,
	})

	if *test != "" {
		runSelfTest(core, selftest.Kind(*test))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Run(ctx) }()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	<-done
	_ = link.Close()
	_ = chain.Close()
}

// runSelfTest scans each check pattern for a moment, then leaves the
// display blank the way a fresh boot does.
func runSelfTest(core *app.Core, kind selftest.Kind) {
	log.Info().Str("pattern", string(kind)).Msg("running self test")
	r := selftest.NewRunner(selftest.Plan{Kind: kind})
	var f matrix.Frame
	for r.Step(&f) {
		core.Store.SetStatic(f)
		until := time.Now().Add(150 * time.Millisecond)
		for time.Now().Before(until) {
			core.Scanner.Step()
		}
	}
	core.Store.SetStatic(matrix.Frame{})
}
