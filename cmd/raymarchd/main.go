package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/arcaluminis-raymarch/internal/app"
	"github.com/coreman2200/arcaluminis-raymarch/internal/config"
	"github.com/coreman2200/arcaluminis-raymarch/internal/layout"
	"github.com/coreman2200/arcaluminis-raymarch/internal/led"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	var (
		width      = flag.Int("w", 0, "frame width in pixels")
		height     = flag.Int("h", 0, "frame height in pixels")
		fps        = flag.Int("fps", 0, "target frames per second")
		preset     = flag.String("scene", "", "built-in scene: room | classic | grid | sphere")
		sceneFile  = flag.String("scene-file", "", "scene document (YAML or JSON)")
		showFile   = flag.String("show", "", "show timeline to play (YAML)")
		driver     = flag.String("driver", "", "output: sim | spi | console | none")
		spiDev     = flag.String("spi", "", "SPI port name (empty = first available)")
		addr       = flag.String("addr", "", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		level      = flag.String("log", "", "log level")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config invalid")
		}
		log.Warn().Str("path", *configPath).Msg("no config file; using defaults and flags")
		cfg = config.Default()
	}

	// ---- Flags fill in what was given on the command line ----
	cfg.Render.Width = firstNonZero(*width, cfg.Render.Width)
	cfg.Render.Height = firstNonZero(*height, cfg.Render.Height)
	cfg.FPS = firstNonZero(*fps, cfg.FPS)
	cfg.Scene.Preset = firstNonEmpty(*preset, cfg.Scene.Preset)
	cfg.Scene.File = firstNonEmpty(*sceneFile, cfg.Scene.File)
	cfg.Show = firstNonEmpty(*showFile, cfg.Show)
	cfg.Output.Driver = firstNonEmpty(*driver, cfg.Output.Driver)
	cfg.Output.SPI.Dev = firstNonEmpty(*spiDev, cfg.Output.SPI.Dev)
	cfg.Server.Addr = firstNonEmpty(*addr, cfg.Server.Addr)
	cfg.Log.Level = firstNonEmpty(*level, cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// ---- Output driver ----
	l := layout.Layout{
		Dim:        layout.Dim{W: cfg.Output.Layout.W, H: cfg.Output.Layout.H},
		Serpentine: cfg.Output.Layout.Serpentine,
	}
	var drivers []render.Driver
	var strip *led.Strip
	switch cfg.Output.Driver {
	case "sim":
		drivers = append(drivers, &led.Sim{Log: log.Logger, Every: uint64(cfg.FPS)})
	case "spi":
		if _, err := host.Init(); err != nil {
			log.Fatal().Err(err).Msg("periph host init")
		}
		freq := physic.Frequency(cfg.Output.SPI.FreqKHz) * physic.KiloHertz
		if strip, err = led.Open(cfg.Output.SPI.Dev, l, freq); err != nil {
			log.Fatal().Err(err).Str("port", cfg.Output.SPI.Dev).Msg("LED strip init failed")
		}
		drivers = append(drivers, strip)
	case "console":
		if strip, err = led.NewConsoleStrip(l); err != nil {
			log.Fatal().Err(err).Msg("console strip")
		}
		drivers = append(drivers, strip)
	}

	// ---- Core + websocket hub ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	core, err := app.InitCore(ctx, cfg, drivers...)
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}
	hub := ws.NewHub(core)
	core.OnDiag = hub.Push
	core.Eng.AddDriver(hub)

	mux := http.NewServeMux()
	hub.Routes(mux)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = core.Run(ctx, cfg.FPS)
	}()
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Output.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	<-done
	core.Stop()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	if strip != nil {
		_ = strip.Close()
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func firstNonZero(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
