package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-raymarch/internal/app"
	"github.com/coreman2200/arcaluminis-raymarch/internal/config"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/scene"
)

func main() {
	var (
		width     = flag.Int("w", 640, "image width")
		height    = flag.Int("h", 360, "image height")
		preset    = flag.String("scene", "room", "built-in scene: room | classic | grid | sphere")
		sceneFile = flag.String("scene-file", "", "scene document (YAML or JSON)")
		frames    = flag.Int("frames", 1, "frames to advance before saving (animates wiggles)")
		out       = flag.String("o", "frame.png", "output PNG")
		dumpBuf   = flag.String("dump-buffer", "", "also write the packed std140 object buffer here")
		dumpScene = flag.String("dump-scene", "", "also write the scene document (YAML) here")
		tonemap   = flag.String("tonemap", "clamp", "post: clamp | filmic")
		steps     = flag.Int("max-steps", 0, "override max march steps")
		trace     = flag.Float64("max-trace", 0, "override max trace distance")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	cfg.Render.Width, cfg.Render.Height = *width, *height
	cfg.Scene.Preset = *preset
	cfg.Scene.File = *sceneFile
	cfg.Post.ToneMap = *tonemap
	cfg.Output.Driver = "none"
	if *steps > 0 {
		cfg.Render.MaxSteps = *steps
	}
	if *trace > 0 {
		cfg.Render.MaxTraceDistance = *trace
	}

	core, err := app.InitCore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}
	start := time.Now()
	for i := 0; i < max(1, *frames); i++ {
		core.Step(0)
	}
	f := core.Eng.Snapshot()
	log.Info().Uint64("frame", f.ID).Float64("phase", f.Phase).Dur("took", time.Since(start)).Msg("rendered")

	file, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Msg("create output")
	}
	if err := render.EncodePNG(file, f.Pix, f.Dim); err != nil {
		log.Fatal().Err(err).Msg("encode png")
	}
	if err := file.Close(); err != nil {
		log.Fatal().Err(err).Msg("close output")
	}

	if *dumpBuf != "" {
		if err := core.DumpScene(*dumpBuf); err != nil {
			log.Fatal().Err(err).Msg("dump buffer")
		}
	}
	if *dumpScene != "" {
		name, s := core.Ray.Active()
		d := scene.FromScene(name, s)
		cam := core.Cam.Snapshot()
		d.Camera = (*scene.Vec)(&cam)
		if err := scene.Save(*dumpScene, d); err != nil {
			log.Fatal().Err(err).Msg("dump scene")
		}
	}
	log.Info().Str("png", *out).Msg("saved")
}
