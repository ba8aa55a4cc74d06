package main

import (
	"fmt"
	"os"

	"github.com/cfoust/portals/pkg/config"
	"github.com/cfoust/portals/pkg/demo"
	"github.com/cfoust/portals/pkg/render"
	"github.com/cfoust/portals/pkg/trace"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func newRenderer(cfg *config.Config, scene *demo.Scene, tracer trace.Tracer) *render.Renderer {
	return render.NewRenderer(scene.Registry(), render.Options{
		Width:           cfg.Screen.Width,
		Height:          cfg.Screen.Height,
		World:           scene,
		Clipper:         scene,
		Surfaces:        scene,
		Overlays:        scene,
		Canvas:          scene,
		Tracer:          tracer,
		TaintLimit:      cfg.Render.TaintLimit,
		ShowTainted:     cfg.Render.ShowTainted,
		RefusalLogRate:  rate.Limit(cfg.Render.RefusalLogRate),
		RefusalLogBurst: cfg.Render.RefusalLogBurst,
	})
}

func renderCommand(configs []string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if CLI.Render.Frames > 0 {
		cfg.Demo.Frames = CLI.Render.Frames
	}
	if CLI.Render.Scene != "" {
		cfg.Demo.Scene = config.Scene(CLI.Render.Scene)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var recorder *trace.Recorder
	var tracer trace.Tracer
	if CLI.Render.Trace != "" {
		file, err := os.Create(CLI.Render.Trace)
		if err != nil {
			return fmt.Errorf("could not create trace file: %w", err)
		}
		defer file.Close()

		recorder = trace.NewRecorder(file)
		tracer = recorder
	}

	scene := demo.New(cfg.Screen.Width, cfg.Screen.Height, cfg.Demo.Scene)
	renderer := newRenderer(cfg, scene, tracer)

	for i := 0; i < cfg.Demo.Frames; i++ {
		scene.Clear()
		renderer.Frame()

		stats := scene.Stats()
		log.Info().
			Uint64("frame", renderer.FrameCount()).
			Int("traversals", stats.Traversals).
			Int("windows", renderer.Windows().Allocated()).
			Str("checksum", fmt.Sprintf("%016x", scene.Checksum())).
			Msg("frame drawn")
	}

	for _, p := range renderer.Registry().Portals() {
		log.Info().
			Int("portal", p.ID).
			Str("kind", p.Kind.String()).
			Int("taint", p.Taint()).
			Int("overlay", p.Overlay().Len()).
			Msg("portal")
	}

	if recorder != nil {
		log.Info().
			Int("events", recorder.Count()).
			Str("path", CLI.Render.Trace).
			Msg("trace written")
	}

	return nil
}
