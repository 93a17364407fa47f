// Command sandbox runs a scene headless and logs what happens in it.
//
//	sandbox -steps 300 -v
//	sandbox -scene arena.yaml -realtime 10s
//	sandbox -dump arena.yaml
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/profile"
	"github.com/akmonengine/feather2d/runloop"
	"github.com/akmonengine/feather2d/scene"
	"github.com/go-gl/mathgl/mgl64"
)

type options struct {
	scenePath  string
	dumpPath   string
	steps      int
	realtime   time.Duration
	renderRate time.Duration
	workers    int
	grab       bool
	verbose    bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.scenePath, "scene", "", "YAML scene to load, the default arena when empty")
	flag.StringVar(&o.dumpPath, "dump", "", "write the scene as YAML to this path and exit")
	flag.IntVar(&o.steps, "steps", 200, "number of fixed steps to run headless")
	flag.DurationVar(&o.realtime, "realtime", 0, "run on the wall clock for this long instead of -steps")
	flag.DurationVar(&o.renderRate, "render", time.Second/60, "render period with -realtime")
	flag.IntVar(&o.workers, "workers", 0, "worker goroutines, the scene setting when 0")
	flag.BoolVar(&o.grab, "grab", false, "drag the body at the center of the scene toward the origin")
	flag.BoolVar(&o.verbose, "v", false, "debug logs")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(o, logger); err != nil {
		logger.Error("sandbox", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(o options, logger *slog.Logger) error {
	s := scene.Default()
	if o.scenePath != "" {
		var err error
		if s, err = scene.Load(o.scenePath); err != nil {
			return err
		}
	}

	if o.dumpPath != "" {
		if err := s.Save(o.dumpPath); err != nil {
			return err
		}
		logger.Info("scene written", slog.String("path", o.dumpPath), slog.Int("bodies", len(s.Bodies)))
		return nil
	}

	world, err := s.Build()
	if err != nil {
		return err
	}
	if o.workers > 0 {
		world.Workers = o.workers
	}
	world.Logger = logger
	world.Profiler = profile.New()

	if o.grab {
		grab(world, logger)
	}

	logger.Info("scene ready",
		slog.Int("bodies", len(world.Bodies)),
		slog.String("broadPhase", world.BroadPhase.String()),
		slog.Int("workers", world.Workers),
		slog.Float64("energy", world.Energy()))

	if o.realtime > 0 {
		return runRealtime(world, s.Timestep, o, logger)
	}

	for step := 1; step <= o.steps; step++ {
		world.Step(s.Timestep)
		if step%50 == 0 || step == o.steps {
			report(world, step, logger)
		}
	}
	return nil
}

// grab attaches a drag to the body under the center of the scene
func grab(world *feather2d.World, logger *slog.Logger) {
	bounds, ok := world.Bounds()
	if !ok {
		return
	}
	body := world.BodyAt(bounds.Center())
	if body == nil {
		logger.Warn("nothing to grab", slog.Any("point", bounds.Center()))
		return
	}
	world.Drag = feather2d.NewDrag(body, bounds.Center())
	world.Drag.Target = mgl64.Vec2{}
}

func runRealtime(world *feather2d.World, timestep float64, o options, logger *slog.Logger) error {
	loop, err := runloop.New(time.Duration(timestep * float64(time.Second)))
	if err != nil {
		return err
	}
	loop.MaxUpdates = 5

	step := 0
	loop.OnUpdate(func(runloop.UpdateContext) {
		world.Step(timestep)
		step++
		if step%50 == 0 {
			report(world, step, logger)
		}
	})
	loop.OnRender(func(rc runloop.RenderContext) {
		render(world, rc, logger)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, o.realtime)
	defer cancel()

	if err := loop.Start(ctx, o.renderRate); err != nil && ctx.Err() == nil {
		return err
	}
	report(world, step, logger)
	return nil
}

// render logs where the dragged body, or the first one, would be drawn
func render(world *feather2d.World, rc runloop.RenderContext, logger *slog.Logger) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) || len(world.Bodies) == 0 {
		return
	}

	body := world.Bodies[0]
	if world.Drag != nil {
		body = world.Drag.Body
	}

	attrs := []any{slog.Float64("t", rc.T), slog.Duration("elapsed", rc.Elapsed)}
	switch b := body.(type) {
	case *actor.ConvexBody:
		attrs = append(attrs,
			slog.Any("center", b.CenterInterpolated(rc.T)),
			slog.Any("vertices", b.WorldVerticesInterpolated(rc.T)))
	case *actor.CircleBody:
		attrs = append(attrs, slog.Any("center", b.CenterInterpolated(rc.T)))
	}
	logger.Debug("render", attrs...)
}

func report(world *feather2d.World, step int, logger *slog.Logger) {
	attrs := []any{
		slog.Int("step", step),
		slog.Float64("energy", world.Energy()),
	}
	if tree := world.QuadTree(); tree != nil {
		attrs = append(attrs, slog.Int("treeNodes", len(tree.AllBounds())))
	}
	attrs = append(attrs, slog.Any("profile", world.Profiler.Results()))
	logger.Info("simulation", attrs...)
	world.Profiler.Clear()
}
