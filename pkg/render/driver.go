// Package render drives the per-iteration worker pool that turns a built
// scene into film samples: a fixed pool of worker goroutines takes image
// rows one at a time each pass, each row owning its own RNG derived from a
// master seed, per the concurrency model
// pkg/core.RNG.Spawn documents. Grounded on the teacher's
// renderer.WorkerPool/ProgressiveRaytracer, replaced with a per-row task
// split (film.SetSample's thread-safety contract is per-pixel, not per-
// tile) and the iterative bounce path tracer instead of the teacher's
// recursive raytracer.
package render

import (
	"context"
	"runtime"
	"sync"

	"github.com/solraven/kdtrace/pkg/camera"
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/film"
	"github.com/solraven/kdtrace/pkg/integrator"
	"github.com/solraven/kdtrace/pkg/scene"
)

// Config describes one render's fixed dimensions and parallelism.
type Config struct {
	Width, Height       int
	SamplesPerIteration int // samples taken per pixel each pass
	NumWorkers          int // 0 = runtime.NumCPU()
}

// Driver owns a Film and renders successive iterations into it via a
// PathTracer over a built Scene.
type Driver struct {
	Config     Config
	Scene      *scene.Scene
	Camera     *camera.PerspectiveCamera
	Integrator *integrator.PathTracer
	Logger     core.Logger

	Film      *film.Film
	masterRNG *core.RNG
}

// NewDriver builds a Driver. seed is the master RNG seed; every row of
// every iteration derives its own RNG from it deterministically, so a run
// with the same seed and iteration count reproduces the same image.
func NewDriver(cfg Config, sc *scene.Scene, cam *camera.PerspectiveCamera, logger core.Logger, seed int64) *Driver {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.SamplesPerIteration <= 0 {
		cfg.SamplesPerIteration = 1
	}
	if logger == nil {
		logger = core.NullLogger{}
	}
	return &Driver{
		Config:     cfg,
		Scene:      sc,
		Camera:     cam,
		Integrator: integrator.NewPathTracer(integrator.Config{SamplesPerPixel: cfg.SamplesPerIteration}),
		Logger:     logger,
		Film:       film.New(cfg.Width, cfg.Height, cfg.SamplesPerIteration, film.DefaultFilterWidth),
		masterRNG:  core.NewRNG(seed),
	}
}

// RunIteration renders exactly one pass of Config.SamplesPerIteration
// samples per pixel across every pixel, splitting work by image row across
// Config.NumWorkers goroutines, then commits the pass into Film. Returns
// ctx.Err() without rendering if ctx is already cancelled; a pass that has
// started always renders every row and is committed, so cancellation takes
// effect at iteration boundaries.
func (d *Driver) RunIteration(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Each row's RNG is derived from the master before any worker starts,
	// so which goroutine happens to pick up a row never affects that row's
	// sample stream.
	rowRNGs := make([]*core.RNG, d.Config.Height)
	for y := range rowRNGs {
		rowRNGs[y] = d.masterRNG.Spawn()
	}

	rows := make(chan int, d.Config.Height)
	for y := 0; y < d.Config.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < d.Config.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				d.renderRow(y, rowRNGs[y])
			}
		}()
	}
	wg.Wait()

	d.Film.CommitSamples()
	return nil
}

// renderRow renders every pixel of row y, sample indices 0..SamplesPerIteration-1.
func (d *Driver) renderRow(y int, rng *core.RNG) {
	width, height := d.Config.Width, d.Config.Height
	for x := 0; x < width; x++ {
		for idx := 0; idx < d.Config.SamplesPerIteration; idx++ {
			jitter := rng.Float2()
			px, py := float32(x)+jitter.X, float32(y)+jitter.Y
			s := px / float32(width)
			t := 1 - py/float32(height) // image row 0 is the top; camera's t=0 is the bottom

			ray := d.Camera.GenerateRay(s, t, rng.Float2())
			color := d.Integrator.RayColor(ray, d.Scene, rng)

			d.Film.SetSample(x, y, idx, px, py, color)
		}
	}
}

// Run drives maxIterations passes (maxIterations < 0 means run until ctx is
// cancelled), calling onIteration after each committed pass with its
// 1-based iteration number. Returns the first error encountered, including
// ctx.Err() on cancellation.
func (d *Driver) Run(ctx context.Context, maxIterations int, onIteration func(iteration int)) error {
	for i := 1; maxIterations < 0 || i <= maxIterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := d.RunIteration(ctx); err != nil {
			return err
		}
		d.Logger.Printf("iteration %d complete\n", i)
		if onIteration != nil {
			onIteration(i)
		}
	}
	return nil
}
