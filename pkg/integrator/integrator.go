// Package integrator implements unidirectional path tracing with
// next-event estimation and multiple importance sampling, per spec.md
// §4.5.
package integrator

import "github.com/solraven/kdtrace/pkg/core"

const (
	// RussianRouletteStage1 is the bounce depth at which the first,
	// conservative Russian roulette stage begins.
	RussianRouletteStage1 = 5
	// RussianRouletteStage2 is the bounce depth at which the second,
	// aggressive Russian roulette stage takes over.
	RussianRouletteStage2 = 50
	// RussianRouletteMinSurvival floors stage-1's survival probability so
	// a path with very low throughput still has a chance to continue.
	RussianRouletteMinSurvival = 0.05
	// MaxDepth is a hard bounce cap regardless of Russian roulette outcome.
	MaxDepth = 100
	// FireflyClamp bounds a single NEE or BSDF sample's contribution to
	// suppress high-variance outliers ("fireflies").
	FireflyClamp = float32(50.0)
)

// Config controls path tracing behavior, independent of scene content.
type Config struct {
	SamplesPerPixel int
}

// PathTracer implements unidirectional path tracing with next-event
// estimation against the scene's area lights.
type PathTracer struct {
	Config Config
}

// NewPathTracer creates a path tracer with the given configuration.
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{Config: config}
}

// clampFirefly bounds a per-sample contribution componentwise to
// FireflyClamp, and truncates any NaN or negative component to zero.
func clampFirefly(c core.Vec3) core.Vec3 {
	clamp := func(x float32) float32 {
		if x != x || x < 0 { // x != x is the NaN test
			return 0
		}
		if x > FireflyClamp {
			return FireflyClamp
		}
		return x
	}
	return core.NewVec3(clamp(c.X), clamp(c.Y), clamp(c.Z))
}
