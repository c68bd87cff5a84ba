package core

import "math/rand"

// RNG is a thin per-worker wrapper over math/rand.Rand. Each render worker
// owns exactly one RNG for the lifetime of a row; there is no sharing and
// no locking (see the concurrency model in the render package).
type RNG struct {
	r *rand.Rand
}

// NewRNG creates an RNG seeded deterministically from seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Float returns a uniform sample in [0, 1).
func (g *RNG) Float() float32 {
	return float32(g.r.Float64())
}

// Float2 returns a pair of independent uniform samples in [0, 1).
func (g *RNG) Float2() Vec2 {
	return Vec2{X: g.Float(), Y: g.Float()}
}

// Float3 returns three independent uniform samples in [0, 1).
func (g *RNG) Float3() Vec3 {
	return Vec3{X: g.Float(), Y: g.Float(), Z: g.Float()}
}

// Spawn derives a new, independent RNG from g. A master RNG calls Spawn
// once per image row at the start of every iteration, so that each row's
// sample stream is reproducible across runs (the master is seeded once and
// spawns each iteration's row RNGs in row order) without any row depending
// on the order other rows are processed in.
func (g *RNG) Spawn() *RNG {
	return NewRNG(g.r.Int63())
}
