// Package film implements the image buffer a renderer splats samples
// into: a Mitchell-filtered reconstruction over (r, g, b, weight) pixels,
// per spec.md §4.6.
package film

import (
	"fmt"
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// DefaultFilterWidth is the Mitchell filter's default support radius.
const DefaultFilterWidth = 2.0

// mitchellB, mitchellC are the classic Mitchell-Netravali filter
// parameters (B=C=1/3), the values in common use wherever "the Mitchell
// filter" is named without further qualification.
const (
	mitchellB = float32(1.0 / 3.0)
	mitchellC = float32(1.0 / 3.0)
)

// pixel accumulates a running (color*weight, weight) pair across committed
// iterations.
type pixel struct {
	color  core.Vec3
	weight float32
}

// sample is one not-yet-committed splat for a given pixel/sample index.
type sample struct {
	ptX, ptY float32
	color    core.Vec3
	set      bool
}

// Film is a width x height image buffer that accumulates filtered sample
// splats across render iterations.
type Film struct {
	width, height int
	samplesPerIter int
	filterWidth    float32

	running []pixel // committed image, width*height

	// current holds this iteration's not-yet-committed samples, indexed
	// as current[(y*width+x)*samplesPerIter + idx].
	current []sample
}

// New creates a Film of the given dimensions. samplesPerIter is the
// number of samples SetSample will be called with per pixel per
// iteration (the idx argument's valid range).
func New(width, height, samplesPerIter int, filterWidth float32) *Film {
	if filterWidth <= 0 {
		filterWidth = DefaultFilterWidth
	}
	return &Film{
		width:          width,
		height:         height,
		samplesPerIter: samplesPerIter,
		filterWidth:    filterWidth,
		running:        make([]pixel, width*height),
		current:        make([]sample, width*height*samplesPerIter),
	}
}

// Width and Height report the film's pixel dimensions.
func (f *Film) Width() int  { return f.width }
func (f *Film) Height() int { return f.height }

// SetSample records one sample's continuous image-plane position and
// color for pixel (x, y), sample index idx within this iteration.
// SetSample is safe to call concurrently from many render workers
// provided no two calls share the same (x, y, idx) — each worker owns a
// disjoint range of pixels and writes each sample index at most once per
// pixel per iteration.
func (f *Film) SetSample(x, y, idx int, ptX, ptY float32, color core.Vec3) {
	i := (y*f.width+x)*f.samplesPerIter + idx
	f.current[i] = sample{ptX: ptX, ptY: ptY, color: color, set: true}
}

// CommitSamples folds this iteration's recorded samples into the running
// image via Mitchell-filtered splatting, then clears the current-iteration
// buffer. Not safe to call concurrently with itself or with SetSample —
// callers run it from a single thread between iterations.
func (f *Film) CommitSamples() {
	for i := range f.current {
		s := &f.current[i]
		if !s.set {
			continue
		}
		f.splat(s.ptX, s.ptY, s.color)
		*s = sample{}
	}
}

// splat adds (color*w, w) to every pixel within the filter's support of
// (ptX, ptY), per spec.md §4.6.
func (f *Film) splat(ptX, ptY float32, color core.Vec3) {
	minX := clampInt(int(math.Ceil(float64(ptX-f.filterWidth))), 0, f.width-1)
	maxX := clampInt(int(math.Floor(float64(ptX+f.filterWidth))), 0, f.width-1)
	minY := clampInt(int(math.Ceil(float64(ptY-f.filterWidth))), 0, f.height-1)
	maxY := clampInt(int(math.Floor(float64(ptY+f.filterWidth))), 0, f.height-1)

	for yy := minY; yy <= maxY; yy++ {
		for xx := minX; xx <= maxX; xx++ {
			w := mitchell2D(ptX-float32(xx), ptY-float32(yy), f.filterWidth)
			if w == 0 {
				continue
			}
			p := &f.running[yy*f.width+xx]
			p.color = p.color.Add(color.Multiply(w))
			p.weight += w
		}
	}
}

// ResolvePixel returns the final (r, g, b) for pixel (x, y): the running
// accumulated color divided by its accumulated weight. A pixel with zero
// accumulated weight resolves to the zero vector.
func (f *Film) ResolvePixel(x, y int) core.Vec3 {
	p := f.running[y*f.width+x]
	if p.weight == 0 {
		return core.Vec3{}
	}
	return p.color.Multiply(1 / p.weight)
}

// Resolve returns the full width*height array of resolved pixel colors,
// row-major starting at (0,0).
func (f *Film) Resolve() []core.Vec3 {
	out := make([]core.Vec3, f.width*f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			out[y*f.width+x] = f.ResolvePixel(x, y)
		}
	}
	return out
}

// PixelWeight reports the running accumulated filter weight at (x, y),
// for diagnostics and the splat-mass test.
func (f *Film) PixelWeight(x, y int) float32 {
	return f.running[y*f.width+x].weight
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// mitchell1D evaluates the separable Mitchell-Netravali filter kernel at
// x, scaled to have support [-filterWidth, filterWidth].
func mitchell1D(x, filterWidth float32) float32 {
	if filterWidth == 0 {
		return 0
	}
	x = absF32(x / filterWidth * 2)
	b, c := mitchellB, mitchellC
	if x < 1 {
		return ((12-9*b-6*c)*x*x*x + (-18+12*b+6*c)*x*x + (6 - 2*b)) / 6
	}
	if x < 2 {
		return ((-b-6*c)*x*x*x + (6*b+30*c)*x*x + (-12*b-48*c)*x + (8*b + 24*c)) / 6
	}
	return 0
}

// mitchell2D is the separable product of mitchell1D over x and y.
func mitchell2D(dx, dy, filterWidth float32) float32 {
	return mitchell1D(dx, filterWidth) * mitchell1D(dy, filterWidth)
}

func absF32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// String implements fmt.Stringer for diagnostic logging.
func (f *Film) String() string {
	return fmt.Sprintf("film(%dx%d, filterWidth=%.1f)", f.width, f.height, f.filterWidth)
}
