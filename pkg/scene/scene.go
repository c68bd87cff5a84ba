// Package scene holds the data a render needs after a scene document has
// been parsed and its geometry has gone through acceleration-structure
// construction: a k-d tree, the lights within it, and the cameras that can
// view it. Nothing in this package parses a scene-file document — that is
// the scenefile package's job; this is the "hand-constructed scene" the
// core operates on, per spec.md §6.
package scene

import (
	"fmt"

	"github.com/solraven/kdtrace/pkg/camera"
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/kdtree"
	"github.com/solraven/kdtrace/pkg/light"
)

// Scene is a fully built scene ready to render.
type Scene struct {
	Tree         *kdtree.Tree
	Lights       []*light.AreaLight
	LightSampler light.Sampler
	Cameras      map[string]*camera.PerspectiveCamera
	DefaultCamera string
}

// Build refines any composite primitives (meshes), constructs the k-d
// tree over the resulting flat primitive list, and collects the area
// lights embedded in that list. Cameras and DefaultCamera must already be
// populated by the caller (the scenefile parser, or a hand-built test
// scene).
func Build(prims []geometry.Primitive, cameras map[string]*camera.PerspectiveCamera, defaultCamera string) (*Scene, error) {
	flat := refineAll(prims)

	var lights []*light.AreaLight
	weighted := false
	for _, p := range flat {
		if al := p.AreaLight(); al != nil {
			lights = append(lights, al)
			if al.Weight != 1 {
				weighted = true
			}
		}
	}

	if _, ok := cameras[defaultCamera]; !ok {
		return nil, fmt.Errorf("scene.Build: default camera %q not found among %d cameras", defaultCamera, len(cameras))
	}

	sampler, err := buildLightSampler(lights, weighted)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Tree:          kdtree.Build(flat),
		Lights:        lights,
		LightSampler:  sampler,
		Cameras:       cameras,
		DefaultCamera: defaultCamera,
	}, nil
}

// buildLightSampler picks a WeightedSampler when any light in the scene
// carries a non-default weight (set via a scene-file geometry entry's
// `weight` field), falling back to NewUniformSampler otherwise — the
// common case, and the only one NewWeightedSampler's own zero-total-weight
// fallback would otherwise reproduce less directly.
func buildLightSampler(lights []*light.AreaLight, weighted bool) (light.Sampler, error) {
	if !weighted {
		return light.NewUniformSampler(lights), nil
	}
	weights := make([]float32, len(lights))
	for i, al := range lights {
		weights[i] = al.Weight
	}
	sampler, err := light.NewWeightedSampler(lights, weights)
	if err != nil {
		return nil, fmt.Errorf("scene.Build: %w", err)
	}
	return sampler, nil
}

// refineAll expands any Refiner primitive (e.g. a Mesh) into its leaf
// primitives, recursively, so the k-d tree only ever sees primitives it
// can intersect directly.
func refineAll(prims []geometry.Primitive) []geometry.Primitive {
	var flat []geometry.Primitive
	for _, p := range prims {
		if r, ok := p.(geometry.Refiner); ok {
			flat = append(flat, refineAll(r.Refine())...)
			continue
		}
		flat = append(flat, p)
	}
	return flat
}

// Camera returns the named camera, or the default camera if name is empty.
func (s *Scene) Camera(name string) (*camera.PerspectiveCamera, error) {
	if name == "" {
		name = s.DefaultCamera
	}
	cam, ok := s.Cameras[name]
	if !ok {
		return nil, fmt.Errorf("scene.Camera: unknown camera %q", name)
	}
	return cam, nil
}
