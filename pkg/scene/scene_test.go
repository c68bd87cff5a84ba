package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solraven/kdtrace/pkg/camera"
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
	"github.com/solraven/kdtrace/pkg/scene"
)

func testCamera(t *testing.T) *camera.PerspectiveCamera {
	t.Helper()
	return camera.NewPerspectiveCamera(camera.Config{
		Transform: camera.Transform{Translate: core.NewVec3(0, 0, 5)},
		FOV:       40,
		Width:     16,
		Height:    16,
	})
}

func TestBuild_CollectsAreaLightsFromPrimitives(t *testing.T) {
	lit := geometry.NewSphere(core.NewVec3(0, 5, 0), 2, nil)
	lit.Light = light.NewAreaLight(core.NewVec3(4, 4, 4), lit)
	unlit := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambert(core.NewVec3(0.8, 0.8, 0.8)))

	cameras := map[string]*camera.PerspectiveCamera{"default": testCamera(t)}
	sc, err := scene.Build([]geometry.Primitive{lit, unlit}, cameras, "default")
	require.NoError(t, err)

	assert.Len(t, sc.Lights, 1)
	assert.Same(t, lit.Light, sc.Lights[0])
}

func TestBuild_RefinesMeshesIntoTriangles(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 0),
	}
	faces := []int{0, 1, 2, 1, 3, 2}
	mesh := geometry.NewMesh(vertices, nil, faces, material.NewLambert(core.NewVec3(1, 1, 1)))

	cameras := map[string]*camera.PerspectiveCamera{"default": testCamera(t)}
	sc, err := scene.Build([]geometry.Primitive{mesh}, cameras, "default")
	require.NoError(t, err)

	ray := core.NewRay(core.NewVec3(0.25, 0.25, 5), core.NewVec3(0, 0, -1))
	_, _, hit := sc.Tree.IntersectClosest(ray, 0.001, 1000)
	assert.True(t, hit)
}

func TestBuild_UsesUniformSamplerWhenWeightsAreDefault(t *testing.T) {
	a := geometry.NewSphere(core.NewVec3(0, 5, 0), 2, nil)
	a.Light = light.NewAreaLight(core.NewVec3(4, 4, 4), a)
	b := geometry.NewSphere(core.NewVec3(5, 5, 0), 2, nil)
	b.Light = light.NewAreaLight(core.NewVec3(4, 4, 4), b)

	cameras := map[string]*camera.PerspectiveCamera{"default": testCamera(t)}
	sc, err := scene.Build([]geometry.Primitive{a, b}, cameras, "default")
	require.NoError(t, err)

	_, ok := sc.LightSampler.(*light.UniformSampler)
	assert.True(t, ok)
}

func TestBuild_UsesWeightedSamplerWhenAnyLightHasNonDefaultWeight(t *testing.T) {
	a := geometry.NewSphere(core.NewVec3(0, 5, 0), 2, nil)
	a.Light = light.NewAreaLight(core.NewVec3(4, 4, 4), a)
	a.Light.Weight = 5
	b := geometry.NewSphere(core.NewVec3(5, 5, 0), 2, nil)
	b.Light = light.NewAreaLight(core.NewVec3(4, 4, 4), b)

	cameras := map[string]*camera.PerspectiveCamera{"default": testCamera(t)}
	sc, err := scene.Build([]geometry.Primitive{a, b}, cameras, "default")
	require.NoError(t, err)

	weighted, ok := sc.LightSampler.(*light.WeightedSampler)
	require.True(t, ok)
	assert.InDelta(t, float32(5.0/6.0), weighted.Probability(0), 1e-6)
	assert.InDelta(t, float32(1.0/6.0), weighted.Probability(1), 1e-6)
}

func TestBuild_UnknownDefaultCameraIsAnError(t *testing.T) {
	cameras := map[string]*camera.PerspectiveCamera{"default": testCamera(t)}
	_, err := scene.Build(nil, cameras, "missing")
	assert.Error(t, err)
}

func TestScene_CameraFallsBackToDefault(t *testing.T) {
	def := testCamera(t)
	cameras := map[string]*camera.PerspectiveCamera{"default": def}
	sc, err := scene.Build(nil, cameras, "default")
	require.NoError(t, err)

	cam, err := sc.Camera("")
	require.NoError(t, err)
	assert.Same(t, def, cam)

	_, err = sc.Camera("nonexistent")
	assert.Error(t, err)
}
