package camera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solraven/kdtrace/pkg/camera"
	"github.com/solraven/kdtrace/pkg/core"
)

func TestNewPerspectiveCamera_CenterRayLooksDownForward(t *testing.T) {
	cfg := camera.Config{
		Transform: camera.Transform{Translate: core.NewVec3(0, 0, 0)},
		FOV:       90,
		Width:     400,
		Height:    300,
	}
	cam := camera.NewPerspectiveCamera(cfg)

	ray := cam.GenerateRay(0.5, 0.5, core.Vec2{})
	assert.InDelta(t, 0, ray.Direction.X, 1e-4)
	assert.InDelta(t, 0, ray.Direction.Y, 1e-4)
	assert.InDelta(t, -1, ray.Direction.Z, 1e-4)
}

func TestNewPerspectiveCamera_TranslateMovesOrigin(t *testing.T) {
	cfg := camera.Config{
		Transform: camera.Transform{Translate: core.NewVec3(1, 2, 3)},
		FOV:       60,
		Width:     200,
		Height:    200,
	}
	cam := camera.NewPerspectiveCamera(cfg)
	ray := cam.GenerateRay(0.5, 0.5, core.Vec2{})
	require.InDelta(t, 1, ray.Origin.X, 1e-4)
	require.InDelta(t, 2, ray.Origin.Y, 1e-4)
	require.InDelta(t, 3, ray.Origin.Z, 1e-4)
}

func TestNewPerspectiveCamera_RotateYawsForward(t *testing.T) {
	cfg := camera.Config{
		Transform: camera.Transform{
			Rotate: camera.Rotation{Angle: 90, Axis: core.NewVec3(0, 1, 0)},
		},
		FOV:    90,
		Width:  400,
		Height: 400,
	}
	cam := camera.NewPerspectiveCamera(cfg)
	ray := cam.GenerateRay(0.5, 0.5, core.Vec2{})
	// Forward (0,0,-1) rotated +90 degrees about +Y goes to (-1,0,0).
	assert.InDelta(t, -1, ray.Direction.X, 1e-3)
	assert.InDelta(t, 0, ray.Direction.Z, 1e-3)
}

func TestNewPerspectiveCamera_NoDOFIsDeterministic(t *testing.T) {
	cfg := camera.Config{FOV: 60, Width: 100, Height: 100}
	cam := camera.NewPerspectiveCamera(cfg)

	r1 := cam.GenerateRay(0.3, 0.7, core.Vec2{X: 0.9, Y: 0.1})
	r2 := cam.GenerateRay(0.3, 0.7, core.Vec2{X: 0.1, Y: 0.9})
	assert.Equal(t, r1.Origin, r2.Origin)
}

func TestNewPerspectiveCamera_DOFJittersOrigin(t *testing.T) {
	cfg := camera.Config{
		FOV: 60, Width: 100, Height: 100,
		FocalLength: 1, FStop: 1,
	}
	cam := camera.NewPerspectiveCamera(cfg)

	r1 := cam.GenerateRay(0.5, 0.5, core.Vec2{X: 0.9, Y: 0.1})
	r2 := cam.GenerateRay(0.5, 0.5, core.Vec2{X: 0.1, Y: 0.9})
	assert.NotEqual(t, r1.Origin, r2.Origin)
}
