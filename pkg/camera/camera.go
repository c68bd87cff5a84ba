// Package camera implements a perspective camera with depth of field,
// built from a scene-file transform (translate then rotate) rather than
// a look-at point, per spec.md §6.
package camera

import (
	"math"

	"github.com/solraven/kdtrace/pkg/core"
)

// Rotation is an axis-angle rotation, matching the scene-file document's
// `rotate: { angle, axis }` field.
type Rotation struct {
	Angle float32 // degrees
	Axis  core.Vec3
}

// Transform composes a translation and a rotation, applied as T*R: a
// point/direction is rotated first, then translated.
type Transform struct {
	Translate core.Vec3
	Rotate    Rotation
}

// Apply rotates then translates a world-space point.
func (t Transform) Apply(p core.Vec3) core.Vec3 {
	return p.RotateAxisAngle(t.Rotate.Axis, t.Rotate.Angle).Add(t.Translate)
}

// ApplyVector rotates a direction (no translation).
func (t Transform) ApplyVector(v core.Vec3) core.Vec3 {
	return v.RotateAxisAngle(t.Rotate.Axis, t.Rotate.Angle)
}

// Config describes a perspective camera as a scene-file `cameras` entry
// would (spec.md §6): a transform placing a camera that by convention
// looks down -Z with +Y up in its own local space, a vertical field of
// view, and depth-of-field parameters.
type Config struct {
	Transform     Transform
	FOV           float32 // vertical field of view, degrees
	FocalLength   float32 // distance to the focal plane
	FStop         float32 // f-number; 0 disables depth of field
	Width, Height int
}

// PerspectiveCamera generates primary rays for an image plane, with
// optional thin-lens depth of field.
type PerspectiveCamera struct {
	origin               core.Vec3
	lowerLeftCorner       core.Vec3
	horizontal, vertical core.Vec3
	u, v, w              core.Vec3 // right, up, forward (lens basis)
	lensRadius           float32
	Width, Height        int
}

// NewPerspectiveCamera builds a camera from Config. The local frame looks
// down -Z with +Y up before the transform is applied, matching the
// right-handed convention the rest of the package uses.
func NewPerspectiveCamera(cfg Config) *PerspectiveCamera {
	origin := cfg.Transform.Apply(core.NewVec3(0, 0, 0))
	forward := cfg.Transform.ApplyVector(core.NewVec3(0, 0, -1)).Normalize()
	up := cfg.Transform.ApplyVector(core.NewVec3(0, 1, 0)).Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	aspect := float32(cfg.Width) / float32(cfg.Height)
	theta := cfg.FOV * float32(math.Pi) / 180
	halfHeight := float32(math.Tan(float64(theta) / 2))
	halfWidth := aspect * halfHeight

	focalLength := cfg.FocalLength
	if focalLength <= 0 {
		focalLength = 1
	}

	horizontal := right.Multiply(2 * halfWidth * focalLength)
	vertical := trueUp.Multiply(2 * halfHeight * focalLength)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Add(forward.Multiply(focalLength))

	lensRadius := float32(0)
	if cfg.FStop > 0 {
		lensRadius = focalLength / (2 * cfg.FStop)
	}

	return &PerspectiveCamera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               right,
		v:               trueUp,
		w:               forward,
		lensRadius:      lensRadius,
		Width:           cfg.Width,
		Height:          cfg.Height,
	}
}

// GenerateRay builds a ray through normalized image-plane coordinates
// (s, t) in [0,1]x[0,1] (s right, t up), using lensSample (a canonical
// [0,1)^2 pair) to jitter the origin over the aperture when depth of
// field is enabled.
func (c *PerspectiveCamera) GenerateRay(s, t float32, lensSample core.Vec2) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		lens := core.UniformSampleDisc(lensSample)
		offset := c.u.Multiply(lens.X * c.lensRadius).Add(c.v.Multiply(lens.Y * c.lensRadius))
		origin = origin.Add(offset)
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin).Normalize())
}
