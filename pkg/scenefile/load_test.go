package scenefile_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/scenefile"
)

const validScene = `
lights:
  sun:
    type: area
    color: [8, 8, 8]

materials:
  white:
    type: lambert
    color: [0.8, 0.8, 0.8]
  glass:
    type: dielectric
    color: [1, 1, 1]
    ior: 1.5

geometry:
  - type: sphere
    origin: [0, 0, 0]
    radius: 1
    mat: white
  - type: sphere
    origin: [0, 5, 0]
    radius: 2
    light: sun
  - type: sphere
    origin: [3, 0, 0]
    radius: 1
    mat: glass

cameras:
  default:
    type: persp
    transform:
      translate: [0, 0, 5]
      rotate: { angle: 0, axis: [0, 1, 0] }
    fov: 40
    width: 64
    height: 64
`

func writeScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ValidSceneBuildsWithLightsAndCameras(t *testing.T) {
	path := writeScene(t, validScene)
	sc, err := scenefile.Load(path, "")
	require.NoError(t, err)

	assert.Len(t, sc.Lights, 1)
	cam, err := sc.Camera("")
	require.NoError(t, err)
	assert.Equal(t, 64, cam.Width)
}

func TestLoad_UndefinedMaterialReferenceIsResolutionError(t *testing.T) {
	path := writeScene(t, `
materials: {}
geometry:
  - type: sphere
    origin: [0, 0, 0]
    radius: 1
    mat: missing
cameras:
  default:
    type: persp
    transform: { translate: [0, 0, 5] }
    fov: 40
    width: 4
    height: 4
`)
	_, err := scenefile.Load(path, "")
	require.Error(t, err)
	var resErr *scenefile.ResolutionError
	assert.ErrorAs(t, err, &resErr)
	assert.Equal(t, "material", resErr.Kind)
}

func TestLoad_UndefinedLightReferenceIsResolutionError(t *testing.T) {
	path := writeScene(t, `
geometry:
  - type: sphere
    origin: [0, 0, 0]
    radius: 1
    light: missing
cameras:
  default:
    type: persp
    transform: { translate: [0, 0, 5] }
    fov: 40
    width: 4
    height: 4
`)
	_, err := scenefile.Load(path, "")
	require.Error(t, err)
	var resErr *scenefile.ResolutionError
	assert.ErrorAs(t, err, &resErr)
	assert.Equal(t, "light", resErr.Kind)
}

func TestLoad_BadVectorArityIsParseError(t *testing.T) {
	path := writeScene(t, `
geometry:
  - type: sphere
    origin: [0, 0]
    radius: 1
cameras:
  default:
    type: persp
    transform: { translate: [0, 0, 5] }
    fov: 40
    width: 4
    height: 4
`)
	_, err := scenefile.Load(path, "")
	require.Error(t, err)
	var parseErr *scenefile.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoad_UnknownCameraNameIsResolutionError(t *testing.T) {
	path := writeScene(t, validScene)
	_, err := scenefile.Load(path, "nonexistent")
	require.Error(t, err)
	var resErr *scenefile.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestLoad_MissingFileIsParseError(t *testing.T) {
	_, err := scenefile.Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	var parseErr *scenefile.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

const weightedScene = `
lights:
  key:
    type: area
    color: [8, 8, 8]
  fill:
    type: area
    color: [2, 2, 2]

materials: {}

geometry:
  - type: sphere
    origin: [0, 5, 0]
    radius: 2
    light: key
    weight: 9
  - type: sphere
    origin: [5, 5, 0]
    radius: 2
    light: fill
    weight: 1

cameras:
  default:
    type: persp
    transform:
      translate: [0, 0, 5]
      rotate: { angle: 0, axis: [0, 1, 0] }
    fov: 40
    width: 64
    height: 64
`

func TestLoad_GeometryWeightWiresWeightedSampler(t *testing.T) {
	path := writeScene(t, weightedScene)
	sc, err := scenefile.Load(path, "")
	require.NoError(t, err)

	require.Len(t, sc.Lights, 2)
	weighted, ok := sc.LightSampler.(*light.WeightedSampler)
	require.True(t, ok)
	assert.InDelta(t, float32(0.9), weighted.Probability(0), 1e-6)
	assert.InDelta(t, float32(0.1), weighted.Probability(1), 1e-6)
}

func TestLoad_QuadWithTextureWiresImageTexture(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	texPath := filepath.Join(dir, "tex.png")
	f, err := os.Create(texPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	scenePath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scenePath, []byte(`
materials:
  white:
    type: lambert
    color: [0.8, 0.8, 0.8]

geometry:
  - type: quad
    origin: [-1, -1, 0]
    u: [2, 0, 0]
    v: [0, 2, 0]
    mat: white
    texture: tex.png

cameras:
  default:
    type: persp
    transform: { translate: [0, 0, 5] }
    fov: 40
    width: 4
    height: 4
`), 0o644))

	sc, err := scenefile.Load(scenePath, "")
	require.NoError(t, err)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	isect, prim, hit := sc.Tree.IntersectClosest(ray, 0.001, 1000)
	require.True(t, hit)
	_ = isect

	quad, ok := prim.(*geometry.Quad)
	require.True(t, ok)
	assert.NotNil(t, quad.Texture)
}
