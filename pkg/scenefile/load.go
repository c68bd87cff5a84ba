package scenefile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/solraven/kdtrace/pkg/camera"
	"github.com/solraven/kdtrace/pkg/core"
	"github.com/solraven/kdtrace/pkg/geometry"
	"github.com/solraven/kdtrace/pkg/light"
	"github.com/solraven/kdtrace/pkg/material"
	"github.com/solraven/kdtrace/pkg/meshimport"
	"github.com/solraven/kdtrace/pkg/scene"
)

// Load reads and resolves a scene document at path into a built scene.Scene,
// with defaultCamera naming the camera scene.Scene.Camera("") falls back to.
func Load(path string, defaultCamera string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	baseDir := filepath.Dir(path)
	return resolve(&doc, baseDir, defaultCamera)
}

// resolve walks the four sections in order, building BSDFs, then
// primitives (attaching named materials and lights), then cameras, and
// finally handing the flattened primitive list to scene.Build.
func resolve(doc *Document, baseDir string, defaultCamera string) (*scene.Scene, error) {
	lightColors := make(map[string]core.Vec3, len(doc.Lights))
	for name, def := range doc.Lights {
		color, err := vec3Required(fmt.Sprintf("lights.%s.color", name), def.Color)
		if err != nil {
			return nil, err
		}
		lightColors[name] = color
	}

	materials := make(map[string]material.BSDF, len(doc.Materials))
	for name, def := range doc.Materials {
		mat, err := buildMaterial(fmt.Sprintf("materials.%s", name), def)
		if err != nil {
			return nil, err
		}
		materials[name] = mat
	}

	usedLights := make(map[string]bool)
	prims := make([]geometry.Primitive, 0, len(doc.Geometry))
	for i, def := range doc.Geometry {
		path := fmt.Sprintf("geometry[%d]", i)
		prim, err := buildGeometry(path, def, materials, lightColors, baseDir)
		if err != nil {
			return nil, err
		}
		if def.Light != "" {
			usedLights[def.Light] = true
		}
		prims = append(prims, prim)
	}

	cameras := make(map[string]*camera.PerspectiveCamera, len(doc.Cameras))
	for name, def := range doc.Cameras {
		cam, err := buildCamera(fmt.Sprintf("cameras.%s", name), def)
		if err != nil {
			return nil, err
		}
		cameras[name] = cam
	}

	if len(cameras) == 0 {
		return nil, &ParseError{Path: "cameras", Err: fmt.Errorf("scene defines no cameras")}
	}
	if defaultCamera == "" {
		defaultCamera = "default"
	}
	if _, ok := cameras[defaultCamera]; !ok {
		return nil, &ResolutionError{Path: "cameras", Kind: "camera", Name: defaultCamera}
	}

	return scene.Build(prims, cameras, defaultCamera)
}

func buildMaterial(path string, def MaterialDef) (material.BSDF, error) {
	switch def.Type {
	case "lambert":
		color, err := vec3Required(path+".color", def.Color)
		if err != nil {
			return nil, err
		}
		return material.NewLambert(color), nil
	case "phong":
		color, err := vec3Required(path+".color", def.Color)
		if err != nil {
			return nil, err
		}
		return material.NewPhong(color, def.Exponent), nil
	case "dielectric":
		color, err := vec3Required(path+".color", def.Color)
		if err != nil {
			return nil, err
		}
		return material.NewDielectric(color, def.IOR), nil
	case "metal":
		color, err := vec3Required(path+".color", def.Color)
		if err != nil {
			return nil, err
		}
		return material.NewMetal(color, def.Fuzziness), nil
	default:
		return nil, &ParseError{Path: path + ".type", Err: fmt.Errorf("unknown material type %q", def.Type)}
	}
}

func buildGeometry(path string, def GeometryDef, materials map[string]material.BSDF, lightColors map[string]core.Vec3, baseDir string) (geometry.Primitive, error) {
	var mat material.BSDF
	if def.Mat != "" {
		m, ok := materials[def.Mat]
		if !ok {
			return nil, &ResolutionError{Path: path + ".mat", Kind: "material", Name: def.Mat}
		}
		mat = m
	}

	var emission core.Vec3
	hasLight := false
	if def.Light != "" {
		e, ok := lightColors[def.Light]
		if !ok {
			return nil, &ResolutionError{Path: path + ".light", Kind: "light", Name: def.Light}
		}
		emission, hasLight = e, true
	}

	switch def.Type {
	case "sphere":
		origin, err := vec3Required(path+".origin", def.Origin)
		if err != nil {
			return nil, err
		}
		s := geometry.NewSphere(origin, def.Radius, mat)
		if hasLight {
			s.Light = light.NewAreaLight(emission, s)
			if def.Weight > 0 {
				s.Light.Weight = def.Weight
			}
		}
		return s, nil

	case "disc":
		origin, err := vec3Required(path+".origin", def.Origin)
		if err != nil {
			return nil, err
		}
		normal, err := vec3Required(path+".normal", def.Normal)
		if err != nil {
			return nil, err
		}
		d := geometry.NewDisc(origin, normal, def.Radius, mat)
		if hasLight {
			d.Light = light.NewAreaLight(emission, d)
			if def.Weight > 0 {
				d.Light.Weight = def.Weight
			}
		}
		return d, nil

	case "quad":
		corner, err := vec3Required(path+".origin", def.Origin)
		if err != nil {
			return nil, err
		}
		u, err := vec3Required(path+".u", def.U)
		if err != nil {
			return nil, err
		}
		v, err := vec3Required(path+".v", def.V)
		if err != nil {
			return nil, err
		}
		q := geometry.NewQuad(corner, u, v, mat)
		if hasLight {
			q.Light = light.NewAreaLight(emission, q)
			if def.Weight > 0 {
				q.Light.Weight = def.Weight
			}
		}
		if def.Texture != "" {
			texFile := def.Texture
			if !filepath.IsAbs(texFile) {
				texFile = filepath.Join(baseDir, texFile)
			}
			tex, err := material.LoadImageTexture(texFile)
			if err != nil {
				return nil, &ImportError{File: texFile, Err: err}
			}
			q.Texture = tex
		}
		return q, nil

	case "mesh":
		if def.File == "" {
			return nil, &ParseError{Path: path + ".file", Err: fmt.Errorf("mesh entry has no file")}
		}
		file := def.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, file)
		}
		data, err := meshimport.LoadPLY(file)
		if err != nil {
			return nil, &ImportError{File: file, Err: err}
		}
		return data.ToMesh(mat), nil

	default:
		return nil, &ParseError{Path: path + ".type", Err: fmt.Errorf("unknown geometry type %q", def.Type)}
	}
}

func buildCamera(path string, def CameraDef) (*camera.PerspectiveCamera, error) {
	if def.Type != "" && def.Type != "persp" {
		return nil, &ParseError{Path: path + ".type", Err: fmt.Errorf("unknown camera type %q", def.Type)}
	}
	translate, err := vec3(path+".transform.translate", def.Transform.Translate)
	if err != nil {
		return nil, err
	}
	axis, err := vec3(path+".transform.rotate.axis", def.Transform.Rotate.Axis)
	if err != nil {
		return nil, err
	}
	if def.Width <= 0 || def.Height <= 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("width and height must be positive, got %dx%d", def.Width, def.Height)}
	}

	cfg := camera.Config{
		Transform: camera.Transform{
			Translate: translate,
			Rotate:    camera.Rotation{Angle: def.Transform.Rotate.Angle, Axis: axis},
		},
		FOV:         def.FOV,
		FocalLength: def.FocalLength,
		FStop:       def.FStop,
		Width:       def.Width,
		Height:      def.Height,
	}
	return camera.NewPerspectiveCamera(cfg), nil
}
