// Package scenefile parses the hierarchical scene document of spec.md §6
// (lights, materials, geometry, cameras, in that order) into a built
// pkg/scene.Scene, resolving name references as it walks forward through
// the sections.
package scenefile

// Document is the raw YAML shape of a scene file. Sections are parsed in
// declaration order — lights, then materials, then geometry, then cameras —
// so that a geometry entry can reference a light or material declared
// earlier in the same document, and a camera name used by --camera can
// resolve against the cameras map.
type Document struct {
	Lights    map[string]LightDef    `yaml:"lights"`
	Materials map[string]MaterialDef `yaml:"materials"`
	Geometry  []GeometryDef          `yaml:"geometry"`
	Cameras   map[string]CameraDef   `yaml:"cameras"`
}

// LightDef is a `lights` section entry. Only "area" lights exist; the
// emitting geometry is attached later, by a `geometry` entry naming this
// light in its own `light` field.
type LightDef struct {
	Type  string    `yaml:"type"`
	Color []float32 `yaml:"color"`
}

// MaterialDef is a `materials` section entry. Field meaning depends on
// Type: "lambert" uses Color, "phong" uses Color+Exponent, "dielectric"
// uses Color+IOR, "metal" uses Color+Fuzziness.
type MaterialDef struct {
	Type      string    `yaml:"type"`
	Color     []float32 `yaml:"color"`
	Exponent  float32   `yaml:"exponent"`
	IOR       float32   `yaml:"ior"`
	Fuzziness float32   `yaml:"fuzziness"`
}

// GeometryDef is a `geometry` section entry. Field meaning depends on
// Type: "sphere" uses Origin+Radius, "disc" uses Origin+Normal+Radius,
// "quad" uses Origin (corner) +U+V, "mesh" uses File. Texture is only
// honored on a "quad" entry whose material is "lambert" — it overrides
// that material's flat color with an image sampled at the quad's (u,v).
type GeometryDef struct {
	Type    string    `yaml:"type"`
	Origin  []float32 `yaml:"origin"`
	Normal  []float32 `yaml:"normal"`
	U       []float32 `yaml:"u"`
	V       []float32 `yaml:"v"`
	Radius  float32   `yaml:"radius"`
	File    string    `yaml:"file"`
	Mat     string    `yaml:"mat"`
	Light   string    `yaml:"light"`
	Weight  float32   `yaml:"weight"`
	Texture string    `yaml:"texture"`
}

// TransformDef is a camera's `transform` field: translate then rotate,
// composed T*R per spec.md §9.
type TransformDef struct {
	Translate []float32  `yaml:"translate"`
	Rotate    RotationDef `yaml:"rotate"`
}

// RotationDef is an axis-angle rotation.
type RotationDef struct {
	Angle float32   `yaml:"angle"`
	Axis  []float32 `yaml:"axis"`
}

// CameraDef is a `cameras` section entry. Only "persp" exists.
type CameraDef struct {
	Type        string       `yaml:"type"`
	Transform   TransformDef `yaml:"transform"`
	FOV         float32      `yaml:"fov"`
	FocalLength float32      `yaml:"focalLength"`
	FStop       float32      `yaml:"fStop"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
}
