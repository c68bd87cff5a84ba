package scenefile

import (
	"fmt"

	"github.com/solraven/kdtrace/pkg/core"
)

// vec3 converts a three-element YAML sequence to a core.Vec3, or a
// *ParseError if it isn't exactly three elements. A nil/empty slice (the
// field was omitted) resolves to the zero vector rather than an error —
// most vector fields have a sensible zero default (origin, no rotation).
func vec3(path string, v []float32) (core.Vec3, error) {
	if len(v) == 0 {
		return core.Vec3{}, nil
	}
	if len(v) != 3 {
		return core.Vec3{}, &ParseError{Path: path, Err: fmt.Errorf("expected 3 components, got %d", len(v))}
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// vec3Required is like vec3 but treats an omitted field as an error too.
func vec3Required(path string, v []float32) (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, &ParseError{Path: path, Err: fmt.Errorf("expected 3 components, got %d", len(v))}
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}
