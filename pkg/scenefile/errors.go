package scenefile

import "fmt"

// ParseError reports a malformed scene document: bad YAML, a missing
// required key, or a vector with the wrong number of components.
type ParseError struct {
	Path string // dotted property path, e.g. "geometry[2].origin"
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scenefile: parse error at %s: %v", e.Path, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// ResolutionError reports a reference to a name that was never declared in
// an earlier section (a material, light, or camera name that doesn't
// exist).
type ResolutionError struct {
	Path string // property path of the reference
	Kind string // "material", "light", or "camera"
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("scenefile: %s at %s references undefined %s %q", e.Kind, e.Path, e.Kind, e.Name)
}

// ImportError reports a mesh file that could not be read or that lacks
// the data an importer requires (positions, triangulable faces).
type ImportError struct {
	File string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("scenefile: import error reading %s: %v", e.File, e.Err)
}
func (e *ImportError) Unwrap() error { return e.Err }
