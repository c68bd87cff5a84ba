// Package meshimport reads triangle mesh data from on-disk formats into the
// vertex/normal/face buffers pkg/geometry.NewMesh expects.
package meshimport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/solraven/kdtrace/pkg/core"
)

// MeshData is the raw result of importing a mesh file: a shared vertex
// buffer, optional per-vertex normals, and triangulated face indices ready
// for geometry.NewMesh.
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // nil if the source file carries no normals
	Faces    []int       // 3 indices per triangle
}

type plyProperty struct {
	name     string
	typ      string
	isList   bool
	listType string
	dataType string
}

type plyHeader struct {
	format      string
	vertexCount int
	faceCount   int
	vertexProps []plyProperty
	faceProps   []plyProperty

	hasNormals   bool
	normalIndex  [3]int
}

// LoadPLY reads a binary-little-endian PLY mesh file. ASCII and big-endian
// PLY are not supported — no file in the retrieval corpus exercises them,
// and the original loader this was adapted from stubs them out too.
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("meshimport: open %s: %w", filename, err)
	}
	defer file.Close()

	header, headerSize, err := parsePLYHeader(file)
	if err != nil {
		return nil, fmt.Errorf("meshimport: parse header of %s: %w", filename, err)
	}

	if _, err := file.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("meshimport: seek past header: %w", err)
	}

	switch header.format {
	case "binary_little_endian":
		return readBinaryLittleEndian(file, header)
	case "binary_big_endian":
		return nil, fmt.Errorf("meshimport: binary_big_endian PLY not supported")
	case "ascii":
		return nil, fmt.Errorf("meshimport: ascii PLY not supported")
	default:
		return nil, fmt.Errorf("meshimport: unknown PLY format %q", header.format)
	}
}

func parsePLYHeader(file *os.File) (*plyHeader, int, error) {
	header := &plyHeader{}
	scanner := bufio.NewScanner(file)
	var bytesRead int
	var currentElement string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1

		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 2 {
				header.format = parts[1]
			}
		case "element":
			if len(parts) < 3 {
				continue
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, 0, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.vertexCount = count
			case "face":
				header.faceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, err
			}
			switch currentElement {
			case "vertex":
				header.vertexProps = append(header.vertexProps, prop)
				idx := len(header.vertexProps) - 1
				switch prop.name {
				case "nx":
					header.hasNormals = true
					header.normalIndex[0] = idx
				case "ny":
					header.hasNormals = true
					header.normalIndex[1] = idx
				case "nz":
					header.hasNormals = true
					header.normalIndex[2] = idx
				}
			case "face":
				header.faceProps = append(header.faceProps, prop)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return header, bytesRead, nil
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		return plyProperty{isList: true, listType: parts[1], dataType: parts[2], name: parts[3]}, nil
	}
	return plyProperty{typ: parts[0], name: parts[1]}, nil
}

// vertexFields holds the subset of properties geometry.Mesh needs; every
// other declared vertex property (color, texcoord, quality, confidence,
// custom scalars) is read past and discarded.
type vertexFields struct {
	x, y, z    float32
	nx, ny, nz float32
}

func readBinaryLittleEndian(file *os.File, header *plyHeader) (*MeshData, error) {
	vertices := make([]core.Vec3, 0, header.vertexCount)
	var normals []core.Vec3
	if header.hasNormals {
		normals = make([]core.Vec3, 0, header.vertexCount)
	}

	vertexSize := calculateVertexSize(header.vertexProps)
	vertexData := make([]byte, vertexSize*header.vertexCount)
	if _, err := io.ReadFull(file, vertexData); err != nil {
		return nil, fmt.Errorf("read vertex data: %w", err)
	}

	for i := 0; i < header.vertexCount; i++ {
		offset := i * vertexSize
		v := parseVertexFromBytes(vertexData[offset:offset+vertexSize], header.vertexProps)
		vertices = append(vertices, core.NewVec3(v.x, v.y, v.z))
		if header.hasNormals {
			normals = append(normals, core.NewVec3(v.nx, v.ny, v.nz))
		}
	}

	faces := make([]int, 0, header.faceCount*3)
	bufReader := bufio.NewReaderSize(file, 1<<20)

	for i := 0; i < header.faceCount; i++ {
		for _, prop := range header.faceProps {
			if prop.isList && prop.name == "vertex_indices" {
				count, err := readListCount(bufReader, prop.listType)
				if err != nil {
					return nil, fmt.Errorf("read face %d vertex count: %w", i, err)
				}
				if count != 3 {
					return nil, fmt.Errorf("face %d has %d vertices, only triangles are supported", i, count)
				}
				idx, err := readFaceIndices(bufReader, prop.dataType)
				if err != nil {
					return nil, fmt.Errorf("read face %d indices: %w", i, err)
				}
				faces = append(faces, idx[0], idx[1], idx[2])
			} else if err := skipProperty(bufReader, prop); err != nil {
				return nil, fmt.Errorf("skip face %d property %s: %w", i, prop.name, err)
			}
		}
	}

	return &MeshData{Vertices: vertices, Normals: normals, Faces: faces}, nil
}

func readListCount(r *bufio.Reader, listType string) (int, error) {
	switch listType {
	case "uchar", "uint8":
		var c uint8
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return 0, err
		}
		return int(c), nil
	case "int", "int32":
		var c int32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return 0, err
		}
		return int(c), nil
	default:
		return 0, fmt.Errorf("unsupported list count type: %s", listType)
	}
}

func readFaceIndices(r *bufio.Reader, dataType string) ([3]int, error) {
	var out [3]int
	switch dataType {
	case "int", "int32":
		var buf [3]int32
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return out, err
		}
		out[0], out[1], out[2] = int(buf[0]), int(buf[1]), int(buf[2])
	case "uint", "uint32":
		var buf [3]uint32
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return out, err
		}
		out[0], out[1], out[2] = int(buf[0]), int(buf[1]), int(buf[2])
	default:
		return out, fmt.Errorf("unsupported face index type: %s", dataType)
	}
	return out, nil
}

func calculateVertexSize(props []plyProperty) int {
	size := 0
	for _, p := range props {
		if p.isList {
			continue
		}
		size += typeSize(p.typ)
	}
	return size
}

func typeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 4
	}
}

func parseVertexFromBytes(data []byte, props []plyProperty) vertexFields {
	var v vertexFields
	offset := 0
	for _, prop := range props {
		if prop.isList {
			continue
		}
		size := typeSize(prop.typ)
		if offset+size > len(data) {
			break
		}
		if prop.typ == "float" || prop.typ == "float32" {
			value := float32FromLE(data[offset : offset+size])
			switch prop.name {
			case "x":
				v.x = value
			case "y":
				v.y = value
			case "z":
				v.z = value
			case "nx":
				v.nx = value
			case "ny":
				v.ny = value
			case "nz":
				v.nz = value
			}
		} else if prop.typ == "double" || prop.typ == "float64" {
			value := float32(float64FromLE(data[offset : offset+size]))
			switch prop.name {
			case "x":
				v.x = value
			case "y":
				v.y = value
			case "z":
				v.z = value
			case "nx":
				v.nx = value
			case "ny":
				v.ny = value
			case "nz":
				v.nz = value
			}
		}
		offset += size
	}
	return v
}

func float32FromLE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func float64FromLE(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func skipProperty(r *bufio.Reader, prop plyProperty) error {
	if prop.isList {
		count, err := readListCount(r, prop.listType)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := skipSimpleType(r, prop.dataType); err != nil {
				return err
			}
		}
		return nil
	}
	return skipSimpleType(r, prop.typ)
}

func skipSimpleType(r *bufio.Reader, dataType string) error {
	n := typeSize(dataType)
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}
