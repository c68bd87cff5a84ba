// Package imageio writes a rendered film out to disk: the canonical
// 32-bit float RGB buffer per spec.md §6, and an 8-bit PNG preview for
// progress inspection between passes.
package imageio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/solraven/kdtrace/pkg/core"
)

// floatRGBMagic identifies the planar float RGB format WriteFloatRGB
// writes: no HDR/EXR library appears anywhere in the retrieval pack, and
// spec.md §6 only requires "three separate float channels" with no
// opinion on compression, so this is a minimal from-scratch container
// rather than a real EXR encoder.
const floatRGBMagic = "KDFR"

// WriteFloatRGB writes width*height pixels as three separate planar
// float32 channels (every pixel's red component in scan order, then every
// green, then every blue), little-endian, after an 8-byte magic+version
// header and two little-endian int32 dimensions.
func WriteFloatRGB(path string, width, height int, pixels []core.Vec3) error {
	if len(pixels) != width*height {
		return fmt.Errorf("imageio: WriteFloatRGB: got %d pixels, want %d (%dx%d)", len(pixels), width*height, width, height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(floatRGBMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(1)); err != nil { // version
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(width)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(height)); err != nil {
		return err
	}

	for _, channel := range []func(core.Vec3) float32{
		func(p core.Vec3) float32 { return p.X },
		func(p core.Vec3) float32 { return p.Y },
		func(p core.Vec3) float32 { return p.Z },
	} {
		for _, p := range pixels {
			if err := binary.Write(w, binary.LittleEndian, channel(p)); err != nil {
				return fmt.Errorf("imageio: write channel data: %w", err)
			}
		}
	}

	return w.Flush()
}

// ReadFloatRGB reads back a file WriteFloatRGB produced. Used by tests to
// round-trip what gets persisted; a render consumer has no use for reading
// its own output back.
func ReadFloatRGB(path string) (width, height int, pixels []core.Vec3, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(floatRGBMagic))
	if _, err := r.Read(magic); err != nil || string(magic) != floatRGBMagic {
		return 0, 0, nil, fmt.Errorf("imageio: %s is not a float RGB file", path)
	}
	var version, w, h int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return 0, 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return 0, 0, nil, err
	}

	n := int(w) * int(h)
	reds := make([]float32, n)
	greens := make([]float32, n)
	blues := make([]float32, n)
	for _, plane := range []([]float32){reds, greens, blues} {
		if err := binary.Read(r, binary.LittleEndian, plane); err != nil {
			return 0, 0, nil, fmt.Errorf("imageio: read channel data: %w", err)
		}
	}

	out := make([]core.Vec3, n)
	for i := range out {
		out[i] = core.NewVec3(reds[i], greens[i], blues[i])
	}
	return int(w), int(h), out, nil
}
