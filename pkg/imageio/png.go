package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/solraven/kdtrace/pkg/core"
)

// previewGamma matches the teacher's own vec3ToColor gamma (2.0), applied
// only to the 8-bit preview — the canonical float output carries linear
// radiance untouched.
const previewGamma = 2.0

// WritePNGPreview tonemaps width*height linear-radiance pixels (clamp to
// [0,1], gamma-correct, quantize to 8 bits) and writes them as a PNG,
// creating any missing parent directory. Used for progress inspection
// between passes; the canonical output is WriteFloatRGB.
func WritePNGPreview(path string, width, height int, pixels []core.Vec3) error {
	if len(pixels) != width*height {
		return fmt.Errorf("imageio: WritePNGPreview: got %d pixels, want %d (%dx%d)", len(pixels), width*height, width, height)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("imageio: mkdir %s: %w", dir, err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, toRGBA(pixels[y*width+x]))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

func toRGBA(c core.Vec3) color.RGBA {
	c = gammaCorrect(c, previewGamma).Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

func gammaCorrect(c core.Vec3, gamma float32) core.Vec3 {
	invGamma := 1 / gamma
	pow := func(v float32) float32 {
		if v <= 0 {
			return 0
		}
		return float32(math.Pow(float64(v), float64(invGamma)))
	}
	return core.NewVec3(pow(c.X), pow(c.Y), pow(c.Z))
}
