package material

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/solraven/kdtrace/pkg/core"
)

// Texture maps a surface parameterization (u,v), both in [0,1], to a color.
type Texture interface {
	At(u, v float32) core.Vec3
}

// ImageTexture wraps a decoded raster image as a Texture, sampling with
// nearest-neighbor lookup and wrapping (u,v) into [0,1) like a repeating
// texture tile.
type ImageTexture struct {
	width, height int
	pixels        []core.Vec3
}

// LoadImageTexture decodes a PNG, JPEG, BMP, TIFF, or WebP file into an
// ImageTexture. Format is auto-detected from the file header.
func LoadImageTexture(filename string) (*ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("material: open texture %s: %w", filename, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("material: decode texture %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.NewVec3(
				float32(r)/65535,
				float32(g)/65535,
				float32(b)/65535,
			)
		}
	}
	return &ImageTexture{width: width, height: height, pixels: pixels}, nil
}

// At implements Texture, wrapping (u,v) into the image and flipping v so
// v=0 is the bottom row, matching the teacher's image-space convention.
func (t *ImageTexture) At(u, v float32) core.Vec3 {
	if t.width == 0 || t.height == 0 {
		return core.Vec3{}
	}
	u = wrapUnit(u)
	v = wrapUnit(v)
	x := int(u * float32(t.width))
	y := int((1 - v) * float32(t.height))
	x = clampIndex(x, t.width)
	y = clampIndex(y, t.height)
	return t.pixels[y*t.width+x]
}

func wrapUnit(v float32) float32 {
	v -= float32(int(v))
	if v < 0 {
		v++
	}
	return v
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
