package card

import (
	"bytes"
	_ "embed"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/front.svg
var frontSVG []byte

//go:embed assets/back.svg
var backSVG []byte

// Faces holds the rasterized artwork of both card faces
type Faces struct {
	Front *image.RGBA
	Back  *image.RGBA
}

// LoadFaces rasterizes the card faces at width×height. Empty paths fall
// back to the embedded artwork.
func LoadFaces(frontPath, backPath string, width, height int) (*Faces, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("face size must be positive, got %dx%d", width, height)
	}

	front, err := loadFace(frontPath, frontSVG, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "front face")
	}
	back, err := loadFace(backPath, backSVG, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "back face")
	}
	return &Faces{Front: front, Back: back}, nil
}

func loadFace(path string, fallback []byte, width, height int) (*image.RGBA, error) {
	data := fallback
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	return RasterizeSVG(bytes.NewReader(data), width, height)
}

// RasterizeSVG renders an SVG document into a width×height RGBA image
func RasterizeSVG(r io.Reader, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// SavePNG writes img to path, for inspecting rasterized faces
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
