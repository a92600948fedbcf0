package export

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"QPaint/internal/state"
)

// RenderSVG parses an SVG document and rasterizes it at its viewBox size
// over the given background.
func RenderSVG(r io.Reader, background state.Color) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w, h := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("parse svg: empty viewBox %vx%v", icon.ViewBox.W, icon.ViewBox.H)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background.NRGBA()), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

// Convert rasterizes the SVG file at src into dst, encoding by the
// extension of dst.
func Convert(src, dst string, background state.Color) error {
	if dst == "" {
		return ErrNoDestination
	}
	f, err := FormatFromPath(dst)
	if err != nil {
		return err
	}
	if !f.IsRaster() {
		return fmt.Errorf("%w: %s is not a raster format", ErrUnsupportedFormat, f)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	img, err := RenderSVG(in, background)
	if err != nil {
		return err
	}
	return writeFile(dst, func(w io.Writer) error {
		return Encode(w, f, img)
	})
}
