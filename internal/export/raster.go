package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"QPaint/internal/state"
)

const miterLimit = 4

// Rasterize paints the background and then every segment, in order, as
// an anti-aliased round-capped line of its stored width.
func Rasterize(c Canvas, segments []state.Segment) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.Background.NRGBA()), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(c.Width, c.Height, img, img.Bounds())
	dasher := rasterx.NewDasher(c.Width, c.Height, scanner)
	for _, s := range segments {
		dasher.Clear()
		dasher.SetStroke(fixed.Int26_6(s.Width*64), fixed.Int26_6(miterLimit*64),
			rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
		dasher.Start(rasterx.ToFixedP(s.Start.X, s.Start.Y))
		dasher.Line(rasterx.ToFixedP(s.End.X, s.End.Y))
		dasher.Stop(false)
		dasher.SetColor(s.Color.NRGBA())
		dasher.Draw()
	}
	return img
}

// Encode writes img in the given raster format.
func Encode(w io.Writer, f Format, img image.Image) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}
