// Package export turns a display list of segments into files: an SVG
// document, a raster image or a PDF page. Every writer draws the same
// fixed logical canvas, so output never depends on the zoom the drawing
// was made at.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"QPaint/internal/state"
)

var (
	// ErrNoDestination is returned when the file picker was dismissed.
	ErrNoDestination = errors.New("export: no destination path")
	// ErrUnsupportedFormat is returned for extensions no encoder handles.
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// Canvas is the logical drawing area written by every exporter.
type Canvas struct {
	Width      int
	Height     int
	Background state.Color
}

// DefaultCanvas is the 800x600 white page of the paint tool.
func DefaultCanvas() Canvas {
	return Canvas{Width: 800, Height: 600, Background: state.White}
}

// Format identifies an output encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatPDF  Format = "pdf"
)

// IsRaster reports whether f is a bitmap encoding.
func (f Format) IsRaster() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// Ext is the canonical file extension, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// FormatFromPath infers the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Write encodes segments in format f to path. The extension of path is
// not consulted.
func Write(path string, f Format, c Canvas, segments []state.Segment) error {
	if path == "" {
		return ErrNoDestination
	}
	switch {
	case f == FormatSVG:
		return writeFile(path, func(w io.Writer) error {
			return WriteSVG(w, c, segments)
		})
	case f == FormatPDF:
		return writeFile(path, func(w io.Writer) error {
			return WritePDF(w, c, segments)
		})
	case f.IsRaster():
		img := Rasterize(c, segments)
		return writeFile(path, func(w io.Writer) error {
			return Encode(w, f, img)
		})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// Vector writes segments as an SVG document to path.
func Vector(path string, c Canvas, segments []state.Segment) error {
	return Write(path, FormatSVG, c, segments)
}

// Raster draws segments onto a fresh canvas and writes it to path in the
// encoding named by the file extension.
func Raster(path string, c Canvas, segments []state.Segment) error {
	if path == "" {
		return ErrNoDestination
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !f.IsRaster() {
		return fmt.Errorf("%w: %s is not a raster format", ErrUnsupportedFormat, f)
	}
	return Write(path, f, c, segments)
}

// PDF writes segments as a single PDF page sized to the canvas.
func PDF(path string, c Canvas, segments []state.Segment) error {
	return Write(path, FormatPDF, c, segments)
}

// File dispatches on the extension of path.
func File(path string, c Canvas, segments []state.Segment) error {
	if path == "" {
		return ErrNoDestination
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return Write(path, f, c, segments)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
