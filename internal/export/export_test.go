package export

import (
	"bytes"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srwiley/oksvg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QPaint/internal/state"
)

var (
	red  = state.Color{R: 255}
	blue = state.Color{B: 255}
)

// twoStrokes draws stroke A (red, width 3) then stroke B (blue, width 5)
// through a session at the given zoom.
func twoStrokes(zoom float64) []state.Segment {
	s := state.NewSession(state.Settings{Color: red, Thickness: 3, Zoom: zoom})
	s.BeginStroke(state.Point{X: 10, Y: 10}.Scale(zoom))
	s.ExtendStroke(state.Point{X: 50, Y: 10}.Scale(zoom))
	s.EndStroke()

	s.SetColor(blue)
	s.SetThickness(5)
	s.BeginStroke(state.Point{X: 50, Y: 10}.Scale(zoom))
	s.ExtendStroke(state.Point{X: 50, Y: 60}.Scale(zoom))
	s.EndStroke()
	return s.Segments()
}

type svgDoc struct {
	XMLName xml.Name  `xml:"svg"`
	ViewBox string    `xml:"viewBox,attr"`
	Rects   []svgRect `xml:"rect"`
	Lines   []svgLine `xml:"line"`
}

type svgRect struct {
	Fill string `xml:"fill,attr"`
}

type svgLine struct {
	X1      string `xml:"x1,attr"`
	Y1      string `xml:"y1,attr"`
	X2      string `xml:"x2,attr"`
	Y2      string `xml:"y2,attr"`
	Stroke  string `xml:"stroke,attr"`
	Width   string `xml:"stroke-width,attr"`
	LineCap string `xml:"stroke-linecap,attr"`
}

func parseSVG(t *testing.T, data []byte) svgDoc {
	t.Helper()
	var doc svgDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc
}

func near(t *testing.T, want state.Color, got color.Color, at image.Point) {
	t.Helper()
	c := state.FromColor(got)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	ok := diff(want.R, c.R) <= 8 && diff(want.G, c.G) <= 8 && diff(want.B, c.B) <= 8
	assert.True(t, ok, "pixel %v: want %s, got %s", at, want, c)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.svg":     FormatSVG,
		"a.PNG":     FormatPNG,
		"x/y.jpeg":  FormatJPEG,
		"x/y.jpg":   FormatJPEG,
		"pic.gif":   FormatGIF,
		"pic.bmp":   FormatBMP,
		"pic.tif":   FormatTIFF,
		"pic.tiff":  FormatTIFF,
		"print.pdf": FormatPDF,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, ".jpg", FormatJPEG.Ext())
	assert.Equal(t, ".png", FormatPNG.Ext())
	assert.False(t, FormatSVG.IsRaster())
	assert.True(t, FormatTIFF.IsRaster())
}

func TestWriteSVGRoundTripScenario(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, DefaultCanvas(), twoStrokes(1)))

	doc := parseSVG(t, buf.Bytes())
	assert.Equal(t, "0 0 800 600", doc.ViewBox)
	require.Len(t, doc.Rects, 1)
	assert.Equal(t, "#ffffff", doc.Rects[0].Fill)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, svgLine{X1: "10", Y1: "10", X2: "50", Y2: "10", Stroke: "#ff0000", Width: "3", LineCap: "round"}, doc.Lines[0])
	assert.Equal(t, svgLine{X1: "50", Y1: "10", X2: "50", Y2: "60", Stroke: "#0000ff", Width: "5", LineCap: "round"}, doc.Lines[1])

	// background precedes the lines
	text := buf.String()
	assert.Less(t, strings.Index(text, "<rect"), strings.Index(text, "<line"))
}

func TestWriteSVGIsZoomIndependent(t *testing.T) {
	var at1, at2 bytes.Buffer
	require.NoError(t, WriteSVG(&at1, DefaultCanvas(), twoStrokes(1)))
	require.NoError(t, WriteSVG(&at2, DefaultCanvas(), twoStrokes(2)))
	assert.Equal(t, at1.String(), at2.String())
}

func TestWriteSVGEmptyDrawing(t *testing.T) {
	s := state.NewSession(state.DefaultSettings())
	s.BeginStroke(state.Point{X: 1, Y: 1})
	s.ExtendStroke(state.Point{X: 2, Y: 2})
	s.EndStroke()
	require.True(t, s.Clear(true))

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, DefaultCanvas(), s.Segments()))
	doc := parseSVG(t, buf.Bytes())
	assert.Len(t, doc.Rects, 1)
	assert.Empty(t, doc.Lines)
}

func TestWriteSVGParsesWithOksvg(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, DefaultCanvas(), twoStrokes(1)))

	icon, err := oksvg.ReadIconStream(&buf, oksvg.WarnErrorMode)
	require.NoError(t, err)
	assert.Equal(t, 800.0, icon.ViewBox.W)
	assert.Equal(t, 600.0, icon.ViewBox.H)
	require.Len(t, icon.SVGPaths, 3)
	assert.Equal(t, 3.0, icon.SVGPaths[1].LineWidth)
	assert.Equal(t, 5.0, icon.SVGPaths[2].LineWidth)
}

func TestRasterizeRoundTripScenario(t *testing.T) {
	img := Rasterize(DefaultCanvas(), twoStrokes(1))
	require.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())

	near(t, state.White, img.At(700, 500), image.Pt(700, 500))
	near(t, red, img.At(30, 10), image.Pt(30, 10))
	near(t, blue, img.At(50, 35), image.Pt(50, 35))
	// B is painted after A where the two meet
	near(t, blue, img.At(50, 10), image.Pt(50, 10))
	// outside A's 3px width
	near(t, state.White, img.At(30, 20), image.Pt(30, 20))
}

func TestRasterizeIsZoomIndependent(t *testing.T) {
	a := Rasterize(DefaultCanvas(), twoStrokes(1))
	b := Rasterize(DefaultCanvas(), twoStrokes(4))
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRasterizeEmptyDrawingIsBackground(t *testing.T) {
	c := Canvas{Width: 16, Height: 8, Background: state.Color{R: 1, G: 2, B: 3}}
	img := Rasterize(c, nil)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, img.RGBAAt(x, y))
		}
	}
}

func TestRasterWritesByExtension(t *testing.T) {
	dir := t.TempDir()
	segs := twoStrokes(1)

	for _, name := range []string{"out.png", "out.jpg", "out.gif", "out.bmp", "out.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Raster(path, DefaultCanvas(), segs), name)

		f, err := os.Open(path)
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, 800, cfg.Width, name)
		assert.Equal(t, 600, cfg.Height, name)
	}

	f, err := os.Open(filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	near(t, red, img.At(30, 10), image.Pt(30, 10))
	near(t, blue, img.At(50, 35), image.Pt(50, 35))
}

func TestExportRejectsBeforeIO(t *testing.T) {
	dir := t.TempDir()
	segs := twoStrokes(1)

	assert.ErrorIs(t, Vector("", DefaultCanvas(), segs), ErrNoDestination)
	assert.ErrorIs(t, Raster("", DefaultCanvas(), segs), ErrNoDestination)
	assert.ErrorIs(t, PDF("", DefaultCanvas(), segs), ErrNoDestination)
	assert.ErrorIs(t, File("", DefaultCanvas(), segs), ErrNoDestination)

	bad := filepath.Join(dir, "drawing.webp")
	assert.ErrorIs(t, Raster(bad, DefaultCanvas(), segs), ErrUnsupportedFormat)
	assert.ErrorIs(t, Raster(filepath.Join(dir, "d.svg"), DefaultCanvas(), segs), ErrUnsupportedFormat)
	_, err := os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}

func TestExportUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "drawing.svg")
	segs := twoStrokes(1)
	err := Vector(path, DefaultCanvas(), segs)
	require.Error(t, err)
	assert.Len(t, segs, 2)
}

func TestFileDispatch(t *testing.T) {
	dir := t.TempDir()
	segs := twoStrokes(1)

	svgPath := filepath.Join(dir, "d.svg")
	require.NoError(t, File(svgPath, DefaultCanvas(), segs))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Len(t, parseSVG(t, data).Lines, 2)

	pdfPath := filepath.Join(dir, "d.pdf")
	require.NoError(t, File(pdfPath, DefaultCanvas(), segs))
	data, err = os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	pngPath := filepath.Join(dir, "d.png")
	require.NoError(t, File(pngPath, DefaultCanvas(), segs))
	_, err = os.Stat(pngPath)
	assert.NoError(t, err)
}

func TestWriteUsesGivenFormat(t *testing.T) {
	dir := t.TempDir()
	segs := twoStrokes(1)

	plain := filepath.Join(dir, "drawing")
	require.NoError(t, Write(plain, FormatSVG, DefaultCanvas(), segs))
	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Len(t, parseSVG(t, data).Lines, 2)

	misnamed := filepath.Join(dir, "notes.txt")
	require.NoError(t, Write(misnamed, FormatPNG, DefaultCanvas(), segs))
	f, err := os.Open(misnamed)
	require.NoError(t, err)
	defer f.Close()
	_, kind, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", kind)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.ErrorIs(t, Write(filepath.Join(dir, "x"), Format("webp"), DefaultCanvas(), segs), ErrUnsupportedFormat)
	assert.ErrorIs(t, Write("", FormatPDF, DefaultCanvas(), segs), ErrNoDestination)
}

func TestConvertMatchesRaster(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "d.svg")
	dst := filepath.Join(dir, "d.png")
	require.NoError(t, Vector(src, DefaultCanvas(), twoStrokes(1)))
	require.NoError(t, Convert(src, dst, state.White))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())
	near(t, red, img.At(30, 10), image.Pt(30, 10))
	near(t, blue, img.At(50, 35), image.Pt(50, 35))
	near(t, state.White, img.At(400, 300), image.Pt(400, 300))

	assert.ErrorIs(t, Convert(src, filepath.Join(dir, "d.pdf"), state.White), ErrUnsupportedFormat)
	assert.ErrorIs(t, Convert(src, "", state.White), ErrNoDestination)
}
