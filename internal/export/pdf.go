package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"QPaint/internal/state"
)

// WritePDF draws the canvas on one page, one point per logical unit.
func WritePDF(w io.Writer, c Canvas, segments []state.Segment) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(c.Width), Ht: float64(c.Height)},
	})
	p.SetCreator("QPaint", true)
	p.AddPage()

	bg := c.Background
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(0, 0, float64(c.Width), float64(c.Height), "F")

	p.SetLineCapStyle("round")
	for _, s := range segments {
		p.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		p.SetLineWidth(float64(s.Width))
		p.Line(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	}
	return p.Output(w)
}
