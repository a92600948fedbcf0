package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"QPaint/internal/state"
)

// WriteSVG writes the background rect followed by one round-capped line
// per segment, in order. Coordinates and widths are written as stored.
func WriteSVG(w io.Writer, c Canvas, segments []state.Segment) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<svg viewBox=\"0 0 %d %d\" width=\"%d\" height=\"%d\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		c.Width, c.Height, c.Width, c.Height)
	fmt.Fprintf(bw, "  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
		c.Width, c.Height, c.Background.Hex())
	for _, s := range segments {
		fmt.Fprintf(bw, "  <line x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\" stroke=\"%s\" stroke-width=\"%d\" stroke-linecap=\"round\"/>\n",
			num(s.Start.X), num(s.Start.Y), num(s.End.X), num(s.End.Y), s.Color.Hex(), s.Width)
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
