package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"QPaint/internal/export"
	"QPaint/internal/state"
)

// BoardWidget is the live drawing surface. In editor mode it feeds pointer
// drags into a session and paints what the session reports; in viewer
// mode it only replays segments from a source at its own zoom.
type BoardWidget struct {
	widget.BaseWidget

	session *state.Session
	source  func() []state.Segment
	page    export.Canvas

	viewZoom float64
	strokes  []fyne.CanvasObject
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Cursorable = (*BoardWidget)(nil)
var _ state.Painter = (*BoardWidget)(nil)

// NewBoardWidget creates an editable board bound to s.
func NewBoardWidget(s *state.Session, page export.Canvas) *BoardWidget {
	b := &BoardWidget{
		session: s,
		source:  s.Segments,
		page:    page,
	}
	b.ExtendBaseWidget(b)
	s.SetPainter(b)
	return b
}

// NewViewerWidget creates a read-only board that draws whatever source
// returns each time Reload is called.
func NewViewerWidget(source func() []state.Segment, page export.Canvas) *BoardWidget {
	b := &BoardWidget{
		source:   source,
		page:     page,
		viewZoom: 1,
	}
	b.ExtendBaseWidget(b)
	return b
}

// ReadOnly reports whether pointer input is ignored.
func (b *BoardWidget) ReadOnly() bool {
	return b.session == nil
}

// Zoom is the current display scale.
func (b *BoardWidget) Zoom() float64 {
	if b.session != nil {
		return b.session.Zoom()
	}
	return b.viewZoom
}

// SetZoom changes the display scale and repaints every stored segment at
// the new scale. It returns the scale that took effect.
func (b *BoardWidget) SetZoom(z float64) float64 {
	if b.session != nil {
		z = b.session.SetZoom(z)
	} else {
		if clamped, ok := state.ClampZoom(z); ok {
			b.viewZoom = clamped
		}
		z = b.viewZoom
	}
	b.Reload()
	return z
}

// Reload rebuilds the screen objects from the segment source.
func (b *BoardWidget) Reload() {
	zoom := b.Zoom()
	segs := b.source()
	b.strokes = make([]fyne.CanvasObject, 0, len(segs)*3)
	for _, s := range segs {
		b.addLine(s.Start.Scale(zoom), s.End.Scale(zoom), s.Color, float64(s.Width)*zoom)
	}
	b.Refresh()
}

// PaintLine draws one screen-space line with round ends.
func (b *BoardWidget) PaintLine(from, to state.Point, c state.Color, width float64) {
	b.addLine(from, to, c, width)
	b.Refresh()
}

// Erase removes everything drawn on screen.
func (b *BoardWidget) Erase() {
	b.strokes = nil
	b.Refresh()
}

func (b *BoardWidget) addLine(from, to state.Point, c state.Color, width float64) {
	col := c.NRGBA()
	line := canvas.NewLine(col)
	line.StrokeWidth = float32(width)
	line.Position1 = toPos(from)
	line.Position2 = toPos(to)
	b.strokes = append(b.strokes, line, roundCap(from, col, width), roundCap(to, col, width))
}

// roundCap is a filled dot the width of the line, centred on an end
// point. Consecutive segments share end points, so the dots also smooth
// the joints of a stroke.
func roundCap(p state.Point, col color.Color, width float64) fyne.CanvasObject {
	r := float32(width / 2)
	dot := canvas.NewCircle(col)
	dot.Position1 = fyne.NewPos(float32(p.X)-r, float32(p.Y)-r)
	dot.Position2 = fyne.NewPos(float32(p.X)+r, float32(p.Y)+r)
	return dot
}

func toPos(p state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.session == nil || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.BeginStroke(toPoint(e.Position))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.session == nil || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.EndStroke()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.session == nil {
		return
	}
	b.session.ExtendStroke(toPoint(e.Position))
}

func (b *BoardWidget) DragEnd() {
	if b.session == nil {
		return
	}
	b.session.EndStroke()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut() {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) Cursor() desktop.Cursor {
	if b.session == nil {
		return desktop.DefaultCursor
	}
	return desktop.CrosshairCursor
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(b.page.Background.NRGBA())
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(r.board.strokes)+1)
	objects = append(objects, r.background)
	return append(objects, r.board.strokes...)
}

func (r *boardWidgetRenderer) Refresh() {
	r.background.FillColor = r.board.page.Background.NRGBA()
	r.background.Resize(r.MinSize())
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	r.background.Resize(r.MinSize())
}

// MinSize is the logical page at the current zoom, so a surrounding
// scroll container exposes the whole page.
func (r *boardWidgetRenderer) MinSize() fyne.Size {
	z := float32(r.board.Zoom())
	return fyne.NewSize(float32(r.board.page.Width)*z, float32(r.board.page.Height)*z)
}

func (r *boardWidgetRenderer) Destroy() {}
