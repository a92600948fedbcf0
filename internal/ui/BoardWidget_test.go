package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QPaint/internal/export"
	"QPaint/internal/state"
)

func press(b *BoardWidget, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func dragTo(b *BoardWidget, x, y float32) {
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func release(b *BoardWidget, x, y float32) {
	b.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func lines(b *BoardWidget) []*canvas.Line {
	var out []*canvas.Line
	for _, o := range test.WidgetRenderer(b).Objects() {
		if l, ok := o.(*canvas.Line); ok {
			out = append(out, l)
		}
	}
	return out
}

func TestBoardWidgetRecordsDrags(t *testing.T) {
	test.NewTempApp(t)
	s := state.NewSession(state.Settings{Color: state.Color{R: 255}, Thickness: 3, Zoom: 2})
	b := NewBoardWidget(s, export.DefaultCanvas())

	press(b, 20, 20)
	dragTo(b, 100, 20)
	dragTo(b, 100, 120)
	release(b, 100, 120)
	b.DragEnd()

	segs := s.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, state.Point{X: 10, Y: 10}, segs[0].Start)
	assert.Equal(t, state.Point{X: 50, Y: 10}, segs[0].End)
	assert.Equal(t, state.Point{X: 50, Y: 60}, segs[1].End)

	ls := lines(b)
	require.Len(t, ls, 2)
	assert.Equal(t, fyne.NewPos(20, 20), ls[0].Position1)
	assert.Equal(t, fyne.NewPos(100, 20), ls[0].Position2)
	assert.Equal(t, float32(6), ls[0].StrokeWidth)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, ls[0].StrokeColor)

	// a drag after release is ignored
	dragTo(b, 5, 5)
	assert.Equal(t, 2, s.Len())
}

func TestBoardWidgetIgnoresSecondaryButton(t *testing.T) {
	test.NewTempApp(t)
	s := state.NewSession(state.DefaultSettings())
	b := NewBoardWidget(s, export.DefaultCanvas())

	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(1, 1)}, Button: desktop.MouseButtonSecondary})
	dragTo(b, 50, 50)
	assert.Equal(t, 0, s.Len())
}

func TestBoardWidgetZoomRepaints(t *testing.T) {
	test.NewTempApp(t)
	s := state.NewSession(state.DefaultSettings())
	b := NewBoardWidget(s, export.DefaultCanvas())

	press(b, 10, 10)
	dragTo(b, 30, 10)
	release(b, 30, 10)

	assert.Equal(t, 3.0, b.SetZoom(3))
	ls := lines(b)
	require.Len(t, ls, 1)
	assert.Equal(t, fyne.NewPos(30, 30), ls[0].Position1)
	assert.Equal(t, fyne.NewPos(90, 30), ls[0].Position2)
	assert.Equal(t, float32(15), ls[0].StrokeWidth)
	assert.Equal(t, fyne.NewSize(2400, 1800), test.WidgetRenderer(b).MinSize())

	// stored geometry is unchanged
	assert.Equal(t, state.Point{X: 30, Y: 10}, s.Segments()[0].End)
}

func TestBoardWidgetClearErases(t *testing.T) {
	test.NewTempApp(t)
	s := state.NewSession(state.DefaultSettings())
	b := NewBoardWidget(s, export.DefaultCanvas())

	press(b, 10, 10)
	dragTo(b, 30, 10)
	release(b, 30, 10)
	require.Len(t, lines(b), 1)

	s.Clear(true)
	assert.Empty(t, lines(b))
}

func TestViewerWidgetIsReadOnly(t *testing.T) {
	test.NewTempApp(t)
	r := state.NewReplica(nil)
	seg := state.Segment{ID: "a", Lamport: 1, Start: state.Point{X: 1, Y: 1}, End: state.Point{X: 5, Y: 1}, Width: 2}
	r.Apply(state.Op{Type: state.OpInsertSegment, Segment: &seg, Lamport: 1})

	v := NewViewerWidget(r.Segments, export.DefaultCanvas())
	assert.True(t, v.ReadOnly())
	v.Reload()
	require.Len(t, lines(v), 1)

	press(v, 0, 0)
	dragTo(v, 40, 40)
	release(v, 40, 40)
	assert.Len(t, r.Segments(), 1)

	assert.Equal(t, 5.0, v.SetZoom(9))
	assert.Equal(t, fyne.NewPos(25, 5), lines(v)[0].Position2)
}

func TestSidebarControls(t *testing.T) {
	a := test.NewTempApp(t)
	win := a.NewWindow("test")
	s := state.NewSession(state.DefaultSettings())
	b := NewBoardWidget(s, export.DefaultCanvas())
	sb := NewSidebar(b, s, NewActions(s, export.DefaultCanvas(), &scriptedPrompter{}, nil))
	require.NotNil(t, sb.Build(win))

	sb.SetColor(color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	assert.Equal(t, state.Color{R: 1, G: 2, B: 3}, s.Color())

	sb.setThickness(12)
	assert.Equal(t, 12, s.Thickness())
	assert.Equal(t, "12 px", sb.thickLabel.Text)

	sb.setZoom(2)
	assert.Equal(t, 2.0, s.Zoom())
	assert.Equal(t, "200%", sb.zoomLabel.Text)
}
