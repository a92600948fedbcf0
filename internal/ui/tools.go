package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"QPaint/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var palette = []color.Color{
	state.Cyan.NRGBA(),
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 200, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 220, A: 255},
	color.White,
}

// Sidebar holds the pen controls and the file actions.
type Sidebar struct {
	board   *BoardWidget
	session *state.Session
	actions *Actions

	preview    *canvas.Rectangle
	thickLabel *widget.Label
	zoomLabel  *widget.Label
	thickness  *widget.Slider
	zoom       *widget.Slider
}

func NewSidebar(board *BoardWidget, s *state.Session, actions *Actions) *Sidebar {
	return &Sidebar{board: board, session: s, actions: actions}
}

// SetColor updates the pen and the preview swatch.
func (sb *Sidebar) SetColor(c color.Color) {
	sb.session.SetColor(state.FromColor(c))
	if sb.preview != nil {
		sb.preview.FillColor = sb.session.Color().NRGBA()
		sb.preview.Refresh()
	}
}

func (sb *Sidebar) setThickness(v float64) {
	n := sb.session.SetThickness(int(v))
	sb.thickLabel.SetText(fmt.Sprintf("%d px", n))
}

func (sb *Sidebar) setZoom(v float64) {
	z := sb.board.SetZoom(v)
	sb.zoomLabel.SetText(fmt.Sprintf("%.0f%%", z*100))
}

// Build lays out the controls. win parents the color picker.
func (sb *Sidebar) Build(win fyne.Window) fyne.CanvasObject {
	sb.preview = canvas.NewRectangle(sb.session.Color().NRGBA())
	sb.preview.SetMinSize(fyne.NewSize(0, 30))

	swatches := make([]fyne.CanvasObject, 0, len(palette))
	for _, c := range palette {
		swatches = append(swatches, newColorSwatch(c, sb.SetColor))
	}

	pick := widget.NewButtonWithIcon("Pick RGB color", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Select RGB Color", "", sb.SetColor, win)
		picker.Advanced = true
		picker.Show()
	})

	sb.thickLabel = widget.NewLabel("")
	sb.thickness = widget.NewSlider(state.MinThickness, state.MaxThickness)
	sb.thickness.Step = 1
	sb.thickness.SetValue(float64(sb.session.Thickness()))
	sb.thickness.OnChanged = sb.setThickness
	sb.setThickness(sb.thickness.Value)

	sb.zoomLabel = widget.NewLabel("")
	sb.zoom = widget.NewSlider(state.MinZoom, state.MaxZoom)
	sb.zoom.Step = 0.1
	sb.zoom.SetValue(sb.session.Zoom())
	sb.zoom.OnChanged = sb.setZoom
	sb.zoomLabel.SetText(fmt.Sprintf("%.0f%%", sb.session.Zoom()*100))

	return container.NewVBox(
		widget.NewLabelWithStyle("Q-PAINT", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true}),
		pick,
		sb.preview,
		container.NewGridWithColumns(4, swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Brush thickness (1-50)"),
		sb.thickness,
		sb.thickLabel,
		widget.NewLabel("Zoom (10%-500%)"),
		sb.zoom,
		sb.zoomLabel,
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Save as SVG", theme.DocumentSaveIcon(), sb.actions.SaveSVG),
		widget.NewButtonWithIcon("Export as PNG", theme.FileImageIcon(), sb.actions.ExportPNG),
		widget.NewButtonWithIcon("Export as PDF", theme.DocumentPrintIcon(), sb.actions.ExportPDF),
		widget.NewButtonWithIcon("Clear all", theme.DeleteIcon(), sb.actions.ClearAll),
		layout.NewSpacer(),
	)
}
