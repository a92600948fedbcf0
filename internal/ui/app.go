package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"QPaint/internal/export"
	"QPaint/internal/state"
)

// Editor is the paint window: sidebar on the left, scrollable board on
// the right, status line at the bottom.
type Editor struct {
	Window  fyne.Window
	Board   *BoardWidget
	Actions *Actions
	Sidebar *Sidebar

	status *widget.Label
}

func NewEditor(a fyne.App, s *state.Session, page export.Canvas, logger *slog.Logger) *Editor {
	win := a.NewWindow("Q-PAINT")
	win.Resize(fyne.NewSize(1100, 750))

	e := &Editor{
		Window: win,
		Board:  NewBoardWidget(s, page),
		status: widget.NewLabel("Ready"),
	}
	e.Actions = NewActions(s, page, NewWindowPrompter(win), logger)
	e.Actions.OnStatus = e.SetStatus
	e.Sidebar = NewSidebar(e.Board, s, e.Actions)

	board := container.NewScroll(container.NewCenter(e.Board))
	win.SetContent(container.NewBorder(nil, e.status, e.Sidebar.Build(win), nil, board))
	return e
}

// SetStatus may be called from any goroutine.
func (e *Editor) SetStatus(text string) {
	fyne.Do(func() {
		e.status.SetText(text)
	})
}

func (e *Editor) ShowAndRun() {
	e.Window.ShowAndRun()
}

// Viewer is a read-only window mirroring a shared board.
type Viewer struct {
	Window fyne.Window
	Board  *BoardWidget

	status *widget.Label
}

func NewViewer(a fyne.App, title string, r *state.Replica, page export.Canvas) *Viewer {
	win := a.NewWindow(title)
	win.Resize(fyne.NewSize(900, 700))

	v := &Viewer{
		Window: win,
		Board:  NewViewerWidget(r.Segments, page),
		status: widget.NewLabel("Connecting..."),
	}
	zoom := widget.NewSlider(state.MinZoom, state.MaxZoom)
	zoom.Step = 0.1
	zoom.SetValue(1)
	zoom.OnChanged = func(z float64) { v.Board.SetZoom(z) }

	bottom := container.NewBorder(nil, nil, v.status, nil, zoom)
	win.SetContent(container.NewBorder(nil, bottom, nil, nil,
		container.NewScroll(container.NewCenter(v.Board))))
	return v
}

// Reload repaints from the replica; safe from any goroutine.
func (v *Viewer) Reload() {
	fyne.Do(v.Board.Reload)
}

// SetStatus may be called from any goroutine.
func (v *Viewer) SetStatus(text string) {
	fyne.Do(func() {
		v.status.SetText(text)
	})
}

func (v *Viewer) ShowAndRun() {
	v.Window.ShowAndRun()
}
