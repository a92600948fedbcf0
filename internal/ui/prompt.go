package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"QPaint/internal/export"
)

// Prompter is the set of host dialogs the paint actions depend on. Every
// answer arrives through a callback: an empty path means the picker was
// dismissed, false means the user declined.
type Prompter interface {
	Confirm(title, message string, done func(confirmed bool))
	SavePath(f export.Format, done func(path string))
	Info(title, message string)
	Error(err error)
}

// windowPrompter shows fyne dialogs over a window.
type windowPrompter struct {
	win fyne.Window
}

func NewWindowPrompter(win fyne.Window) Prompter {
	return &windowPrompter{win: win}
}

func (p *windowPrompter) Confirm(title, message string, done func(bool)) {
	dialog.ShowConfirm(title, message, done, p.win)
}

func (p *windowPrompter) SavePath(f export.Format, done func(string)) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			p.Error(err)
			done("")
			return
		}
		if w == nil {
			done("")
			return
		}
		path := w.URI().Path()
		// The exporter reopens the path itself.
		w.Close()
		done(path)
	}, p.win)
	d.SetFileName("drawing" + f.Ext())
	d.SetFilter(storage.NewExtensionFileFilter([]string{f.Ext()}))
	d.Show()
}

func (p *windowPrompter) Info(title, message string) {
	dialog.ShowInformation(title, message, p.win)
}

func (p *windowPrompter) Error(err error) {
	dialog.ShowError(err, p.win)
}
