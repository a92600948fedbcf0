package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"QPaint/internal/export"
	"QPaint/internal/logging"
	"QPaint/internal/state"
)

// Actions are the sidebar commands that leave the canvas: saving,
// exporting and clearing. Each one asks the prompter first and does
// nothing when the user backs out.
type Actions struct {
	session *state.Session
	page    export.Canvas
	prompt  Prompter
	log     *slog.Logger

	// OnStatus receives a one-line summary after each action.
	OnStatus func(string)
}

func NewActions(s *state.Session, page export.Canvas, p Prompter, logger *slog.Logger) *Actions {
	return &Actions{
		session: s,
		page:    page,
		prompt:  p,
		log:     logging.Component(logger, "actions"),
	}
}

// SaveSVG exports the drawing as a vector document.
func (a *Actions) SaveSVG() {
	a.exportAs(export.FormatSVG, "SVG project saved.")
}

// ExportPNG flattens the drawing into a PNG image.
func (a *Actions) ExportPNG() {
	a.exportAs(export.FormatPNG, "PNG exported.")
}

// ExportPDF writes the drawing as a single-page PDF.
func (a *Actions) ExportPDF() {
	a.exportAs(export.FormatPDF, "PDF exported.")
}

// ClearAll erases the drawing after confirmation.
func (a *Actions) ClearAll() {
	a.prompt.Confirm("Confirm", "Clear everything?", func(ok bool) {
		n := a.session.Len()
		if !a.session.Clear(ok) {
			a.log.Debug("clear declined")
			return
		}
		a.log.Info("canvas cleared", "segments", n)
		a.status("Cleared %d segments", n)
	})
}

// exportAs writes to exactly the path the picker returned. The picker has
// already created that file, so renaming it here would leave an empty
// file behind.
func (a *Actions) exportAs(f export.Format, success string) {
	a.prompt.SavePath(f, func(path string) {
		if path == "" {
			a.log.Debug("export cancelled", "format", f)
			return
		}
		segs := a.session.Segments()
		if err := export.Write(path, f, a.page, segs); err != nil {
			a.log.Error("export failed", "format", f, "path", path, "err", err)
			a.prompt.Error(err)
			return
		}
		a.log.Info("exported", "format", f, "path", path, "segments", len(segs))
		a.status("Saved %d segments to %s", len(segs), filepath.Base(path))
		a.prompt.Info("Success", success)
	})
}

func (a *Actions) status(format string, args ...any) {
	if a.OnStatus != nil {
		a.OnStatus(fmt.Sprintf(format, args...))
	}
}
