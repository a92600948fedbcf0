package state

import (
	"math"

	"github.com/google/uuid"
)

const (
	MinThickness = 1
	MaxThickness = 50
	MinZoom      = 0.1
	MaxZoom      = 5.0
)

// Painter draws on the live screen. The session calls it with screen
// coordinates after the data model has been updated; a nil painter
// leaves the session headless.
type Painter interface {
	PaintLine(from, to Point, c Color, width float64)
	Erase()
}

// Settings are the initial pen and view values of a session.
type Settings struct {
	Color     Color
	Thickness int
	Zoom      float64
}

// DefaultSettings matches the paint tool's startup state.
func DefaultSettings() Settings {
	return Settings{Color: Cyan, Thickness: 5, Zoom: 1.0}
}

// Session is the drawing state of one open paint window. It is owned by
// the UI callback chain and is not safe for concurrent use.
type Session struct {
	color     Color
	thickness int
	zoom      float64

	segments []Segment

	anchor    Point
	hasAnchor bool

	site    string
	clock   Clock
	painter Painter

	// OnOp is called after every local insert or clear.
	OnOp func(Op)
}

// NewSession creates an empty session. Zero thickness or zoom fall back
// to the defaults; other out-of-range values are clamped.
func NewSession(s Settings) *Session {
	def := DefaultSettings()
	sess := &Session{
		site:      NewSiteID(),
		segments:  make([]Segment, 0),
		color:     s.Color,
		thickness: def.Thickness,
		zoom:      def.Zoom,
	}
	if s.Thickness != 0 {
		sess.SetThickness(s.Thickness)
	}
	if s.Zoom != 0 {
		sess.SetZoom(s.Zoom)
	}
	return sess
}

func (s *Session) SetPainter(p Painter) {
	s.painter = p
}

// Site returns the identifier stamped on this session's segments.
func (s *Session) Site() string {
	return s.site
}

func (s *Session) Color() Color { return s.color }

func (s *Session) Thickness() int { return s.thickness }

func (s *Session) Zoom() float64 { return s.zoom }

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool { return s.hasAnchor }

func (s *Session) Len() int { return len(s.segments) }

// Segments returns a copy of the display list in paint order.
func (s *Session) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// BeginStroke sets the pending anchor for the next segment.
func (s *Session) BeginStroke(p Point) {
	s.anchor = p
	s.hasAnchor = true
}

// ExtendStroke records a segment from the pending anchor to p, both
// given in screen coordinates. It reports whether a segment was added.
// Without an anchor, or when p equals the anchor, nothing is recorded.
func (s *Session) ExtendStroke(p Point) bool {
	if !s.hasAnchor {
		return false
	}
	from := s.anchor
	if from == p {
		return false
	}
	s.anchor = p

	seg := Segment{
		ID:      uuid.NewString(),
		Site:    s.site,
		Lamport: s.clock.Tick(),
		Start:   from.Unscale(s.zoom),
		End:     p.Unscale(s.zoom),
		Color:   s.color,
		Width:   s.thickness,
	}
	s.segments = append(s.segments, seg)

	if s.painter != nil {
		s.painter.PaintLine(from, p, seg.Color, float64(seg.Width)*s.zoom)
	}
	s.emit(Op{Type: OpInsertSegment, Segment: &seg, Lamport: seg.Lamport, Site: s.site})
	return true
}

// EndStroke drops the pending anchor.
func (s *Session) EndStroke() {
	s.hasAnchor = false
	s.anchor = Point{}
}

// SetColor changes the color of future segments.
func (s *Session) SetColor(c Color) {
	s.color = c
}

// SetThickness clamps n to [MinThickness, MaxThickness] and returns the
// value that took effect.
func (s *Session) SetThickness(n int) int {
	s.thickness = clampThickness(n)
	return s.thickness
}

// SetZoom clamps f to [MinZoom, MaxZoom] and returns the value that took
// effect. NaN is ignored. Stored segments are never rewritten.
func (s *Session) SetZoom(f float64) float64 {
	if z, ok := ClampZoom(f); ok {
		s.zoom = z
	}
	return s.zoom
}

// Clear empties the display list and erases the screen when confirmed is
// true. Declining leaves everything untouched.
func (s *Session) Clear(confirmed bool) bool {
	if !confirmed {
		return false
	}
	s.segments = make([]Segment, 0)
	s.hasAnchor = false
	if s.painter != nil {
		s.painter.Erase()
	}
	s.emit(Op{Type: OpClear, Lamport: s.clock.Tick(), Site: s.site})
	return true
}

func (s *Session) emit(op Op) {
	if s.OnOp != nil {
		s.OnOp(op)
	}
}

// ClampZoom limits f to [MinZoom, MaxZoom]. It reports false for NaN.
func ClampZoom(f float64) (float64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return math.Min(MaxZoom, math.Max(MinZoom, f)), true
}

func clampThickness(n int) int {
	if n < MinThickness {
		return MinThickness
	}
	if n > MaxThickness {
		return MaxThickness
	}
	return n
}
