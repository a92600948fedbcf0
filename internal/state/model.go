package state

// Point is a 2D position. Stored segments always hold logical
// coordinates; screen coordinates only pass through the session.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Unscale returns p with both coordinates divided by zoom.
func (p Point) Unscale(zoom float64) Point {
	return Point{X: p.X / zoom, Y: p.Y / zoom}
}

// Scale returns p with both coordinates multiplied by zoom.
func (p Point) Scale(zoom float64) Point {
	return Point{X: p.X * zoom, Y: p.Y * zoom}
}

// Segment is a single straight line of the drawing. It is never mutated
// once appended to a session.
type Segment struct {
	ID      string `json:"id"`
	Site    string `json:"site"`
	Lamport uint64 `json:"lamport"`
	Start   Point  `json:"start"`
	End     Point  `json:"end"`
	Color   Color  `json:"color"`
	Width   int    `json:"width"`
}

type OpType string

const (
	OpInsertSegment OpType = "insert_segment"
	OpClear         OpType = "clear"
)

// Op is a replicated change to a drawing. Inserts carry the segment,
// clears carry only the clock value they were issued at.
type Op struct {
	Type    OpType   `json:"type"`
	Segment *Segment `json:"segment,omitempty"`
	Lamport uint64   `json:"lamport"`
	Site    string   `json:"site"`
}
