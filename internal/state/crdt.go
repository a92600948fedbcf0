package state

import (
	"log/slog"
	"sort"
	"sync"
)

// Replica is a copy of a drawing rebuilt from operations received over
// the network. Operations may arrive twice or out of order; segments are
// kept sorted by (Lamport, Site) and de-duplicated by ID. A clear removes
// every segment stamped with an earlier Lamport value.
type Replica struct {
	clock     Clock
	segments  []Segment
	seen      map[string]struct{}
	clearedAt uint64
	mu        sync.RWMutex
	log       *slog.Logger
}

// NewReplica creates an empty replica.
func NewReplica(logger *slog.Logger) *Replica {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replica{
		segments: make([]Segment, 0),
		seen:     make(map[string]struct{}),
		log:      logger.With("component", "replica"),
	}
}

// Apply merges op into the replica and returns true if the visible
// drawing changed.
func (r *Replica) Apply(op Op) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock.Update(op.Lamport)

	switch op.Type {
	case OpInsertSegment:
		if op.Segment == nil {
			return false
		}
		seg := *op.Segment
		if _, exists := r.seen[seg.ID]; exists {
			r.log.Debug("duplicate segment ignored", "id", seg.ID)
			return false
		}
		r.seen[seg.ID] = struct{}{}
		if seg.Lamport < r.clearedAt {
			// Arrived after a clear that already covers it.
			return false
		}
		i := sort.Search(len(r.segments), func(i int) bool {
			return less(seg, r.segments[i])
		})
		r.segments = append(r.segments, Segment{})
		copy(r.segments[i+1:], r.segments[i:])
		r.segments[i] = seg
		return true

	case OpClear:
		if op.Lamport <= r.clearedAt {
			return false
		}
		r.clearedAt = op.Lamport
		kept := make([]Segment, 0, len(r.segments))
		for _, seg := range r.segments {
			if seg.Lamport >= op.Lamport {
				kept = append(kept, seg)
			}
		}
		changed := len(kept) != len(r.segments)
		r.segments = kept
		r.log.Debug("clear applied", "lamport", op.Lamport, "site", op.Site, "remaining", len(kept))
		return changed

	default:
		r.log.Warn("unknown operation", "type", op.Type)
		return false
	}
}

// Segments returns the visible drawing in paint order.
func (r *Replica) Segments() []Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// Ops returns the operations needed to rebuild this replica elsewhere:
// the latest clear, if any, followed by every visible segment.
func (r *Replica) Ops() []Op {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]Op, 0, len(r.segments)+1)
	if r.clearedAt > 0 {
		ops = append(ops, Op{Type: OpClear, Lamport: r.clearedAt})
	}
	for i := range r.segments {
		seg := r.segments[i]
		ops = append(ops, Op{Type: OpInsertSegment, Segment: &seg, Lamport: seg.Lamport, Site: seg.Site})
	}
	return ops
}

// Lamport returns the highest clock value seen so far.
func (r *Replica) Lamport() uint64 {
	return r.clock.Now()
}

func less(a, b Segment) bool {
	if a.Lamport != b.Lamport {
		return a.Lamport < b.Lamport
	}
	return a.Site < b.Site
}
