// Package history keeps every committed stroke in drawing order.
package history

import "github.com/example/doodlegate/internal/stroke"

// Store is an append-only list of strokes that can only shrink from the
// end or be emptied. It is not safe for concurrent use.
type Store struct {
	strokes []stroke.Stroke
}

// Append adds s at the end. The store keeps its own copy.
func (h *Store) Append(s stroke.Stroke) {
	h.strokes = append(h.strokes, s.Clone())
}

// RemoveLast drops and returns the newest stroke.
func (h *Store) RemoveLast() (stroke.Stroke, bool) {
	n := len(h.strokes)
	if n == 0 {
		return stroke.Stroke{}, false
	}
	last := h.strokes[n-1]
	h.strokes[n-1] = stroke.Stroke{}
	h.strokes = h.strokes[:n-1]
	return last, true
}

// Clear empties the store and returns how many strokes were removed.
func (h *Store) Clear() int {
	n := len(h.strokes)
	h.strokes = nil
	return n
}

// Len returns the number of strokes.
func (h *Store) Len() int { return len(h.strokes) }

// At returns the i'th stroke, oldest first.
func (h *Store) At(i int) stroke.Stroke { return h.strokes[i].Clone() }

// Snapshot returns a copy of all strokes in insertion order.
func (h *Store) Snapshot() []stroke.Stroke {
	out := make([]stroke.Stroke, len(h.strokes))
	for i, s := range h.strokes {
		out[i] = s.Clone()
	}
	return out
}
