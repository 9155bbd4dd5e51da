package stroke

import "github.com/example/doodlegate/internal/geom"

// Recorder accumulates the points of the stroke currently being drawn.
// The zero value is idle.
type Recorder struct {
	recording bool
	points    []geom.Point
}

// Recording reports whether a draft is open.
func (r *Recorder) Recording() bool { return r.recording }

// Len returns the number of points in the draft.
func (r *Recorder) Len() int { return len(r.points) }

// Begin opens a draft seeded with p. It does nothing while already
// recording. Quota checks are the caller's job.
func (r *Recorder) Begin(p geom.Point) bool {
	if r.recording {
		return false
	}
	r.recording = true
	r.points = append(r.points[:0], p)
	return true
}

// Extend appends p to the open draft.
func (r *Recorder) Extend(p geom.Point) bool {
	if !r.recording {
		return false
	}
	r.points = append(r.points, p)
	return true
}

// Finish closes the draft and returns it as a stroke drawn with b. The
// second result is false if nothing was recording. The draft is cleared
// either way.
func (r *Recorder) Finish(b Brush) (Stroke, bool) {
	if !r.recording {
		return Stroke{}, false
	}
	s, ok := r.Draft(b)
	r.Cancel()
	return s, ok
}

// Cancel drops the draft without committing it.
func (r *Recorder) Cancel() {
	r.recording = false
	r.points = nil
}

// Draft returns a copy of the open draft styled with b.
func (r *Recorder) Draft(b Brush) (Stroke, bool) {
	if !r.recording || len(r.points) == 0 {
		return Stroke{}, false
	}
	pts := make([]geom.Point, len(r.points))
	copy(pts, r.points)
	return Stroke{Points: pts, Color: b.Color, Thickness: b.Thickness}, true
}
