// Package input normalises pointer and touch events and maps them from the
// displayed surface into the logical drawing surface.
package input

import (
	"sort"

	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/doodlegate/internal/geom"
)

// Source identifies the kind of device that produced a Raw event.
type Source int

const (
	// Pointer is a mouse or pen.
	Pointer Source = iota
	// Touch is a touch screen contact.
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "pointer"
}

// Contact is one active touch.
type Contact struct {
	ID  int64
	Pos geom.Point
}

// Raw is a device event in display coordinates.
type Raw struct {
	Source  Source
	Pos     geom.Point
	Touches []Contact
}

// At returns a pointer event at x, y.
func At(x, y float64) Raw {
	return Raw{Source: Pointer, Pos: geom.Pt(x, y)}
}

// Position returns the display coordinate the event refers to. Touch events
// use the first active contact. The second result is false when a touch
// event has no contacts.
func (r Raw) Position() (geom.Point, bool) {
	if r.Source == Touch {
		if len(r.Touches) == 0 {
			return geom.Point{}, false
		}
		return r.Touches[0].Pos, true
	}
	return r.Pos, true
}

// FromMouse converts a shiny mouse event.
func FromMouse(e mouse.Event) Raw {
	return At(float64(e.X), float64(e.Y))
}

// TouchSet tracks the contacts that are currently down, in the order they
// started.
type TouchSet struct {
	active []Contact
	order  map[int64]int
	next   int
}

// Apply updates the set with a touch event and returns the resulting Raw
// event. The contact that ends is still reported for TypeEnd so the caller
// can release at its last position.
func (s *TouchSet) Apply(e touch.Event) Raw {
	if s.order == nil {
		s.order = make(map[int64]int)
	}
	id := int64(e.Sequence)
	pos := geom.Pt(float64(e.X), float64(e.Y))
	switch e.Type {
	case touch.TypeBegin:
		s.order[id] = s.next
		s.next++
		s.active = append(s.active, Contact{ID: id, Pos: pos})
	case touch.TypeMove:
		for i := range s.active {
			if s.active[i].ID == id {
				s.active[i].Pos = pos
			}
		}
	case touch.TypeEnd:
		raw := s.Raw()
		s.remove(id)
		return raw
	}
	return s.Raw()
}

func (s *TouchSet) remove(id int64) {
	out := s.active[:0]
	for _, c := range s.active {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.active = out
	delete(s.order, id)
}

// Len returns the number of active contacts.
func (s *TouchSet) Len() int { return len(s.active) }

// Raw returns a touch event carrying the active contacts, earliest first.
func (s *TouchSet) Raw() Raw {
	touches := make([]Contact, len(s.active))
	copy(touches, s.active)
	sort.SliceStable(touches, func(i, j int) bool {
		return s.order[touches[i].ID] < s.order[touches[j].ID]
	})
	return Raw{Source: Touch, Touches: touches}
}
