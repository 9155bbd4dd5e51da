package session

// Event is one input to Reduce.
type Event int

const (
	// Clicked is a click on the locked preview.
	Clicked Event = iota
	// Committed is a finished stroke.
	Committed
	// Undone is an undo request.
	Undone
	// Cleared is a clear-all request.
	Cleared
	// Expired is the end of the post-session delay.
	Expired
)

func (e Event) String() string {
	switch e {
	case Clicked:
		return "clicked"
	case Committed:
		return "committed"
	case Undone:
		return "undone"
	case Cleared:
		return "cleared"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Effect tells the caller what happened beyond the new state.
type Effect struct {
	// Accepted is false when the event was ignored.
	Accepted bool
	// Unlocked is set when this event opened a drawing session.
	Unlocked bool
	// Complete is set when the session quota was just used up and the
	// delayed lock should be scheduled.
	Complete bool
	// Advanced is set when the round moved on.
	Advanced bool
}

// Reduce applies e to s.
func Reduce(s State, e Event) (State, Effect) {
	switch e {
	case Clicked:
		if s.Phase != Locked {
			return s, Effect{}
		}
		next := s.Click()
		return next, Effect{Accepted: true, Unlocked: next.Phase == Unlocked}
	case Committed:
		next, ok, complete := s.CommitStroke()
		return next, Effect{Accepted: ok, Complete: complete}
	case Undone:
		next, ok := s.UndoStroke()
		return next, Effect{Accepted: ok}
	case Cleared:
		return s.ClearStrokes(), Effect{Accepted: true}
	case Expired:
		return s.EndSession(), Effect{Accepted: true, Advanced: true}
	}
	return s, Effect{}
}
