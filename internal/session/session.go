// Package session implements the click gate and stroke quota that decide
// when drawing is allowed. Every transition is a pure function of State.
package session

import (
	"fmt"
	"math"
)

// SessionSize is the number of strokes a drawing session allows.
const SessionSize = 5

// BaseClicks is the click requirement of the first round.
const BaseClicks = 10

// Phase is the gate state.
type Phase int

const (
	// Locked waits for clicks.
	Locked Phase = iota
	// Unlocked accepts strokes.
	Unlocked
)

func (p Phase) String() string {
	switch p {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is the whole session controller. Values are compared and copied
// freely.
type State struct {
	Phase            Phase
	Round            int
	ClicksInPhase    uint64
	StrokesInSession int
}

// Initial returns the start state: locked in round one.
func Initial() State {
	return State{Phase: Locked, Round: 1}
}

// RequiredClicks returns 10·2^(round−1). Rounds below one are treated as
// one and the result saturates at math.MaxUint64.
func RequiredClicks(round int) uint64 {
	if round < 1 {
		round = 1
	}
	shift := round - 1
	if shift >= 64 || uint64(BaseClicks) > uint64(math.MaxUint64)>>uint(shift) {
		return math.MaxUint64
	}
	return BaseClicks << uint(shift)
}

// Required returns the click requirement of the current round.
func (s State) Required() uint64 { return RequiredClicks(s.Round) }

// Remaining returns how many strokes the session still allows.
func (s State) Remaining() int {
	if s.StrokesInSession >= SessionSize {
		return 0
	}
	return SessionSize - s.StrokesInSession
}

// Click counts one click while locked and unlocks once the requirement is
// met. Clicks while unlocked leave the state unchanged.
func (s State) Click() State {
	if s.Phase != Locked {
		return s
	}
	s.ClicksInPhase++
	if s.ClicksInPhase >= s.Required() {
		s.Phase = Unlocked
		s.StrokesInSession = 0
	}
	return s
}

// CanBeginStroke reports whether a new stroke may start.
func (s State) CanBeginStroke() bool {
	return s.Phase == Unlocked && s.StrokesInSession < SessionSize
}

// CommitStroke counts a committed stroke. ok is false when the quota was
// already spent; complete is true when this commit used the last slot.
func (s State) CommitStroke() (next State, ok, complete bool) {
	if !s.CanBeginStroke() {
		return s, false, false
	}
	s.StrokesInSession++
	return s, true, s.StrokesInSession == SessionSize
}

// EndSession moves to the next round's click gate.
func (s State) EndSession() State {
	s.Phase = Locked
	s.Round++
	s.ClicksInPhase = 0
	return s
}

// UndoStroke gives back one stroke of the running session. It reports false
// when the session has no stroke of its own left to undo.
func (s State) UndoStroke() (State, bool) {
	if s.Phase != Unlocked || s.StrokesInSession <= 0 {
		return s, false
	}
	s.StrokesInSession--
	return s, true
}

// ClearStrokes resets the session's stroke count. Phase and round stay.
func (s State) ClearStrokes() State {
	s.StrokesInSession = 0
	return s
}

func (s State) String() string {
	if s.Phase == Locked {
		return fmt.Sprintf("round %d %s %d/%d clicks", s.Round, s.Phase, s.ClicksInPhase, s.Required())
	}
	return fmt.Sprintf("round %d %s %d/%d strokes", s.Round, s.Phase, s.StrokesInSession, SessionSize)
}
