// Package sleep holds the session state machine, the derived sleep metrics,
// the timeline projection and the history aggregation.
package sleep

import (
	"github.com/balkashynov/slumber/internal/models"
)

// State is derived from the active session; it is never stored.
type State int

const (
	Idle State = iota
	InBed
	Asleep
	AwakeInBed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InBed:
		return "in bed"
	case Asleep:
		return "asleep"
	case AwakeInBed:
		return "awake in bed"
	default:
		return "unknown"
	}
}

// StateOf derives the tracker state from the active session (nil when idle)
func StateOf(active *models.Session) State {
	if active == nil {
		return Idle
	}
	last := active.LastCycle()
	if last == nil {
		return InBed
	}
	if last.Open() {
		return Asleep
	}
	return AwakeInBed
}
