package sleep

import (
	"fmt"
	"strings"
	"time"
)

// SessionRef points at the active session or at a history entry by index
// (0 is the most recent).
type SessionRef struct {
	history bool
	index   int
}

// ActiveSession refers to the in-progress session
var ActiveSession = SessionRef{}

// HistorySession refers to the i-th finished session, most recent first
func HistorySession(i int) SessionRef {
	return SessionRef{history: true, index: i}
}

// IsActive reports whether the ref points at the active session
func (r SessionRef) IsActive() bool {
	return !r.history
}

// Index returns the history index, or -1 for the active session
func (r SessionRef) Index() int {
	if !r.history {
		return -1
	}
	return r.index
}

func (r SessionRef) String() string {
	if !r.history {
		return "active"
	}
	return fmt.Sprintf("history#%d", r.index+1)
}

// Field names a correctable timestamp of a session
type Field int

const (
	BedTime Field = iota
	SleepTime
	WakeTime
	OutOfBedTime
)

func (f Field) String() string {
	switch f {
	case BedTime:
		return "bed"
	case SleepTime:
		return "sleep"
	case WakeTime:
		return "wake"
	case OutOfBedTime:
		return "out"
	default:
		return "unknown"
	}
}

// ParseField accepts the names printed by Field.String plus a few aliases
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bed", "bedtime", "in":
		return BedTime, nil
	case "sleep", "asleep", "onset":
		return SleepTime, nil
	case "wake", "woke", "awake":
		return WakeTime, nil
	case "out", "outofbed", "up":
		return OutOfBedTime, nil
	default:
		return 0, fmt.Errorf("unknown field %q (use bed, sleep, wake or out)", s)
	}
}

// EditCommand targets one timestamp field. Cycle is only used by SleepTime
// and WakeTime.
type EditCommand struct {
	Session SessionRef
	Field   Field
	Cycle   int
}

// DeleteToiletCommand targets one toilet trip
type DeleteToiletCommand struct {
	Session SessionRef
	Trip    int
}

// CurrentValue returns the value an edit would overwrite, for prefilling
// input. ok is false when the target does not exist.
func (t *Tracker) CurrentValue(cmd EditCommand) (time.Time, bool) {
	s := t.resolve(cmd.Session)
	if s == nil {
		return time.Time{}, false
	}
	switch cmd.Field {
	case BedTime:
		return s.BedTime, true
	case SleepTime:
		if cmd.Cycle < 0 || cmd.Cycle >= len(s.Cycles) {
			return time.Time{}, false
		}
		return s.Cycles[cmd.Cycle].SleepTime, true
	case WakeTime:
		if cmd.Cycle < 0 || cmd.Cycle >= len(s.Cycles) || s.Cycles[cmd.Cycle].WakeTime == nil {
			return time.Time{}, false
		}
		return *s.Cycles[cmd.Cycle].WakeTime, true
	case OutOfBedTime:
		if s.OutOfBedTime == nil {
			return time.Time{}, false
		}
		return *s.OutOfBedTime, true
	}
	return time.Time{}, false
}

// EditTimestamp overwrites one timestamp in place and saves. Timestamps in
// the future and targets that do not exist are declined.
//
// No reordering or cross-field check is done: a wake time before its sleep
// time is stored as given and the metrics clamp the negative interval.
func (t *Tracker) EditTimestamp(cmd EditCommand, at time.Time) (Outcome, error) {
	if at.After(t.Now()) {
		return t.declined("edit"), nil
	}
	if _, ok := t.CurrentValue(cmd); !ok {
		return t.declined("edit"), nil
	}
	s := t.resolve(cmd.Session)
	at = at.Round(0)
	switch cmd.Field {
	case BedTime:
		s.BedTime = at
	case SleepTime:
		s.Cycles[cmd.Cycle].SleepTime = at
	case WakeTime:
		s.Cycles[cmd.Cycle].WakeTime = &at
	case OutOfBedTime:
		s.OutOfBedTime = &at
	}
	return t.commit("edit "+cmd.Field.String(), nil)
}
