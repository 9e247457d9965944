package sleep

import (
	"sort"
	"time"

	"github.com/balkashynov/slumber/internal/models"
)

// Kind tags a timeline entry
type Kind int

const (
	KindBed Kind = iota
	KindSleepStart
	KindWakeEnd
	KindToilet
	KindOutOfBed
)

func (k Kind) String() string {
	switch k {
	case KindBed:
		return "bed"
	case KindSleepStart:
		return "sleep"
	case KindWakeEnd:
		return "wake"
	case KindToilet:
		return "toilet"
	case KindOutOfBed:
		return "out"
	default:
		return "unknown"
	}
}

// Entry is one row of a session timeline. Cycle is set for sleep and wake
// entries, Trip for toilet entries (-1 otherwise). Edit and Delete are only
// set when the timeline was built as editable.
type Entry struct {
	Kind   Kind
	At     time.Time
	Cycle  int
	Trip   int
	Slept  time.Duration
	Edit   *EditCommand
	Delete *DeleteToiletCommand
}

// Label is the human readable event name
func (e Entry) Label() string {
	switch e.Kind {
	case KindBed:
		return "Got into bed"
	case KindSleepStart:
		if e.Cycle == 0 {
			return "Fell asleep (est.)"
		}
		return "Fell asleep again (est.)"
	case KindWakeEnd:
		return "Woke up"
	case KindToilet:
		return "Toilet"
	case KindOutOfBed:
		return "Got out of bed"
	default:
		return ""
	}
}

// BuildTimeline projects a session into chronological entries. The bed entry
// always comes first; the rest are sorted by time.
func BuildTimeline(s *models.Session, ref SessionRef, editable bool) []Entry {
	if s == nil {
		return nil
	}
	edit := func(f Field, cycle int) *EditCommand {
		if !editable {
			return nil
		}
		return &EditCommand{Session: ref, Field: f, Cycle: cycle}
	}

	bed := Entry{Kind: KindBed, At: s.BedTime, Cycle: -1, Trip: -1, Edit: edit(BedTime, 0)}

	var rest []Entry
	for i, c := range s.Cycles {
		rest = append(rest, Entry{Kind: KindSleepStart, At: c.SleepTime, Cycle: i, Trip: -1, Edit: edit(SleepTime, i)})
		if c.WakeTime != nil {
			rest = append(rest, Entry{
				Kind:  KindWakeEnd,
				At:    *c.WakeTime,
				Cycle: i,
				Trip:  -1,
				Slept: nonNegative(c.WakeTime.Sub(c.SleepTime)),
				Edit:  edit(WakeTime, i),
			})
		}
	}
	for i, trip := range s.ToiletTrips {
		e := Entry{Kind: KindToilet, At: trip, Cycle: -1, Trip: i}
		if editable {
			e.Delete = &DeleteToiletCommand{Session: ref, Trip: i}
		}
		rest = append(rest, e)
	}
	if s.OutOfBedTime != nil {
		rest = append(rest, Entry{Kind: KindOutOfBed, At: *s.OutOfBedTime, Cycle: -1, Trip: -1, Edit: edit(OutOfBedTime, 0)})
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].At.Before(rest[j].At)
	})
	return append([]Entry{bed}, rest...)
}
