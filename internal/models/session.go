package models

import (
	"time"
)

// SleepCycle is one continuous sleep interval inside a session.
// A nil WakeTime means the sleeper is still asleep.
type SleepCycle struct {
	SleepTime time.Time  `json:"sleepTime"`
	WakeTime  *time.Time `json:"wakeTime"`
}

// Open reports whether the cycle has no wake time yet
func (c SleepCycle) Open() bool {
	return c.WakeTime == nil
}

// Session represents one night, from getting into bed to getting up
type Session struct {
	ID           string       `json:"id"`
	BedTime      time.Time    `json:"bedTime"`
	OutOfBedTime *time.Time   `json:"outOfBedTime"`
	Cycles       []SleepCycle `json:"cycles"`
	ToiletTrips  []time.Time  `json:"toiletTrips"`
	Notes        string       `json:"notes"`
}

// LastCycle returns the most recent cycle, or nil when none was recorded
func (s *Session) LastCycle() *SleepCycle {
	if len(s.Cycles) == 0 {
		return nil
	}
	return &s.Cycles[len(s.Cycles)-1]
}

// Finalized reports whether the session has an out-of-bed time
func (s *Session) Finalized() bool {
	return s.OutOfBedTime != nil
}

// Clone returns a deep copy so callers can't mutate tracker-owned data
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.OutOfBedTime != nil {
		out := *s.OutOfBedTime
		c.OutOfBedTime = &out
	}
	c.Cycles = make([]SleepCycle, len(s.Cycles))
	for i, cycle := range s.Cycles {
		c.Cycles[i] = cycle
		if cycle.WakeTime != nil {
			wake := *cycle.WakeTime
			c.Cycles[i].WakeTime = &wake
		}
	}
	c.ToiletTrips = append([]time.Time{}, s.ToiletTrips...)
	return &c
}

// AppState is everything slumber persists: the active session and the
// finished ones, most recent first.
type AppState struct {
	CurrentSession *Session   `json:"currentSession"`
	Sessions       []*Session `json:"sessions"`
}

// NewAppState returns the empty default state
func NewAppState() *AppState {
	return &AppState{Sessions: []*Session{}}
}

// Clone returns a deep copy of the state
func (a *AppState) Clone() *AppState {
	c := &AppState{
		CurrentSession: a.CurrentSession.Clone(),
		Sessions:       make([]*Session, len(a.Sessions)),
	}
	for i, s := range a.Sessions {
		c.Sessions[i] = s.Clone()
	}
	return c
}
