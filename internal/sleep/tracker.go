package sleep

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/balkashynov/slumber/internal/models"
)

// Saver persists the whole app state after a mutation
type Saver interface {
	Save(state *models.AppState) error
}

// Outcome describes what an action did. Applied is false when the action
// was declined because its preconditions did not hold.
type Outcome struct {
	Applied bool
	State   State
	Hint    *Hint
}

// Hint points the user at a placeholder timestamp that should be corrected
type Hint struct {
	Message string
	Edit    EditCommand
}

// Tracker owns the app state. All mutations go through its action methods;
// reads return copies.
type Tracker struct {
	state *models.AppState
	saver Saver
	now   func() time.Time
	newID func() string
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces time.Now as the source of "now"
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithIDGenerator replaces the session id generator
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		t.newID = fn
	}
}

// NewTracker wraps a loaded state. A nil state starts empty.
func NewTracker(state *models.AppState, saver Saver, opts ...Option) *Tracker {
	if state == nil {
		state = models.NewAppState()
	}
	t := &Tracker{
		state: state,
		saver: saver,
		now:   time.Now,
		newID: func() string { return "s_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker's current time without a monotonic reading
func (t *Tracker) Now() time.Time {
	return t.now().Round(0)
}

// State derives the current state from the active session
func (t *Tracker) State() State {
	return StateOf(t.state.CurrentSession)
}

// Active returns a copy of the active session, or nil when idle
func (t *Tracker) Active() *models.Session {
	return t.state.CurrentSession.Clone()
}

// History returns copies of the finished sessions, most recent first
func (t *Tracker) History() []*models.Session {
	return t.Snapshot().Sessions
}

// Session returns a copy of the referenced session
func (t *Tracker) Session(ref SessionRef) (*models.Session, bool) {
	s := t.resolve(ref)
	if s == nil {
		return nil, false
	}
	return s.Clone(), true
}

// Snapshot returns a deep copy of the whole state, e.g. for export
func (t *Tracker) Snapshot() *models.AppState {
	return t.state.Clone()
}

func (t *Tracker) resolve(ref SessionRef) *models.Session {
	if ref.IsActive() {
		return t.state.CurrentSession
	}
	if ref.index < 0 || ref.index >= len(t.state.Sessions) {
		return nil
	}
	return t.state.Sessions[ref.index]
}

func (t *Tracker) declined(action string) Outcome {
	log.Debug().Str("action", action).Str("state", t.State().String()).Msg("action declined")
	return Outcome{State: t.State()}
}

// commit saves the state after a mutation. A failed save keeps the
// in-memory change and reports the error.
func (t *Tracker) commit(action string, hint *Hint) (Outcome, error) {
	out := Outcome{Applied: true, State: t.State(), Hint: hint}
	log.Info().Str("action", action).Str("state", out.State.String()).Msg("action applied")
	if t.saver == nil {
		return out, nil
	}
	if err := t.saver.Save(t.state); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to save state")
		return out, fmt.Errorf("failed to save: %w", err)
	}
	return out, nil
}

// StartBed opens a new session. Declined while a session is active.
func (t *Tracker) StartBed() (Outcome, error) {
	if t.state.CurrentSession != nil {
		return t.declined("bed"), nil
	}
	t.state.CurrentSession = &models.Session{
		ID:          t.newID(),
		BedTime:     t.Now(),
		Cycles:      []models.SleepCycle{},
		ToiletTrips: []time.Time{},
	}
	return t.commit("bed", nil)
}

// FallAsleep opens a new sleep cycle from InBed or AwakeInBed
func (t *Tracker) FallAsleep() (Outcome, error) {
	st := t.State()
	if st != InBed && st != AwakeInBed {
		return t.declined("sleep"), nil
	}
	s := t.state.CurrentSession
	s.Cycles = append(s.Cycles, models.SleepCycle{SleepTime: t.Now()})
	return t.commit("sleep", nil)
}

// WakeUp closes the open cycle. From InBed or AwakeInBed, where no sleep
// onset was recorded, it back-fills a cycle starting at the bed time or the
// previous wake time and returns a hint to correct that placeholder.
func (t *Tracker) WakeUp() (Outcome, error) {
	s := t.state.CurrentSession
	now := t.Now()
	switch t.State() {
	case Asleep:
		s.LastCycle().WakeTime = &now
		return t.commit("wake", nil)
	case InBed:
		s.Cycles = append(s.Cycles, models.SleepCycle{SleepTime: s.BedTime, WakeTime: &now})
		return t.commit("wake", t.placeholderHint(len(s.Cycles)-1,
			"sleep onset was set to your bed time; correct it with the time you actually fell asleep"))
	case AwakeInBed:
		prev := *s.LastCycle().WakeTime
		s.Cycles = append(s.Cycles, models.SleepCycle{SleepTime: prev, WakeTime: &now})
		return t.commit("wake", t.placeholderHint(len(s.Cycles)-1,
			"sleep onset was set to your last wake time; correct it with the time you fell back asleep"))
	default:
		return t.declined("wake"), nil
	}
}

func (t *Tracker) placeholderHint(cycle int, msg string) *Hint {
	return &Hint{
		Message: msg,
		Edit:    EditCommand{Session: ActiveSession, Field: SleepTime, Cycle: cycle},
	}
}

// RecordToilet appends a toilet trip to the active session
func (t *Tracker) RecordToilet() (Outcome, error) {
	s := t.state.CurrentSession
	if s == nil {
		return t.declined("toilet"), nil
	}
	s.ToiletTrips = append(s.ToiletTrips, t.Now())
	return t.commit("toilet", nil)
}

// LeaveBed finalizes the active session and moves it to the front of the
// history. A session without any sleep is only finalized when
// confirmNoSleep is set.
func (t *Tracker) LeaveBed(confirmNoSleep bool) (Outcome, error) {
	s := t.state.CurrentSession
	if s == nil {
		return t.declined("out"), nil
	}
	if len(s.Cycles) == 0 && !confirmNoSleep {
		return t.declined("out"), nil
	}
	now := t.Now()
	if last := s.LastCycle(); last != nil && last.Open() {
		last.WakeTime = &now
	}
	s.OutOfBedTime = &now
	t.state.Sessions = append([]*models.Session{s}, t.state.Sessions...)
	t.state.CurrentSession = nil
	return t.commit("out", nil)
}

// NeedsNoSleepConfirmation reports whether LeaveBed would need the
// "left without sleeping" confirmation right now
func (t *Tracker) NeedsNoSleepConfirmation() bool {
	return t.State() == InBed
}

// DeleteToiletTrip removes one toilet trip from the referenced session
func (t *Tracker) DeleteToiletTrip(cmd DeleteToiletCommand) (Outcome, error) {
	s := t.resolve(cmd.Session)
	if s == nil || cmd.Trip < 0 || cmd.Trip >= len(s.ToiletTrips) {
		return t.declined("untoilet"), nil
	}
	s.ToiletTrips = append(s.ToiletTrips[:cmd.Trip], s.ToiletTrips[cmd.Trip+1:]...)
	return t.commit("untoilet", nil)
}

// SetNotes replaces the notes of the referenced session
func (t *Tracker) SetNotes(ref SessionRef, notes string) (Outcome, error) {
	s := t.resolve(ref)
	if s == nil {
		return t.declined("note"), nil
	}
	s.Notes = notes
	return t.commit("note", nil)
}

// DeleteSession removes a finished session from the history. Declined
// unless confirmed.
func (t *Tracker) DeleteSession(index int, confirmed bool) (Outcome, error) {
	if !confirmed || index < 0 || index >= len(t.state.Sessions) {
		return t.declined("rm"), nil
	}
	t.state.Sessions = append(t.state.Sessions[:index], t.state.Sessions[index+1:]...)
	return t.commit("rm", nil)
}

// Replace swaps the whole state, e.g. after importing an export file.
// Declined unless confirmed.
func (t *Tracker) Replace(state *models.AppState, confirmed bool) (Outcome, error) {
	if !confirmed || state == nil {
		return t.declined("import"), nil
	}
	t.state = state.Clone()
	return t.commit("import", nil)
}
