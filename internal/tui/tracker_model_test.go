package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

func TestTrackerModel_BedStartsClock(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)

	m, cmd := m.Update(keyRunes("b"))
	assert.NotNil(t, cmd)
	assert.Equal(t, sleep.InBed, tr.State())
	assert.True(t, m.clock.Running())
	assert.Equal(t, 1, saver.saves)
	assert.False(t, m.noticeErr)
}

func TestTrackerModel_DeclinedActionShowsState(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)

	m, cmd := m.Update(keyRunes("z"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to do while idle", m.notice)
	assert.False(t, m.clock.Running())
	assert.Equal(t, 0, saver.saves)
}

func TestTrackerModel_OutWithoutSleepNeedsConfirmation(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(2 * time.Hour)

	m, _ = m.Update(keyRunes("o"))
	assert.True(t, m.confirmOut)
	assert.Equal(t, sleep.InBed, tr.State())

	m, _ = m.Update(keyRunes("n"))
	assert.False(t, m.confirmOut)
	assert.Equal(t, sleep.InBed, tr.State())

	m, _ = m.Update(keyRunes("o"))
	m, _ = m.Update(keyRunes("y"))
	assert.False(t, m.confirmOut)
	assert.Equal(t, sleep.Idle, tr.State())
	assert.False(t, m.clock.Running())
	require.Len(t, tr.History(), 1)
	assert.Empty(t, tr.History()[0].Cycles)
}

func TestTrackerModel_OutAfterSleepSkipsConfirmation(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(20 * time.Minute)
	m, _ = m.Update(keyRunes("z"))
	clock.Advance(7 * time.Hour)

	m, _ = m.Update(keyRunes("o"))
	assert.False(t, m.confirmOut)
	assert.Equal(t, sleep.Idle, tr.State())
	assert.NotNil(t, m.lastNight())
}

func TestTrackerModel_FixPlaceholderOnset(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(3 * time.Hour)

	m, _ = m.Update(keyRunes("w"))
	require.NotNil(t, m.hint)
	assert.Equal(t, sleep.SleepTime, m.hint.Edit.Field)

	m, _ = m.Update(keyRunes("e"))
	require.True(t, m.fixing)
	assert.Equal(t, parser.FormatClock(t0), m.input.Value())

	m.input.SetValue("2h ago")
	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.False(t, m.fixing)
	assert.Nil(t, m.hint)

	active := tr.Active()
	require.NotNil(t, active)
	require.Len(t, active.Cycles, 1)
	assert.True(t, active.Cycles[0].SleepTime.Equal(t0.Add(time.Hour)))
}

func TestTrackerModel_FixRejectsBadInput(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(time.Hour)
	m, _ = m.Update(keyRunes("w"))
	m, _ = m.Update(keyRunes("e"))

	m.input.SetValue("yesterday-ish")
	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.True(t, m.fixing)
	assert.True(t, m.noticeErr)
	assert.NotNil(t, m.hint)

	m, _ = m.Update(keyType(tea.KeyEsc))
	assert.False(t, m.fixing)
	assert.True(t, tr.Active().Cycles[0].SleepTime.Equal(t0))
}

func TestTrackerModel_StaleTickIsDropped(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	gen := m.clock.gen

	clock.Advance(time.Minute)
	m, cmd := m.Update(elapsedTickMsg{gen: gen, at: clock.now})
	assert.NotNil(t, cmd)
	assert.Equal(t, clock.now, m.now)

	m = m.leave()
	clock.Advance(time.Minute)
	m, cmd = m.Update(elapsedTickMsg{gen: gen, at: clock.now})
	assert.Nil(t, cmd)
	assert.NotEqual(t, clock.now, m.now)
}

func TestTrackerModel_NavigationLeavesClock(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))

	m, cmd := m.Update(keyRunes("h"))
	assert.Equal(t, ScreenHistory, screenOf(t, cmd))
	assert.False(t, m.clock.Running())

	m, _ = m.enter()
	assert.True(t, m.clock.Running())
	_, cmd = m.Update(keyRunes("s"))
	assert.Equal(t, ScreenStats, screenOf(t, cmd))
}

func TestTrackerModel_TimelineDeleteAndEdit(t *testing.T) {
	tr, saver, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(30 * time.Minute)
	m, _ = m.Update(keyRunes("z"))
	clock.Advance(30 * time.Minute)
	m, _ = m.Update(keyRunes("t"))
	clock.Advance(2 * time.Hour)
	saves := saver.saves

	m, _ = m.Update(keyType(tea.KeyTab))
	require.True(t, m.browsing)
	assert.Contains(t, m.View(), "x delete trip")

	// cursor starts on the toilet trip
	m, _ = m.Update(keyRunes("x"))
	m, _ = m.Update(keyRunes("y"))
	assert.Empty(t, tr.Active().ToiletTrips)
	assert.Equal(t, saves+1, saver.saves)

	m, _ = m.Update(keyRunes("k"))
	m, _ = m.Update(keyType(tea.KeyEnter))
	require.NotNil(t, m.timeline.editing)
	assert.Equal(t, sleep.BedTime, m.timeline.editing.Field)
	assert.Equal(t, parser.FormatClock(t0), m.timeline.input.Value())

	m.timeline.input.SetValue("3h10m ago")
	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.True(t, tr.Active().BedTime.Equal(t0.Add(-10*time.Minute)))
	assert.Equal(t, sleep.Asleep, tr.State())

	// letters go to the timeline while it is open
	m, _ = m.Update(keyRunes("o"))
	assert.Equal(t, sleep.Asleep, tr.State())

	m, _ = m.Update(keyType(tea.KeyEsc))
	assert.False(t, m.browsing)
	assert.Equal(t, sleep.Asleep, tr.State())
}

func TestTrackerModel_TimelineEditClearsMatchingHint(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)
	m, _ = m.Update(keyRunes("b"))
	clock.Advance(3 * time.Hour)
	m, _ = m.Update(keyRunes("w"))
	require.NotNil(t, m.hint)

	m, _ = m.Update(keyType(tea.KeyTab))
	m, _ = m.Update(keyRunes("k"))
	entry, ok := m.timeline.selected()
	require.True(t, ok)
	require.Equal(t, sleep.KindSleepStart, entry.Kind)

	m, _ = m.Update(keyRunes("e"))
	m.timeline.input.SetValue("2h ago")
	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.Nil(t, m.hint)
	assert.True(t, tr.Active().Cycles[0].SleepTime.Equal(t0.Add(time.Hour)))
}

func TestTrackerModel_TimelineNeedsActiveSession(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, t0)
	m := NewTrackerModel(tr, time.Second)

	m, _ = m.Update(keyType(tea.KeyTab))
	assert.False(t, m.browsing)
}
