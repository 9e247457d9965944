package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/parser"
	"github.com/balkashynov/slumber/internal/sleep"
)

// nightWithTrip is the most recent night of twoNights with one toilet trip
// two hours after bed
func nightWithTrip() *models.AppState {
	state := twoNights()
	state.Sessions[0].ToiletTrips = []time.Time{state.Sessions[0].BedTime.Add(2 * time.Hour)}
	return state
}

func TestTimelineEditor_OpensOnLastEntry(t *testing.T) {
	tr, _, _ := newTestTracker(t, nightWithTrip(), t0)
	e := newTimelineEditor(tr).Open(sleep.HistorySession(0))

	require.Len(t, e.entries, 5)
	entry, ok := e.selected()
	require.True(t, ok)
	assert.Equal(t, sleep.KindOutOfBed, entry.Kind)
	for _, en := range e.entries {
		assert.True(t, en.Edit != nil || en.Delete != nil, en.Kind.String())
	}
}

func TestTimelineEditor_DeleteTripNeedsConfirmation(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nightWithTrip(), t0)
	e := newTimelineEditor(tr).Open(sleep.HistorySession(0))

	e, _, _ = e.Update(keyRunes("k"))
	e, _, _ = e.Update(keyRunes("k"))
	entry, _ := e.selected()
	require.Equal(t, sleep.KindToilet, entry.Kind)

	e, _, res := e.Update(keyRunes("x"))
	assert.True(t, e.confirmDelete)
	assert.Equal(t, timelineBrowsing, res)
	assert.Contains(t, e.View(), "Delete toilet trip #1?")

	e, _, _ = e.Update(keyRunes("n"))
	assert.False(t, e.confirmDelete)
	assert.Len(t, tr.History()[0].ToiletTrips, 1)

	e, _, _ = e.Update(keyRunes("x"))
	e, _, res = e.Update(keyRunes("y"))
	assert.Equal(t, timelineChanged, res)
	assert.Empty(t, tr.History()[0].ToiletTrips)
	assert.Equal(t, 1, saver.saves)
	assert.Len(t, e.entries, 4)
	assert.Equal(t, 2, e.cursor)
}

func TestTimelineEditor_DeleteIgnoredOnNonToiletEntry(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nightWithTrip(), t0)
	e := newTimelineEditor(tr).Open(sleep.HistorySession(0))

	e, _, _ = e.Update(keyRunes("x"))
	assert.False(t, e.confirmDelete)
	assert.Equal(t, 0, saver.saves)
}

func TestTimelineEditor_EditOutOfBed(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nightWithTrip(), t0)
	e := newTimelineEditor(tr).Open(sleep.HistorySession(0))
	original := *tr.History()[0].OutOfBedTime

	e, cmd, _ := e.Update(keyType(tea.KeyEnter))
	assert.NotNil(t, cmd)
	require.NotNil(t, e.editing)
	assert.Equal(t, sleep.OutOfBedTime, e.editing.Field)
	assert.Equal(t, parser.FormatClock(original), e.input.Value())

	e.input.SetValue("16h ago")
	e, _, res := e.Update(keyType(tea.KeyEnter))
	assert.Equal(t, timelineChanged, res)
	assert.Nil(t, e.editing)
	require.NotNil(t, e.applied)
	assert.Equal(t, sleep.OutOfBedTime, e.applied.Field)
	assert.True(t, tr.History()[0].OutOfBedTime.Equal(t0.Add(-16*time.Hour)))
	assert.Equal(t, 1, saver.saves)
	assert.False(t, e.noticeErr)
}

func TestTimelineEditor_EditRejectsBadInput(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nightWithTrip(), t0)
	e := newTimelineEditor(tr).Open(sleep.HistorySession(0))

	e, _, _ = e.Update(keyRunes("e"))
	e.input.SetValue("after breakfast")
	e, _, res := e.Update(keyType(tea.KeyEnter))
	assert.Equal(t, timelineBrowsing, res)
	assert.NotNil(t, e.editing)
	assert.True(t, e.noticeErr)

	e, _, _ = e.Update(keyType(tea.KeyEsc))
	assert.Nil(t, e.editing)
	assert.Equal(t, 0, saver.saves)

	_, _, res = e.Update(keyType(tea.KeyEsc))
	assert.Equal(t, timelineClosed, res)
}
