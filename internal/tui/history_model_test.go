package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryModel_DeleteNeedsConfirmation(t *testing.T) {
	tr, saver, _ := newTestTracker(t, twoNights(), t0)
	m := NewHistoryModel(tr)

	m, _ = m.Update(keyRunes("d"))
	assert.Equal(t, FocusConfirmDelete, m.focus)
	m, _ = m.Update(keyRunes("n"))
	assert.Equal(t, FocusTable, m.focus)
	assert.Len(t, tr.History(), 2)

	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("d"))
	m, _ = m.Update(keyRunes("y"))
	assert.Equal(t, FocusTable, m.focus)
	require.Len(t, tr.History(), 1)
	assert.Equal(t, "s_2", tr.History()[0].ID)
	assert.Equal(t, 1, saver.saves)
	assert.Len(t, m.rows, 1)
	assert.Equal(t, 0, m.selected)
}

func TestHistoryModel_SearchFiltersByNotes(t *testing.T) {
	tr, _, _ := newTestTracker(t, twoNights(), t0)
	m := NewHistoryModel(tr)

	m, _ = m.Update(keyRunes("/"))
	assert.Equal(t, FocusSearch, m.focus)
	m, _ = m.Update(keyRunes("late"))
	m, _ = m.Update(keyType(tea.KeySpace))
	m, _ = m.Update(keyRunes("DIN"))
	assert.Equal(t, "late DIN", m.searchQuery)
	require.Len(t, m.rows, 1)
	assert.Equal(t, 1, m.selectedIndex())

	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.Equal(t, FocusTable, m.focus)
	assert.Len(t, m.rows, 1)

	m, _ = m.Update(keyType(tea.KeyEsc))
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.rows, 2)
}

func TestHistoryModel_EditNotes(t *testing.T) {
	tr, saver, _ := newTestTracker(t, twoNights(), t0)
	m := NewHistoryModel(tr)

	m, _ = m.Update(keyRunes("n"))
	require.Equal(t, FocusNotes, m.focus)
	assert.Equal(t, "coffee after lunch", m.notes.Value())

	m.notes.area.SetValue("  slept with earplugs ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, FocusTable, m.focus)
	assert.Equal(t, "slept with earplugs", tr.History()[0].Notes)
	assert.Equal(t, 1, saver.saves)
}

func TestHistoryModel_CancelNotesKeepsOldText(t *testing.T) {
	tr, saver, _ := newTestTracker(t, twoNights(), t0)
	m := NewHistoryModel(tr)

	m, _ = m.Update(keyRunes("n"))
	m.notes.area.SetValue("discard me")
	m, _ = m.Update(keyType(tea.KeyEsc))
	assert.Equal(t, FocusTable, m.focus)
	assert.Equal(t, "coffee after lunch", tr.History()[0].Notes)
	assert.Equal(t, 0, saver.saves)
}

func TestHistoryModel_Navigation(t *testing.T) {
	tr, _, _ := newTestTracker(t, twoNights(), t0)
	m := NewHistoryModel(tr)

	m, _ = m.Update(keyRunes("k"))
	assert.Equal(t, 0, m.selected)
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("j"))
	assert.Equal(t, 1, m.selected)

	_, cmd := m.Update(keyType(tea.KeyEsc))
	assert.Equal(t, ScreenTracker, screenOf(t, cmd))
	_, cmd = m.Update(keyRunes("s"))
	assert.Equal(t, ScreenStats, screenOf(t, cmd))
}

func TestHistoryModel_EmptyHistoryIgnoresActions(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, t0)
	m := NewHistoryModel(tr)

	assert.Equal(t, -1, m.selectedIndex())
	m, _ = m.Update(keyRunes("d"))
	assert.Equal(t, FocusTable, m.focus)
	m, _ = m.Update(keyRunes("n"))
	assert.Equal(t, FocusTable, m.focus)
}

func TestHistoryModel_TimelineCorrections(t *testing.T) {
	tr, saver, _ := newTestTracker(t, nightWithTrip(), t0)
	m := NewHistoryModel(tr)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	m, _ = m.Update(keyType(tea.KeyEnter))
	require.Equal(t, FocusTimeline, m.focus)
	assert.Contains(t, m.View(), "x delete trip")

	m, _ = m.Update(keyRunes("k"))
	m, _ = m.Update(keyRunes("k"))
	m, _ = m.Update(keyRunes("x"))
	m, _ = m.Update(keyRunes("y"))
	assert.Empty(t, tr.History()[0].ToiletTrips)
	assert.Empty(t, m.sessions[0].ToiletTrips)

	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(keyRunes("e"))
	m.timeline.input.SetValue("16h ago")
	m, _ = m.Update(keyType(tea.KeyEnter))
	assert.True(t, tr.History()[0].OutOfBedTime.Equal(t0.Add(-16*time.Hour)))
	assert.True(t, m.sessions[0].OutOfBedTime.Equal(t0.Add(-16*time.Hour)))
	assert.Equal(t, 2, saver.saves)

	m, _ = m.Update(keyType(tea.KeyEsc))
	assert.Equal(t, FocusTable, m.focus)
	assert.Len(t, tr.History(), 2)
}
