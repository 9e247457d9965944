package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/slumber/internal/models"
	"github.com/balkashynov/slumber/internal/sleep"
)

var t0 = time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

type memSaver struct {
	saves int
}

func (s *memSaver) Save(*models.AppState) error {
	s.saves++
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker(t *testing.T, state *models.AppState, now time.Time) (*sleep.Tracker, *memSaver, *testClock) {
	t.Helper()
	saver := &memSaver{}
	clock := &testClock{now: now}
	return sleep.NewTracker(state, saver, sleep.WithClock(clock.Now)), saver, clock
}

// night builds a finished session that slept from bed+15m for the given hours
func night(id string, bed time.Time, hours float64, notes string) *models.Session {
	sleepAt := bed.Add(15 * time.Minute)
	wake := sleepAt.Add(time.Duration(hours * float64(time.Hour)))
	out := wake.Add(10 * time.Minute)
	return &models.Session{
		ID:           id,
		BedTime:      bed,
		OutOfBedTime: &out,
		Cycles:       []models.SleepCycle{{SleepTime: sleepAt, WakeTime: &wake}},
		ToiletTrips:  []time.Time{},
		Notes:        notes,
	}
}

func twoNights() *models.AppState {
	return &models.AppState{
		Sessions: []*models.Session{
			night("s_2", t0.Add(-24*time.Hour), 7, "coffee after lunch"),
			night("s_1", t0.Add(-48*time.Hour), 6, "late dinner"),
		},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// screenOf runs a navigation command and returns its target
func screenOf(t *testing.T, cmd tea.Cmd) Screen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(switchScreenMsg)
	require.True(t, ok, "expected a screen switch")
	return msg.screen
}

func TestApp_SwitchingScreensStopsTrackerClock(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, t0)
	_, err := tr.StartBed()
	require.NoError(t, err)

	app := NewAppModel(Options{Tracker: tr, StatsDays: 14}, ScreenTracker)
	model, _ := app.Update(switchScreenMsg{screen: ScreenTracker})
	app = model.(AppModel)
	assert.True(t, app.tracker.clock.Running())

	model, _ = app.Update(switchScreenMsg{screen: ScreenStats})
	app = model.(AppModel)
	assert.Equal(t, ScreenStats, app.Screen())
	assert.False(t, app.tracker.clock.Running())
	assert.Equal(t, 14, app.stats.Days())

	model, cmd := app.Update(switchScreenMsg{screen: ScreenTracker})
	app = model.(AppModel)
	assert.Equal(t, ScreenTracker, app.Screen())
	assert.True(t, app.tracker.clock.Running())
	assert.NotNil(t, cmd)
}

func TestApp_StartAnalysisOpensAnalysisScreen(t *testing.T) {
	tr, _, _ := newTestTracker(t, twoNights(), t0)
	fake := &fakeAnalyzer{}
	app := NewAppModel(Options{Tracker: tr, Analyzer: fake}, ScreenStats)

	model, cmd := app.Update(startAnalysisMsg{summary: app.stats.summary})
	app = model.(AppModel)
	assert.Equal(t, ScreenAnalysis, app.Screen())
	assert.Equal(t, analysisLoading, app.analysis.state)
	assert.NotNil(t, cmd)
}

func TestApp_HistoryReloadsOnSwitch(t *testing.T) {
	tr, _, _ := newTestTracker(t, twoNights(), t0)
	app := NewAppModel(Options{Tracker: tr}, ScreenTracker)
	require.Len(t, app.history.rows, 2)

	_, err := tr.DeleteSession(0, true)
	require.NoError(t, err)

	model, _ := app.Update(switchScreenMsg{screen: ScreenHistory})
	app = model.(AppModel)
	assert.Len(t, app.history.rows, 1)
}

func TestApp_ViewFollowsScreen(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil, t0)
	app := NewAppModel(Options{Tracker: tr}, ScreenTracker)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(AppModel)

	assert.Contains(t, app.View(), "IDLE")

	model, _ = app.Update(switchScreenMsg{screen: ScreenStats})
	app = model.(AppModel)
	assert.Contains(t, app.View(), "No finished nights")
}
