package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/slumber/internal/models"
)

func kinds(entries []Entry) []Kind {
	out := make([]Kind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func TestBuildTimeline_OrderAndFields(t *testing.T) {
	s := &models.Session{
		BedTime:      t0,
		OutOfBedTime: ptr(at(8 * time.Hour)),
		Cycles: []models.SleepCycle{
			closed(20*time.Minute, 3*time.Hour),
			closed(3*time.Hour+30*time.Minute, 7*time.Hour+50*time.Minute),
		},
		ToiletTrips: []time.Time{at(3*time.Hour + 10*time.Minute)},
	}

	entries := BuildTimeline(s, HistorySession(0), true)
	assert.Equal(t, []Kind{
		KindBed, KindSleepStart, KindWakeEnd, KindToilet,
		KindSleepStart, KindWakeEnd, KindOutOfBed,
	}, kinds(entries))

	wake := entries[2]
	assert.Equal(t, 0, wake.Cycle)
	assert.Equal(t, 2*time.Hour+40*time.Minute, wake.Slept)
	require.NotNil(t, wake.Edit)
	assert.Equal(t, EditCommand{Session: HistorySession(0), Field: WakeTime, Cycle: 0}, *wake.Edit)

	toilet := entries[3]
	assert.Nil(t, toilet.Edit)
	require.NotNil(t, toilet.Delete)
	assert.Equal(t, DeleteToiletCommand{Session: HistorySession(0), Trip: 0}, *toilet.Delete)

	assert.Equal(t, "Fell asleep (est.)", entries[1].Label())
	assert.Equal(t, "Fell asleep again (est.)", entries[4].Label())
	require.NotNil(t, entries[6].Edit)
	assert.Equal(t, OutOfBedTime, entries[6].Edit.Field)
}

func TestBuildTimeline_BedStaysFirst(t *testing.T) {
	s := &models.Session{
		// bed time edited to after the first sleep
		BedTime:     at(2 * time.Hour),
		Cycles:      []models.SleepCycle{{SleepTime: at(time.Hour)}},
		ToiletTrips: []time.Time{at(30 * time.Minute)},
	}
	entries := BuildTimeline(s, ActiveSession, true)
	assert.Equal(t, []Kind{KindBed, KindToilet, KindSleepStart}, kinds(entries))
}

func TestBuildTimeline_OpenCycleHasNoWake(t *testing.T) {
	s := &models.Session{BedTime: t0, Cycles: []models.SleepCycle{{SleepTime: at(time.Hour)}}}
	assert.Equal(t, []Kind{KindBed, KindSleepStart}, kinds(BuildTimeline(s, ActiveSession, true)))
}

func TestBuildTimeline_ReadOnly(t *testing.T) {
	s := &models.Session{BedTime: t0, ToiletTrips: []time.Time{at(time.Hour)}}
	for _, e := range BuildTimeline(s, ActiveSession, false) {
		assert.Nil(t, e.Edit)
		assert.Nil(t, e.Delete)
	}
	assert.Nil(t, BuildTimeline(nil, ActiveSession, true))
}

func TestBuildTimeline_CommandsDriveTracker(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	mustApply(t)(tr.StartBed())
	clock.Advance(time.Hour)
	mustApply(t)(tr.RecordToilet())

	entries := BuildTimeline(tr.Active(), ActiveSession, true)
	require.Len(t, entries, 2)
	mustApply(t)(tr.DeleteToiletTrip(*entries[1].Delete))
	mustApply(t)(tr.EditTimestamp(*entries[0].Edit, at(-15*time.Minute)))

	active := tr.Active()
	assert.Empty(t, active.ToiletTrips)
	assert.True(t, active.BedTime.Equal(at(-15*time.Minute)))
}
