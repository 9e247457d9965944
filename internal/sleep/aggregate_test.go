package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/slumber/internal/models"
)

// night builds a finished session that went to bed daysAgo days before now
func night(now time.Time, daysAgo int, inBed time.Duration, cycles ...models.SleepCycle) *models.Session {
	bed := now.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	out := bed.Add(inBed)
	s := &models.Session{BedTime: bed, OutOfBedTime: &out, Cycles: []models.SleepCycle{}, ToiletTrips: []time.Time{}}
	for _, c := range cycles {
		c.SleepTime = bed.Add(c.SleepTime.Sub(t0))
		if c.WakeTime != nil {
			w := bed.Add(c.WakeTime.Sub(t0))
			c.WakeTime = &w
		}
		s.Cycles = append(s.Cycles, c)
	}
	return s
}

func TestAggregate_EmptyWindowHasNoData(t *testing.T) {
	now := at(100 * time.Hour)
	old := night(now, 10, 8*time.Hour, closed(0, time.Hour))
	active := &models.Session{BedTime: now.Add(-time.Hour)}

	sum := Aggregate([]*models.Session{active, old}, 7, now)
	assert.False(t, sum.HasData)
	assert.False(t, sum.HasEfficiency)
	assert.False(t, sum.HasOnsetLatency)
	assert.Equal(t, 0, sum.Nights)
	assert.Empty(t, sum.Bars)
}

func TestAggregate_Averages(t *testing.T) {
	now := at(100 * time.Hour)
	a := night(now, 1, 8*time.Hour, closed(30*time.Minute, 7*time.Hour+30*time.Minute))
	a.ToiletTrips = []time.Time{a.BedTime.Add(3 * time.Hour), a.BedTime.Add(5 * time.Hour)}
	b := night(now, 2, 6*time.Hour,
		closed(10*time.Minute, 2*time.Hour),
		closed(2*time.Hour+20*time.Minute, 5*time.Hour+30*time.Minute))
	insomnia := night(now, 3, 4*time.Hour)
	tooOld := night(now, 8, 8*time.Hour, closed(0, 8*time.Hour))

	sum := Aggregate([]*models.Session{a, b, insomnia, tooOld}, 7, now)
	require.True(t, sum.HasData)
	assert.Equal(t, 3, sum.Nights)
	assert.Equal(t, 1, sum.InsomniaNights)

	// (7h + 5h) / 3
	assert.Equal(t, 4*time.Hour, sum.AvgTotalSleep)
	assert.Equal(t, 6*time.Hour, sum.AvgTimeInBed)

	// 88% and 83%, the insomnia night counts as 0%
	require.True(t, sum.HasEfficiency)
	assert.Equal(t, 57, sum.AvgEfficiency)

	// onset only over nights with cycles: (30m + 10m) / 2
	require.True(t, sum.HasOnsetLatency)
	assert.Equal(t, 20*time.Minute, sum.AvgOnsetLatency)

	assert.InDelta(t, 1.0/3, sum.AvgAwakenings, 1e-9)
	assert.InDelta(t, 2.0/3, sum.AvgToiletTrips, 1e-9)
}

func TestAggregate_InsomniaNightCounted(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	mustApply(t)(tr.StartBed())
	clock.Advance(5 * time.Hour)
	mustApply(t)(tr.LeaveBed(true))

	sum := Aggregate(tr.History(), 7, clock.Now())
	assert.Equal(t, 1, sum.InsomniaNights)
	assert.False(t, sum.HasOnsetLatency)
}

func TestAggregate_BarsOldestFirstAndBounded(t *testing.T) {
	now := at(500 * time.Hour)
	var history []*models.Session
	for d := 1; d <= 9; d++ {
		history = append(history, night(now, d, time.Duration(d)*time.Hour, closed(0, time.Duration(d)*30*time.Minute)))
	}

	sum := Aggregate(history, 7, now)
	// only 7 of the 9 nights fall in the window
	require.Len(t, sum.Bars, 7)
	assert.True(t, sum.Bars[0].Night.Before(sum.Bars[6].Night))
	assert.Equal(t, 7*time.Hour, sum.Bars[0].InBed)
	assert.Equal(t, 100, sum.Bars[0].InBedPct)
	assert.Equal(t, 50, sum.Bars[0].AsleepPct)
	assert.Equal(t, 50, sum.Bars[0].SleepShare)
	assert.Equal(t, 14, sum.Bars[6].InBedPct)
}

func TestAggregate_ZeroTimeInBedBars(t *testing.T) {
	now := at(50 * time.Hour)
	s := night(now, 1, 0)
	sum := Aggregate([]*models.Session{s}, 7, now)
	require.Len(t, sum.Bars, 1)
	assert.Equal(t, 0, sum.Bars[0].InBedPct)
	assert.Equal(t, 0, sum.Bars[0].SleepShare)
}
