package sleep

import (
	"math"
	"time"

	"github.com/balkashynov/slumber/internal/models"
)

// SupportedWindows are the stats periods offered by the UI, in days
var SupportedWindows = []int{7, 14, 30}

// Bar is one night of the stats chart. The percentages are relative to the
// longest time in bed shown in the chart; SleepShare is asleep/in-bed for
// that night alone.
type Bar struct {
	Night      time.Time
	InBed      time.Duration
	Asleep     time.Duration
	InBedPct   int
	AsleepPct  int
	SleepShare int
}

// Summary holds the averages over a window of finished sessions. When
// HasData is false none of the averages mean anything and must be shown as
// absent. Efficiency and onset latency have their own flags because they
// are averaged over the sessions that define them.
type Summary struct {
	WindowDays int
	Nights     int
	HasData    bool

	AvgTotalSleep  time.Duration
	AvgTimeInBed   time.Duration
	AvgAwakenings  float64
	AvgToiletTrips float64
	InsomniaNights int

	AvgEfficiency    int
	HasEfficiency    bool
	AvgOnsetLatency  time.Duration
	HasOnsetLatency  bool

	Bars []Bar

	// Sessions in the window, most recent first
	Sessions []*models.Session
}

// InWindow reports whether a session is finished and went to bed within
// [now-windowDays, now]
func InWindow(s *models.Session, windowDays int, now time.Time) bool {
	if !s.Finalized() {
		return false
	}
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	return !s.BedTime.Before(cutoff) && !s.BedTime.After(now)
}

// Aggregate rolls the history (most recent first) up over the last
// windowDays days.
func Aggregate(history []*models.Session, windowDays int, now time.Time) Summary {
	sum := Summary{WindowDays: windowDays}
	for _, s := range history {
		if s != nil && InWindow(s, windowDays, now) {
			sum.Sessions = append(sum.Sessions, s)
		}
	}
	sum.Nights = len(sum.Sessions)
	if sum.Nights == 0 {
		return sum
	}
	sum.HasData = true

	var sleepTotal, bedTotal, onsetTotal float64
	var effTotal, awakenings, toilets, effN, onsetN int
	for _, s := range sum.Sessions {
		sleepTotal += float64(TotalSleep(s, now))
		bedTotal += float64(TimeInBed(s, now))
		awakenings += AwakeningCount(s)
		toilets += ToiletCount(s)
		if IsInsomniaNight(s) {
			sum.InsomniaNights++
		}
		if pct, ok := Efficiency(s, now); ok {
			effTotal += pct
			effN++
		}
		if d, ok := OnsetLatency(s); ok {
			onsetTotal += float64(d)
			onsetN++
		}
	}

	n := float64(sum.Nights)
	sum.AvgTotalSleep = time.Duration(math.Round(sleepTotal / n))
	sum.AvgTimeInBed = time.Duration(math.Round(bedTotal / n))
	sum.AvgAwakenings = float64(awakenings) / n
	sum.AvgToiletTrips = float64(toilets) / n
	if effN > 0 {
		sum.AvgEfficiency = int(math.Round(float64(effTotal) / float64(effN)))
		sum.HasEfficiency = true
	}
	if onsetN > 0 {
		sum.AvgOnsetLatency = time.Duration(math.Round(onsetTotal / float64(onsetN)))
		sum.HasOnsetLatency = true
	}

	sum.Bars = chartBars(sum.Sessions, windowDays, now)
	return sum
}

// chartBars takes up to windowDays of the most recent sessions and returns
// them oldest first.
func chartBars(sessions []*models.Session, windowDays int, now time.Time) []Bar {
	n := min(len(sessions), windowDays)
	bars := make([]Bar, 0, n)
	var maxInBed time.Duration
	for i := n - 1; i >= 0; i-- {
		s := sessions[i]
		b := Bar{Night: s.BedTime, InBed: TimeInBed(s, now), Asleep: TotalSleep(s, now)}
		maxInBed = max(maxInBed, b.InBed)
		bars = append(bars, b)
	}
	denom := float64(max(maxInBed, 1))
	for i := range bars {
		bars[i].InBedPct = int(math.Round(float64(bars[i].InBed) / denom * 100))
		bars[i].AsleepPct = int(math.Round(float64(bars[i].Asleep) / denom * 100))
		if bars[i].InBed > 0 {
			bars[i].SleepShare = int(math.Round(float64(bars[i].Asleep) / float64(bars[i].InBed) * 100))
		}
	}
	return bars
}
