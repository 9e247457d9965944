package sleep

import (
	"math"
	"time"

	"github.com/balkashynov/slumber/internal/models"
)

// MinEfficiencyWindow is the shortest time in bed for which efficiency is
// reported at all.
const MinEfficiencyWindow = time.Minute

// Efficiency grade thresholds, in percent
const (
	GoodEfficiency = 85
	FairEfficiency = 70
)

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// CycleDuration returns how long a cycle lasted, using now for an open cycle
func CycleDuration(c models.SleepCycle, now time.Time) time.Duration {
	end := now
	if c.WakeTime != nil {
		end = *c.WakeTime
	}
	return nonNegative(end.Sub(c.SleepTime))
}

// TotalSleep sums every cycle of the session. Negative intervals count as zero.
func TotalSleep(s *models.Session, now time.Time) time.Duration {
	var total time.Duration
	for _, c := range s.Cycles {
		total += CycleDuration(c, now)
	}
	return total
}

// TimeInBed is out-of-bed (or now) minus bed time, clamped to zero
func TimeInBed(s *models.Session, now time.Time) time.Duration {
	end := now
	if s.OutOfBedTime != nil {
		end = *s.OutOfBedTime
	}
	return nonNegative(end.Sub(s.BedTime))
}

// Efficiency returns the percentage of time in bed spent asleep. ok is false
// when the session is shorter than MinEfficiencyWindow.
func Efficiency(s *models.Session, now time.Time) (pct int, ok bool) {
	inBed := TimeInBed(s, now)
	if inBed < MinEfficiencyWindow {
		return 0, false
	}
	asleep := TotalSleep(s, now)
	return int(math.Round(float64(asleep) / float64(inBed) * 100)), true
}

// OnsetLatency is the time from bed to the first sleep onset
func OnsetLatency(s *models.Session) (time.Duration, bool) {
	if len(s.Cycles) == 0 {
		return 0, false
	}
	return nonNegative(s.Cycles[0].SleepTime.Sub(s.BedTime)), true
}

// WASO sums the positive gaps between a wake and the next sleep onset
func WASO(s *models.Session) time.Duration {
	if len(s.Cycles) < 2 {
		return 0
	}
	var waso time.Duration
	for i := 0; i < len(s.Cycles)-1; i++ {
		c, next := s.Cycles[i], s.Cycles[i+1]
		if c.WakeTime == nil {
			continue
		}
		if gap := next.SleepTime.Sub(*c.WakeTime); gap > 0 {
			waso += gap
		}
	}
	return waso
}

// AwakeningCount is the number of awakenings between cycles
func AwakeningCount(s *models.Session) int {
	return max(0, len(s.Cycles)-1)
}

// ToiletCount is the number of recorded toilet trips
func ToiletCount(s *models.Session) int {
	return len(s.ToiletTrips)
}

// IsInsomniaNight reports a session in which no sleep was recorded
func IsInsomniaNight(s *models.Session) bool {
	return len(s.Cycles) == 0
}

// LateCircadian flags bed times between 03:00 and noon local time, a marker
// of a delayed sleep phase.
func LateCircadian(s *models.Session) bool {
	h := s.BedTime.Local().Hour()
	return h >= 3 && h < 12
}

// EfficiencyGrade buckets an efficiency percentage into good, fair or poor
func EfficiencyGrade(pct int) string {
	switch {
	case pct >= GoodEfficiency:
		return "good"
	case pct >= FairEfficiency:
		return "fair"
	default:
		return "poor"
	}
}

// Elapsed is what the live tracker clock shows: time asleep in the open
// cycle, otherwise time since the last bed or wake event.
func Elapsed(s *models.Session, now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	last := s.LastCycle()
	switch {
	case last == nil:
		return nonNegative(now.Sub(s.BedTime))
	case last.Open():
		return nonNegative(now.Sub(last.SleepTime))
	default:
		return nonNegative(now.Sub(*last.WakeTime))
	}
}
