package parser

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as hours and minutes, e.g. "7h 30m".
// Negative durations render as "0m".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	total := int(d / time.Minute)
	hours, minutes := total/60, total%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// FormatElapsed renders a running clock as H:MM:SS
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// FormatClock renders the local wall-clock time of t
func FormatClock(t time.Time) string {
	return t.Local().Format("15:04")
}

// FormatDate renders the local date of t, e.g. "Tue 10/03"
func FormatDate(t time.Time) string {
	return t.Local().Format("Mon 02/01")
}

// FormatPercent renders an optional percentage, "—" when undefined
func FormatPercent(pct int, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%d%%", pct)
}

// FormatOptionalDuration renders an optional duration, "—" when undefined
func FormatOptionalDuration(d time.Duration, ok bool) string {
	if !ok {
		return "—"
	}
	return FormatDuration(d)
}
