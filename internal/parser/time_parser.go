package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTime is returned for input none of the formats accept
	ErrInvalidTime = errors.New("invalid time format. Use: now, HH:MM, dd/mm/yyyy HH:MM, yyyy-mm-ddTHH:MM or 30m ago")
	// ErrFutureTime is returned when the parsed time is after now
	ErrFutureTime = errors.New("time can't be in the future")
)

var (
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	dateTimeRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})$`)
	agoRegex      = regexp.MustCompile(`^(?:-\s*)?((?:\d+h)?(?:\d+m)?)(?:\s+ago)?$`)
)

// ParseEventTime parses a timestamp typed by the user for an edit.
// Supported formats:
// - now
// - HH:MM (today, or yesterday when that time hasn't happened yet)
// - dd/mm/yyyy HH:MM (e.g., "10/03/2026 23:40")
// - yyyy-mm-ddTHH:MM or yyyy-mm-dd HH:MM
// - relative: "30m ago", "1h30m ago", "-45m"
func ParseEventTime(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "now" {
		return now, nil
	}

	parsers := []func(string, time.Time) (time.Time, bool, error){
		parseClock,
		parseDateTime,
		parseISO,
		parseAgo,
	}
	for _, p := range parsers {
		t, ok, err := p(input, now)
		if !ok {
			continue
		}
		if err != nil {
			return time.Time{}, err
		}
		if t.After(now) {
			return time.Time{}, ErrFutureTime
		}
		return t, nil
	}
	return time.Time{}, ErrInvalidTime
}

func parseClock(input string, now time.Time) (time.Time, bool, error) {
	matches := clockRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, false, nil
	}
	hour, minute, err := hourMinute(matches[1], matches[2])
	if err != nil {
		return time.Time{}, true, err
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	// A clock time later than now means last night
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t, true, nil
}

func parseDateTime(input string, now time.Time) (time.Time, bool, error) {
	matches := dateTimeRegex.FindStringSubmatch(input)
	if len(matches) != 6 {
		return time.Time{}, false, nil
	}
	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])
	hour, minute, err := hourMinute(matches[4], matches[5])
	if err != nil {
		return time.Time{}, true, err
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
	// Check if date is valid (handles leap years, etc.)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, true, fmt.Errorf("%w: no such date %s", ErrInvalidTime, input)
	}
	return t, true, nil
}

func parseISO(input string, now time.Time) (time.Time, bool, error) {
	for _, layout := range []string{"2006-01-02t15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, nil
}

func parseAgo(input string, now time.Time) (time.Time, bool, error) {
	// Relative input must say which way it points
	if !strings.HasPrefix(input, "-") && !strings.HasSuffix(input, " ago") {
		return time.Time{}, false, nil
	}
	matches := agoRegex.FindStringSubmatch(input)
	if len(matches) != 2 || matches[1] == "" {
		return time.Time{}, false, nil
	}
	d, err := time.ParseDuration(matches[1])
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return now.Add(-d), true, nil
}

func hourMinute(h, m string) (int, int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be between 0 and 23", ErrInvalidTime)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be between 0 and 59", ErrInvalidTime)
	}
	return hour, minute, nil
}
