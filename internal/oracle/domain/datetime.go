package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// offsetLayouts match datetime strings carrying an explicit UTC offset or Z.
var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// naiveLayouts match bare local wall-clock strings.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDateTime parses an ISO-8601 datetime string into a zone-aware time.
// Strings carrying an explicit offset keep it; bare wall-clock strings are
// interpreted in loc. A string without a T date/time separator is malformed.
func ParseDateTime(text string, loc *time.Location) (time.Time, error) {
	if !strings.Contains(text, "T") {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	if hasExplicitOffset(text) {
		for _, layout := range offsetLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
}

// hasExplicitOffset reports whether the time portion of text carries a UTC
// offset (trailing Z, or +/- after the T separator).
func hasExplicitOffset(text string) bool {
	if strings.HasSuffix(text, "Z") {
		return true
	}
	sep := strings.Index(text, "T")
	if sep < 0 {
		return false
	}
	clock := text[sep+1:]
	return strings.ContainsAny(clock, "+-")
}

// FormatDateTime renders t in loc as ISO-8601 with an explicit +-HH:MM offset.
// UTC renders as +00:00, never Z.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02T15:04:05-07:00")
}

// DailyWindow builds a window on anchor's calendar day in loc from HH:MM
// wall-clock bounds. A window whose end does not follow its start crosses
// midnight, so the end is advanced one day.
func DailyWindow(anchor time.Time, startHHMM, endHHMM string, loc *time.Location) (Interval, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := anchor.In(loc)

	startHour, startMin, err := parseClock(startHHMM)
	if err != nil {
		return Interval{}, err
	}
	endHour, endMin, err := parseClock(endHHMM)
	if err != nil {
		return Interval{}, err
	}

	year, month, day := local.Date()
	start := time.Date(year, month, day, startHour, startMin, 0, 0, loc)
	end := time.Date(year, month, day, endHour, endMin, 0, 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return Interval{Start: start, End: end}, nil
}

func parseClock(hhmm string) (int, int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: clock time %q", ErrMalformedTimestamp, hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: clock time %q", ErrMalformedTimestamp, hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: clock time %q", ErrMalformedTimestamp, hhmm)
	}
	return hour, minute, nil
}

// WeekdayIndex converts t's weekday to the Monday=0 .. Sunday=6 convention
// used by policy rules.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayIn reports whether t falls on one of the given weekdays
// (Monday=0 .. Sunday=6).
func WeekdayIn(t time.Time, days []int) bool {
	idx := WeekdayIndex(t)
	for _, d := range days {
		if d == idx {
			return true
		}
	}
	return false
}
