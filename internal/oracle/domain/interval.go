// Package domain contains the pure scheduling-oracle model: the interval and
// time kernel, constraint rules, candidates, and oracle results. Everything in
// this package is deterministic and side-effect free.
package domain

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals overlap. Touching
// endpoints (end == start) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsAny reports whether the interval [start, end) overlaps any of the
// given intervals.
func OverlapsAny(start, end time.Time, intervals []Interval) bool {
	for _, iv := range intervals {
		if Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}

// FreeWindows computes the maximal busy-free sub-ranges of window. Busy
// intervals are clipped to the window; intervals fully outside are ignored.
// The result is ordered by start and its windows never overlap.
func FreeWindows(busy []Interval, window Interval) []Interval {
	if len(busy) == 0 {
		return []Interval{window}
	}

	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Interval
	cursor := window.Start

	for _, b := range sorted {
		if !b.End.After(window.Start) {
			continue
		}
		if !b.Start.Before(window.End) {
			break
		}

		clippedStart := maxTime(b.Start, window.Start)
		clippedEnd := minTime(b.End, window.End)

		if cursor.Before(clippedStart) {
			free = append(free, Interval{Start: cursor, End: clippedStart})
		}
		cursor = maxTime(cursor, clippedEnd)
	}

	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}

	return free
}

// ExpandAll returns copies of the given intervals widened by margin on both
// sides.
func ExpandAll(intervals []Interval, margin time.Duration) []Interval {
	expanded := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		expanded = append(expanded, Interval{
			Start: iv.Start.Add(-margin),
			End:   iv.End.Add(margin),
		})
	}
	return expanded
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
