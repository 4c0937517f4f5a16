package domain

import (
	"sort"
	"time"
)

// DefaultGrid is the candidate enumeration grid.
const DefaultGrid = 15 * time.Minute

// Candidate is a duration-sized meeting option. RoomID is empty until a room
// join pairs the time range with a room.
type Candidate struct {
	Start  time.Time
	End    time.Time
	RoomID string
}

// EnumerateCandidates emits every grid-aligned candidate of the given duration
// inside the free windows, constrained to the overall window. Overlapping
// candidates are intentional: the contract is density, not deduplication.
func EnumerateCandidates(
	free []Interval,
	duration time.Duration,
	window Interval,
	loc *time.Location,
	grid time.Duration,
) []Candidate {
	if grid <= 0 {
		grid = DefaultGrid
	}
	if loc == nil {
		loc = time.UTC
	}

	var candidates []Candidate
	windowStartAligned := roundDownToGrid(window.Start, grid, loc)

	for _, fw := range free {
		cursor := roundUpToGrid(maxTime(fw.Start, windowStartAligned), grid, loc)

		for cursor.Before(fw.End) {
			end := cursor.Add(duration)
			if !end.After(fw.End) && !cursor.Before(window.Start) && !end.After(window.End) {
				candidates = append(candidates, Candidate{Start: cursor, End: end})
			}
			cursor = cursor.Add(grid)
		}
	}

	return candidates
}

func roundDownToGrid(t time.Time, grid time.Duration, loc *time.Location) time.Time {
	local := t.In(loc)
	gridMin := int(grid / time.Minute)
	year, month, day := local.Date()
	minute := (local.Minute() / gridMin) * gridMin
	return time.Date(year, month, day, local.Hour(), minute, 0, 0, loc)
}

func roundUpToGrid(t time.Time, grid time.Duration, loc *time.Location) time.Time {
	local := t.In(loc)
	gridMin := int(grid / time.Minute)
	if local.Minute()%gridMin == 0 && local.Second() == 0 && local.Nanosecond() == 0 {
		return local
	}
	year, month, day := local.Date()
	truncated := time.Date(year, month, day, local.Hour(), local.Minute(), 0, 0, loc)
	return truncated.Add(time.Duration(gridMin-local.Minute()%gridMin) * time.Minute)
}

// SortCandidates orders candidates by (start, end, formatted start) ascending.
// The text key is a no-op tie-break under normal enumeration but guarantees a
// total order if exact duplicates ever occur.
func SortCandidates(candidates []Candidate, loc *time.Location) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return FormatDateTime(a.Start, loc) < FormatDateTime(b.Start, loc)
	})
}

// SelectTopN sorts candidates deterministically and returns the first n.
func SelectTopN(candidates []Candidate, n int, loc *time.Location) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	SortCandidates(sorted, loc)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
