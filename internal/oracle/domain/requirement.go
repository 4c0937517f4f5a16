package domain

import (
	"fmt"
	"time"
)

// Requirement is the normalized output of slot resolution: what the meeting
// needs, with the time window already parsed into zone-aware bounds.
type Requirement struct {
	Participants []string
	WindowStart  time.Time
	WindowEnd    time.Time
	Duration     time.Duration
	NumOptions   int
	PolicyID     string
}

// Validate enforces the requirement invariants.
func (r Requirement) Validate() error {
	if r.Duration <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDuration, r.Duration)
	}
	if r.NumOptions < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidOptionCount, r.NumOptions)
	}
	return nil
}
