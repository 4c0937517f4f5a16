// Package application wires the oracle domain kernel into the per-tier
// pipelines: slot resolution, constraint application, the room join, and
// batch execution.
package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

// Tier is the difficulty level controlling constraint sourcing and joins.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// tier3NumOptions is fixed: the room-join semantics are only specified for
// exactly three ranked options.
const tier3NumOptions = 3

// ResolveRequirement extracts and validates the normalized requirement from
// an instance. Tiers 2 and 3 refuse instances without a policy id; tier 3
// forces the option count regardless of the instance-provided value.
func ResolveRequirement(tier Tier, world *worldDomain.Definition, instance domain.Instance) (domain.Requirement, error) {
	slots := instance.Slots

	switch tier {
	case Tier1:
		// Copied as-is.
	case Tier2, Tier3:
		if slots.PolicyID == "" {
			return domain.Requirement{}, fmt.Errorf("%w: instance %s", domain.ErrMissingPolicyID, instance.InstanceID)
		}
	default:
		return domain.Requirement{}, fmt.Errorf("%w: %d", domain.ErrUnknownTier, tier)
	}

	windowStart, err := domain.ParseDateTime(slots.TimeWindow.Start, world.Location)
	if err != nil {
		return domain.Requirement{}, fmt.Errorf("instance %s time_window.start: %w", instance.InstanceID, err)
	}
	windowEnd, err := domain.ParseDateTime(slots.TimeWindow.End, world.Location)
	if err != nil {
		return domain.Requirement{}, fmt.Errorf("instance %s time_window.end: %w", instance.InstanceID, err)
	}

	numOptions := slots.NumOptions
	if tier == Tier3 {
		numOptions = tier3NumOptions
	}

	req := domain.Requirement{
		Participants: slots.Participants,
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		Duration:     time.Duration(slots.DurationMin) * time.Minute,
		NumOptions:   numOptions,
		PolicyID:     slots.PolicyID,
	}
	if err := req.Validate(); err != nil {
		return domain.Requirement{}, fmt.Errorf("instance %s: %w", instance.InstanceID, err)
	}
	return req, nil
}
