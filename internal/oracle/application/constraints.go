package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

// ApplyConstraints runs the ordered filter pipeline over candidates: the
// policy rules for the requirement's policy, then the tier's evidence
// constraints. Each filter only removes candidates.
func ApplyConstraints(
	tier Tier,
	world *worldDomain.Definition,
	req domain.Requirement,
	candidates []domain.Candidate,
	instance domain.Instance,
) ([]domain.Candidate, error) {
	section := worldDomain.SectionPolicySimple
	if tier == Tier2 || tier == Tier3 {
		section = worldDomain.SectionPolicyTagged
	}

	rules, err := world.PolicyRules(section, req.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", instance.InstanceID, err)
	}

	filtered := candidates
	for _, rule := range rules {
		filtered, err = applyPolicyRule(world, req, rule, filtered)
		if err != nil {
			return nil, fmt.Errorf("instance %s: %w", instance.InstanceID, err)
		}
	}

	switch tier {
	case Tier1:
		return filtered, nil
	case Tier2:
		bundle, err := tier2Evidence(instance)
		if err != nil {
			return nil, err
		}
		return applyEvidence(world, bundle, filtered)
	case Tier3:
		if instance.Sources == nil {
			return filtered, nil
		}
		for _, thread := range instance.Sources.CommThreads {
			if thread.ThreadTags == nil {
				continue
			}
			filtered, err = applyEvidence(world, &thread.ThreadTags.EvidenceBundle, filtered)
			if err != nil {
				return nil, fmt.Errorf("thread %s: %w", thread.ThreadID, err)
			}
		}
		return filtered, nil
	default:
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownTier, tier)
	}
}

// tier2Evidence enforces the strict tier-2 sourcing path: the single comm_tags
// bundle must exist, even when empty.
func tier2Evidence(instance domain.Instance) (*domain.EvidenceBundle, error) {
	if instance.Sources == nil || instance.Sources.CommTags == nil {
		return nil, fmt.Errorf("%w: instance %s has no comm_tags", domain.ErrMissingEvidence, instance.InstanceID)
	}
	return instance.Sources.CommTags, nil
}

func applyPolicyRule(
	world *worldDomain.Definition,
	req domain.Requirement,
	rule domain.Rule,
	candidates []domain.Candidate,
) ([]domain.Candidate, error) {
	switch r := rule.(type) {
	case domain.WorkHoursRule:
		return filterWorkHours(candidates, r, world.Location)
	case domain.LunchBlockRule:
		return filterLunchBlock(candidates, r, world.Location)
	case domain.BufferMinutesRule:
		return filterBufferMinutes(candidates, r, world, req.Participants), nil
	case domain.BanWeekdayWindowRule:
		return filterBanWeekdayWindow(candidates, r, world.Location)
	case domain.DeadlineRule:
		return filterDeadline(candidates, r.At), nil
	case domain.BanWindowsRule:
		return filterBanWindows(candidates, r.Windows), nil
	case domain.RequiredWindowsRule:
		return filterRequiredWindows(candidates, r.Windows), nil
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnknownRuleType, rule)
	}
}

// filterWorkHours keeps only candidates fully contained in the rule's daily
// window on the candidate's own day. A weekday-scoped rule drops candidates
// on other weekdays outright.
func filterWorkHours(candidates []domain.Candidate, rule domain.WorkHoursRule, loc *time.Location) ([]domain.Candidate, error) {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if rule.Weekdays != nil && !domain.WeekdayIn(c.Start.In(loc), rule.Weekdays) {
			continue
		}
		window, err := domain.DailyWindow(c.Start, rule.Start, rule.End, loc)
		if err != nil {
			return nil, err
		}
		if !c.Start.Before(window.Start) && !c.End.After(window.End) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// filterLunchBlock drops candidates overlapping the daily lunch window. A
// weekday-scoped rule keeps candidates on other weekdays unconditionally.
func filterLunchBlock(candidates []domain.Candidate, rule domain.LunchBlockRule, loc *time.Location) ([]domain.Candidate, error) {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if rule.Weekdays != nil && !domain.WeekdayIn(c.Start.In(loc), rule.Weekdays) {
			kept = append(kept, c)
			continue
		}
		window, err := domain.DailyWindow(c.Start, rule.Start, rule.End, loc)
		if err != nil {
			return nil, err
		}
		if domain.Overlaps(c.Start, c.End, window.Start, window.End) {
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// filterBufferMinutes expands every busy interval of every participant by the
// buffer on both sides and drops candidates overlapping any expanded
// interval. Spacing is enforced against any commitment, not only
// back-to-back ones.
func filterBufferMinutes(
	candidates []domain.Candidate,
	rule domain.BufferMinutesRule,
	world *worldDomain.Definition,
	participants []string,
) []domain.Candidate {
	margin := time.Duration(rule.Minutes) * time.Minute
	expanded := domain.ExpandAll(world.BusyIntervals(participants), margin)

	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !domain.OverlapsAny(c.Start, c.End, expanded) {
			kept = append(kept, c)
		}
	}
	return kept
}

// filterBanWeekdayWindow drops candidates on the rule's weekday that overlap
// the rule's daily window; other weekdays are untouched.
func filterBanWeekdayWindow(candidates []domain.Candidate, rule domain.BanWeekdayWindowRule, loc *time.Location) ([]domain.Candidate, error) {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if domain.WeekdayIndex(c.Start.In(loc)) == rule.Weekday {
			window, err := domain.DailyWindow(c.Start, rule.Start, rule.End, loc)
			if err != nil {
				return nil, err
			}
			if domain.Overlaps(c.Start, c.End, window.Start, window.End) {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// applyEvidence folds one evidence bundle's constraints over the candidates
// in deadline, ban-windows, required-windows order.
func applyEvidence(world *worldDomain.Definition, bundle *domain.EvidenceBundle, candidates []domain.Candidate) ([]domain.Candidate, error) {
	filtered := candidates

	if bundle.Deadline != "" {
		deadline, err := domain.ParseDateTime(bundle.Deadline, world.Location)
		if err != nil {
			return nil, fmt.Errorf("deadline: %w", err)
		}
		filtered = filterDeadline(filtered, deadline)
	}

	if bundle.BanWindows != nil {
		windows, err := parseWindows(bundle.BanWindows, world.Location)
		if err != nil {
			return nil, fmt.Errorf("ban_windows: %w", err)
		}
		filtered = filterBanWindows(filtered, windows)
	}

	if bundle.RequiredWindows != nil {
		windows, err := parseWindows(bundle.RequiredWindows, world.Location)
		if err != nil {
			return nil, fmt.Errorf("required_windows: %w", err)
		}
		filtered = filterRequiredWindows(filtered, windows)
	}

	return filtered, nil
}

// filterDeadline keeps candidates starting at or before the deadline.
func filterDeadline(candidates []domain.Candidate, deadline time.Time) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Start.After(deadline) {
			kept = append(kept, c)
		}
	}
	return kept
}

// filterBanWindows drops candidates overlapping any ban window (OR of
// exclusions).
func filterBanWindows(candidates []domain.Candidate, windows []domain.Interval) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !domain.OverlapsAny(c.Start, c.End, windows) {
			kept = append(kept, c)
		}
	}
	return kept
}

// filterRequiredWindows keeps candidates fully contained in at least one
// required window (OR of inclusions, deliberately not an intersection).
func filterRequiredWindows(candidates []domain.Candidate, windows []domain.Interval) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		for _, w := range windows {
			if !c.Start.Before(w.Start) && !c.End.After(w.End) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

func parseWindows(raw []domain.Window, loc *time.Location) ([]domain.Interval, error) {
	windows := make([]domain.Interval, 0, len(raw))
	for _, w := range raw {
		start, err := domain.ParseDateTime(w.Start, loc)
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseDateTime(w.End, loc)
		if err != nil {
			return nil, err
		}
		windows = append(windows, domain.Interval{Start: start, End: end})
	}
	return windows, nil
}
