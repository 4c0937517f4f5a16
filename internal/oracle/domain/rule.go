package domain

import "time"

// Rule tag strings as they appear in policy documents.
const (
	RuleTypeWorkHours        = "work_hours"
	RuleTypeLunchBlock       = "lunch_block"
	RuleTypeBufferMinutes    = "buffer_min"
	RuleTypeBanWeekdayWindow = "ban_dow_time"
)

// Rule is a closed sum over the constraint rule kinds. The sealed marker
// keeps dispatch exhaustive inside the constraint engine; only truly
// unrecognized external tags surface as ErrUnknownRuleType at decode time.
type Rule interface {
	isRule()
}

// WorkHoursRule keeps only candidates fully contained in the daily window on
// the candidate's own day. When Weekdays is set the rule is weekday-scoped:
// candidates on other weekdays are dropped outright.
type WorkHoursRule struct {
	Start    string
	End      string
	Weekdays []int
}

// LunchBlockRule drops candidates overlapping the daily window on their day.
// When Weekdays is set the rule does not apply on other weekdays.
type LunchBlockRule struct {
	Start    string
	End      string
	Weekdays []int
}

// BufferMinutesRule enforces minimum spacing from every participant
// commitment, not only adjacent ones.
type BufferMinutesRule struct {
	Minutes int
}

// BanWeekdayWindowRule drops candidates on the given weekday that overlap the
// daily window.
type BanWeekdayWindowRule struct {
	Weekday int
	Start   string
	End     string
}

// DeadlineRule keeps candidates starting at or before the deadline.
type DeadlineRule struct {
	At time.Time
}

// BanWindowsRule drops candidates overlapping any of the windows.
type BanWindowsRule struct {
	Windows []Interval
}

// RequiredWindowsRule keeps candidates fully contained in at least one of the
// windows.
type RequiredWindowsRule struct {
	Windows []Interval
}

func (WorkHoursRule) isRule()        {}
func (LunchBlockRule) isRule()       {}
func (BufferMinutesRule) isRule()    {}
func (BanWeekdayWindowRule) isRule() {}
func (DeadlineRule) isRule()         {}
func (BanWindowsRule) isRule()       {}
func (RequiredWindowsRule) isRule()  {}
