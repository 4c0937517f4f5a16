package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

// seoulWorld builds the canonical test world: two participants, participant
// one busy 10:00-11:00 on Monday 2026-01-19, a standard work-hours plus
// lunch-block policy present in both policy representations.
func seoulWorld(t *testing.T) *worldDomain.Definition {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	rules := []domain.Rule{
		domain.WorkHoursRule{Start: "09:00", End: "18:00"},
		domain.LunchBlockRule{Start: "12:00", End: "13:00"},
	}

	return &worldDomain.Definition{
		Timezone: "Asia/Seoul",
		Location: loc,
		Calendars: map[string][]domain.Interval{
			"person_001": {
				{
					Start: time.Date(2026, 1, 19, 10, 0, 0, 0, loc),
					End:   time.Date(2026, 1, 19, 11, 0, 0, 0, loc),
				},
			},
			"person_002": {},
		},
		SimplePolicies: worldDomain.PolicyTable{"policy_standard": rules},
		TaggedPolicies: worldDomain.PolicyTable{"policy_standard": rules},
		People: worldDomain.NewDirectory([]worldDomain.DirectoryEntry{
			{ID: "person_001", Name: "Ada Lovelace"},
			{ID: "person_002", Name: "Grace Hopper"},
		}),
		Rooms: []worldDomain.Room{
			{ID: "room_a", Capacity: 2},
			{ID: "room_b", Capacity: 8},
			{ID: "room_tiny", Capacity: 1},
		},
		RoomCalendars: map[string][]domain.Interval{
			"room_a": {
				{
					Start: time.Date(2026, 1, 19, 9, 0, 0, 0, loc),
					End:   time.Date(2026, 1, 19, 9, 30, 0, 0, loc),
				},
			},
			"room_b": {},
		},
	}
}

// seoulInstance is the matching task: 15-minute meeting somewhere in the
// Monday 09:00-14:00 window.
func seoulInstance(numOptions int) domain.Instance {
	return domain.Instance{
		InstanceID: "inst_001",
		Slots: domain.SlotBlock{
			Participants: []string{"person_001", "person_002"},
			TimeWindow: domain.Window{
				Start: "2026-01-19T09:00:00",
				End:   "2026-01-19T14:00:00",
			},
			DurationMin: 15,
			NumOptions:  numOptions,
			PolicyID:    "policy_standard",
		},
	}
}

func candidateStarts(loc *time.Location, candidates []domain.Candidate) []string {
	starts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		starts = append(starts, c.Start.In(loc).Format("15:04"))
	}
	return starts
}
