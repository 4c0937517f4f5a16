package persistence_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oracleDomain "github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
	"github.com/felixgeelhaar/slotwise/internal/world/infrastructure/persistence"
)

const worldJSON = `{
  "timezone": "Asia/Seoul",
  "sources": {
    "calendar_json": {
      "person_001": [
        {"start": "2026-01-19T10:00:00", "end": "2026-01-19T11:00:00"}
      ],
      "person_002": []
    },
    "policy_json": {
      "policy_standard": {
        "rules": [
          {"type": "work_hours", "start": "09:00", "end": "18:00", "days_of_week": [0,1,2,3,4]},
          {"type": "lunch_block", "start": "12:00", "end": "13:00"},
          {"type": "buffer_min", "minutes": 15},
          {"type": "ban_dow_time", "day_of_week": 4, "start": "14:00", "end": "18:00"}
        ]
      }
    },
    "policy_tags": {
      "policy_standard": {
        "rules": [
          {"type": "work_hours", "start": "09:00", "end": "18:00"}
        ]
      }
    },
    "people_table": {
      "primary_key": "person_id",
      "columns": ["person_id", "person_name"],
      "rows": [
        {"person_id": "person_001", "person_name": "Ada Lovelace"},
        {"person_id": "person_002", "person_name": "Grace Hopper"}
      ]
    },
    "rooms_table": {
      "primary_key": "room_id",
      "columns": ["room_id", "capacity"],
      "rows": [
        {"room_id": "room_a", "capacity": 4},
        {"room_id": "room_b", "capacity": "12"}
      ]
    },
    "room_availability_json": {
      "room_a": [
        {"start": "2026-01-19T09:00:00", "end": "2026-01-19T09:30:00"}
      ]
    }
  }
}`

func TestDecodeWorld_NormalizesEverything(t *testing.T) {
	world, err := persistence.DecodeWorld([]byte(worldJSON))
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", world.Timezone)
	require.NotNil(t, world.Location)

	busy := world.Calendars["person_001"]
	require.Len(t, busy, 1)
	assert.Equal(t, time.Date(2026, 1, 19, 10, 0, 0, 0, world.Location), busy[0].Start)

	rules, err := world.PolicyRules(worldDomain.SectionPolicySimple, "policy_standard")
	require.NoError(t, err)
	require.Len(t, rules, 4)
	work, ok := rules[0].(oracleDomain.WorkHoursRule)
	require.True(t, ok)
	assert.Equal(t, "09:00", work.Start)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, work.Weekdays)
	_, ok = rules[1].(oracleDomain.LunchBlockRule)
	assert.True(t, ok)
	buffer, ok := rules[2].(oracleDomain.BufferMinutesRule)
	require.True(t, ok)
	assert.Equal(t, 15, buffer.Minutes)
	ban, ok := rules[3].(oracleDomain.BanWeekdayWindowRule)
	require.True(t, ok)
	assert.Equal(t, 4, ban.Weekday)

	tagged, err := world.PolicyRules(worldDomain.SectionPolicyTagged, "policy_standard")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	require.NotNil(t, world.People)
	id, err := world.People.ResolveID("Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, "person_002", id)

	require.Len(t, world.Rooms, 2)
	assert.Equal(t, worldDomain.Room{ID: "room_a", Capacity: 4}, world.Rooms[0])
	assert.Equal(t, 12, world.Rooms[1].Capacity, "string capacities are converted")

	assert.Len(t, world.RoomCalendars["room_a"], 1)
}

func TestDecodeWorld_FlatDirectoryShapes(t *testing.T) {
	doc := `{
	  "timezone": "UTC",
	  "sources": {
	    "calendar_json": {},
	    "people_table": [
	      {"person_id": "person_009", "person_name": "Alan Turing"}
	    ],
	    "rooms_table": [
	      {"room_id": "room_z", "capacity": 6}
	    ]
	  }
	}`

	world, err := persistence.DecodeWorld([]byte(doc))
	require.NoError(t, err)

	id, err := world.People.ResolveID("Alan Turing")
	require.NoError(t, err)
	assert.Equal(t, "person_009", id)
	require.Len(t, world.Rooms, 1)
	assert.Equal(t, 6, world.Rooms[0].Capacity)
}

func TestDecodeWorld_UnknownRuleTypeIsFatal(t *testing.T) {
	doc := `{
	  "timezone": "UTC",
	  "sources": {
	    "calendar_json": {},
	    "policy_json": {
	      "policy_x": {"rules": [{"type": "mystery_rule"}]}
	    }
	  }
	}`

	_, err := persistence.DecodeWorld([]byte(doc))

	assert.ErrorIs(t, err, oracleDomain.ErrUnknownRuleType)
}

func TestDecodeWorld_MissingCapacityIsFatal(t *testing.T) {
	doc := `{
	  "timezone": "UTC",
	  "sources": {
	    "calendar_json": {},
	    "rooms_table": [{"room_id": "room_x"}]
	  }
	}`

	_, err := persistence.DecodeWorld([]byte(doc))

	assert.ErrorIs(t, err, oracleDomain.ErrMissingCapacity)
}

func TestDecodeWorld_MalformedCalendarTimestampIsFatal(t *testing.T) {
	doc := `{
	  "timezone": "UTC",
	  "sources": {
	    "calendar_json": {
	      "person_001": [{"start": "noonish", "end": "2026-01-19T11:00:00"}]
	    }
	  }
	}`

	_, err := persistence.DecodeWorld([]byte(doc))

	assert.ErrorIs(t, err, oracleDomain.ErrMalformedTimestamp)
}

func TestDecodeWorld_MissingCalendarsIsFatal(t *testing.T) {
	doc := `{
	  "timezone": "Asia/Seoul",
	  "sources": {
	    "policy_json": {
	      "policy_standard": {"rules": [{"type": "work_hours", "start": "09:00", "end": "18:00"}]}
	    }
	  }
	}`

	_, err := persistence.DecodeWorld([]byte(doc))

	require.Error(t, err)
	assert.ErrorIs(t, err, oracleDomain.ErrMissingWorldSection)
	assert.Contains(t, err.Error(), worldDomain.SectionCalendars)
}

func TestDecodeWorld_EmptyCalendarSectionIsValid(t *testing.T) {
	doc := `{
	  "timezone": "UTC",
	  "sources": {
	    "calendar_json": {}
	  }
	}`

	world, err := persistence.DecodeWorld([]byte(doc))

	require.NoError(t, err)
	assert.NotNil(t, world.Calendars)
	assert.Empty(t, world.Calendars)
}

func TestDecodeWorld_MissingTimezoneIsFatal(t *testing.T) {
	_, err := persistence.DecodeWorld([]byte(`{"sources": {}}`))

	assert.ErrorIs(t, err, oracleDomain.ErrMissingWorldSection)
}

func TestLoadWorld_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	require.NoError(t, os.WriteFile(path, []byte(worldJSON), 0o644))

	world, err := persistence.LoadWorld(path)

	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", world.Timezone)
}
