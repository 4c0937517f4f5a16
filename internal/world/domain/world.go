// Package domain models the immutable world a batch of instances is solved
// against: participant calendars, organizational policy tables, directories,
// and room availability. A Definition is loaded once and shared read-only.
package domain

import (
	"fmt"
	"time"

	oracleDomain "github.com/felixgeelhaar/slotwise/internal/oracle/domain"
)

// Section names of the world document, used in errors and explanation keys.
const (
	SectionCalendars        = "calendar_json"
	SectionPolicySimple     = "policy_json"
	SectionPolicyTagged     = "policy_tags"
	SectionPeopleTable      = "people_table"
	SectionRoomsTable       = "rooms_table"
	SectionRoomAvailability = "room_availability_json"
)

// PolicyTable maps policy id to its ordered rule sequence.
type PolicyTable map[string][]oracleDomain.Rule

// Definition is the fully normalized world. Directory shapes and both policy
// representations are resolved at load time so nothing downstream branches on
// external document shape.
type Definition struct {
	Timezone       string
	Location       *time.Location
	Calendars      map[string][]oracleDomain.Interval
	SimplePolicies PolicyTable
	TaggedPolicies PolicyTable
	People         *Directory
	Rooms          []Room
	RoomCalendars  map[string][]oracleDomain.Interval
}

// BusyIntervals collects the busy time of the given participants in calendar
// order. Participants without a calendar contribute nothing.
func (d *Definition) BusyIntervals(participants []string) []oracleDomain.Interval {
	var busy []oracleDomain.Interval
	for _, id := range participants {
		busy = append(busy, d.Calendars[id]...)
	}
	return busy
}

// PolicyRules returns the rule sequence for a policy id from the named table.
// A nil table is a missing world section; an absent id is an unknown policy.
func (d *Definition) PolicyRules(section, policyID string) ([]oracleDomain.Rule, error) {
	var table PolicyTable
	switch section {
	case SectionPolicySimple:
		table = d.SimplePolicies
	case SectionPolicyTagged:
		table = d.TaggedPolicies
	default:
		return nil, fmt.Errorf("%w: %s", oracleDomain.ErrMissingWorldSection, section)
	}

	if table == nil {
		return nil, fmt.Errorf("%w: %s", oracleDomain.ErrMissingWorldSection, section)
	}
	rules, ok := table[policyID]
	if !ok {
		return nil, fmt.Errorf("%w: %q not in %s", oracleDomain.ErrUnknownPolicy, policyID, section)
	}
	return rules, nil
}

// EligibleRooms returns the ids of rooms seating at least minCapacity, in
// table order.
func (d *Definition) EligibleRooms(minCapacity int) []string {
	var ids []string
	for _, room := range d.Rooms {
		if room.Capacity >= minCapacity {
			ids = append(ids, room.ID)
		}
	}
	return ids
}

// RoomBusy returns the busy intervals of a room; rooms without a calendar are
// always free.
func (d *Definition) RoomBusy(roomID string) []oracleDomain.Interval {
	return d.RoomCalendars[roomID]
}

// Room is a bookable resource with a seating capacity.
type Room struct {
	ID       string
	Capacity int
}
