// Package persistence loads world documents and normalizes their external
// shapes into the world domain model.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	oracleDomain "github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

type worldDoc struct {
	Timezone string       `json:"timezone"`
	Sources  worldSources `json:"sources"`
}

type worldSources struct {
	CalendarJSON         map[string][]intervalDoc `json:"calendar_json"`
	PolicyJSON           map[string]policyDoc     `json:"policy_json"`
	PolicyTags           map[string]policyDoc     `json:"policy_tags"`
	PeopleTable          json.RawMessage          `json:"people_table"`
	RoomsTable           json.RawMessage          `json:"rooms_table"`
	RoomAvailabilityJSON map[string][]intervalDoc `json:"room_availability_json"`
}

type intervalDoc struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type policyDoc struct {
	Rules []ruleDoc `json:"rules"`
}

type ruleDoc struct {
	Type       string `json:"type"`
	Start      string `json:"start"`
	End        string `json:"end"`
	DaysOfWeek []int  `json:"days_of_week"`
	Minutes    int    `json:"minutes"`
	DayOfWeek  int    `json:"day_of_week"`
}

// columnarTable is the {primary_key, columns, rows} directory shape.
type columnarTable struct {
	PrimaryKey string           `json:"primary_key"`
	Columns    []string         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
}

// LoadWorld reads and normalizes a world document from disk.
func LoadWorld(path string) (*worldDomain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world document: %w", err)
	}
	return DecodeWorld(data)
}

// DecodeWorld parses a world document and normalizes every external shape
// eagerly: datetimes become zone-aware, both policy representations become
// rule sequences, and directory tables become id/name maps.
func DecodeWorld(data []byte) (*worldDomain.Definition, error) {
	var doc worldDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode world document: %w", err)
	}

	if doc.Timezone == "" {
		return nil, fmt.Errorf("%w: timezone", oracleDomain.ErrMissingWorldSection)
	}
	loc, err := time.LoadLocation(doc.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", doc.Timezone, err)
	}

	def := &worldDomain.Definition{
		Timezone: doc.Timezone,
		Location: loc,
	}

	// Calendars are a required source. Defaulting an absent section to "nobody
	// is busy" would corrupt the ground truth; an empty section is still valid.
	if doc.Sources.CalendarJSON == nil {
		return nil, fmt.Errorf("%w: %s", oracleDomain.ErrMissingWorldSection, worldDomain.SectionCalendars)
	}
	def.Calendars, err = decodeCalendars(doc.Sources.CalendarJSON, loc)
	if err != nil {
		return nil, fmt.Errorf("calendar_json: %w", err)
	}

	if doc.Sources.PolicyJSON != nil {
		def.SimplePolicies, err = decodePolicies(doc.Sources.PolicyJSON)
		if err != nil {
			return nil, fmt.Errorf("policy_json: %w", err)
		}
	}
	if doc.Sources.PolicyTags != nil {
		def.TaggedPolicies, err = decodePolicies(doc.Sources.PolicyTags)
		if err != nil {
			return nil, fmt.Errorf("policy_tags: %w", err)
		}
	}

	if len(doc.Sources.PeopleTable) > 0 {
		def.People, err = decodePeopleTable(doc.Sources.PeopleTable)
		if err != nil {
			return nil, fmt.Errorf("people_table: %w", err)
		}
	}

	if len(doc.Sources.RoomsTable) > 0 {
		def.Rooms, err = decodeRoomsTable(doc.Sources.RoomsTable)
		if err != nil {
			return nil, fmt.Errorf("rooms_table: %w", err)
		}
	}

	if doc.Sources.RoomAvailabilityJSON != nil {
		def.RoomCalendars, err = decodeCalendars(doc.Sources.RoomAvailabilityJSON, loc)
		if err != nil {
			return nil, fmt.Errorf("room_availability_json: %w", err)
		}
	}

	return def, nil
}

func decodeCalendars(raw map[string][]intervalDoc, loc *time.Location) (map[string][]oracleDomain.Interval, error) {
	if raw == nil {
		return nil, nil
	}
	calendars := make(map[string][]oracleDomain.Interval, len(raw))
	for id, events := range raw {
		intervals := make([]oracleDomain.Interval, 0, len(events))
		for _, ev := range events {
			start, err := oracleDomain.ParseDateTime(ev.Start, loc)
			if err != nil {
				return nil, fmt.Errorf("calendar %q: %w", id, err)
			}
			end, err := oracleDomain.ParseDateTime(ev.End, loc)
			if err != nil {
				return nil, fmt.Errorf("calendar %q: %w", id, err)
			}
			intervals = append(intervals, oracleDomain.Interval{Start: start, End: end})
		}
		calendars[id] = intervals
	}
	return calendars, nil
}

func decodePolicies(raw map[string]policyDoc) (worldDomain.PolicyTable, error) {
	table := make(worldDomain.PolicyTable, len(raw))
	for policyID, doc := range raw {
		rules := make([]oracleDomain.Rule, 0, len(doc.Rules))
		for _, rd := range doc.Rules {
			rule, err := decodeRule(rd)
			if err != nil {
				return nil, fmt.Errorf("policy %q: %w", policyID, err)
			}
			rules = append(rules, rule)
		}
		table[policyID] = rules
	}
	return table, nil
}

// decodeRule maps a tagged rule document onto the closed rule sum. Silently
// ignoring an unrecognized tag would corrupt the ground truth, so unknown
// tags are fatal.
func decodeRule(rd ruleDoc) (oracleDomain.Rule, error) {
	switch rd.Type {
	case oracleDomain.RuleTypeWorkHours:
		return oracleDomain.WorkHoursRule{Start: rd.Start, End: rd.End, Weekdays: rd.DaysOfWeek}, nil
	case oracleDomain.RuleTypeLunchBlock:
		return oracleDomain.LunchBlockRule{Start: rd.Start, End: rd.End, Weekdays: rd.DaysOfWeek}, nil
	case oracleDomain.RuleTypeBufferMinutes:
		return oracleDomain.BufferMinutesRule{Minutes: rd.Minutes}, nil
	case oracleDomain.RuleTypeBanWeekdayWindow:
		return oracleDomain.BanWeekdayWindowRule{Weekday: rd.DayOfWeek, Start: rd.Start, End: rd.End}, nil
	default:
		return nil, fmt.Errorf("%w: %q", oracleDomain.ErrUnknownRuleType, rd.Type)
	}
}

// decodePeopleTable accepts either the columnar or the flat list shape and
// builds the normalized directory.
func decodePeopleTable(raw json.RawMessage) (*worldDomain.Directory, error) {
	var table columnarTable
	if err := json.Unmarshal(raw, &table); err == nil && (table.Rows != nil || len(table.Columns) > 0) {
		idCol := table.PrimaryKey
		if idCol == "" {
			idCol = "person_id"
		}
		entries := make([]worldDomain.DirectoryEntry, 0, len(table.Rows))
		for _, row := range table.Rows {
			entries = append(entries, worldDomain.DirectoryEntry{
				ID:   stringField(row, idCol),
				Name: stringField(row, "person_name"),
			})
		}
		return worldDomain.NewDirectory(entries), nil
	}

	var flat []map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("unsupported people_table shape: %w", err)
	}
	entries := make([]worldDomain.DirectoryEntry, 0, len(flat))
	for _, row := range flat {
		entries = append(entries, worldDomain.DirectoryEntry{
			ID:   stringField(row, "person_id"),
			Name: stringField(row, "person_name"),
		})
	}
	return worldDomain.NewDirectory(entries), nil
}

// decodeRoomsTable accepts either table shape. Capacity is mandatory on
// every room record; a missing or unusable capacity is fatal.
func decodeRoomsTable(raw json.RawMessage) ([]worldDomain.Room, error) {
	var table columnarTable
	if err := json.Unmarshal(raw, &table); err == nil && (table.Rows != nil || len(table.Columns) > 0) {
		idCol := table.PrimaryKey
		if idCol == "" {
			idCol = "room_id"
		}
		return roomsFromRows(table.Rows, idCol)
	}

	var flat []map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("unsupported rooms_table shape: %w", err)
	}
	return roomsFromRows(flat, "room_id")
}

func roomsFromRows(rows []map[string]any, idCol string) ([]worldDomain.Room, error) {
	rooms := make([]worldDomain.Room, 0, len(rows))
	for _, row := range rows {
		id := stringField(row, idCol)
		if id == "" {
			continue
		}
		capVal, ok := row["capacity"]
		if !ok {
			return nil, fmt.Errorf("%w: room %q", oracleDomain.ErrMissingCapacity, id)
		}
		capacity, err := asInt(capVal)
		if err != nil {
			return nil, fmt.Errorf("%w: room %q: %v", oracleDomain.ErrMissingCapacity, id, err)
		}
		rooms = append(rooms, worldDomain.Room{ID: id, Capacity: capacity})
	}
	return rooms, nil
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unsupported capacity value %v", v)
	}
}
