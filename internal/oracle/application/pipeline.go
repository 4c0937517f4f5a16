package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	worldDomain "github.com/felixgeelhaar/slotwise/internal/world/domain"
)

// defaultSortKeys is the tier-3 ranking when no thread declares a sort spec.
var defaultSortKeys = []string{"start", "end", "room_id"}

// Stats carries the diagnostic counts of one pipeline run, populated whether
// or not the instance was accepted.
type Stats struct {
	GeneratedCount    int
	PostFilterCount   int
	PostRoomJoinCount int
	RequestedCount    int
	Discarded         bool
}

// Pipeline runs the full oracle state machine for one tier. It is stateless
// and safe for concurrent use across instances; the world definition is only
// ever read.
type Pipeline struct {
	tier Tier
	grid time.Duration
}

// NewPipeline creates a pipeline for the given tier on the 15-minute default
// grid.
func NewPipeline(tier Tier) *Pipeline {
	return &Pipeline{tier: tier, grid: domain.DefaultGrid}
}

// Tier returns the pipeline's difficulty tier.
func (p *Pipeline) Tier() Tier { return p.tier }

// ProcessInstance computes the oracle answer for one instance. A nil result
// with a nil error means the instance is inadmissible (too few surviving
// candidates) and must be discarded by the caller; stats carry the counts
// either way. Errors indicate malformed input, never infeasibility.
func (p *Pipeline) ProcessInstance(world *worldDomain.Definition, instance domain.Instance) (*domain.OracleResult, Stats, error) {
	var stats Stats

	req, err := ResolveRequirement(p.tier, world, instance)
	if err != nil {
		return nil, stats, err
	}
	stats.RequestedCount = req.NumOptions

	participants := req.Participants
	if p.tier == Tier3 {
		participants, err = p.resolveParticipants(world, instance, req.Participants)
		if err != nil {
			return nil, stats, err
		}
		req.Participants = participants
	}

	busy := world.BusyIntervals(participants)
	window := domain.Interval{Start: req.WindowStart, End: req.WindowEnd}
	free := domain.FreeWindows(busy, window)

	candidates := domain.EnumerateCandidates(free, req.Duration, window, world.Location, p.grid)
	stats.GeneratedCount = len(candidates)

	filtered, err := ApplyConstraints(p.tier, world, req, candidates, instance)
	if err != nil {
		return nil, stats, err
	}
	stats.PostFilterCount = len(filtered)

	surviving := filtered
	if p.tier == Tier3 {
		surviving, err = p.joinRooms(world, filtered, len(participants), instance.InstanceID)
		if err != nil {
			return nil, stats, err
		}
		stats.PostRoomJoinCount = len(surviving)
	}

	if len(surviving) < req.NumOptions {
		stats.Discarded = true
		return nil, stats, nil
	}

	var final []domain.Candidate
	if p.tier == Tier3 {
		final = p.rank(surviving, instance)
		if req.NumOptions < len(final) {
			final = final[:req.NumOptions]
		}
	} else {
		final = domain.SelectTopN(surviving, req.NumOptions, world.Location)
	}

	docs := make([]domain.CandidateDoc, 0, len(final))
	for _, c := range final {
		docs = append(docs, c.ToDoc(world.Location))
	}

	result := &domain.OracleResult{
		InstanceID:         instance.InstanceID,
		FeasibleCandidates: docs,
		ExplanationKeys:    p.explanationKeys(req, instance, participants),
		Meta: domain.ResultMeta{
			GeneratedCount:    stats.GeneratedCount,
			PostFilterCount:   stats.PostFilterCount,
			PostRoomJoinCount: stats.PostRoomJoinCount,
			RequestedCount:    stats.RequestedCount,
		},
	}
	return result, stats, nil
}

// resolveParticipants maps tier-3 participant references (names or ids) to
// canonical ids through the people directory.
func (p *Pipeline) resolveParticipants(world *worldDomain.Definition, instance domain.Instance, refs []string) ([]string, error) {
	if world.People == nil {
		return nil, fmt.Errorf("%w: %s (instance %s)",
			domain.ErrMissingWorldSection, worldDomain.SectionPeopleTable, instance.InstanceID)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := world.People.ResolveID(ref)
		if err != nil {
			return nil, fmt.Errorf("instance %s: %w", instance.InstanceID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// joinRooms performs the tier-3 cross-product join: every surviving candidate
// against every room with enough capacity, keeping pairs whose candidate does
// not overlap the room's own busy intervals. One time candidate can yield
// several room-qualified triples.
func (p *Pipeline) joinRooms(world *worldDomain.Definition, candidates []domain.Candidate, minCapacity int, instanceID string) ([]domain.Candidate, error) {
	if world.Rooms == nil {
		return nil, fmt.Errorf("%w: %s (instance %s)",
			domain.ErrMissingWorldSection, worldDomain.SectionRoomsTable, instanceID)
	}
	if world.RoomCalendars == nil {
		return nil, fmt.Errorf("%w: %s (instance %s)",
			domain.ErrMissingWorldSection, worldDomain.SectionRoomAvailability, instanceID)
	}

	eligible := world.EligibleRooms(minCapacity)

	joined := make([]domain.Candidate, 0, len(candidates)*len(eligible))
	for _, c := range candidates {
		for _, roomID := range eligible {
			if domain.OverlapsAny(c.Start, c.End, world.RoomBusy(roomID)) {
				continue
			}
			joined = append(joined, domain.Candidate{Start: c.Start, End: c.End, RoomID: roomID})
		}
	}
	return joined, nil
}

// rank orders tier-3 candidates by the declared sort spec with a full-tuple
// tie-break for totality.
func (p *Pipeline) rank(candidates []domain.Candidate, instance domain.Instance) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)

	keys := sortSpecKeys(instance)
	sort.SliceStable(ranked, func(i, j int) bool {
		return compareBySpec(ranked[i], ranked[j], keys) < 0
	})
	return ranked
}

// sortSpecKeys finds the sort spec on whichever thread declares one, falling
// back to the default key sequence.
func sortSpecKeys(instance domain.Instance) []string {
	if instance.Sources == nil {
		return defaultSortKeys
	}
	for _, thread := range instance.Sources.CommThreads {
		if thread.ThreadTags != nil && thread.ThreadTags.SortSpec != nil && len(thread.ThreadTags.SortSpec.Keys) > 0 {
			return thread.ThreadTags.SortSpec.Keys
		}
	}
	return defaultSortKeys
}

// compareBySpec compares two candidates by the sort-spec key sequence,
// datetime-aware on start/end and lexicographic otherwise, then by the full
// (start, end, room_id) tuple.
func compareBySpec(a, b domain.Candidate, keys []string) int {
	for _, key := range keys {
		if c := compareKey(a, b, key); c != 0 {
			return c
		}
	}
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := a.End.Compare(b.End); c != 0 {
		return c
	}
	switch {
	case a.RoomID < b.RoomID:
		return -1
	case a.RoomID > b.RoomID:
		return 1
	default:
		return 0
	}
}

func compareKey(a, b domain.Candidate, key string) int {
	switch key {
	case "start":
		return a.Start.Compare(b.Start)
	case "end":
		return a.End.Compare(b.End)
	case "room_id":
		switch {
		case a.RoomID < b.RoomID:
			return -1
		case a.RoomID > b.RoomID:
			return 1
		default:
			return 0
		}
	default:
		// A key the wire format does not carry compares equal everywhere.
		return 0
	}
}

// explanationKeys builds the provenance manifest: one entry per consulted
// calendar, the policy id, any consulted communication source, and the tables
// joined against.
func (p *Pipeline) explanationKeys(req domain.Requirement, instance domain.Instance, participants []string) []domain.ExplanationKey {
	keys := make([]domain.ExplanationKey, 0, len(participants)+6)
	for _, id := range participants {
		keys = append(keys, domain.ExplanationKey{Source: worldDomain.SectionCalendars, Key: id})
	}

	switch p.tier {
	case Tier1:
		keys = append(keys, domain.ExplanationKey{Source: worldDomain.SectionPolicySimple, Key: req.PolicyID})
	default:
		keys = append(keys, domain.ExplanationKey{Source: worldDomain.SectionPolicyTagged, Key: req.PolicyID})
	}

	if p.tier == Tier2 {
		keys = append(keys, domain.ExplanationKey{Source: "comm_tags", Key: "comm_tags"})
	}

	if p.tier == Tier3 {
		if instance.Sources != nil {
			for _, thread := range instance.Sources.CommThreads {
				if thread.ThreadID != "" && thread.ThreadTags != nil {
					keys = append(keys, domain.ExplanationKey{Source: "comm_threads", Key: thread.ThreadID})
				}
			}
		}
		keys = append(keys,
			domain.ExplanationKey{Source: worldDomain.SectionPeopleTable, Key: worldDomain.SectionPeopleTable},
			domain.ExplanationKey{Source: worldDomain.SectionRoomsTable, Key: worldDomain.SectionRoomsTable},
			domain.ExplanationKey{Source: worldDomain.SectionRoomAvailability, Key: worldDomain.SectionRoomAvailability},
		)
	}

	keys = append(keys, domain.ExplanationKey{Source: "slots", Key: "time_window"})
	return keys
}
