package domain

import "time"

// CandidateDoc is the wire form of a candidate: datetimes rendered in the
// world timezone with explicit offsets.
type CandidateDoc struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	RoomID string `json:"room_id,omitempty"`
}

// ExplanationKey names one world entity consulted to justify a result.
type ExplanationKey struct {
	Source string `json:"source"`
	Key    string `json:"key"`
}

// ResultMeta carries the pipeline's diagnostic counts.
type ResultMeta struct {
	GeneratedCount    int `json:"generated_count"`
	PostFilterCount   int `json:"post_filter_count"`
	PostRoomJoinCount int `json:"post_room_join_count,omitempty"`
	RequestedCount    int `json:"requested_count"`
}

// OracleResult is the emitted answer for one accepted instance. It is created
// once and never mutated afterward.
type OracleResult struct {
	InstanceID         string           `json:"instance_id"`
	FeasibleCandidates []CandidateDoc   `json:"feasible_candidates"`
	ExplanationKeys    []ExplanationKey `json:"explanation_keys"`
	Meta               ResultMeta       `json:"meta"`
}

// ToDoc renders a candidate into its wire form in loc.
func (c Candidate) ToDoc(loc *time.Location) CandidateDoc {
	return CandidateDoc{
		Start:  FormatDateTime(c.Start, loc),
		End:    FormatDateTime(c.End, loc),
		RoomID: c.RoomID,
	}
}
