package domain

// Instance is one task from the instance stream. The oracle never mutates it.
type Instance struct {
	InstanceID string           `json:"instance_id"`
	Slots      SlotBlock        `json:"slots"`
	Sources    *InstanceSources `json:"sources,omitempty"`
}

// SlotBlock carries the resolved task parameters of an instance.
type SlotBlock struct {
	Participants []string `json:"participants"`
	TimeWindow   Window   `json:"time_window"`
	DurationMin  int      `json:"duration_min"`
	NumOptions   int      `json:"num_options"`
	PolicyID     string   `json:"policy_id"`
}

// Window is a raw datetime pair as it appears on the wire.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// InstanceSources carries evidence derived from communications. Tier 2 uses a
// single bundle; tier 3 uses a list of threads.
type InstanceSources struct {
	CommTags    *EvidenceBundle `json:"comm_tags,omitempty"`
	CommThreads []CommThread    `json:"comm_threads,omitempty"`
}

// EvidenceBundle groups the free-text-derived constraints of one source.
type EvidenceBundle struct {
	Deadline        string   `json:"deadline,omitempty"`
	BanWindows      []Window `json:"ban_windows,omitempty"`
	RequiredWindows []Window `json:"required_windows,omitempty"`
}

// CommThread is one communication thread of a tier-3 instance.
type CommThread struct {
	ThreadID   string      `json:"thread_id"`
	ThreadTags *ThreadTags `json:"thread_tags,omitempty"`
}

// ThreadTags is a thread's evidence bundle, plus the sort-key specification
// carried by at most one task thread.
type ThreadTags struct {
	EvidenceBundle
	SortSpec *SortSpec `json:"sort_spec,omitempty"`
}

// SortSpec declares the ranking key sequence for tier-3 results.
type SortSpec struct {
	Keys []string `json:"keys"`
}
