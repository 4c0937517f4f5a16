package domain

import "errors"

var (
	// ErrMalformedTimestamp indicates a datetime string without a recognizable
	// date/time separator or clock fields.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrMissingPolicyID indicates an instance without a policy id at a tier
	// that requires one.
	ErrMissingPolicyID = errors.New("missing policy id")
	// ErrUnknownRuleType indicates a policy rule with an unrecognized tag.
	ErrUnknownRuleType = errors.New("unknown rule type")
	// ErrMissingWorldSection indicates a world document without a section the
	// tier requires.
	ErrMissingWorldSection = errors.New("missing world section")
	// ErrUnknownPolicy indicates a policy id with no entry in the policy table.
	ErrUnknownPolicy = errors.New("unknown policy id")
	// ErrUnknownParticipant indicates a participant reference that resolves to
	// no directory entry.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrMissingCapacity indicates a room record without a usable capacity.
	ErrMissingCapacity = errors.New("missing room capacity")
	// ErrMissingEvidence indicates an instance without the evidence sources the
	// tier requires.
	ErrMissingEvidence = errors.New("missing evidence sources")
	// ErrUnknownTier indicates a tier outside 1..3.
	ErrUnknownTier = errors.New("unknown tier")

	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidOptionCount = errors.New("num options must be at least 1")
)
