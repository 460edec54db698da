package orderline

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ClaimStatus is the position of a line in the claim lifecycle.
//
// State transitions:
//
//	Unclaimed ──claim──> Claimed ──mark ready──> ReadyForHandover
//	    ^                   │                          │
//	    └──────reverse──────┴──────────reverse─────────┘
type ClaimStatus int

const (
	// UnknownClaimStatus is the invalid zero value.
	UnknownClaimStatus ClaimStatus = iota
	Unclaimed
	Claimed
	ReadyForHandover
)

func getClaimStatusStrings() map[ClaimStatus]string {
	return map[ClaimStatus]string{
		UnknownClaimStatus: "unknown",
		Unclaimed:          "unclaimed",
		Claimed:            "claimed",
		ReadyForHandover:   "ready_for_handover",
	}
}

// ParseClaimStatus maps the persisted spelling back to a ClaimStatus.
func ParseClaimStatus(raw string) (ClaimStatus, error) {
	for s, str := range getClaimStatusStrings() {
		if s != UnknownClaimStatus && str == raw {
			return s, nil
		}
	}
	return UnknownClaimStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a claim status", raw))
}

func (s ClaimStatus) String() string {
	if str, ok := getClaimStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s ClaimStatus) Validate() error {
	if s < Unclaimed || s > ReadyForHandover {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid claim status", s))
	}
	return nil
}

// IsOwned reports whether a vendor holds the line in this status.
func (s ClaimStatus) IsOwned() bool {
	return s == Claimed || s == ReadyForHandover
}

// Claim transitions Unclaimed -> Claimed.
func (s ClaimStatus) Claim(uniqueID string) (ClaimStatus, error) {
	if s != Unclaimed {
		return 0, errs.NewInvalidStateError(uniqueID, s.String(), "claim")
	}
	return Claimed, nil
}

// MarkReady transitions Claimed -> ReadyForHandover.
func (s ClaimStatus) MarkReady(uniqueID string) (ClaimStatus, error) {
	if s != Claimed {
		return 0, errs.NewInvalidStateError(uniqueID, s.String(), "mark ready")
	}
	return ReadyForHandover, nil
}

// Release transitions Claimed or ReadyForHandover back to Unclaimed.
func (s ClaimStatus) Release(uniqueID string) (ClaimStatus, error) {
	if !s.IsOwned() {
		return 0, errs.NewInvalidStateError(uniqueID, s.String(), "reverse")
	}
	return Unclaimed, nil
}

// CloneStatus records whether a line was moved into a clone order.
type CloneStatus int

const (
	UnknownCloneStatus CloneStatus = iota
	NotCloned
	Cloned
)

func (c CloneStatus) String() string {
	switch c {
	case NotCloned:
		return "not_cloned"
	case Cloned:
		return "cloned"
	default:
		return "unknown"
	}
}

// ParseCloneStatus maps the persisted spelling back to a CloneStatus.
func ParseCloneStatus(raw string) (CloneStatus, error) {
	switch raw {
	case "not_cloned", "":
		return NotCloned, nil
	case "cloned":
		return Cloned, nil
	default:
		return UnknownCloneStatus, errs.NewValueIsInvalidErrorWithCause("clone_status", fmt.Errorf("%q is not a clone status", raw))
	}
}
