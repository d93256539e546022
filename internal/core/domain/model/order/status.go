package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Created ──┬──> Verified ──> Dispatched ──> Installed
//	          │        ^
//	          ├──> HodPending ──┐
//	          │        │        │
//	          └────────┴──> Rejected
//
// The zero value Unknown is never a valid persisted status.
type Status int

const (
	Unknown Status = iota
	Created
	Verified
	HodPending
	Rejected
	Dispatched
	Installed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Created:    "created",
		Verified:   "verified",
		HodPending: "hod_pending",
		Rejected:   "rejected",
		Dispatched: "dispatched",
		Installed:  "installed",
	}
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, Verified, HodPending, Rejected, Dispatched, Installed}
}

// ParseStatus maps the persisted name of a status back to its value.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses() {
		if getStatusStrings()[st] == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Installed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transition.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Installed
}

// Next looks up the status reached by applying t from s.
// ok is false when the transition table has no entry for the pair.
func (s Status) Next(t Transition) (next Status, ok bool) {
	next, ok = transitionTable[t][s]
	return next, ok
}
