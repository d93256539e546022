package stockrequest

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the resolution state of a stock request.
type Status int

const (
	Unknown Status = iota
	Pending
	Approved
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Pending:  "pending",
		Approved: "approved",
		Rejected: "rejected",
	}
}

func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range getStatusStrings() {
		if st != Unknown && name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("stock request status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Pending || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("stock request status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Decision is the HOD's verdict on a pending request.
type Decision int

const (
	Approve Decision = iota + 1
	Reject
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}
