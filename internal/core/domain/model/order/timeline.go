package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// TimelineEntry is one audit record. Seq starts at 1 and has no gaps.
type TimelineEntry struct {
	Seq       int
	Status    Status
	At        time.Time
	ActorRole kernel.Role
	ActorID   string
	Note      string
}

// validateTimeline checks the structural invariants of a restored timeline
// against the status it claims to produce.
func validateTimeline(entries []TimelineEntry, status Status) error {
	if len(entries) == 0 {
		return errs.NewValueIsRequiredError("timeline")
	}

	first := entries[0]
	if first.Status != Created || first.ActorRole != kernel.RoleSales {
		return errs.NewValueIsInvalidErrorWithCause("timeline",
			fmt.Errorf("first entry is %s by %s, want created by sales", first.Status, first.ActorRole))
	}

	for i, e := range entries {
		if e.Seq != i+1 {
			return errs.NewValueIsInvalidErrorWithCause("timeline",
				fmt.Errorf("entry %d has sequence %d", i+1, e.Seq))
		}
		if err := e.Status.Validate(); err != nil {
			return err
		}
	}

	if last := entries[len(entries)-1]; last.Status != status {
		return errs.NewValueIsInvalidErrorWithCause("timeline",
			fmt.Errorf("last entry is %s but order is %s", last.Status, status))
	}
	return nil
}
