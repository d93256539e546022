package order

import "slices"

// Transition names an operation that moves an order between statuses.
type Transition string

const (
	TransitionSubmit               Transition = "submitOrder"
	TransitionVerifyStock          Transition = "verifyStock"
	TransitionEscalateStock        Transition = "escalateStock"
	TransitionApproveStock         Transition = "approveStock"
	TransitionRejectStock          Transition = "rejectStock"
	TransitionRejectOrder          Transition = "rejectOrder"
	TransitionDispatch             Transition = "dispatch"
	TransitionCompleteInstallation Transition = "completeInstallation"
)

// transitionTable is the single source of truth for legal moves, keyed by
// transition and then by the current status. Submit is absent: it creates
// orders rather than moving them.
var transitionTable = map[Transition]map[Status]Status{
	TransitionVerifyStock:          {Created: Verified},
	TransitionEscalateStock:        {Created: HodPending},
	TransitionApproveStock:         {HodPending: Verified},
	TransitionRejectStock:          {HodPending: Rejected},
	TransitionRejectOrder:          {Created: Rejected},
	TransitionDispatch:             {Verified: Dispatched},
	TransitionCompleteInstallation: {Dispatched: Installed},
}

// Transitions lists every named transition including submit.
func Transitions() []Transition {
	return []Transition{
		TransitionSubmit,
		TransitionVerifyStock,
		TransitionEscalateStock,
		TransitionApproveStock,
		TransitionRejectStock,
		TransitionRejectOrder,
		TransitionDispatch,
		TransitionCompleteInstallation,
	}
}

// ExpectedFrom returns the statuses from which t may be applied, in lifecycle order.
func (t Transition) ExpectedFrom() []Status {
	sources := make([]Status, 0, len(transitionTable[t]))
	for from := range transitionTable[t] {
		sources = append(sources, from)
	}
	slices.Sort(sources)
	return sources
}

func (t Transition) String() string {
	return string(t)
}
