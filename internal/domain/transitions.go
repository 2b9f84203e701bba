package domain

// slotTransitions is the closed table of legal state moves. A pair absent
// here is rejected with InvalidTransitionError; Completed and Cancelled have
// no successors, Failed can only be re-activated by an operator.
var slotTransitions = map[SlotState][]SlotState{
	SlotUpcoming:  {SlotActive, SlotCancelled},
	SlotScheduled: {SlotActive, SlotCancelled},
	SlotActive:    {SlotPending, SlotFailed, SlotCancelled},
	SlotPending:   {SlotCompleted, SlotFailed, SlotCancelled},
	SlotEnded:     {SlotCompleted, SlotFailed},
	SlotCompleted: {},
	SlotCancelled: {},
	SlotFailed:    {SlotActive},
}

// CanTransition reports whether the table permits from -> to.
func CanTransition(from, to SlotState) bool {
	for _, t := range slotTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal targets for a state, in table order.
func AllowedTargets(from SlotState) []SlotState {
	targets := slotTransitions[from]
	out := make([]SlotState, len(targets))
	copy(out, targets)
	return out
}

// Terminal reports whether a state has no outgoing transitions at all.
func Terminal(s SlotState) bool {
	return len(slotTransitions[s]) == 0
}
