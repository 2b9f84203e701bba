package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrSlotOccupied       = errors.New("slot already has a product assigned")
	ErrSlotEmpty          = errors.New("slot has no product assigned")
	ErrProductNotFound    = errors.New("product not found in catalog")
	ErrPartyNotFound      = errors.New("party not found in directory")
	ErrPreconditionFailed = errors.New("operation precondition failed")
)

// InvalidTransitionError identifies both ends of a rejected state move.
type InvalidTransitionError struct {
	From SlotState
	To   SlotState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid slot transition from %s to %s", e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
