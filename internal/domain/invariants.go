package domain

import (
	"fmt"
	"time"
)

// ValidateSlot checks the at-rest consistency rules for a slot against the
// given instant. It is used by the seed generator and by tests after every
// operation; lifecycle operations are expected to keep it passing.
func ValidateSlot(s *Slot, now time.Time) error {
	if s.ViewCount < 0 {
		return fmt.Errorf("slot %d: negative view count %d", s.ID, s.ViewCount)
	}
	if s.BidCount < 0 {
		return fmt.Errorf("slot %d: negative bid count %d", s.ID, s.BidCount)
	}

	if s.Product == nil {
		if s.State != SlotPending {
			return fmt.Errorf("slot %d: empty but in state %s", s.ID, s.State)
		}
		if s.StartTime != nil || s.EndTime != nil {
			return fmt.Errorf("slot %d: empty slot carries timestamps", s.ID)
		}
		if s.CurrentPrice != 0 || s.BidCount != 0 || s.BuyerID != "" || s.Featured {
			return fmt.Errorf("slot %d: empty slot carries listing fields", s.ID)
		}
		return nil
	}

	if s.StartTime == nil || s.EndTime == nil {
		return fmt.Errorf("slot %d: occupied slot in state %s missing timestamps", s.ID, s.State)
	}
	if !s.StartTime.Before(*s.EndTime) {
		return fmt.Errorf("slot %d: start %v not before end %v", s.ID, s.StartTime, s.EndTime)
	}

	switch s.State {
	case SlotActive:
		if s.StartTime.After(now) {
			return fmt.Errorf("slot %d: active before its start time", s.ID)
		}
		if s.EndTime.Before(now) {
			return fmt.Errorf("slot %d: active past its end time", s.ID)
		}
	case SlotEnded, SlotCompleted, SlotFailed:
		if s.EndTime.After(now) {
			return fmt.Errorf("slot %d: closed state %s with future end time", s.ID, s.State)
		}
	case SlotCancelled:
		// Cancellation keeps the window it would have run, so an early
		// cancel may legitimately leave a future end time.
	case SlotPending:
		// Occupied Pending only arises after an Active auction closes.
		if s.EndTime.After(now) {
			return fmt.Errorf("slot %d: post-close pending with future end time", s.ID)
		}
	}

	if s.Featured && s.State != SlotActive {
		return fmt.Errorf("slot %d: featured while %s", s.ID, s.State)
	}
	if s.BuyerID != "" && s.State != SlotPending && s.State != SlotCompleted {
		return fmt.Errorf("slot %d: buyer set while %s", s.ID, s.State)
	}
	if (s.State == SlotUpcoming || s.State == SlotFailed) && s.BidCount != 0 {
		return fmt.Errorf("slot %d: %s with %d bids", s.ID, s.State, s.BidCount)
	}
	if s.BidCount > 0 && s.CurrentPrice <= s.Product.StartingPrice {
		return fmt.Errorf("slot %d: %d bids but price %.2f not above starting %.2f",
			s.ID, s.BidCount, s.CurrentPrice, s.Product.StartingPrice)
	}
	if s.BidCount == 0 && s.CurrentPrice != s.Product.StartingPrice {
		return fmt.Errorf("slot %d: no bids but price %.2f differs from starting %.2f",
			s.ID, s.CurrentPrice, s.Product.StartingPrice)
	}

	return nil
}
