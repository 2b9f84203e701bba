package services

import (
	"context"
	"fmt"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/pkg/logger"
)

const (
	// Window applied when a product is assigned: the auction is deferred a
	// day and runs for three, inside the canonical scheduled bounds.
	scheduleLeadTime = 24 * time.Hour
	scheduleDuration = 72 * time.Hour

	// Window granted when a failed auction is manually re-activated.
	reactivationWindow = 7 * 24 * time.Hour
)

// SlotLifecycle owns every mutation of a slot: product assignment and
// removal, table-governed state transitions, auction completion, and the
// simulated bid/view counters. All collaborator lookups happen before the
// mutating section, so the mutation itself never suspends.
type SlotLifecycle struct {
	repo        domain.SlotRepository
	catalog     domain.ProductCatalog
	directory   domain.PartyDirectory
	clock       domain.Clock
	pricing     IncrementPolicy
	broadcaster domain.SlotBroadcaster
	log         logger.Logger
}

func NewSlotLifecycle(
	repo domain.SlotRepository,
	catalog domain.ProductCatalog,
	directory domain.PartyDirectory,
	clock domain.Clock,
	pricing IncrementPolicy,
	broadcaster domain.SlotBroadcaster,
	log logger.Logger,
) *SlotLifecycle {
	return &SlotLifecycle{
		repo:        repo,
		catalog:     catalog,
		directory:   directory,
		clock:       clock,
		pricing:     pricing,
		broadcaster: broadcaster,
		log:         log,
	}
}

// AssignProduct binds a catalog product to an empty slot and schedules a
// forward-looking auction window. Occupied slots are rejected, never
// overwritten.
func (l *SlotLifecycle) AssignProduct(ctx context.Context, slotID int, productID string) (*domain.Slot, error) {
	product, err := l.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if s.Occupied() {
			return domain.ErrSlotOccupied
		}

		start := now.Add(scheduleLeadTime)
		end := start.Add(scheduleDuration)

		s.Product = product
		s.State = domain.SlotScheduled
		s.StartTime = &start
		s.EndTime = &end
		s.CurrentPrice = product.StartingPrice
		s.BidCount = 0
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("Product assigned to slot",
		"slot_id", slotID, "product_id", productID, "start_time", *slot.StartTime)
	l.broadcast(ctx, slot, domain.EventProductAssigned)
	return slot, nil
}

// RemoveProduct forcibly empties a slot regardless of its state. This is an
// administrative escape hatch, not a table-governed transition: it resets
// the slot to its initial empty Pending shape.
func (l *SlotLifecycle) RemoveProduct(ctx context.Context, slotID int) (*domain.Slot, error) {
	now := l.clock.Now()
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if !s.Occupied() {
			return domain.ErrSlotEmpty
		}

		s.Product = nil
		s.State = domain.SlotPending
		s.StartTime = nil
		s.EndTime = nil
		s.BuyerID = ""
		s.CurrentPrice = 0
		s.BidCount = 0
		s.ViewCount = 0
		s.Featured = false
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("Product removed from slot", "slot_id", slotID)
	l.broadcast(ctx, slot, domain.EventProductRemoved)
	return slot, nil
}

// Transition moves a slot to targetState if the transition table allows it,
// applying the timestamp and counter effects tied to the target. A rejected
// pair leaves the slot unmodified.
func (l *SlotLifecycle) Transition(ctx context.Context, slotID int, targetState domain.SlotState) (*domain.Slot, error) {
	now := l.clock.Now()
	var from domain.SlotState
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if !s.Occupied() {
			return fmt.Errorf("%w: slot %d has no product to transition", domain.ErrPreconditionFailed, slotID)
		}
		if !domain.CanTransition(s.State, targetState) {
			return &domain.InvalidTransitionError{From: s.State, To: targetState}
		}

		from = s.State
		s.State = targetState
		l.applyTransitionEffects(s, from, targetState, now)
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("Slot transitioned", "slot_id", slotID, "from", from.String(), "to", slot.State.String())
	l.broadcast(ctx, slot, domain.EventStateChanged)
	return slot, nil
}

func (l *SlotLifecycle) applyTransitionEffects(s *domain.Slot, from, to domain.SlotState, now time.Time) {
	switch to {
	case domain.SlotActive:
		// Invariant: an active slot straddles now. Manual early starts are
		// clamped, and a re-activated failed auction gets a fresh window.
		if s.StartTime.After(now) {
			start := now
			s.StartTime = &start
		}
		if !s.EndTime.After(now) {
			end := now.Add(reactivationWindow)
			s.EndTime = &end
		}
	case domain.SlotCompleted:
		l.freezeEndTime(s, now)
	case domain.SlotPending:
		if from == domain.SlotActive {
			l.freezeEndTime(s, now)
		}
	case domain.SlotFailed:
		// A failed auction has no winner and no standing bids.
		s.BuyerID = ""
		s.BidCount = 0
		s.CurrentPrice = s.Product.StartingPrice
		l.freezeEndTime(s, now)
	case domain.SlotCancelled:
		// Timestamps stay untouched to preserve when the auction would have
		// ended; only the winner reference is dropped.
		s.BuyerID = ""
	}

	if to != domain.SlotActive {
		s.Featured = false
	}
}

// freezeEndTime closes a still-running window at now. A window opened and
// closed within the same clock instant keeps a positive duration: the start
// is nudged just behind the frozen end.
func (l *SlotLifecycle) freezeEndTime(s *domain.Slot, now time.Time) {
	if s.EndTime != nil && s.EndTime.After(now) {
		end := now
		s.EndTime = &end
	}
	if s.StartTime != nil && s.EndTime != nil && !s.StartTime.Before(*s.EndTime) {
		start := s.EndTime.Add(-time.Nanosecond)
		s.StartTime = &start
	}
}

// CompleteAuction closes an active auction toward the named buyer: the slot
// moves to Pending with the buyer recorded and the end time forced to now.
// Failures are typed errors, never silent no-ops.
func (l *SlotLifecycle) CompleteAuction(ctx context.Context, slotID int, buyerID string) (*domain.Slot, error) {
	if _, err := l.directory.FindParty(ctx, buyerID); err != nil {
		return nil, err
	}

	now := l.clock.Now()
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if s.State != domain.SlotActive {
			return fmt.Errorf("%w: complete auction requires an active slot, slot %d is %s",
				domain.ErrPreconditionFailed, slotID, s.State)
		}

		s.State = domain.SlotPending
		s.BuyerID = buyerID
		l.freezeEndTime(s, now)
		s.Featured = false
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("Auction completed", "slot_id", slotID, "buyer_id", buyerID)
	l.broadcast(ctx, slot, domain.EventAuctionCompleted)
	return slot, nil
}

// RecordBid registers one simulated bid against an active slot and reprices
// the listing through the increment policy.
func (l *SlotLifecycle) RecordBid(ctx context.Context, slotID int) (*domain.Slot, error) {
	now := l.clock.Now()
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if s.State != domain.SlotActive {
			return fmt.Errorf("%w: bids require an active slot, slot %d is %s",
				domain.ErrPreconditionFailed, slotID, s.State)
		}

		s.BidCount++
		s.CurrentPrice = PriceAfterBids(s.Product.StartingPrice, s.BidCount, l.pricing)
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Debug("Bid recorded", "slot_id", slotID, "bid_count", slot.BidCount, "current_price", slot.CurrentPrice)
	l.broadcast(ctx, slot, domain.EventBidRecorded)
	return slot, nil
}

// RecordView increments the view counter of an occupied slot.
func (l *SlotLifecycle) RecordView(ctx context.Context, slotID int) (*domain.Slot, error) {
	now := l.clock.Now()
	return l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if !s.Occupied() {
			return domain.ErrSlotEmpty
		}
		s.ViewCount++
		s.UpdatedAt = now
		return nil
	})
}

// SetFeatured flags an active slot for the featured rail. Clearing the flag
// is allowed from any state.
func (l *SlotLifecycle) SetFeatured(ctx context.Context, slotID int, featured bool) (*domain.Slot, error) {
	now := l.clock.Now()
	slot, err := l.repo.Mutate(ctx, slotID, func(s *domain.Slot) error {
		if featured && s.State != domain.SlotActive {
			return fmt.Errorf("%w: only active slots can be featured, slot %d is %s",
				domain.ErrPreconditionFailed, slotID, s.State)
		}
		s.Featured = featured
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.broadcast(ctx, slot, domain.EventFeaturedChanged)
	return slot, nil
}

// GetSlot returns a snapshot of one slot.
func (l *SlotLifecycle) GetSlot(ctx context.Context, slotID int) (*domain.Slot, error) {
	return l.repo.Get(ctx, slotID)
}

// ListSlots returns snapshots of slots matching the filter, in id order.
func (l *SlotLifecycle) ListSlots(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	return l.repo.List(ctx, filter)
}

func (l *SlotLifecycle) broadcast(ctx context.Context, slot *domain.Slot, eventType domain.SlotEventType) {
	if l.broadcaster == nil {
		return
	}

	event := &domain.SlotEvent{
		Type:         eventType,
		SlotID:       slot.ID,
		State:        slot.State.String(),
		BuyerID:      slot.BuyerID,
		CurrentPrice: slot.CurrentPrice,
		BidCount:     slot.BidCount,
		Timestamp:    l.clock.Now(),
	}
	if slot.Product != nil {
		event.ProductID = slot.Product.ID
	}

	if err := l.broadcaster.BroadcastToSlot(ctx, slot.ID, event); err != nil {
		l.log.Error("Failed to broadcast slot event", "slot_id", slot.ID, "type", string(eventType), "error", err)
	}
}
