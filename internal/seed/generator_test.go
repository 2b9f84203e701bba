package seed

import (
	"context"
	"testing"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/internal/infrastructure/memory"
	"sokoclick/internal/services"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func populate(t *testing.T, seed int64, count int) ([]*domain.Slot, fixedClock) {
	t.Helper()

	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewSlotRepository(count, clock)
	catalog := memory.NewProductCatalog()
	directory := memory.NewPartyDirectory()

	g := NewGenerator(seed, clock, services.NewTieredIncrementPolicy())
	if err := g.Populate(context.Background(), repo, catalog, directory, count); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	slots, err := repo.List(context.Background(), domain.SlotFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return slots, clock
}

func TestPopulateSatisfiesInvariants(t *testing.T) {
	slots, clock := populate(t, 7, 30)

	if len(slots) != 30 {
		t.Fatalf("got %d slots, want 30", len(slots))
	}
	for _, slot := range slots {
		if err := domain.ValidateSlot(slot, clock.Now()); err != nil {
			t.Errorf("seeded slot invalid: %v", err)
		}
	}
}

func TestPopulateWindowsMatchStates(t *testing.T) {
	slots, clock := populate(t, 7, 30)
	now := clock.Now()

	seen := map[domain.SlotState]int{}
	for _, slot := range slots {
		seen[slot.State]++

		switch slot.State {
		case domain.SlotPending:
			if slot.Occupied() {
				// Post-close pending: closed in the past with a buyer.
				if slot.EndTime.After(now) {
					t.Errorf("slot %d: post-close pending ends in the future", slot.ID)
				}
				if slot.BuyerID == "" {
					t.Errorf("slot %d: post-close pending without buyer", slot.ID)
				}
			}
		case domain.SlotScheduled, domain.SlotUpcoming:
			if !slot.StartTime.After(now) {
				t.Errorf("slot %d: %s but start %v not in the future", slot.ID, slot.State, slot.StartTime)
			}
		case domain.SlotActive:
			if slot.StartTime.After(now) || !slot.EndTime.After(now) {
				t.Errorf("slot %d: active window %v..%v does not straddle now", slot.ID, slot.StartTime, slot.EndTime)
			}
		case domain.SlotEnded, domain.SlotCompleted, domain.SlotCancelled, domain.SlotFailed:
			if slot.EndTime.After(now) {
				t.Errorf("slot %d: closed state %s ends in the future", slot.ID, slot.State)
			}
		}
	}

	for _, state := range []domain.SlotState{
		domain.SlotPending, domain.SlotScheduled, domain.SlotUpcoming, domain.SlotActive,
		domain.SlotEnded, domain.SlotCompleted, domain.SlotCancelled, domain.SlotFailed,
	} {
		if seen[state] == 0 {
			t.Errorf("fixture set contains no %s slot", state)
		}
	}
}

func TestPopulateIsDeterministic(t *testing.T) {
	first, _ := populate(t, 99, 25)
	second, _ := populate(t, 99, 25)

	for i := range first {
		a, b := first[i], second[i]
		if a.State != b.State || a.BidCount != b.BidCount || a.CurrentPrice != b.CurrentPrice {
			t.Errorf("slot %d differs across identically seeded runs: %+v vs %+v", a.ID, a, b)
		}
		if (a.StartTime == nil) != (b.StartTime == nil) {
			t.Errorf("slot %d: window presence differs across runs", a.ID)
			continue
		}
		if a.StartTime != nil && (!a.StartTime.Equal(*b.StartTime) || !a.EndTime.Equal(*b.EndTime)) {
			t.Errorf("slot %d: windows differ across identically seeded runs", a.ID)
		}
	}
}

func TestPopulateFailedSlotsHaveNoBids(t *testing.T) {
	slots, _ := populate(t, 7, 30)

	for _, slot := range slots {
		if slot.State == domain.SlotFailed || slot.State == domain.SlotUpcoming {
			if slot.BidCount != 0 {
				t.Errorf("slot %d: %s with %d bids", slot.ID, slot.State, slot.BidCount)
			}
		}
	}
}
