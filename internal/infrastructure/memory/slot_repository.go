package memory

import (
	"context"
	"sort"
	"sync"

	"sokoclick/internal/domain"
)

// SlotRepository holds the fixed set of slots in memory. Each slot has its
// own mutex, so operations on different slots proceed in parallel while two
// operations on the same slot never interleave their read-modify-write.
type SlotRepository struct {
	slots map[int]*slotEntry
}

type slotEntry struct {
	mu   sync.Mutex
	slot *domain.Slot
}

// NewSlotRepository creates count empty slots with ids 1..count, all in the
// initial Pending state.
func NewSlotRepository(count int, clock domain.Clock) *SlotRepository {
	now := clock.Now()
	slots := make(map[int]*slotEntry, count)
	for id := 1; id <= count; id++ {
		slots[id] = &slotEntry{
			slot: &domain.Slot{
				ID:        id,
				State:     domain.SlotPending,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
	}
	return &SlotRepository{slots: slots}
}

func (r *SlotRepository) Get(ctx context.Context, slotID int) (*domain.Slot, error) {
	entry, ok := r.slots[slotID]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.slot.Clone(), nil
}

func (r *SlotRepository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	ids := make([]int, 0, len(r.slots))
	for id := range r.slots {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []*domain.Slot
	for _, id := range ids {
		entry := r.slots[id]
		entry.mu.Lock()
		slot := entry.slot.Clone()
		entry.mu.Unlock()

		if filter.State != nil && slot.State != *filter.State {
			continue
		}
		if filter.Occupied != nil && slot.Occupied() != *filter.Occupied {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// Mutate applies fn to a working copy of the slot under its lock and commits
// the copy only if fn succeeds, so a failed operation leaves no partial
// mutation behind. Returns a snapshot of the committed slot.
func (r *SlotRepository) Mutate(ctx context.Context, slotID int, fn func(*domain.Slot) error) (*domain.Slot, error) {
	entry, ok := r.slots[slotID]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	work := entry.slot.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	entry.slot = work
	return work.Clone(), nil
}

// Load replaces the stored state of the given slots. Unknown ids are
// rejected; the fixture set is fixed at construction. Used by the seed
// generator at startup, never per-read.
func (r *SlotRepository) Load(ctx context.Context, slots []*domain.Slot) error {
	for _, slot := range slots {
		entry, ok := r.slots[slot.ID]
		if !ok {
			return domain.ErrSlotNotFound
		}
		entry.mu.Lock()
		entry.slot = slot.Clone()
		entry.mu.Unlock()
	}
	return nil
}
