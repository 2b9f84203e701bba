package memory

import (
	"context"
	"sync"

	"sokoclick/internal/domain"
)

type PartyDirectory struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party
}

func NewPartyDirectory() *PartyDirectory {
	return &PartyDirectory{parties: make(map[string]*domain.Party)}
}

func (d *PartyDirectory) FindParty(ctx context.Context, partyID string) (*domain.Party, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	party, ok := d.parties[partyID]
	if !ok {
		return nil, domain.ErrPartyNotFound
	}
	p := *party
	return &p, nil
}

func (d *PartyDirectory) AddParty(ctx context.Context, party *domain.Party) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := *party
	d.parties[p.ID] = &p
	return nil
}
