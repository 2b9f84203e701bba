package domain

import (
	"context"
	"time"
)

// Repository interfaces
type SlotRepository interface {
	Get(ctx context.Context, slotID int) (*Slot, error)
	List(ctx context.Context, filter SlotFilter) ([]*Slot, error)
	// Mutate runs fn against the slot under its lock and returns a snapshot
	// of the result. If fn returns an error the slot is left unmodified.
	Mutate(ctx context.Context, slotID int, fn func(*Slot) error) (*Slot, error)
}

// SlotFilter narrows List results; nil fields match everything.
type SlotFilter struct {
	State    *SlotState
	Occupied *bool
}

// Catalog interfaces
type ProductCatalog interface {
	FindProduct(ctx context.Context, productID string) (*Product, error)
	AddProduct(ctx context.Context, product *Product) error
}

type PartyDirectory interface {
	FindParty(ctx context.Context, partyID string) (*Party, error)
	AddParty(ctx context.Context, party *Party) error
}

// Clock is injected so tests can fix "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Notification interfaces
type SlotBroadcaster interface {
	BroadcastToSlot(ctx context.Context, slotID int, message interface{}) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	ClientID() string
	SlotID() int
}

type ConnectionManager interface {
	RegisterConnection(clientID string, slotID int, conn WebSocketConnection) error
	UnregisterConnection(clientID string, slotID int) error
	GetConnectionsForSlot(slotID int) []WebSocketConnection
	BroadcastToSlot(slotID int, message interface{}) error
	CloseAndUnregisterConnections(slotID int) error
}
