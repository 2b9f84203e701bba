package websocket

import (
	"context"

	"sokoclick/internal/domain"
)

// Notifier adapts the connection manager to the SlotBroadcaster interface
// consumed by the lifecycle service.
type Notifier struct {
	connManager domain.ConnectionManager
}

func NewNotifier(connManager domain.ConnectionManager) *Notifier {
	return &Notifier{connManager: connManager}
}

func (n *Notifier) BroadcastToSlot(ctx context.Context, slotID int, message interface{}) error {
	return n.connManager.BroadcastToSlot(slotID, message)
}
