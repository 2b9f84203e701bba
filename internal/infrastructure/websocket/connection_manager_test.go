package websocket

import (
	"encoding/json"
	"testing"

	"sokoclick/internal/domain"
	"sokoclick/pkg/logger"
)

type fakeConnection struct {
	clientID string
	slotID   int
	sent     [][]byte
	closed   bool
}

func (c *fakeConnection) Send(message interface{}) error {
	payload, ok := message.([]byte)
	if !ok {
		var err error
		payload, err = json.Marshal(message)
		if err != nil {
			return err
		}
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConnection) ClientID() string { return c.clientID }

func (c *fakeConnection) SlotID() int { return c.slotID }

func TestBroadcastReachesOnlySlotSubscribers(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	watcher := &fakeConnection{clientID: "client-a", slotID: 3}
	bystander := &fakeConnection{clientID: "client-b", slotID: 7}
	cm.RegisterConnection(watcher.clientID, watcher.slotID, watcher)
	cm.RegisterConnection(bystander.clientID, bystander.slotID, bystander)

	event := &domain.SlotEvent{Type: domain.EventStateChanged, SlotID: 3, State: "active"}
	if err := cm.BroadcastToSlot(3, event); err != nil {
		t.Fatalf("BroadcastToSlot: %v", err)
	}

	if len(watcher.sent) != 1 {
		t.Fatalf("watcher got %d messages, want 1", len(watcher.sent))
	}
	if len(bystander.sent) != 0 {
		t.Fatalf("bystander of another slot got %d messages, want 0", len(bystander.sent))
	}

	var decoded domain.SlotEvent
	if err := json.Unmarshal(watcher.sent[0], &decoded); err != nil {
		t.Fatalf("broadcast payload is not a SlotEvent: %v", err)
	}
	if decoded.Type != domain.EventStateChanged || decoded.SlotID != 3 {
		t.Errorf("decoded event = %+v", decoded)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	conn := &fakeConnection{clientID: "client-a", slotID: 1}
	cm.RegisterConnection(conn.clientID, conn.slotID, conn)
	cm.UnregisterConnection(conn.clientID, conn.slotID)

	cm.BroadcastToSlot(1, map[string]string{"type": "state_changed"})
	if len(conn.sent) != 0 {
		t.Fatalf("unregistered connection received %d messages", len(conn.sent))
	}
}

func TestCloseAndUnregisterConnections(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	first := &fakeConnection{clientID: "client-a", slotID: 2}
	second := &fakeConnection{clientID: "client-b", slotID: 2}
	cm.RegisterConnection(first.clientID, first.slotID, first)
	cm.RegisterConnection(second.clientID, second.slotID, second)

	if err := cm.CloseAndUnregisterConnections(2); err != nil {
		t.Fatalf("CloseAndUnregisterConnections: %v", err)
	}
	if !first.closed || !second.closed {
		t.Error("connections not closed")
	}
	if conns := cm.GetConnectionsForSlot(2); len(conns) != 0 {
		t.Errorf("%d connections still registered", len(conns))
	}
}
