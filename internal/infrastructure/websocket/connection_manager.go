package websocket

import (
	"encoding/json"
	"sync"

	"sokoclick/internal/domain"
	"sokoclick/pkg/logger"
)

// ConnectionManager tracks which clients are watching which slot and fans
// slot events out to them.
type ConnectionManager struct {
	connections map[int]map[string]domain.WebSocketConnection // slotID -> clientID -> connection
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[int]map[string]domain.WebSocketConnection),
		log:         log,
	}
}

func (cm *ConnectionManager) RegisterConnection(clientID string, slotID int, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.connections[slotID] == nil {
		cm.connections[slotID] = make(map[string]domain.WebSocketConnection)
	}
	cm.connections[slotID][clientID] = conn

	cm.log.Info("Connection registered", "client_id", clientID, "slot_id", slotID)
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(clientID string, slotID int) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if slotConns, exists := cm.connections[slotID]; exists {
		delete(slotConns, clientID)
		if len(slotConns) == 0 {
			delete(cm.connections, slotID)
		}
	}

	cm.log.Info("Connection unregistered", "client_id", clientID, "slot_id", slotID)
	return nil
}

func (cm *ConnectionManager) GetConnectionsForSlot(slotID int) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []domain.WebSocketConnection
	for _, conn := range cm.connections[slotID] {
		connections = append(connections, conn)
	}
	return connections
}

func (cm *ConnectionManager) BroadcastToSlot(slotID int, message interface{}) error {
	connections := cm.GetConnectionsForSlot(slotID)
	if len(connections) == 0 {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(messageBytes); err != nil {
			cm.log.Error("Failed to send slot event", "client_id", conn.ClientID(),
				"slot_id", slotID, "error", err)
			// Continue to other connections
		}
	}
	return nil
}

func (cm *ConnectionManager) CloseAndUnregisterConnections(slotID int) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if slotConns, exists := cm.connections[slotID]; exists {
		for clientID, conn := range slotConns {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "client_id", clientID,
					"slot_id", slotID, "error", err)
			}
		}
		delete(cm.connections, slotID)
	}

	cm.log.Info("Connections closed for slot", "slot_id", slotID)
	return nil
}
