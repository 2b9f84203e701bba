package websocket

import (
	"encoding/json"
	"sync"

	"sokoclick/pkg/logger"

	"github.com/gorilla/websocket"
)

// Connection wraps one gorilla websocket connection subscribed to a slot.
// Writes are serialized; gorilla allows only one concurrent writer.
type Connection struct {
	conn     *websocket.Conn
	clientID string
	slotID   int
	writeMu  sync.Mutex
	log      logger.Logger
}

func NewConnection(conn *websocket.Conn, clientID string, slotID int, log logger.Logger) *Connection {
	return &Connection{
		conn:     conn,
		clientID: clientID,
		slotID:   slotID,
		log:      log,
	}
}

func (c *Connection) Send(message interface{}) error {
	payload, ok := message.([]byte)
	if !ok {
		var err error
		payload, err = json.Marshal(message)
		if err != nil {
			return err
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) ClientID() string { return c.clientID }

func (c *Connection) SlotID() int { return c.slotID }
