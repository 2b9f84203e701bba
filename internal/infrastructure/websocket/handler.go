package websocket

import (
	"fmt"
	"net/http"
	"strconv"

	"sokoclick/internal/domain"
	"sokoclick/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Handler upgrades watchers onto a slot's event stream. The stream is
// read-only apart from ping; buyers contact sellers over WhatsApp, so there
// is no inbound bid protocol.
type Handler struct {
	repo        domain.SlotRepository
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewHandler(repo domain.SlotRepository, connManager domain.ConnectionManager, log logger.Logger) *Handler {
	return &Handler{
		repo:        repo,
		connManager: connManager,
		log:         log,
	}
}

func (h *Handler) HandleConnection(c echo.Context) error {
	slotID, err := parseSlotID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid slot id"})
	}

	if _, err := h.repo.Get(c.Request().Context(), slotID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "slot not found"})
	}

	clientID := c.QueryParam("client_id")
	if clientID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "client_id required"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return nil
	}

	wsConn := NewConnection(conn, clientID, slotID, h.log)
	if err := h.connManager.RegisterConnection(clientID, slotID, wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		conn.Close()
		return nil
	}

	go h.readLoop(wsConn, clientID, slotID)
	return nil
}

func (h *Handler) readLoop(conn *Connection, clientID string, slotID int) {
	defer func() {
		h.connManager.UnregisterConnection(clientID, slotID)
		conn.Close()
	}()

	for {
		var msg map[string]interface{}
		if err := conn.conn.ReadJSON(&msg); err != nil {
			return
		}

		msgType, ok := msg["type"].(string)
		if !ok {
			continue
		}

		switch msgType {
		case "ping":
			conn.Send(map[string]string{"type": "pong"})
		default:
			conn.Send(map[string]string{"type": "error", "message": "unsupported message type"})
		}
	}
}

func parseSlotID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid slot id %q", raw)
	}
	return id, nil
}
