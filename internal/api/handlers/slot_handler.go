package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/internal/services"
	"sokoclick/pkg/logger"

	"github.com/labstack/echo/v4"
)

type SlotHandler struct {
	lifecycle *services.SlotLifecycle
	log       logger.Logger
}

func NewSlotHandler(lifecycle *services.SlotLifecycle, log logger.Logger) *SlotHandler {
	return &SlotHandler{
		lifecycle: lifecycle,
		log:       log,
	}
}

// Register wires the slot routes onto an echo group.
func (h *SlotHandler) Register(g *echo.Group) {
	g.GET("/slots", h.ListSlots)
	g.GET("/slots/:id", h.GetSlot)
	g.POST("/slots/:id/product", h.AssignProduct)
	g.DELETE("/slots/:id/product", h.RemoveProduct)
	g.POST("/slots/:id/transition", h.Transition)
	g.POST("/slots/:id/complete", h.CompleteAuction)
	g.POST("/slots/:id/bids", h.RecordBid)
	g.POST("/slots/:id/views", h.RecordView)
	g.PUT("/slots/:id/featured", h.SetFeatured)
}

type SlotResponse struct {
	ID           int              `json:"id"`
	State        string           `json:"state"`
	Product      *ProductResponse `json:"product,omitempty"`
	StartTime    *time.Time       `json:"start_time,omitempty"`
	EndTime      *time.Time       `json:"end_time,omitempty"`
	Featured     bool             `json:"featured"`
	ViewCount    int              `json:"view_count"`
	CurrentPrice float64          `json:"current_price"`
	BidCount     int              `json:"bid_count"`
	BuyerID      string           `json:"buyer_id,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type ProductResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	StartingPrice float64 `json:"starting_price"`
	SellerID      string  `json:"seller_id"`
}

func toSlotResponse(slot *domain.Slot) SlotResponse {
	resp := SlotResponse{
		ID:           slot.ID,
		State:        slot.State.String(),
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Featured:     slot.Featured,
		ViewCount:    slot.ViewCount,
		CurrentPrice: slot.CurrentPrice,
		BidCount:     slot.BidCount,
		BuyerID:      slot.BuyerID,
		UpdatedAt:    slot.UpdatedAt,
	}
	if slot.Product != nil {
		resp.Product = &ProductResponse{
			ID:            slot.Product.ID,
			Name:          slot.Product.Name,
			StartingPrice: slot.Product.StartingPrice,
			SellerID:      slot.Product.SellerID,
		}
	}
	return resp
}

func (h *SlotHandler) ListSlots(c echo.Context) error {
	var filter domain.SlotFilter
	if raw := c.QueryParam("state"); raw != "" {
		state, err := domain.ParseSlotState(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		filter.State = &state
	}

	slots, err := h.lifecycle.ListSlots(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotResponse(slot))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SlotHandler) GetSlot(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	slot, err := h.lifecycle.GetSlot(c.Request().Context(), slotID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

type AssignProductRequest struct {
	ProductID string `json:"product_id"`
}

func (h *SlotHandler) AssignProduct(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	var req AssignProductRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product_id required"})
	}

	slot, err := h.lifecycle.AssignProduct(c.Request().Context(), slotID, req.ProductID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) RemoveProduct(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	slot, err := h.lifecycle.RemoveProduct(c.Request().Context(), slotID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

type TransitionRequest struct {
	Target string `json:"target"`
}

func (h *SlotHandler) Transition(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	target, err := domain.ParseSlotState(req.Target)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	slot, err := h.lifecycle.Transition(c.Request().Context(), slotID, target)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

type CompleteAuctionRequest struct {
	BuyerID string `json:"buyer_id"`
}

func (h *SlotHandler) CompleteAuction(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	var req CompleteAuctionRequest
	if err := c.Bind(&req); err != nil || req.BuyerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "buyer_id required"})
	}

	slot, err := h.lifecycle.CompleteAuction(c.Request().Context(), slotID, req.BuyerID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) RecordBid(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	slot, err := h.lifecycle.RecordBid(c.Request().Context(), slotID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) RecordView(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	slot, err := h.lifecycle.RecordView(c.Request().Context(), slotID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

type SetFeaturedRequest struct {
	Featured bool `json:"featured"`
}

func (h *SlotHandler) SetFeatured(c echo.Context) error {
	slotID, err := h.slotID(c)
	if err != nil {
		return err
	}

	var req SetFeaturedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	slot, err := h.lifecycle.SetFeatured(c.Request().Context(), slotID, req.Featured)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) slotID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid slot id")
	}
	return id, nil
}

// fail maps domain errors onto HTTP statuses.
func (h *SlotHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrPartyNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsInvalidTransition(err),
		errors.Is(err, domain.ErrSlotOccupied),
		errors.Is(err, domain.ErrSlotEmpty),
		errors.Is(err, domain.ErrPreconditionFailed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("Unhandled slot operation error", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
