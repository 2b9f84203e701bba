package domain

import (
	"fmt"
	"time"
)

// Slot is one of the fixed listing positions a product can occupy.
// IDs are stable integers 1..N; a slot is never destroyed, only cycled.
type Slot struct {
	ID           int
	State        SlotState
	Product      *Product
	StartTime    *time.Time
	EndTime      *time.Time
	Featured     bool
	ViewCount    int
	CurrentPrice float64
	BidCount     int
	BuyerID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Occupied reports whether the slot currently holds a product.
func (s *Slot) Occupied() bool {
	return s.Product != nil
}

// Clone returns a deep copy safe to hand to callers outside the repository.
func (s *Slot) Clone() *Slot {
	c := *s
	if s.Product != nil {
		p := *s.Product
		c.Product = &p
	}
	if s.StartTime != nil {
		t := *s.StartTime
		c.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	return &c
}

type SlotState int

const (
	SlotPending SlotState = iota
	SlotUpcoming
	SlotScheduled
	SlotActive
	SlotEnded
	SlotCompleted
	SlotCancelled
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "pending"
	case SlotUpcoming:
		return "upcoming"
	case SlotScheduled:
		return "scheduled"
	case SlotActive:
		return "active"
	case SlotEnded:
		return "ended"
	case SlotCompleted:
		return "completed"
	case SlotCancelled:
		return "cancelled"
	case SlotFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseSlotState maps the wire representation back to a SlotState.
func ParseSlotState(s string) (SlotState, error) {
	switch s {
	case "pending":
		return SlotPending, nil
	case "upcoming":
		return SlotUpcoming, nil
	case "scheduled":
		return SlotScheduled, nil
	case "active":
		return SlotActive, nil
	case "ended":
		return SlotEnded, nil
	case "completed":
		return SlotCompleted, nil
	case "cancelled":
		return SlotCancelled, nil
	case "failed":
		return SlotFailed, nil
	default:
		return 0, fmt.Errorf("unknown slot state %q", s)
	}
}

// Product is a catalog entry a seller offers through a slot.
type Product struct {
	ID            string
	Name          string
	StartingPrice float64
	SellerID      string
	CreatedAt     time.Time
}

// Party is any user-directory entity (seller or buyer) referenced by a slot.
// Buyers reach sellers over WhatsApp, so the contact number rides along.
type Party struct {
	ID       string
	Name     string
	Role     PartyRole
	WhatsApp string
}

type PartyRole string

const (
	RoleSeller PartyRole = "seller"
	RoleBuyer  PartyRole = "buyer"
)

type SlotEvent struct {
	Type         SlotEventType `json:"type"`
	SlotID       int           `json:"slot_id"`
	State        string        `json:"state"`
	ProductID    string        `json:"product_id,omitempty"`
	BuyerID      string        `json:"buyer_id,omitempty"`
	CurrentPrice float64       `json:"current_price"`
	BidCount     int           `json:"bid_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

type SlotEventType string

const (
	EventProductAssigned  SlotEventType = "product_assigned"
	EventProductRemoved   SlotEventType = "product_removed"
	EventStateChanged     SlotEventType = "state_changed"
	EventBidRecorded      SlotEventType = "bid_recorded"
	EventAuctionCompleted SlotEventType = "auction_completed"
	EventFeaturedChanged  SlotEventType = "featured_changed"
)
