package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/internal/services"
	"sokoclick/pkg/utils"
)

// Loader is the slice of the repository the generator needs: a one-shot
// install of fixture slots at startup.
type Loader interface {
	Load(ctx context.Context, slots []*domain.Slot) error
}

// Generator produces a deterministic demo marketplace: products, sellers,
// buyers, and slots in every lifecycle state with timestamps that follow
// the canonical per-state windows. It runs once at fixture setup; reads
// always come from the repository afterwards.
type Generator struct {
	rng     *rand.Rand
	clock   domain.Clock
	pricing services.IncrementPolicy
}

func NewGenerator(seed int64, clock domain.Clock, pricing services.IncrementPolicy) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		clock:   clock,
		pricing: pricing,
	}
}

// seedKind distinguishes the two Pending flavors (empty vs. awaiting a
// buyer's payment) on top of the visible states.
type seedKind int

const (
	kindEmpty seedKind = iota
	kindScheduled
	kindUpcoming
	kindActive
	kindAwaitingBuyer // occupied Pending after an auction closed
	kindEnded
	kindCompleted
	kindCancelled
	kindFailed
)

// slotMix cycles across slots so every state shows up, with live auctions
// over-represented the way the home page wants them.
var slotMix = []seedKind{
	kindActive, kindActive, kindScheduled, kindActive, kindUpcoming,
	kindEmpty, kindActive, kindAwaitingBuyer, kindEnded, kindCompleted,
	kindActive, kindCancelled, kindFailed, kindScheduled, kindEmpty,
}

var productNames = []string{
	"Samsung Galaxy A24", "iPhone 12 Pro", "HP EliteBook 840",
	"LG Smart Refrigerator", "Honda EU22i Generator", "Sony PlayStation 5",
	"Canon EOS 250D", "Yamaha PSR Keyboard", "Infinix Note 30",
	"Dell Inspiron 15", "Tecno Spark 20", "Nikon D3500",
}

var sellerNames = []string{
	"Amina N.", "Blaise T.", "Chantal M.", "Didier F.", "Esther K.",
	"Franck B.", "Grace E.", "Hamidou S.",
}

var buyerNames = []string{
	"Irene A.", "Joseph W.", "Koki L.", "Laure P.", "Martin O.", "Nadia Y.",
}

// Populate fills the catalog, the directory and the slot repository with a
// consistent fixture set for count slots. Every generated slot is checked
// against the at-rest invariants before being installed.
func (g *Generator) Populate(
	ctx context.Context,
	repo Loader,
	catalog domain.ProductCatalog,
	directory domain.PartyDirectory,
	count int,
) error {
	now := g.clock.Now()

	buyers := make([]*domain.Party, 0, len(buyerNames))
	for _, name := range buyerNames {
		buyer := &domain.Party{
			ID:       utils.GenerateID("party"),
			Name:     name,
			Role:     domain.RoleBuyer,
			WhatsApp: g.phoneNumber(),
		}
		if err := directory.AddParty(ctx, buyer); err != nil {
			return err
		}
		buyers = append(buyers, buyer)
	}

	slots := make([]*domain.Slot, 0, count)
	for id := 1; id <= count; id++ {
		kind := slotMix[(id-1)%len(slotMix)]

		slot, err := g.buildSlot(ctx, id, kind, now, buyers, catalog, directory)
		if err != nil {
			return err
		}
		if err := domain.ValidateSlot(slot, now); err != nil {
			return fmt.Errorf("seed produced an inconsistent slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return repo.Load(ctx, slots)
}

func (g *Generator) buildSlot(
	ctx context.Context,
	id int,
	kind seedKind,
	now time.Time,
	buyers []*domain.Party,
	catalog domain.ProductCatalog,
	directory domain.PartyDirectory,
) (*domain.Slot, error) {
	slot := &domain.Slot{
		ID:        id,
		State:     domain.SlotPending,
		CreatedAt: now.Add(-g.between(30*day, 90*day)),
		UpdatedAt: now,
	}
	if kind == kindEmpty {
		return slot, nil
	}

	seller := &domain.Party{
		ID:       utils.GenerateID("party"),
		Name:     sellerNames[g.rng.Intn(len(sellerNames))],
		Role:     domain.RoleSeller,
		WhatsApp: g.phoneNumber(),
	}
	if err := directory.AddParty(ctx, seller); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:            utils.GenerateID("product"),
		Name:          productNames[g.rng.Intn(len(productNames))],
		StartingPrice: float64(10 + g.rng.Intn(990)),
		SellerID:      seller.ID,
		CreatedAt:     slot.CreatedAt,
	}
	if err := catalog.AddProduct(ctx, product); err != nil {
		return nil, err
	}

	slot.Product = product
	slot.CurrentPrice = product.StartingPrice
	slot.ViewCount = g.rng.Intn(500)

	switch kind {
	case kindScheduled, kindUpcoming:
		slot.State = domain.SlotScheduled
		if kind == kindUpcoming {
			slot.State = domain.SlotUpcoming
		}
		start := now.Add(g.between(1*day, 7*day))
		end := start.Add(g.between(3*day, 10*day))
		slot.StartTime = &start
		slot.EndTime = &end

	case kindActive:
		slot.State = domain.SlotActive
		start := now.Add(-g.between(1*time.Hour, 10*day))
		end := now.Add(g.between(1*time.Hour, 14*day))
		slot.StartTime = &start
		slot.EndTime = &end
		g.applyBids(slot, g.rng.Intn(13))
		slot.Featured = g.rng.Intn(4) == 0

	case kindAwaitingBuyer, kindCompleted:
		if kind == kindCompleted {
			slot.State = domain.SlotCompleted
		}
		end := now.Add(-g.between(1*time.Hour, 5*day))
		start := end.Add(-g.between(3*day, 10*day))
		slot.StartTime = &start
		slot.EndTime = &end
		g.applyBids(slot, 1+g.rng.Intn(12))
		slot.BuyerID = buyers[g.rng.Intn(len(buyers))].ID

	case kindEnded:
		slot.State = domain.SlotEnded
		end := now.Add(-g.between(1*time.Hour, 5*day))
		start := end.Add(-g.between(3*day, 10*day))
		slot.StartTime = &start
		slot.EndTime = &end
		g.applyBids(slot, g.rng.Intn(8))

	case kindCancelled:
		slot.State = domain.SlotCancelled
		end := now.Add(-g.between(1*time.Hour, 3*day))
		start := end.Add(-g.between(1*day, 5*day))
		slot.StartTime = &start
		slot.EndTime = &end

	case kindFailed:
		slot.State = domain.SlotFailed
		end := now.Add(-g.between(1*time.Hour, 5*day))
		start := end.Add(-g.between(3*day, 10*day))
		slot.StartTime = &start
		slot.EndTime = &end
	}

	return slot, nil
}

func (g *Generator) applyBids(slot *domain.Slot, bidCount int) {
	slot.BidCount = bidCount
	slot.CurrentPrice = services.PriceAfterBids(slot.Product.StartingPrice, bidCount, g.pricing)
}

const day = 24 * time.Hour

// between returns a duration in [min, max).
func (g *Generator) between(min, max time.Duration) time.Duration {
	return min + time.Duration(g.rng.Int63n(int64(max-min)))
}

func (g *Generator) phoneNumber() string {
	return fmt.Sprintf("+2376%08d", g.rng.Intn(100000000))
}
