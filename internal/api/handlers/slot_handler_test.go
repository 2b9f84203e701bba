package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/internal/infrastructure/memory"
	"sokoclick/internal/services"
	"sokoclick/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	echo    *echo.Echo
	repo    *memory.SlotRepository
	catalog *memory.ProductCatalog
	clock   fixedClock
}

func newTestServer(t *testing.T, slotCount int) *testServer {
	t.Helper()

	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewSlotRepository(slotCount, clock)
	catalog := memory.NewProductCatalog()
	directory := memory.NewPartyDirectory()

	lifecycle := services.NewSlotLifecycle(
		repo, catalog, directory, clock,
		services.NewTieredIncrementPolicy(), nil, logger.NewNop(),
	)

	e := echo.New()
	NewSlotHandler(lifecycle, logger.NewNop()).Register(e.Group("/api/v1"))

	return &testServer{echo: e, repo: repo, catalog: catalog, clock: clock}
}

func (s *testServer) installActiveSlot(t *testing.T, id int) {
	t.Helper()

	now := s.clock.Now()
	start, end := now.Add(-24*time.Hour), now.Add(24*time.Hour)
	slot := &domain.Slot{
		ID:           id,
		State:        domain.SlotActive,
		Product:      &domain.Product{ID: "product_live", Name: "Live Product", StartingPrice: 120},
		StartTime:    &start,
		EndTime:      &end,
		CurrentPrice: 120,
		UpdatedAt:    now,
	}
	if err := s.repo.Load(context.Background(), []*domain.Slot{slot}); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestListSlots(t *testing.T) {
	s := newTestServer(t, 3)
	s.installActiveSlot(t, 2)

	rec := s.do(http.MethodGet, "/api/v1/slots", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var slots []SlotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}

	rec = s.do(http.MethodGet, "/api/v1/slots?state=active", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != 2 || slots[0].Product == nil {
		t.Fatalf("filtered slots = %+v, want just slot 2 with product", slots)
	}
}

func TestListSlotsUnknownStateFilter(t *testing.T) {
	s := newTestServer(t, 1)

	rec := s.do(http.MethodGet, "/api/v1/slots?state=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssignProductEndpoint(t *testing.T) {
	s := newTestServer(t, 1)
	s.catalog.AddProduct(context.Background(), &domain.Product{ID: "product_a", StartingPrice: 75})

	rec := s.do(http.MethodPost, "/api/v1/slots/1/product", `{"product_id":"product_a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var slot SlotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if slot.State != "scheduled" || slot.CurrentPrice != 75 {
		t.Errorf("slot = %+v", slot)
	}

	// Second assignment conflicts.
	rec = s.do(http.MethodPost, "/api/v1/slots/1/product", `{"product_id":"product_a"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-assign status = %d, want 409", rec.Code)
	}
}

func TestAssignUnknownProductEndpoint(t *testing.T) {
	s := newTestServer(t, 1)

	rec := s.do(http.MethodPost, "/api/v1/slots/1/product", `{"product_id":"product_nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTransitionEndpointMapsInvalidTransition(t *testing.T) {
	s := newTestServer(t, 1)
	s.installActiveSlot(t, 1)

	rec := s.do(http.MethodPost, "/api/v1/slots/1/transition", `{"target":"completed"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("active -> completed status = %d, want 409", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/v1/slots/1/transition", `{"target":"pending"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("active -> pending status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownSlotEndpoint(t *testing.T) {
	s := newTestServer(t, 1)

	rec := s.do(http.MethodGet, "/api/v1/slots/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/v1/slots/zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
