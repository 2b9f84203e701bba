package services

import (
	"context"
	"fmt"
	"time"

	"sokoclick/internal/domain"
	"sokoclick/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SlotSweeper drives the clock-implied transitions: auctions whose start
// time has arrived go Active, active auctions past their end time close to
// Pending. It goes through the same Transition path as manual calls, so the
// table and side effects apply.
type SlotSweeper struct {
	cron      *cron.Cron
	lifecycle *SlotLifecycle
	clock     domain.Clock
	interval  time.Duration
	log       logger.Logger
}

func NewSlotSweeper(lifecycle *SlotLifecycle, clock domain.Clock, interval time.Duration, log logger.Logger) *SlotSweeper {
	return &SlotSweeper{
		cron:      cron.New(cron.WithSeconds()),
		lifecycle: lifecycle,
		clock:     clock,
		interval:  interval,
		log:       log,
	}
}

func (s *SlotSweeper) Start(ctx context.Context) error {
	s.log.Info("Starting slot sweeper", "interval", s.interval.String())

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *SlotSweeper) Stop() error {
	s.log.Info("Stopping slot sweeper")
	s.cron.Stop()
	return nil
}

// Sweep runs one pass over all slots. Failures on individual slots are
// logged and skipped; the slot is retried on the next pass.
func (s *SlotSweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	slots, err := s.lifecycle.ListSlots(ctx, domain.SlotFilter{})
	if err != nil {
		s.log.Error("Failed to list slots for sweep", "error", err)
		return
	}

	for _, slot := range slots {
		switch slot.State {
		case domain.SlotUpcoming, domain.SlotScheduled:
			if slot.StartTime != nil && !slot.StartTime.After(now) {
				if _, err := s.lifecycle.Transition(ctx, slot.ID, domain.SlotActive); err != nil {
					s.log.Error("Failed to start due auction", "slot_id", slot.ID, "error", err)
				}
			}
		case domain.SlotActive:
			if slot.EndTime != nil && slot.EndTime.Before(now) {
				if _, err := s.lifecycle.Transition(ctx, slot.ID, domain.SlotPending); err != nil {
					s.log.Error("Failed to close overdue auction", "slot_id", slot.ID, "error", err)
				}
			}
		}
	}
}
