package domain

import "testing"

var allStates = []SlotState{
	SlotPending, SlotUpcoming, SlotScheduled, SlotActive,
	SlotEnded, SlotCompleted, SlotCancelled, SlotFailed,
}

func TestTransitionClosure(t *testing.T) {
	allowed := map[SlotState]map[SlotState]bool{
		SlotUpcoming:  {SlotActive: true, SlotCancelled: true},
		SlotScheduled: {SlotActive: true, SlotCancelled: true},
		SlotActive:    {SlotPending: true, SlotFailed: true, SlotCancelled: true},
		SlotPending:   {SlotCompleted: true, SlotFailed: true, SlotCancelled: true},
		SlotEnded:     {SlotCompleted: true, SlotFailed: true},
		SlotCompleted: {},
		SlotCancelled: {},
		SlotFailed:    {SlotActive: true},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, s := range []SlotState{SlotCompleted, SlotCancelled} {
		if !Terminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
		if targets := AllowedTargets(s); len(targets) != 0 {
			t.Errorf("terminal state %s has targets %v", s, targets)
		}
	}
}

func TestFailedOnlyReactivates(t *testing.T) {
	targets := AllowedTargets(SlotFailed)
	if len(targets) != 1 || targets[0] != SlotActive {
		t.Fatalf("AllowedTargets(failed) = %v, want [active]", targets)
	}
}

func TestParseSlotState(t *testing.T) {
	for _, s := range allStates {
		parsed, err := ParseSlotState(s.String())
		if err != nil {
			t.Fatalf("ParseSlotState(%q): %v", s.String(), err)
		}
		if parsed != s {
			t.Errorf("ParseSlotState(%q) = %v, want %v", s.String(), parsed, s)
		}
	}

	if _, err := ParseSlotState("archived"); err == nil {
		t.Error("expected error for unknown state string")
	}
}
