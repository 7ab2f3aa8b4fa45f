package pipeline

import "testing"

func TestTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to State }{
		{StateReceived, StateMirrorForwarded},
		{StateReceived, StateSkippedEmpty},
		{StateDedupChecked, StateSkippedDuplicate},
		{StateExtracted, StateSkippedNotAVacancy},
		{StateValidated, StateSkippedDuplicate},
		{StateMatched, StateNotificationsDispatched},
		{StatePersisted, StateFailed},
	}
	for _, tt := range allowed {
		if !IsTransitionAllowed(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	forbidden := []struct{ from, to State }{
		{StateReceived, StateDedupChecked},
		{StateMirrorForwarded, StateSkippedEmpty},
		{StateNotificationsDispatched, StateFailed},
		{StateFailed, StateReceived},
		{StateSkippedDuplicate, StatePersisted},
	}
	for _, tt := range forbidden {
		if IsTransitionAllowed(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be forbidden", tt.from, tt.to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateNotificationsDispatched, StateSkippedEmpty, StateSkippedDuplicate, StateSkippedNotAVacancy, StateFailed} {
		if !IsTerminal(s) {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	if IsTerminal(StatePersisted) {
		t.Fatalf("PERSISTED must not be terminal")
	}
}

func TestTrailRejectsIllegalTransition(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on illegal transition")
		}
	}()
	newTrail().advance(StatePersisted)
}
