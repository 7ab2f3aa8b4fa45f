// Package pipeline drives one inbound posting from receipt to notification.
//
// Happy path:
//
//	RECEIVED -> MIRROR_FORWARDED -> DEDUP_CHECKED -> EXTRACTED -> VALIDATED
//	         -> PERSISTED -> MATCHED -> NOTIFICATIONS_DISPATCHED
//
// Skips: SKIPPED_EMPTY from RECEIVED, SKIPPED_DUPLICATE from DEDUP_CHECKED or
// VALIDATED (lost insert race), SKIPPED_NOT_A_VACANCY from EXTRACTED. Every
// non-terminal state may move to FAILED.
package pipeline

import "fmt"

type State string

const (
	StateReceived                State = "RECEIVED"
	StateMirrorForwarded         State = "MIRROR_FORWARDED"
	StateDedupChecked            State = "DEDUP_CHECKED"
	StateExtracted               State = "EXTRACTED"
	StateValidated               State = "VALIDATED"
	StatePersisted               State = "PERSISTED"
	StateMatched                 State = "MATCHED"
	StateNotificationsDispatched State = "NOTIFICATIONS_DISPATCHED"
	StateSkippedEmpty            State = "SKIPPED_EMPTY"
	StateSkippedDuplicate        State = "SKIPPED_DUPLICATE"
	StateSkippedNotAVacancy      State = "SKIPPED_NOT_A_VACANCY"
	StateFailed                  State = "FAILED"
)

var validTransitions = map[State][]State{
	StateReceived:        {StateMirrorForwarded, StateSkippedEmpty, StateFailed},
	StateMirrorForwarded: {StateDedupChecked, StateFailed},
	StateDedupChecked:    {StateExtracted, StateSkippedDuplicate, StateFailed},
	StateExtracted:       {StateValidated, StateSkippedNotAVacancy, StateFailed},
	StateValidated:       {StatePersisted, StateSkippedDuplicate, StateFailed},
	StatePersisted:       {StateMatched, StateFailed},
	StateMatched:         {StateNotificationsDispatched, StateFailed},
}

func (s State) String() string { return string(s) }

func stateNames(states []State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s State) bool {
	_, ok := validTransitions[s]
	return !ok
}

func IsTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// trail records the states a run went through.
type trail struct {
	states []State
}

func newTrail() *trail {
	return &trail{states: []State{StateReceived}}
}

func (t *trail) current() State { return t.states[len(t.states)-1] }

func (t *trail) advance(next State) {
	if from := t.current(); !IsTransitionAllowed(from, next) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", from, next))
	}
	t.states = append(t.states, next)
}
