package pipeline

import (
	"fmt"

	"uigenie/internal/domain"
)

// State is the lifecycle position of one pipeline run.
type State string

const (
	StateReceived     State = "received"
	StateUploading    State = "uploading"
	StateSynthesizing State = "synthesizing"
	StatePersisting   State = "persisting"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

var stateOrder = map[State]int{
	StateReceived:     0,
	StateUploading:    1,
	StateSynthesizing: 2,
	StatePersisting:   3,
	StateCompleted:    4,
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// stage names the step a state belongs to, used to label failures.
func (s State) stage() domain.Stage {
	switch s {
	case StateUploading:
		return domain.StageStorage
	case StateSynthesizing:
		return domain.StageSynthesis
	case StatePersisting, StateCompleted:
		return domain.StagePersistence
	default:
		return domain.StageIngest
	}
}

// Transition is emitted for every state change of a run.
type Transition struct {
	RequestID string
	OwnerID   string
	From      State
	To        State
	Err       *domain.Error
}

// canTransition allows exactly one step forward, or a move to failed from any
// non-terminal state.
func canTransition(from, to State) error {
	if from.Terminal() {
		return fmt.Errorf("pipeline: no transition out of terminal state %s", from)
	}
	if to == StateFailed {
		return nil
	}
	fi, ok := stateOrder[from]
	ti, ok2 := stateOrder[to]
	if !ok || !ok2 || ti != fi+1 {
		return fmt.Errorf("pipeline: illegal transition %s -> %s", from, to)
	}
	return nil
}
