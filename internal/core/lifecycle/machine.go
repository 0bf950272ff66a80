package lifecycle

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/zerebom/revural/internal/core/review"
)

// ErrInvalidTransition is returned when a fetched status cannot follow the
// current one, for example anything after a terminal state.
var ErrInvalidTransition = errors.New("invalid review status transition")

const (
	stateProcessing = statekit.StateID(review.StatusProcessing)
	stateCompleted  = statekit.StateID(review.StatusCompleted)
	stateFailed     = statekit.StateID(review.StatusFailed)
	stateNotFound   = statekit.StateID(review.StatusNotFound)
)

const (
	eventComplete = "complete"
	eventFail     = "fail"
	eventMissing  = "missing"
)

type machineContext struct {
	ReviewID string
}

// Machine tracks the status of one review job. It starts in processing and
// can move once to completed, failed or not_found. Terminal states have no
// outgoing edges.
type Machine struct {
	interp *statekit.Interpreter[machineContext]
}

// NewMachine builds a machine for reviewID in the processing state.
func NewMachine(reviewID string) (*Machine, error) {
	builder := statekit.NewMachine[machineContext]("review-lifecycle").
		WithInitial(stateProcessing).
		WithContext(machineContext{ReviewID: reviewID})

	builder.State(stateProcessing).
		On(eventComplete).Target(stateCompleted).
		On(eventFail).Target(stateFailed).
		On(eventMissing).Target(stateNotFound).
		Done()

	builder.State(stateCompleted).Done()
	builder.State(stateFailed).Done()
	builder.State(stateNotFound).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build lifecycle machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Machine{interp: interp}, nil
}

// State returns the current status.
func (m *Machine) State() review.Status {
	return review.Status(m.interp.State().Value)
}

// Observe feeds a fetched status into the machine. It reports whether the
// state changed. Seeing the current state again is not a transition.
func (m *Machine) Observe(status review.Status) (bool, error) {
	before := m.State()
	if status == before {
		return false, nil
	}

	var event string
	switch status {
	case review.StatusCompleted:
		event = eventComplete
	case review.StatusFailed:
		event = eventFail
	case review.StatusNotFound:
		event = eventMissing
	default:
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, before, status)
	}

	m.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.State() == before {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, before, status)
	}
	return true, nil
}
