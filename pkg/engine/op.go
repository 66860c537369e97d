package engine

import (
	"context"
	"time"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// Phase of a pending operation.
type Phase int

const (
	PhaseIdle       Phase = iota // created, not yet dispatched
	PhaseBusy                    // write or initial confirm read in flight
	PhaseConverging              // repeating polling phase
	PhaseConverged               // freshness condition met, terminal
	PhaseFailed                  // transport failure before polling, terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseBusy:
		return "busy"
	case PhaseConverging:
		return "converging"
	case PhaseConverged:
		return "converged"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Operation is the unit of one write-then-confirm flow. All fields except
// the wait channel are owned by the scheduler loop.
type Operation struct {
	ID      int64
	Target  bacnet.Target
	Value   string
	Phase   Phase
	Started time.Time
	Polls   int // completed polling ticks

	ticker *time.Ticker
	stop   chan struct{}

	doneCh chan struct{}
	err    error
}

func newOperation(t bacnet.Target, value string) *Operation {
	return &Operation{
		Target:  t,
		Value:   value,
		Started: time.Now(),
		stop:    make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// finish records the terminal result. Runs on the loop, at most once.
func (o *Operation) finish(err error) {
	o.err = err
	close(o.doneCh)
}

// terminal reports whether the operation already reached a final phase.
func (o *Operation) terminal() bool {
	return o.Phase == PhaseConverged || o.Phase == PhaseFailed
}

// Wait blocks until the operation converges or fails, or the context
// expires. An operation in the unbounded polling phase only finishes when
// its freshness condition is met, so callers should pass a deadline.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.doneCh:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OperationStatus is a loop-independent snapshot of an operation.
type OperationStatus struct {
	ID       int64         `json:"id"`
	Device   string        `json:"device"`
	Object   string        `json:"object,omitempty"`
	Property string        `json:"property"`
	Value    string        `json:"value"`
	Phase    string        `json:"phase"`
	Polls    int           `json:"polls"`
	Elapsed  time.Duration `json:"elapsed"`
}

func (o *Operation) status() OperationStatus {
	return OperationStatus{
		ID:       o.ID,
		Device:   o.Target.Device,
		Object:   o.Target.Object,
		Property: o.Target.Property,
		Value:    o.Value,
		Phase:    o.Phase.String(),
		Polls:    o.Polls,
		Elapsed:  time.Since(o.Started),
	}
}
