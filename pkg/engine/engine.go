package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/neatc0der/bacnet/pkg/backend"
	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// Protocol timings. The freshness threshold itself lives in the model
// package (bacnet.FreshnessThreshold).
const (
	DeviceRefreshPeriod = 60 * time.Second
	PostWriteDelay      = 500 * time.Millisecond
	PollInterval        = 1000 * time.Millisecond
)

// Backend is the slice of the backend service the engine drives.
type Backend interface {
	Devices(ctx context.Context) (map[string]*bacnet.Device, error)
	ReadProperty(ctx context.Context, t bacnet.Target) (bacnet.Property, error)
	Nudge(ctx context.Context, t bacnet.Target) error
	Write(ctx context.Context, t bacnet.Target, value string) error
}

// WriteRecorder receives converged writes for the audit log.
type WriteRecorder interface {
	RecordWrite(ctx context.Context, t bacnet.Target, value string, polls int, took time.Duration) error
}

// Engine mirrors backend device state in memory, issues writes and runs
// the confirmation polling protocol on a single-threaded cooperative
// scheduler. All mutation of State happens on the loop; backend I/O runs
// on short-lived goroutines that post their continuations back.
type Engine struct {
	loop     *Loop
	backend  Backend
	state    *State
	metrics  *Metrics
	recorder WriteRecorder

	nextOpID int64 // loop-owned

	refreshPeriod  time.Duration
	postWriteDelay time.Duration
	pollInterval   time.Duration
}

// New creates an engine for the given backend. reg may be nil; metrics are
// then collected but not exported.
func New(b Backend, reg prometheus.Registerer) *Engine {
	return &Engine{
		loop:           NewLoop(),
		backend:        b,
		state:          newState(),
		metrics:        NewMetrics(reg),
		refreshPeriod:  DeviceRefreshPeriod,
		postWriteDelay: PostWriteDelay,
		pollInterval:   PollInterval,
	}
}

// SetRecorder installs the converged-write audit sink. Call before Run.
func (e *Engine) SetRecorder(r WriteRecorder) {
	e.recorder = r
}

// Run executes the scheduler loop and the periodic device refresh until
// the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	go e.refreshLoop(ctx)
	e.loop.Run(ctx)
}

func (e *Engine) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(e.refreshPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.SyncDevices(ctx); err != nil {
				log.Warn().Err(err).Msg("Periodic device refresh failed")
			}
		}
	}
}

// SyncDevices requests the full device listing and replaces the cache's
// top-level mapping wholesale. Any optimistic update applied by an earlier
// operation is overwritten; this is inherent to the refresh design.
func (e *Engine) SyncDevices(ctx context.Context) error {
	devices, err := e.backend.Devices(ctx)
	if err != nil {
		e.metrics.refreshes.WithLabelValues("error").Inc()
		return err
	}
	e.loop.Call(func() {
		e.state.Devices = devices
		e.state.LastRefresh = time.Now()
	})
	e.metrics.refreshes.WithLabelValues("ok").Inc()
	log.Debug().Int("devices", len(devices)).Msg("Device cache replaced")
	return nil
}

// Inspect runs fn on the scheduler with exclusive access to the state.
// fn must not retain references into the state after it returns.
func (e *Engine) Inspect(fn func(*State)) {
	e.loop.Call(func() { fn(e.state) })
}

// Operations returns a snapshot of all outstanding operations, oldest
// first.
func (e *Engine) Operations() []OperationStatus {
	var ops []OperationStatus
	e.Inspect(func(s *State) {
		for _, op := range s.Ops {
			ops = append(ops, op.status())
		}
	})
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	return ops
}

// OperationStatus takes a consistent snapshot of one operation. Posted
// tasks run in order, so a snapshot taken right after Write already
// carries the assigned id.
func (e *Engine) OperationStatus(op *Operation) OperationStatus {
	var st OperationStatus
	e.loop.Call(func() { st = op.status() })
	return st
}

// RefreshProperty issues one read for the target, merges the result and
// returns once the read completed. Unrelated scheduled operations keep
// interleaving while the read is in flight.
func (e *Engine) RefreshProperty(ctx context.Context, t bacnet.Target) error {
	done := make(chan error, 1)
	e.loop.Post(func() {
		e.refresh(ctx, t, func(err error) { done <- err })
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refresh runs on the loop: swap the control to busy, issue the read,
// merge on success and restore the control. A transport failure swaps the
// control to the error affordance and stops; no retry is scheduled. The
// completion callback is invoked on the loop.
func (e *Engine) refresh(ctx context.Context, t bacnet.Target, done func(error)) {
	e.state.Control(t).Indicator = bacnet.IndicatorBusy
	go func() {
		prop, err := e.backend.ReadProperty(ctx, t)
		e.loop.Post(func() {
			ctrl := e.state.Control(t)
			switch {
			case err == nil:
				e.state.mergeProperty(t, prop)
				ctrl.Indicator = bacnet.IndicatorIdle
				e.metrics.reads.WithLabelValues("ok").Inc()
			case errors.Is(err, backend.ErrNotFound):
				// Absent entities render as placeholders; not fatal.
				ctrl.Indicator = bacnet.IndicatorIdle
				e.metrics.reads.WithLabelValues("missing").Inc()
			default:
				ctrl.Indicator = bacnet.IndicatorError
				e.metrics.reads.WithLabelValues("error").Inc()
			}
			done(err)
		})
	}()
}

// Write starts a transmit-then-confirm flow for the target and returns the
// pending operation. Concurrent writes on the same target are not
// deduplicated: each call spawns an independent operation, and whichever
// read response is applied last wins.
func (e *Engine) Write(ctx context.Context, t bacnet.Target, value string) *Operation {
	op := newOperation(t, value)
	e.loop.Post(func() {
		e.nextOpID++
		op.ID = e.nextOpID
		op.Phase = PhaseBusy
		e.state.Ops[op.ID] = op
		e.state.Control(t).Indicator = bacnet.IndicatorBusy
		e.metrics.writes.Inc()
		e.metrics.pending.Inc()
		log.Info().Stringer("target", t).Str("value", value).Int64("op", op.ID).Msg("Write dispatched")
		e.transmit(ctx, op)
	})
	return op
}

// transmit issues the write request and schedules the confirm read after
// the fixed post-write delay. A failed write degrades the affordance only;
// it does not cancel the scheduled confirm.
func (e *Engine) transmit(ctx context.Context, op *Operation) {
	go func() {
		if err := e.backend.Write(ctx, op.Target, op.Value); err != nil {
			log.Warn().Err(err).Stringer("target", op.Target).Msg("Write request failed")
			e.loop.Post(func() {
				e.state.Control(op.Target).Indicator = bacnet.IndicatorError
			})
		}
		time.AfterFunc(e.postWriteDelay, func() {
			e.loop.Post(func() { e.confirm(ctx, op) })
		})
	}()
}

// confirm performs the single post-write read that decides between
// immediate convergence and the repeating polling phase.
func (e *Engine) confirm(ctx context.Context, op *Operation) {
	go func() {
		prop, err := e.backend.ReadProperty(ctx, op.Target)
		e.loop.Post(func() {
			if op.terminal() {
				return
			}
			switch {
			case err == nil && prop.Fresh():
				e.converge(op, prop)
			case err == nil || errors.Is(err, backend.ErrNotFound):
				e.poll(ctx, op)
			default:
				e.fail(op, err)
			}
		})
	}()
}

// poll enters the repeating phase: every tick issues one update nudge
// (fire-and-forget) and one property read, until a read reports freshness
// below the threshold. There is no maximum duration: a target that never
// freshens polls forever, and read failures during the phase are silent.
// Cancelling the caller's context is the only other exit; it fails the
// operation so waiters unblock and the registry entry is dropped.
func (e *Engine) poll(ctx context.Context, op *Operation) {
	op.Phase = PhaseConverging
	op.ticker = time.NewTicker(e.pollInterval)
	go func() {
		defer op.ticker.Stop()
		for {
			select {
			case <-op.stop:
				return
			case <-ctx.Done():
				// The operation must not outlive its context as a live
				// registry entry that nothing is polling anymore.
				e.loop.Post(func() {
					if op.terminal() {
						return
					}
					e.fail(op, ctx.Err())
				})
				return
			case <-op.ticker.C:
				// A tick racing the stop signal must not issue another
				// request.
				select {
				case <-op.stop:
					return
				default:
				}
				e.metrics.pollTicks.Inc()
				e.loop.Post(func() { op.Polls++ })
				go func() { _ = e.backend.Nudge(ctx, op.Target) }()
				prop, err := e.backend.ReadProperty(ctx, op.Target)
				if err != nil {
					continue
				}
				e.loop.Post(func() {
					if op.Phase != PhaseConverging {
						return
					}
					if prop.Fresh() {
						e.converge(op, prop)
					}
				})
			}
		}
	}()
}

// converge finalizes a confirmed write: stop the timer, drop the registry
// entry, merge the read value, restore the affordance and, for binary
// toggles, arm the opposite state as the next write value.
func (e *Engine) converge(op *Operation, prop bacnet.Property) {
	op.Phase = PhaseConverged
	close(op.stop)
	delete(e.state.Ops, op.ID)

	e.state.mergeProperty(op.Target, prop)
	ctrl := e.state.Control(op.Target)
	ctrl.Indicator = bacnet.IndicatorIdle

	if op.Target.Property == bacnet.PropPresentValue && op.Target.Object != "" {
		cat := bacnet.CategoryFromShortID(op.Target.Object)
		if cat.Capability().Toggle {
			if v, ok := prop.Value.(string); ok {
				ctrl.Armed = bacnet.InverseBinary(v)
			}
		}
	}

	took := time.Since(op.Started)
	e.metrics.pending.Dec()
	e.metrics.converged.Inc()
	e.metrics.convergeSeconds.Observe(took.Seconds())
	log.Info().Stringer("target", op.Target).Int64("op", op.ID).
		Int("polls", op.Polls).Dur("took", took).Msg("Write converged")

	if e.recorder != nil {
		polls := op.Polls
		t, value := op.Target, op.Value
		go func() {
			if err := e.recorder.RecordWrite(context.Background(), t, value, polls, took); err != nil {
				log.Warn().Err(err).Stringer("target", t).Msg("Failed to record converged write")
			}
		}()
	}

	op.finish(nil)
}

// fail terminates an operation after a transport failure on the confirm
// read, or when its context is cancelled during the polling phase. Read
// failures inside the polling phase stay silent; only convergence or
// cancellation ends it.
func (e *Engine) fail(op *Operation, err error) {
	op.Phase = PhaseFailed
	close(op.stop)
	delete(e.state.Ops, op.ID)

	e.state.Control(op.Target).Indicator = bacnet.IndicatorError
	e.metrics.pending.Dec()
	e.metrics.failed.Inc()
	log.Warn().Err(err).Stringer("target", op.Target).Int64("op", op.ID).Msg("Write confirmation failed")

	op.finish(err)
}
