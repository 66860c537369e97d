package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/neatc0der/bacnet/pkg/backend"
	"github.com/neatc0der/bacnet/pkg/bacnet"
)

type readResult struct {
	prop bacnet.Property
	err  error
}

// fakeBackend serves canned responses. ReadProperty consumes the reads
// queue; the last entry repeats.
type fakeBackend struct {
	mu         sync.Mutex
	devices    map[string]*bacnet.Device
	devicesErr error
	reads      []readResult
	writeErr   error

	readCount  int
	nudgeCount int
	writeCount int
}

func (f *fakeBackend) Devices(ctx context.Context) (map[string]*bacnet.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	return f.devices, nil
}

func (f *fakeBackend) ReadProperty(ctx context.Context, t bacnet.Target) (bacnet.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCount++
	if len(f.reads) == 0 {
		return bacnet.Property{}, fmt.Errorf("%w: no canned read", backend.ErrNotFound)
	}
	r := f.reads[0]
	if len(f.reads) > 1 {
		f.reads = f.reads[1:]
	}
	return r.prop, r.err
}

func (f *fakeBackend) Nudge(ctx context.Context, t bacnet.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nudgeCount++
	return nil
}

func (f *fakeBackend) Write(ctx context.Context, t bacnet.Target, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCount++
	return f.writeErr
}

func (f *fakeBackend) counts() (reads, nudges, writes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readCount, f.nudgeCount, f.writeCount
}

func testDevice(id string) *bacnet.Device {
	return &bacnet.Device{
		ID:   id,
		Name: "Test " + id,
		Objects: map[string]*bacnet.Object{
			"binaryOutput_3": {
				ID:       "binaryOutput_3",
				Category: bacnet.CategoryBinaryOutput,
				Properties: map[string]*bacnet.Property{
					"presentValue": {Name: "presentValue", Value: "inactive", Updated: 90},
				},
			},
		},
		Properties: map[string]*bacnet.Property{
			"objectName": {Name: "objectName", Value: "Test " + id, Updated: 30},
		},
	}
}

func newTestEngine(t *testing.T, b Backend) *Engine {
	t.Helper()
	e := New(b, nil)
	e.postWriteDelay = 5 * time.Millisecond
	e.pollInterval = 10 * time.Millisecond
	e.refreshPeriod = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go e.Run(ctx)
	return e
}

func outputTarget() bacnet.Target {
	return bacnet.Target{Device: "device_1", Object: "binaryOutput_3", Property: "presentValue"}
}

func TestSyncDevices_ReplacesWholesale(t *testing.T) {
	fake := &fakeBackend{devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")}}
	e := newTestEngine(t, fake)

	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}
	e.Inspect(func(s *State) {
		if _, ok := s.Devices["device_1"]; !ok {
			t.Error("expected device_1 after refresh")
		}
		if s.LastRefresh.IsZero() {
			t.Error("expected LastRefresh to be set")
		}
	})

	// The next refresh replaces the top-level mapping; the old device is
	// gone, not merged.
	fake.mu.Lock()
	fake.devices = map[string]*bacnet.Device{"device_2": testDevice("device_2")}
	fake.mu.Unlock()

	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}
	e.Inspect(func(s *State) {
		if _, ok := s.Devices["device_1"]; ok {
			t.Error("device_1 should be gone after wholesale replacement")
		}
		if _, ok := s.Devices["device_2"]; !ok {
			t.Error("expected device_2 after refresh")
		}
	})
}

func TestSyncDevices_ErrorKeepsCache(t *testing.T) {
	fake := &fakeBackend{devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")}}
	e := newTestEngine(t, fake)

	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	fake.mu.Lock()
	fake.devicesErr = fmt.Errorf("%w: backend down", backend.ErrTransport)
	fake.mu.Unlock()

	if err := e.SyncDevices(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	e.Inspect(func(s *State) {
		if _, ok := s.Devices["device_1"]; !ok {
			t.Error("failed refresh must not drop the cache")
		}
	})
}

func TestLookup_NeverFails(t *testing.T) {
	fake := &fakeBackend{devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")}}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	e.Inspect(func(s *State) {
		res := s.Lookup("device_404", "binaryOutput_3", "presentValue")
		if res.Device != nil || res.Object != nil || res.Property != nil {
			t.Errorf("expected all-nil result for missing device, got %+v", res)
		}

		res = s.Lookup("device_1", "binaryOutput_404", "presentValue")
		if res.Device == nil || res.Object != nil || res.Property != nil {
			t.Errorf("expected device-only result for missing object, got %+v", res)
		}

		res = s.Lookup("device_1", "binaryOutput_3", "description")
		if res.Object == nil || res.Property != nil {
			t.Errorf("expected object-only result for missing property, got %+v", res)
		}

		res = s.Lookup("device_1", "", "objectName")
		if res.Property == nil {
			t.Error("expected device-level property")
		}
	})
}

func TestRefreshProperty_MergesValue(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: "active", Updated: 2}},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	if err := e.RefreshProperty(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	e.Inspect(func(s *State) {
		res := s.Lookup(target.Device, target.Object, target.Property)
		if res.Property == nil || res.Property.Value != "active" {
			t.Errorf("expected merged value, got %+v", res.Property)
		}
		if ctrl := s.ControlView(target); ctrl.Indicator != bacnet.IndicatorIdle {
			t.Errorf("expected idle indicator, got %v", ctrl.Indicator)
		}
	})
}

func TestRefreshProperty_CreatesMissingObject(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: 21.5, Updated: 1}},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := bacnet.Target{Device: "device_1", Object: "analogInput_7", Property: "presentValue"}
	if err := e.RefreshProperty(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	e.Inspect(func(s *State) {
		res := s.Lookup(target.Device, target.Object, target.Property)
		if res.Object == nil {
			t.Fatal("expected object created by merge")
		}
		if res.Object.Category != bacnet.CategoryAnalogInput {
			t.Errorf("expected category from short id, got %q", res.Object.Category)
		}
		if res.Property == nil || res.Property.Value != 21.5 {
			t.Errorf("expected merged property, got %+v", res.Property)
		}
	})
}

func TestRefreshProperty_NotFoundIsNotFatal(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{err: fmt.Errorf("%w: object binaryOutput_9", backend.ErrNotFound)},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := bacnet.Target{Device: "device_1", Object: "binaryOutput_9", Property: "presentValue"}
	err := e.RefreshProperty(context.Background(), target)
	if !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	e.Inspect(func(s *State) {
		// An absent entity renders as a placeholder, not as an error.
		if ctrl := s.ControlView(target); ctrl.Indicator != bacnet.IndicatorIdle {
			t.Errorf("expected idle indicator, got %v", ctrl.Indicator)
		}
	})
}

func TestRefreshProperty_TransportErrorDegradesControl(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{err: fmt.Errorf("%w: backend down", backend.ErrTransport)},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	if err := e.RefreshProperty(context.Background(), target); err == nil {
		t.Fatal("expected transport error")
	}

	e.Inspect(func(s *State) {
		if ctrl := s.ControlView(target); ctrl.Indicator != bacnet.IndicatorError {
			t.Errorf("expected error indicator, got %v", ctrl.Indicator)
		}
	})
}

func TestWrite_ConvergesOnFreshConfirm(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: "active", Updated: 0}},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	op := e.Write(context.Background(), target, "active")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	e.Inspect(func(s *State) {
		if len(s.Ops) != 0 {
			t.Errorf("expected empty operation registry, got %d entries", len(s.Ops))
		}
		res := s.Lookup(target.Device, target.Object, target.Property)
		if res.Property == nil || res.Property.Value != "active" {
			t.Errorf("expected merged confirm value, got %+v", res.Property)
		}
		ctrl := s.ControlView(target)
		if ctrl.Indicator != bacnet.IndicatorIdle {
			t.Errorf("expected idle indicator, got %v", ctrl.Indicator)
		}
		// The armed toggle flips to the opposite of the confirmed state.
		if ctrl.Armed != "inactive" {
			t.Errorf("expected armed inactive, got %q", ctrl.Armed)
		}
	})

	if _, _, writes := fake.counts(); writes != 1 {
		t.Errorf("expected one backend write, got %d", writes)
	}
}

func TestWrite_PollsUntilFresh(t *testing.T) {
	stale := bacnet.Property{Name: "presentValue", Value: "inactive", Updated: 60}
	fresh := bacnet.Property{Name: "presentValue", Value: "active", Updated: 1}
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		// Confirm read is stale, then two stale polls, then fresh.
		reads: []readResult{{prop: stale}, {prop: stale}, {prop: stale}, {prop: fresh}},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	op := e.Write(context.Background(), target, "active")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	st := e.OperationStatus(op)
	if st.Phase != "converged" {
		t.Errorf("expected converged phase, got %q", st.Phase)
	}
	if st.Polls < 3 {
		t.Errorf("expected at least 3 polling ticks, got %d", st.Polls)
	}

	// Let any tick racing the convergence land before taking the baseline.
	time.Sleep(2 * e.pollInterval)
	reads, nudges, _ := fake.counts()
	if nudges == 0 {
		t.Error("expected update nudges during the polling phase")
	}

	// No further requests after convergence.
	time.Sleep(5 * e.pollInterval)
	readsAfter, _, _ := fake.counts()
	if readsAfter != reads {
		t.Errorf("polling must stop at the first fresh read: %d reads grew to %d", reads, readsAfter)
	}

	e.Inspect(func(s *State) {
		if len(s.Ops) != 0 {
			t.Errorf("expected empty operation registry, got %d entries", len(s.Ops))
		}
	})
}

func TestWrite_CancelDuringPollFailsOperation(t *testing.T) {
	stale := bacnet.Property{Name: "presentValue", Value: "inactive", Updated: 60}
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads:   []readResult{{prop: stale}},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeCtx, cancelWrite := context.WithCancel(context.Background())
	defer cancelWrite()
	target := outputTarget()
	op := e.Write(writeCtx, target, "active")

	// Wait for the polling phase against the permanently stale backend.
	deadline := time.Now().Add(time.Second)
	for e.OperationStatus(op).Polls == 0 {
		if time.Now().After(deadline) {
			t.Fatal("operation never entered the polling phase")
		}
		time.Sleep(e.pollInterval)
	}
	cancelWrite()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if st := e.OperationStatus(op); st.Phase != "failed" {
		t.Errorf("expected failed phase, got %q", st.Phase)
	}

	e.Inspect(func(s *State) {
		if len(s.Ops) != 0 {
			t.Errorf("expected empty operation registry, got %d entries", len(s.Ops))
		}
	})

	// Let any tick racing the cancellation land before taking the baseline.
	time.Sleep(2 * e.pollInterval)
	reads, _, _ := fake.counts()
	time.Sleep(5 * e.pollInterval)
	readsAfter, _, _ := fake.counts()
	if readsAfter != reads {
		t.Errorf("polling must stop on cancellation: %d reads grew to %d", reads, readsAfter)
	}
}

func TestWrite_TransportFailureOnRequestStillConfirms(t *testing.T) {
	fake := &fakeBackend{
		devices:  map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		writeErr: fmt.Errorf("%w: backend down", backend.ErrTransport),
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: "active", Updated: 0}},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The write request fails, but the confirm read still runs and can
	// converge on its own.
	op := e.Write(context.Background(), outputTarget(), "active")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestWrite_ConfirmTransportFailureFails(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{err: fmt.Errorf("%w: backend down", backend.ErrTransport)},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	op := e.Write(context.Background(), target, "active")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); !errors.Is(err, backend.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	e.Inspect(func(s *State) {
		if len(s.Ops) != 0 {
			t.Errorf("expected empty operation registry, got %d entries", len(s.Ops))
		}
		if ctrl := s.ControlView(target); ctrl.Indicator != bacnet.IndicatorError {
			t.Errorf("expected error indicator, got %v", ctrl.Indicator)
		}
	})
}

func TestWrite_ConcurrentOpsAreIndependent(t *testing.T) {
	fresh := bacnet.Property{Name: "presentValue", Value: "active", Updated: 0}
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads:   []readResult{{prop: fresh}},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Writes on the same target are not deduplicated; each runs its own
	// confirmation flow to completion.
	target := outputTarget()
	op1 := e.Write(context.Background(), target, "active")
	op2 := e.Write(context.Background(), target, "inactive")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op1.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if err := op2.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	st1, st2 := e.OperationStatus(op1), e.OperationStatus(op2)
	if st1.ID == st2.ID {
		t.Error("expected distinct operation ids")
	}

	e.Inspect(func(s *State) {
		if len(s.Ops) != 0 {
			t.Errorf("expected empty operation registry, got %d entries", len(s.Ops))
		}
	})
}

func TestWrite_NoToggleArmingForAnalog(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: 21.5, Updated: 0}},
		},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := bacnet.Target{Device: "device_1", Object: "analogOutput_2", Property: "presentValue"}
	op := e.Write(context.Background(), target, "21.5")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	e.Inspect(func(s *State) {
		if ctrl := s.ControlView(target); ctrl.Armed != "" {
			t.Errorf("analog targets must not arm a toggle, got %q", ctrl.Armed)
		}
	})
}

func TestOperations_SnapshotSortedByID(t *testing.T) {
	stale := bacnet.Property{Name: "presentValue", Value: "inactive", Updated: 60}
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads:   []readResult{{prop: stale}},
	}
	e := newTestEngine(t, fake)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	op1 := e.Write(context.Background(), target, "active")
	op2 := e.Write(context.Background(), target, "inactive")

	// Snapshots taken after the dispatch tasks ran carry both ops, which
	// keep polling against the permanently stale backend.
	_ = e.OperationStatus(op1)
	_ = e.OperationStatus(op2)

	ops := e.Operations()
	if len(ops) != 2 {
		t.Fatalf("expected 2 outstanding operations, got %d", len(ops))
	}
	if ops[0].ID >= ops[1].ID {
		t.Errorf("expected ids in ascending order, got %d then %d", ops[0].ID, ops[1].ID)
	}
}

type recordedWrite struct {
	target bacnet.Target
	value  string
	polls  int
}

type fakeRecorder struct {
	mu     sync.Mutex
	writes []recordedWrite
}

func (r *fakeRecorder) RecordWrite(ctx context.Context, t bacnet.Target, value string, polls int, took time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, recordedWrite{target: t, value: value, polls: polls})
	return nil
}

func TestWrite_RecordsConvergedWrite(t *testing.T) {
	fake := &fakeBackend{
		devices: map[string]*bacnet.Device{"device_1": testDevice("device_1")},
		reads: []readResult{
			{prop: bacnet.Property{Name: "presentValue", Value: "active", Updated: 0}},
		},
	}
	recorder := &fakeRecorder{}

	e := newTestEngine(t, fake)
	e.SetRecorder(recorder)
	if err := e.SyncDevices(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := outputTarget()
	op := e.Write(context.Background(), target, "active")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	// The recorder runs on its own goroutine after convergence.
	deadline := time.Now().Add(time.Second)
	for {
		recorder.mu.Lock()
		n := len(recorder.writes)
		recorder.mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.writes) != 1 {
		t.Fatalf("expected 1 recorded write, got %d", len(recorder.writes))
	}
	if recorder.writes[0].target != target || recorder.writes[0].value != "active" {
		t.Errorf("unexpected recorded write %+v", recorder.writes[0])
	}
}
