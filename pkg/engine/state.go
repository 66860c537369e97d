package engine

import (
	"time"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// State is the engine-owned mutable mirror of backend device state plus
// the interactive control and operation registries. It is only ever
// touched from tasks running on the scheduler loop; callers outside the
// loop reach it through Engine.Inspect.
type State struct {
	// Devices is replaced wholesale on every device refresh, never
	// field-merged. References into it are transient.
	Devices map[string]*bacnet.Device

	// Controls keeps per-target affordance state. Entries are created on
	// first use and survive cache replacement.
	Controls map[bacnet.Target]*bacnet.Control

	// Ops is the registry of outstanding operations, keyed by operation
	// id. Entries are removed when an operation reaches a terminal phase.
	Ops map[int64]*Operation

	// LastRefresh is the completion time of the last successful wholesale
	// device refresh. Zero until the first refresh succeeds.
	LastRefresh time.Time
}

func newState() *State {
	return &State{
		Devices:  make(map[string]*bacnet.Device),
		Controls: make(map[bacnet.Target]*bacnet.Control),
		Ops:      make(map[int64]*Operation),
	}
}

// LookupResult holds whichever entities of a (device, object, property)
// path are present in the cache. Absent segments are nil.
type LookupResult struct {
	Device   *bacnet.Device
	Object   *bacnet.Object
	Property *bacnet.Property
}

// Lookup resolves a path against the cache. It never fails: any missing
// segment yields a nil field in the result. Returned references are
// transient; a later refresh may invalidate them without notice.
func (s *State) Lookup(deviceID, objectID, propertyName string) LookupResult {
	var res LookupResult

	dev, ok := s.Devices[deviceID]
	if !ok {
		return res
	}
	res.Device = dev

	props := dev.Properties
	if objectID != "" {
		obj, ok := dev.Objects[objectID]
		if !ok {
			return res
		}
		res.Object = obj
		props = obj.Properties
	}

	if propertyName != "" {
		if prop, ok := props[propertyName]; ok {
			res.Property = prop
		}
	}
	return res
}

// Control returns the control entry for a target, creating it if needed.
func (s *State) Control(t bacnet.Target) *bacnet.Control {
	ctrl, ok := s.Controls[t]
	if !ok {
		ctrl = &bacnet.Control{}
		s.Controls[t] = ctrl
	}
	return ctrl
}

// ControlView returns a copy of the target's control state, zero when no
// operation ever touched the target.
func (s *State) ControlView(t bacnet.Target) bacnet.Control {
	if ctrl, ok := s.Controls[t]; ok {
		return *ctrl
	}
	return bacnet.Control{}
}

// mergeProperty applies a read result to the cache. The device must still
// be known; a wholesale refresh in the meantime drops the merge silently.
// Missing object and property entries are created on the way down.
func (s *State) mergeProperty(t bacnet.Target, p bacnet.Property) {
	dev, ok := s.Devices[t.Device]
	if !ok {
		return
	}

	props := dev.Properties
	if t.Object != "" {
		obj, ok := dev.Objects[t.Object]
		if !ok {
			obj = &bacnet.Object{
				ID:         t.Object,
				Category:   bacnet.CategoryFromShortID(t.Object),
				Properties: make(map[string]*bacnet.Property),
			}
			dev.Objects[t.Object] = obj
		}
		props = obj.Properties
	}

	cp := p
	props[t.Property] = &cp
}
