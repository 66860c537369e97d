package mcp

import (
	"github.com/neatc0der/bacnet/pkg/bacnet"
	"github.com/neatc0der/bacnet/pkg/engine"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Devices   int    `json:"devices" jsonschema:"description=Number of devices in the cache"`
	Pending   int    `json:"pending_operations" jsonschema:"description=Outstanding write operations"`
	CacheAge  string `json:"cache_age,omitempty" jsonschema:"description=Time since the last successful device refresh"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Devices Tool ---

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []DeviceSummary `json:"devices" jsonschema:"description=Devices in the cache"`
	Count   int             `json:"count" jsonschema:"description=Total number of devices"`
}

// DeviceSummary represents a device in tool outputs
type DeviceSummary struct {
	ID      string `json:"id" jsonschema:"description=Device short id"`
	Name    string `json:"name" jsonschema:"description=Display name"`
	Address string `json:"address,omitempty" jsonschema:"description=Network address"`
	IsLocal bool   `json:"is_local,omitempty" jsonschema:"description=Device is the local BACnet device"`
	Objects int    `json:"objects" jsonschema:"description=Number of contained objects"`
}

// --- Get Device Tool ---

// ObjectSummary represents one object in tool outputs
type ObjectSummary struct {
	ID         string         `json:"id" jsonschema:"description=Object short id"`
	Name       string         `json:"name" jsonschema:"description=Display name"`
	Category   string         `json:"category" jsonschema:"description=Object category"`
	Writable   bool           `json:"writable" jsonschema:"description=Present value accepts writes"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"description=Cached property values by name"`
}

// GetDeviceOutput is the output for the get_device tool
type GetDeviceOutput struct {
	Device     DeviceSummary   `json:"device" jsonschema:"description=Device summary"`
	Objects    []ObjectSummary `json:"objects,omitempty" jsonschema:"description=Objects contained in the device"`
	Properties map[string]any  `json:"properties,omitempty" jsonschema:"description=Device-level property values by name"`
}

// --- Read Property Tool ---

// ReadPropertyOutput is the output for the read_property tool
type ReadPropertyOutput struct {
	Device   string `json:"device" jsonschema:"description=Device short id"`
	Object   string `json:"object,omitempty" jsonschema:"description=Object short id"`
	Property string `json:"property" jsonschema:"description=Property name"`
	Value    any    `json:"value" jsonschema:"description=Property value"`
	Updated  int    `json:"updated" jsonschema:"description=Seconds since the backend refreshed the value"`
	Fresh    bool   `json:"fresh" jsonschema:"description=Value is within the convergence threshold"`
}

// --- Write Property Tool ---

// WritePropertyOutput is the output for the write_property tool
type WritePropertyOutput struct {
	Success  bool   `json:"success" jsonschema:"description=Whether the write converged"`
	Device   string `json:"device" jsonschema:"description=Device short id"`
	Object   string `json:"object,omitempty" jsonschema:"description=Object short id"`
	Property string `json:"property" jsonschema:"description=Property name"`
	Value    string `json:"value" jsonschema:"description=Written value"`
	Polls    int    `json:"polls" jsonschema:"description=Polling ticks until convergence"`
	TookMS   int64  `json:"took_ms" jsonschema:"description=Milliseconds until convergence"`
}

// --- Toggle Output Tool ---

// ToggleOutputOutput is the output for the toggle_output tool
type ToggleOutputOutput struct {
	Success  bool   `json:"success" jsonschema:"description=Whether the toggle converged"`
	Device   string `json:"device" jsonschema:"description=Device short id"`
	Object   string `json:"object" jsonschema:"description=Object short id"`
	Previous string `json:"previous" jsonschema:"description=Present value before the toggle"`
	Value    string `json:"value" jsonschema:"description=Written present value"`
	Polls    int    `json:"polls" jsonschema:"description=Polling ticks until convergence"`
}

// --- List Operations Tool ---

// ListOperationsOutput is the output for the list_operations tool
type ListOperationsOutput struct {
	Operations []engine.OperationStatus `json:"operations" jsonschema:"description=Outstanding write operations"`
	Count      int                      `json:"count" jsonschema:"description=Number of outstanding operations"`
}

// --- Helper conversions ---

// deviceSummary converts a cached device to a DeviceSummary
func deviceSummary(d *bacnet.Device) DeviceSummary {
	return DeviceSummary{
		ID:      d.ID,
		Name:    d.Name,
		Address: d.Address,
		IsLocal: d.IsLocal,
		Objects: len(d.Objects),
	}
}

// objectSummary converts a cached object to an ObjectSummary
func objectSummary(o *bacnet.Object) ObjectSummary {
	return ObjectSummary{
		ID:         o.ID,
		Name:       o.DisplayName(),
		Category:   string(o.Category),
		Writable:   o.Category.Capability().Writable,
		Properties: propertyValues(o.Properties),
	}
}

// propertyValues flattens cached properties to their values by name
func propertyValues(props map[string]*bacnet.Property) map[string]any {
	if len(props) == 0 {
		return nil
	}
	values := make(map[string]any, len(props))
	for name, p := range props {
		values[name] = p.Value
	}
	return values
}
