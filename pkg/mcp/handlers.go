package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/neatc0der/bacnet/pkg/bacnet"
	"github.com/neatc0der/bacnet/pkg/engine"
)

const defaultWriteTimeout = 30 * time.Second

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		devices     int
		pending     int
		lastRefresh time.Time
	)
	s.sync.Inspect(func(st *engine.State) {
		devices = len(st.Devices)
		pending = len(st.Ops)
		lastRefresh = st.LastRefresh
	})

	out := GetHealthOutput{
		Status:    "healthy",
		Devices:   devices,
		Pending:   pending,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if lastRefresh.IsZero() || time.Since(lastRefresh) > 2*engine.DeviceRefreshPeriod {
		out.Status = "degraded"
	}
	if !lastRefresh.IsZero() {
		out.CacheAge = time.Since(lastRefresh).Round(time.Second).String()
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var summaries []DeviceSummary
	s.sync.Inspect(func(st *engine.State) {
		for _, d := range st.Devices {
			summaries = append(summaries, deviceSummary(d))
		}
	})
	sort.Slice(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})

	out := ListDevicesOutput{
		Devices: summaries,
		Count:   len(summaries),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "device")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var (
		out   GetDeviceOutput
		found bool
	)
	s.sync.Inspect(func(st *engine.State) {
		d, ok := st.Devices[id]
		if !ok {
			return
		}
		found = true
		out.Device = deviceSummary(d)
		out.Properties = propertyValues(d.Properties)
		for _, obj := range d.Objects {
			out.Objects = append(out.Objects, objectSummary(obj))
		}
	})
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("device %q is not in the cache", id)), nil
	}
	sort.Slice(out.Objects, func(i, j int) bool {
		return strings.ToLower(out.Objects[i].Name) < strings.ToLower(out.Objects[j].Name)
	})

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleReadProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := requestTarget(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.sync.RefreshProperty(ctx, target); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read failed: %s", err)), nil
	}

	var (
		out   ReadPropertyOutput
		found bool
	)
	s.sync.Inspect(func(st *engine.State) {
		res := st.Lookup(target.Device, target.Object, target.Property)
		if res.Property == nil {
			return
		}
		found = true
		out = ReadPropertyOutput{
			Device:   target.Device,
			Object:   target.Object,
			Property: target.Property,
			Value:    res.Property.Value,
			Updated:  res.Property.Updated,
			Fresh:    res.Property.Fresh(),
		}
	})
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not in the cache", target)), nil
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleWriteProperty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := requestTarget(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := requiredString(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if target.Property == bacnet.PropPresentValue && target.Object != "" {
		cat := bacnet.CategoryFromShortID(target.Object)
		if !cat.Capability().Writable {
			return mcp.NewToolResultError(fmt.Sprintf("%s objects are read-only", cat)), nil
		}
		if err := s.validator.ValidateWrite(cat, value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
		}
	}

	status, err := s.writeAndWait(ctx, request, target, value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := WritePropertyOutput{
		Success:  true,
		Device:   target.Device,
		Object:   target.Object,
		Property: target.Property,
		Value:    value,
		Polls:    status.Polls,
		TookMS:   status.Elapsed.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleToggleOutput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	device, err := requiredString(request, "device")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	object, err := requiredString(request, "object")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cat := bacnet.CategoryFromShortID(object)
	if !cat.Capability().Toggle {
		return mcp.NewToolResultError(fmt.Sprintf("%s objects cannot be toggled", cat)), nil
	}

	target := bacnet.Target{Device: device, Object: object, Property: bacnet.PropPresentValue}

	// Best-effort read of the current state; an unknown state toggles on.
	var previous string
	_ = s.sync.RefreshProperty(ctx, target)
	s.sync.Inspect(func(st *engine.State) {
		res := st.Lookup(device, object, bacnet.PropPresentValue)
		if res.Property != nil {
			if v, ok := res.Property.Value.(string); ok {
				previous = v
			}
		}
	})

	value := bacnet.InverseBinary(previous)
	status, err := s.writeAndWait(ctx, request, target, value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := ToggleOutputOutput{
		Success:  true,
		Device:   device,
		Object:   object,
		Previous: previous,
		Value:    value,
		Polls:    status.Polls,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListOperations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ops := s.sync.Operations()
	out := ListOperationsOutput{
		Operations: ops,
		Count:      len(ops),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// writeAndWait dispatches a write and blocks until it converges or the
// tool timeout expires.
func (s *Server) writeAndWait(ctx context.Context, request mcp.CallToolRequest, target bacnet.Target, value string) (engine.OperationStatus, error) {
	timeout := defaultWriteTimeout
	if t, ok := request.GetArguments()["timeout_seconds"]; ok {
		if tf, ok := t.(float64); ok && tf > 0 {
			timeout = time.Duration(tf * float64(time.Second))
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := s.sync.Write(ctx, target, value)
	if err := op.Wait(waitCtx); err != nil {
		return engine.OperationStatus{}, fmt.Errorf("write did not converge: %w", err)
	}
	return s.sync.OperationStatus(op), nil
}

// --- helpers ---

func requestTarget(request mcp.CallToolRequest) (bacnet.Target, error) {
	device, err := requiredString(request, "device")
	if err != nil {
		return bacnet.Target{}, err
	}
	property, err := requiredString(request, "property")
	if err != nil {
		return bacnet.Target{}, err
	}
	object, _ := request.GetArguments()["object"].(string)
	return bacnet.Target{Device: device, Object: object, Property: property}, nil
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
