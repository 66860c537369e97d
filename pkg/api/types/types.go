package types

import (
	"time"

	"github.com/neatc0der/bacnet/pkg/engine"
)

// --- Request DTOs ---

// ReadRequest is the request body for POST /read
type ReadRequest struct {
	Device   string `json:"device" binding:"required"`
	Object   string `json:"object"`
	Property string `json:"property" binding:"required"`
}

// WriteRequest is the request body for POST /write
type WriteRequest struct {
	Device   string `json:"device" binding:"required"`
	Object   string `json:"object"`
	Property string `json:"property" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status      string    `json:"status"`
	Devices     int       `json:"devices"`
	Pending     int       `json:"pending_operations"`
	LastRefresh time.Time `json:"last_refresh,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// PropertyInfo is the JSON shape of one cached property
type PropertyInfo struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Updated int    `json:"updated"`
	Fresh   bool   `json:"fresh"`
}

// ObjectInfo is the JSON shape of one cached object
type ObjectInfo struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Category   string                  `json:"category"`
	IsDevice   bool                    `json:"is_device,omitempty"`
	Properties map[string]PropertyInfo `json:"properties,omitempty"`
}

// DeviceInfo is the JSON shape of one cached device
type DeviceInfo struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Address    string                  `json:"address,omitempty"`
	IsLocal    bool                    `json:"is_local,omitempty"`
	Objects    []ObjectInfo            `json:"objects,omitempty"`
	Properties map[string]PropertyInfo `json:"properties,omitempty"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []DeviceInfo `json:"devices"`
	Count   int          `json:"count"`
}

// DeviceResponse is returned from GET /devices/:id
type DeviceResponse struct {
	Device DeviceInfo `json:"device"`
}

// ObjectResponse is returned from GET /devices/:id/objects/:object
type ObjectResponse struct {
	Device string     `json:"device"`
	Object ObjectInfo `json:"object"`
}

// ReadResponse is returned from POST /read
type ReadResponse struct {
	Device   string       `json:"device"`
	Object   string       `json:"object,omitempty"`
	Property PropertyInfo `json:"property"`
}

// WriteResponse is returned from POST /write
type WriteResponse struct {
	Operation engine.OperationStatus `json:"operation"`
}

// OperationsResponse is returned from GET /operations
type OperationsResponse struct {
	Operations []engine.OperationStatus `json:"operations"`
	Count      int                      `json:"count"`
}
