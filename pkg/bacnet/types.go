package bacnet

import (
	"fmt"
	"strings"
	"unicode"
)

// FreshnessThreshold is the staleness bound (in backend-reported seconds)
// below which a property value counts as confirmed. A write is considered
// converged once a subsequent read reports updated < FreshnessThreshold.
const FreshnessThreshold = 5

// Well-known property names.
const (
	PropObjectName   = "objectName"
	PropPresentValue = "presentValue"
	PropDescription  = "description"
)

// Binary present-value states.
const (
	ValueActive   = "active"
	ValueInactive = "inactive"
)

// Device is a root network entity holding nested objects and its own
// top-level properties.
type Device struct {
	ID         string               // short id, unique across the cache (e.g. "device_1001")
	Name       string               // resolved display name
	Address    string               // network address reported by the backend
	IsLocal    bool                 // device is the local BACnet device
	Objects    map[string]*Object   // keyed by object short id
	Properties map[string]*Property // keyed by property name
}

// Object is a typed sub-entity of a device.
type Object struct {
	ID         string   // short id, unique within the owning device (e.g. "binaryOutput_3")
	Category   Category // object category tag
	Name       string   // resolved display name, may be empty
	IsDevice   bool     // nested device-like entry
	Properties map[string]*Property
}

// DisplayName returns the object's name, falling back to a title derived
// from its short id ("binaryOutput_3" becomes "BinaryOutput 3") when the
// backend has not yet reported an objectName.
func (o *Object) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return TitleFromShortID(o.ID)
}

// Property is a named value with a backend-reported freshness measure.
type Property struct {
	Name    string
	Value   any // scalar or opaque (lists for array-valued properties)
	Updated int // seconds since the backend last refreshed the value; -1 when unknown
}

// Fresh reports whether the property's value is within the convergence
// threshold.
func (p *Property) Fresh() bool {
	return p.Updated >= 0 && p.Updated < FreshnessThreshold
}

// Target addresses one property for read, write and update requests.
// Object is empty when the property lives directly on the device.
type Target struct {
	Device   string
	Object   string
	Property string
}

func (t Target) String() string {
	if t.Object == "" {
		return fmt.Sprintf("%s/%s", t.Device, t.Property)
	}
	return fmt.Sprintf("%s/%s/%s", t.Device, t.Object, t.Property)
}

// InverseBinary returns the opposite binary state. Unknown values arm
// "active" so a toggle on a device with no reported state turns it on.
func InverseBinary(value string) string {
	if value == ValueActive {
		return ValueInactive
	}
	return ValueActive
}

// TitleFromShortID converts an object short id like "binaryOutput_3" into
// a display title like "BinaryOutput 3".
func TitleFromShortID(shortID string) string {
	tag, id, ok := strings.Cut(shortID, "_")
	if !ok || tag == "" {
		return shortID
	}
	runes := []rune(tag)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes) + " " + id
}
