package view

import (
	"net/url"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// Selector is the (device, object, property) triple derived from a URL's
// query parameters. It fully determines the rendered view: parsing the
// URL a selector formats yields the selector back, so navigating to a
// formatted address and loading it directly render identically.
type Selector struct {
	Device   string
	Object   string
	Property string
}

// ParseSelector derives a selector from query parameters.
func ParseSelector(q url.Values) Selector {
	return Selector{
		Device:   q.Get("device"),
		Object:   q.Get("object"),
		Property: q.Get("property"),
	}
}

// ParseURL derives a selector from a raw address.
func ParseURL(rawURL string) Selector {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Selector{}
	}
	return ParseSelector(u.Query())
}

// Query formats the selector as query parameters, omitting empty segments.
func (s Selector) Query() url.Values {
	q := url.Values{}
	if s.Device != "" {
		q.Set("device", s.Device)
	}
	if s.Object != "" {
		q.Set("object", s.Object)
	}
	if s.Property != "" {
		q.Set("property", s.Property)
	}
	return q
}

// URL formats the selector as a navigable address.
func (s Selector) URL() string {
	q := s.Query()
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// IsZero reports whether the selector addresses the overview.
func (s Selector) IsZero() bool {
	return s.Device == "" && s.Object == "" && s.Property == ""
}

// Target converts the selector into an operation target.
func (s Selector) Target() bacnet.Target {
	return bacnet.Target{Device: s.Device, Object: s.Object, Property: s.Property}
}

// WithObject returns a selector narrowed to an object of the same device.
func (s Selector) WithObject(objectID string) Selector {
	return Selector{Device: s.Device, Object: objectID}
}

// WithProperty returns a selector narrowed to a property.
func (s Selector) WithProperty(name string) Selector {
	return Selector{Device: s.Device, Object: s.Object, Property: name}
}
