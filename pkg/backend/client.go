package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

const requestTimeout = 10 * time.Second

// Client talks to the backend's single ajax endpoint: POST with a
// form-encoded command body, JSON response body.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Config defines runtime configuration for the backend client.
type Config struct {
	AjaxURL string
}

// NewClient creates a backend client for the given ajax endpoint.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AjaxURL) == "" {
		return nil, fmt.Errorf("backend ajax_url is required")
	}
	return &Client{
		endpoint: cfg.AjaxURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Devices requests the full device listing.
func (c *Client) Devices(ctx context.Context) (map[string]*bacnet.Device, error) {
	form := url.Values{}
	form.Set("get", "devices")

	var payload map[string]objectPayload
	if err := c.post(ctx, form, &payload); err != nil {
		return nil, err
	}

	devices := make(map[string]*bacnet.Device, len(payload))
	for id, p := range payload {
		devices[id] = p.device(id)
	}
	return devices, nil
}

// ReadProperty reads one property value. The response is keyed by the
// object short id, or by the device short id when the target has no
// object segment.
func (c *Client) ReadProperty(ctx context.Context, t bacnet.Target) (bacnet.Property, error) {
	form := url.Values{}
	form.Set("get", "property")
	form.Set("device", t.Device)
	form.Set("property", t.Property)
	if t.Object != "" {
		form.Set("object", t.Object)
	}

	var payload map[string]map[string]propertyPayload
	if err := c.post(ctx, form, &payload); err != nil {
		return bacnet.Property{}, err
	}

	key := t.Object
	if key == "" {
		key = t.Device
	}
	props, ok := payload[key]
	if !ok {
		return bacnet.Property{}, fmt.Errorf("%w: object %s", ErrNotFound, key)
	}
	prop, ok := props[t.Property]
	if !ok {
		return bacnet.Property{}, fmt.Errorf("%w: property %s", ErrNotFound, t.String())
	}
	return prop.property(t.Property), nil
}

// Nudge asks the backend to re-poll the underlying device for the target
// property. The acknowledgement body is ignored.
func (c *Client) Nudge(ctx context.Context, t bacnet.Target) error {
	form := url.Values{}
	form.Set("get", "update")
	form.Set("device", t.Device)
	form.Set("property", t.Property)
	if t.Object != "" {
		form.Set("object", t.Object)
	}
	return c.post(ctx, form, nil)
}

// Write issues a write command for the target property.
func (c *Client) Write(ctx context.Context, t bacnet.Target, value string) error {
	form := url.Values{}
	form.Set("get", "write")
	form.Set("device", t.Device)
	form.Set("property", t.Property)
	form.Set("value", value)
	if t.Object != "" {
		form.Set("object", t.Object)
	}
	return c.post(ctx, form, nil)
}

func (c *Client) post(ctx context.Context, form url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post %s: %v", ErrTransport, c.endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: %s", ErrTransport, resp.Status, strings.TrimSpace(string(payload)))
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
