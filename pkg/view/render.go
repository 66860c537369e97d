package view

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// Page is the rendered projection of one view selector.
type Page struct {
	Title      string
	Navigation template.HTML
	Content    template.HTML
}

// Renderer derives pages from a cache snapshot and a selector. It holds
// no mutable state; rendering the same inputs yields the same page.
type Renderer struct {
	iconBase string
}

// NewRenderer creates a renderer serving icon assets from the given base
// URL.
func NewRenderer(iconBase string) *Renderer {
	return &Renderer{iconBase: strings.TrimRight(iconBase, "/")}
}

// Render projects (cache snapshot, selector) to a page. It never fails:
// entities absent from the cache render as placeholders.
func (r *Renderer) Render(devices map[string]*bacnet.Device, controls map[bacnet.Target]*bacnet.Control, sel Selector) Page {
	page := Page{
		Title:      "Devices",
		Navigation: r.navigation(devices, sel),
	}

	if sel.Device == "" {
		page.Content = r.overview(devices)
		return page
	}

	dev, ok := devices[sel.Device]
	if !ok {
		page.Title = sel.Device
		page.Content = execute("missing", map[string]any{"Name": sel.Device})
		return page
	}
	page.Title = deviceName(dev)

	var (
		objects map[string]*bacnet.Object
		props   map[string]*bacnet.Property
	)
	if sel.Object != "" {
		obj, ok := dev.Objects[sel.Object]
		if !ok {
			page.Title = bacnet.TitleFromShortID(sel.Object)
			page.Content = execute("missing", map[string]any{"Name": sel.Object})
			return page
		}
		page.Title = obj.DisplayName()
		props = obj.Properties
	} else {
		objects = dev.Objects
		props = dev.Properties
	}

	data := browseData{IconBase: r.iconBase}
	for _, obj := range objects {
		data.Objects = append(data.Objects, objectRow{
			Name:     obj.DisplayName(),
			URL:      sel.WithObject(obj.ID).URL(),
			Category: string(obj.Category),
			Icon:     obj.Category.Icon(presentValue(obj.Properties)),
		})
	}
	sortRows(data.Objects, func(row objectRow) string { return row.Name })

	for _, prop := range props {
		data.Properties = append(data.Properties, r.propertyRow(sel, prop, controls))
	}
	sortRows(data.Properties, func(row propertyRow) string { return row.Name })

	if sel.Property != "" {
		page.Title = page.Title + " – " + sel.Property
		prop, ok := props[sel.Property]
		detail := propertyDetail{IconBase: r.iconBase}
		if ok {
			detail.Row = r.propertyRow(sel, prop, controls)
			detail.Updated = prop.Updated
			detail.Fresh = prop.Fresh()
		} else {
			detail.Row = propertyRow{Name: sel.Property, Missing: true}
		}
		data.Detail = &detail
	}

	page.Content = execute("browse", data)
	return page
}

func (r *Renderer) propertyRow(sel Selector, prop *bacnet.Property, controls map[bacnet.Target]*bacnet.Control) propertyRow {
	target := bacnet.Target{Device: sel.Device, Object: sel.Object, Property: prop.Name}
	row := propertyRow{
		Name:    prop.Name,
		URL:     sel.WithProperty(prop.Name).URL(),
		Display: formatValue(prop.Value),
		Device:  sel.Device,
		Object:  sel.Object,
	}

	var ctrl bacnet.Control
	if c, ok := controls[target]; ok {
		ctrl = *c
	}
	if ctrl.Indicator != bacnet.IndicatorIdle {
		row.Indicator = ctrl.Indicator.String()
	}

	// Only binary-output and binary-value presentValue rows toggle; the
	// binary-input category is read-only.
	if prop.Name == bacnet.PropPresentValue && sel.Object != "" {
		cat := bacnet.CategoryFromShortID(sel.Object)
		current, _ := prop.Value.(string)
		if cat.Capability().Binary {
			row.Icon = cat.Icon(current)
		}
		if cat.Capability().Toggle {
			row.Toggle = true
			row.ToggleValue = ctrl.Armed
			if row.ToggleValue == "" {
				row.ToggleValue = bacnet.InverseBinary(current)
			}
		}
	}
	return row
}

func (r *Renderer) navigation(devices map[string]*bacnet.Device, sel Selector) template.HTML {
	entries := []navEntry{{Name: "Overview", URL: "/", Active: sel.IsZero()}}
	rows := make([]navEntry, 0, len(devices))
	for id, dev := range devices {
		rows = append(rows, navEntry{
			Name:   deviceName(dev),
			URL:    Selector{Device: id}.URL(),
			Active: sel.Device == id,
		})
	}
	sortRows(rows, func(row navEntry) string { return row.Name })
	return execute("nav", append(entries, rows...))
}

func (r *Renderer) overview(devices map[string]*bacnet.Device) template.HTML {
	rows := make([]deviceRow, 0, len(devices))
	for id, dev := range devices {
		rows = append(rows, deviceRow{
			Name:    deviceName(dev),
			URL:     Selector{Device: id}.URL(),
			ID:      id,
			Address: dev.Address,
			Local:   dev.IsLocal,
		})
	}
	sortRows(rows, func(row deviceRow) string { return row.Name })
	return execute("devices", rows)
}

func deviceName(dev *bacnet.Device) string {
	if dev.Name != "" {
		return dev.Name
	}
	return bacnet.TitleFromShortID(dev.ID)
}

// presentValue extracts the string present-value used for icon selection.
func presentValue(props map[string]*bacnet.Property) string {
	if prop, ok := props[bacnet.PropPresentValue]; ok {
		if v, ok := prop.Value.(string); ok {
			return v
		}
	}
	return ""
}

// formatValue renders a property value for display. Empty values become a
// dash; list values are joined.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			parts = append(parts, formatValue(item))
		}
		if len(parts) == 0 {
			return "-"
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// sortRows orders rows by display name, case-insensitively, independent of
// underlying identifier order.
func sortRows[T any](rows []T, name func(T) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(name(rows[i])) < strings.ToLower(name(rows[j]))
	})
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := treeTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Template execution failed")
		return ""
	}
	return template.HTML(buf.String())
}
