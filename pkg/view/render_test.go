package view

import (
	"strings"
	"testing"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

func cacheFixture() map[string]*bacnet.Device {
	return map[string]*bacnet.Device{
		"device_1001": {
			ID:      "device_1001",
			Name:    "Boiler Controller",
			Address: "192.168.1.20",
			Objects: map[string]*bacnet.Object{
				"binaryOutput_3": {
					ID:       "binaryOutput_3",
					Category: bacnet.CategoryBinaryOutput,
					Properties: map[string]*bacnet.Property{
						"presentValue": {Name: "presentValue", Value: "active", Updated: 2},
					},
				},
				"binaryInput_1": {
					ID:       "binaryInput_1",
					Category: bacnet.CategoryBinaryInput,
					Name:     "Door Contact",
					Properties: map[string]*bacnet.Property{
						"presentValue": {Name: "presentValue", Value: "inactive", Updated: 7},
					},
				},
				"analogInput_2": {
					ID:       "analogInput_2",
					Category: bacnet.CategoryAnalogInput,
					Name:     "Room Temperature",
					Properties: map[string]*bacnet.Property{
						"presentValue": {Name: "presentValue", Value: 21.5, Updated: 3},
					},
				},
			},
			Properties: map[string]*bacnet.Property{
				"objectName":  {Name: "objectName", Value: "Boiler Controller", Updated: 10},
				"description": {Name: "description", Value: nil, Updated: -1},
			},
		},
		"device_2002": {
			ID:      "device_2002",
			Name:    "Air Handler",
			IsLocal: true,
			Objects: map[string]*bacnet.Object{},
			Properties: map[string]*bacnet.Property{
				"objectName": {Name: "objectName", Value: "Air Handler", Updated: 1},
			},
		},
	}
}

func noControls() map[bacnet.Target]*bacnet.Control {
	return map[bacnet.Target]*bacnet.Control{}
}

func TestRender_Overview(t *testing.T) {
	r := NewRenderer("/static/icons")
	page := r.Render(cacheFixture(), noControls(), Selector{})

	if page.Title != "Devices" {
		t.Errorf("unexpected title %q", page.Title)
	}

	content := string(page.Content)
	// Devices appear sorted by display name: Air Handler before Boiler.
	air := strings.Index(content, "Air Handler")
	boiler := strings.Index(content, "Boiler Controller")
	if air < 0 || boiler < 0 {
		t.Fatalf("expected both devices in overview: %s", content)
	}
	if air > boiler {
		t.Error("devices must be sorted by display name")
	}
	if !strings.Contains(content, `class="local"`) {
		t.Error("expected local marker for the local device")
	}

	nav := string(page.Navigation)
	if !strings.Contains(nav, `class="active"`) {
		t.Error("overview entry should be active for the zero selector")
	}
}

func TestRender_DeviceView(t *testing.T) {
	r := NewRenderer("/static/icons")
	page := r.Render(cacheFixture(), noControls(), Selector{Device: "device_1001"})

	if page.Title != "Boiler Controller" {
		t.Errorf("unexpected title %q", page.Title)
	}

	content := string(page.Content)
	// Objects sorted by display name: BinaryOutput 3 (derived) after
	// "BinaryInput..."? Display names here: "Door Contact", "Room
	// Temperature", "BinaryOutput 3".
	bo := strings.Index(content, "BinaryOutput 3")
	door := strings.Index(content, "Door Contact")
	room := strings.Index(content, "Room Temperature")
	if bo < 0 || door < 0 || room < 0 {
		t.Fatalf("expected all objects listed: %s", content)
	}
	if !(bo < door && door < room) {
		t.Error("objects must be sorted by display name")
	}

	// Device-level properties are listed with their values.
	if !strings.Contains(content, "objectName") {
		t.Error("expected device-level properties")
	}
	// Unset value renders as a dash.
	if !strings.Contains(content, ">-<") {
		t.Error("expected dash for unset description")
	}
}

func TestRender_ObjectToggle(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "binaryOutput_3"}
	page := r.Render(cacheFixture(), noControls(), sel)

	if page.Title != "BinaryOutput 3" {
		t.Errorf("unexpected title %q", page.Title)
	}

	content := string(page.Content)
	if !strings.Contains(content, `action="/devices/write"`) {
		t.Error("expected a toggle form for a binary output")
	}
	// Current state is active, so the form arms the inverse.
	if !strings.Contains(content, `name="value" value="inactive"`) {
		t.Error("expected armed inverse value")
	}
	if !strings.Contains(content, "/static/icons/binaryOutput_on.png") {
		t.Error("expected the on icon for an active output")
	}
	if !strings.Contains(content, `action="/devices/update"`) {
		t.Error("expected a refresh form")
	}
}

func TestRender_BinaryInputIsReadOnly(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "binaryInput_1"}
	page := r.Render(cacheFixture(), noControls(), sel)

	content := string(page.Content)
	if strings.Contains(content, `action="/devices/write"`) {
		t.Error("binary inputs must not render a toggle form")
	}
	if !strings.Contains(content, "/static/icons/binaryInput_off.png") {
		t.Error("expected the off icon for an inactive input")
	}
}

func TestRender_ArmedValueWins(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "binaryOutput_3"}
	target := bacnet.Target{Device: "device_1001", Object: "binaryOutput_3", Property: "presentValue"}
	controls := map[bacnet.Target]*bacnet.Control{
		target: {Armed: "active"},
	}

	page := r.Render(cacheFixture(), controls, sel)
	if !strings.Contains(string(page.Content), `name="value" value="active"`) {
		t.Error("an armed control value must override the inverse of the current state")
	}
}

func TestRender_BusyIndicatorDisablesToggle(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "binaryOutput_3"}
	target := bacnet.Target{Device: "device_1001", Object: "binaryOutput_3", Property: "presentValue"}
	controls := map[bacnet.Target]*bacnet.Control{
		target: {Indicator: bacnet.IndicatorBusy},
	}

	page := r.Render(cacheFixture(), controls, sel)
	content := string(page.Content)
	if !strings.Contains(content, "disabled") {
		t.Error("a busy control must disable its toggle button")
	}
	if !strings.Contains(content, `class="toggle busy"`) {
		t.Error("expected the busy class on the toggle form")
	}
}

func TestRender_MissingEntitiesArePlaceholders(t *testing.T) {
	r := NewRenderer("/static/icons")

	page := r.Render(cacheFixture(), noControls(), Selector{Device: "device_404"})
	if !strings.Contains(string(page.Content), "placeholder") {
		t.Error("missing device should render a placeholder")
	}

	page = r.Render(cacheFixture(), noControls(), Selector{Device: "device_1001", Object: "binaryOutput_404"})
	if !strings.Contains(string(page.Content), "placeholder") {
		t.Error("missing object should render a placeholder")
	}

	sel := Selector{Device: "device_1001", Object: "binaryOutput_3", Property: "reliability"}
	page = r.Render(cacheFixture(), noControls(), sel)
	if !strings.Contains(string(page.Content), `<span class="placeholder">?</span>`) {
		t.Error("missing property detail should render the ? placeholder")
	}
}

func TestRender_PropertyDetail(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "analogInput_2", Property: "presentValue"}
	page := r.Render(cacheFixture(), noControls(), sel)

	if page.Title != "Room Temperature – presentValue" {
		t.Errorf("unexpected title %q", page.Title)
	}
	content := string(page.Content)
	if !strings.Contains(content, "21.5") {
		t.Error("expected the analog value in the detail section")
	}
	if !strings.Contains(content, "updated 3s ago (fresh)") {
		t.Error("expected freshness note in the detail section")
	}
}

func TestRender_DeterministicForSameInputs(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001"}

	first := r.Render(cacheFixture(), noControls(), sel)
	second := r.Render(cacheFixture(), noControls(), sel)
	if first != second {
		t.Error("rendering the same snapshot and selector must be deterministic")
	}
}

func TestRender_NavigateEqualsDirectLoad(t *testing.T) {
	r := NewRenderer("/static/icons")
	sel := Selector{Device: "device_1001", Object: "binaryOutput_3", Property: "presentValue"}

	// Loading the formatted address renders the same page as the selector
	// it was formatted from.
	direct := r.Render(cacheFixture(), noControls(), sel)
	navigated := r.Render(cacheFixture(), noControls(), ParseURL(sel.URL()))
	if direct != navigated {
		t.Error("a formatted address must load to the identical page")
	}
}
