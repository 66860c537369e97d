package bacnet

import "testing"

func TestCategoryFromShortID(t *testing.T) {
	if got := CategoryFromShortID("binaryOutput_3"); got != CategoryBinaryOutput {
		t.Errorf("expected binaryOutput, got %q", got)
	}
	if got := CategoryFromShortID("analogInput_12"); got != CategoryAnalogInput {
		t.Errorf("expected analogInput, got %q", got)
	}
	if got := CategoryFromShortID("noSeparator"); got != CategoryUnknown {
		t.Errorf("expected unknown, got %q", got)
	}
	if got := CategoryFromShortID("multiStateValue_1"); got != CategoryUnknown {
		t.Errorf("expected unknown for unmapped tag, got %q", got)
	}
}

func TestCapability_Toggles(t *testing.T) {
	// Outputs and values toggle; inputs only display their state.
	for _, cat := range []Category{CategoryBinaryOutput, CategoryBinaryValue} {
		cap := cat.Capability()
		if !cap.Binary || !cap.Writable || !cap.Toggle {
			t.Errorf("%s: expected binary writable toggle, got %+v", cat, cap)
		}
	}

	in := CategoryBinaryInput.Capability()
	if !in.Binary || in.Writable || in.Toggle {
		t.Errorf("binaryInput: expected binary read-only, got %+v", in)
	}
}

func TestCapability_AnalogWritable(t *testing.T) {
	if !CategoryAnalogOutput.Capability().Writable {
		t.Error("analogOutput should be writable")
	}
	if !CategoryAnalogValue.Capability().Writable {
		t.Error("analogValue should be writable")
	}
	if CategoryAnalogInput.Capability().Writable {
		t.Error("analogInput should be read-only")
	}
}

func TestCapability_UnknownFallback(t *testing.T) {
	cap := Category("vendorThing").Capability()
	if cap.Icon != "unknown" {
		t.Errorf("expected unknown icon, got %q", cap.Icon)
	}
	if cap.Writable || cap.Toggle || cap.Binary {
		t.Errorf("unknown categories must be inert, got %+v", cap)
	}
}

func TestIcon_BinaryKeysOnPresentValue(t *testing.T) {
	if got := CategoryBinaryOutput.Icon(ValueActive); got != "binaryOutput_on.png" {
		t.Errorf("expected on icon, got %q", got)
	}
	if got := CategoryBinaryOutput.Icon(ValueInactive); got != "binaryOutput_off.png" {
		t.Errorf("expected off icon, got %q", got)
	}
	// Unknown state renders as off
	if got := CategoryBinaryInput.Icon(""); got != "binaryInput_off.png" {
		t.Errorf("expected off icon for unknown state, got %q", got)
	}
}

func TestIcon_NonBinary(t *testing.T) {
	if got := CategoryAnalogInput.Icon("42.5"); got != "analogInput.png" {
		t.Errorf("expected plain icon, got %q", got)
	}
	if got := CategoryDevice.Icon(""); got != "device.png" {
		t.Errorf("expected plain icon, got %q", got)
	}
}
