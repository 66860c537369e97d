package schema

import (
	"testing"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

func TestValidateWrite_BinaryStates(t *testing.T) {
	v := NewValidator()

	for _, value := range []string{"active", "inactive"} {
		if err := v.ValidateWrite(bacnet.CategoryBinaryOutput, value); err != nil {
			t.Errorf("expected %q to be a valid binary write, got: %v", value, err)
		}
	}
}

func TestValidateWrite_BinaryRejectsOther(t *testing.T) {
	v := NewValidator()

	for _, value := range []string{"on", "1", "ACTIVE", ""} {
		if err := v.ValidateWrite(bacnet.CategoryBinaryValue, value); err == nil {
			t.Errorf("expected %q to be rejected for binary writes", value)
		}
	}
}

func TestValidateWrite_AnalogNumbers(t *testing.T) {
	v := NewValidator()

	for _, value := range []string{"42", "-7", "21.5", "-0.25"} {
		if err := v.ValidateWrite(bacnet.CategoryAnalogOutput, value); err != nil {
			t.Errorf("expected %q to be a valid analog write, got: %v", value, err)
		}
	}
}

func TestValidateWrite_AnalogRejectsNonNumeric(t *testing.T) {
	v := NewValidator()

	for _, value := range []string{"warm", "1.2.3", "1e3", ""} {
		if err := v.ValidateWrite(bacnet.CategoryAnalogValue, value); err == nil {
			t.Errorf("expected %q to be rejected for analog writes", value)
		}
	}
}

func TestValidateWrite_NonWritableCategoryHasNoSchema(t *testing.T) {
	v := NewValidator()

	// Categories without a write schema skip validation; writability is
	// enforced by the callers, not here.
	if err := v.ValidateWrite(bacnet.CategoryBinaryInput, "anything"); err != nil {
		t.Errorf("expected no schema for binaryInput, got: %v", err)
	}
}

func TestWriteSchema(t *testing.T) {
	if WriteSchema(bacnet.CategoryBinaryOutput) == nil {
		t.Error("expected a schema for binaryOutput")
	}
	if WriteSchema(bacnet.CategoryAnalogValue) == nil {
		t.Error("expected a schema for analogValue")
	}
	if WriteSchema(bacnet.CategoryFile) != nil {
		t.Error("expected no schema for file")
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	// Both calls hit the same binary schema document
	if err := v.ValidateWrite(bacnet.CategoryBinaryOutput, "active"); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateWrite(bacnet.CategoryBinaryValue, "inactive"); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
