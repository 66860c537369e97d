package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/neatc0der/bacnet/pkg/bacnet"
)

// Write-value schemas per category capability. Binary present-values only
// accept the two binary states; analog values must parse as numbers.
var (
	binaryWriteSchema = json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"value": {"type": "string", "enum": ["active", "inactive"]}
		},
		"required": ["value"],
		"additionalProperties": false
	}`)

	analogWriteSchema = json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"value": {"type": "string", "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
		},
		"required": ["value"],
		"additionalProperties": false
	}`)
)

// WriteSchema returns the JSON Schema a write value for the given category
// must satisfy, or nil when the category imposes no shape.
func WriteSchema(cat bacnet.Category) json.RawMessage {
	switch cat {
	case bacnet.CategoryBinaryValue, bacnet.CategoryBinaryOutput:
		return binaryWriteSchema
	case bacnet.CategoryAnalogValue, bacnet.CategoryAnalogOutput:
		return analogWriteSchema
	}
	return nil
}

// Validator validates JSON payloads against JSON Schema documents.
// It caches compiled schemas keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// ValidateWrite checks a write value against the category's write schema.
func (v *Validator) ValidateWrite(cat bacnet.Category, value string) error {
	return v.Validate(WriteSchema(cat), map[string]any{"value": value})
}

// Validate validates payload against the given JSON Schema document.
// A nil or empty schema skips validation.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload map[string]any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	return compiled.Validate(payload)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
