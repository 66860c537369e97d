package bacnet

import "strings"

// Category is the object category tag reported by the backend as the type
// segment of an object short id.
type Category string

const (
	CategoryDevice       Category = "device"
	CategoryFile         Category = "file"
	CategoryProgram      Category = "program"
	CategoryAnalogValue  Category = "analogValue"
	CategoryAnalogInput  Category = "analogInput"
	CategoryAnalogOutput Category = "analogOutput"
	CategoryBinaryValue  Category = "binaryValue"
	CategoryBinaryInput  Category = "binaryInput"
	CategoryBinaryOutput Category = "binaryOutput"
	CategoryUnknown      Category = "unknown"
)

// Capability describes how a category renders and what it accepts.
type Capability struct {
	Icon     string // icon asset stem, without extension
	Binary   bool   // present-value is a binary state, icon keys on it
	Writable bool   // presentValue accepts write commands
	Toggle   bool   // presentValue renders as a clickable on/off toggle
}

var capabilities = map[Category]Capability{
	CategoryDevice:       {Icon: "device"},
	CategoryFile:         {Icon: "file"},
	CategoryProgram:      {Icon: "program"},
	CategoryAnalogValue:  {Icon: "analogValue", Writable: true},
	CategoryAnalogInput:  {Icon: "analogInput"},
	CategoryAnalogOutput: {Icon: "analogOutput", Writable: true},
	CategoryBinaryValue:  {Icon: "binaryValue", Binary: true, Writable: true, Toggle: true},
	CategoryBinaryInput:  {Icon: "binaryInput", Binary: true},
	CategoryBinaryOutput: {Icon: "binaryOutput", Binary: true, Writable: true, Toggle: true},
}

// Capability returns the category's capability entry, falling back to a
// generic read-only entry for unknown categories.
func (c Category) Capability() Capability {
	if cap, ok := capabilities[c]; ok {
		return cap
	}
	return Capability{Icon: "unknown"}
}

// Icon returns the icon asset filename for the category. Binary categories
// pick the on/off variant from the current present-value.
func (c Category) Icon(presentValue string) string {
	cap := c.Capability()
	if cap.Binary {
		if presentValue == ValueActive {
			return cap.Icon + "_on.png"
		}
		return cap.Icon + "_off.png"
	}
	return cap.Icon + ".png"
}

// ParseCategory maps a backend type tag to a Category.
func ParseCategory(tag string) Category {
	c := Category(tag)
	if _, ok := capabilities[c]; ok {
		return c
	}
	return CategoryUnknown
}

// CategoryFromShortID derives the category from an object short id of the
// form "<type>_<id>".
func CategoryFromShortID(shortID string) Category {
	tag, _, ok := strings.Cut(shortID, "_")
	if !ok {
		return CategoryUnknown
	}
	return ParseCategory(tag)
}
