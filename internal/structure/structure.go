package structure

import (
	"github.com/maltedev/ekatra-normalizer/internal/fields"
)

// Shape is the recognised layout of an input payload.
type Shape string

const (
	SimpleSingleVariant Shape = "SIMPLE_SINGLE_VARIANT"
	SimpleMultiVariant  Shape = "SIMPLE_MULTI_VARIANT"
	ComplexStructure    Shape = "COMPLEX_STRUCTURE"
	MixedStructure      Shape = "MIXED_STRUCTURE"
)

// Shapes in detection order.
var Shapes = []Shape{ComplexStructure, SimpleMultiVariant, SimpleSingleVariant, MixedStructure}

func (s Shape) Valid() bool {
	switch s {
	case SimpleSingleVariant, SimpleMultiVariant, ComplexStructure, MixedStructure:
		return true
	}
	return false
}

func (s Shape) String() string {
	return string(s)
}

// ParseShape accepts a shape name; unknown names report false.
func ParseShape(name string) (Shape, bool) {
	s := Shape(name)
	return s, s.Valid()
}

// DefaultNameMarkers are the flat variant-name-like fields.
var DefaultNameMarkers = []string{"variant_name", "variantName", "variant_title"}

// Detector classifies payloads by the first matching rule.
type Detector struct {
	markers []string
}

func NewDetector(markers []string) *Detector {
	if len(markers) == 0 {
		markers = DefaultNameMarkers
	}
	return &Detector{markers: markers}
}

func (d *Detector) Detect(rec fields.Record) Shape {
	variants, hasVariants := rec["variants"].([]any)

	if hasVariants && len(variants) > 0 {
		if first, ok := fields.AsRecord(variants[0]); ok {
			_, hasVariations := first["variations"]
			_, hasMedia := first["mediaList"]
			if hasVariations || hasMedia {
				return ComplexStructure
			}
			if d.hasName(first) {
				return SimpleMultiVariant
			}
		}
	}

	if !hasVariants && d.hasName(rec) {
		return SimpleSingleVariant
	}

	return MixedStructure
}

func (d *Detector) hasName(rec fields.Record) bool {
	for _, key := range d.markers {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}
