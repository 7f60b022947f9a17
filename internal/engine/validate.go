package engine

import (
	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
	"github.com/maltedev/ekatra-normalizer/internal/validation"
)

const messageNotObject = "Input must be a JSON object"

// Validate checks a payload without transforming it. Canonical products
// get the full structural check, raw payloads the flexible one.
func (e *Engine) Validate(raw any) models.ValidationResult {
	var res models.ValidationResult
	switch v := raw.(type) {
	case *models.Product:
		res = e.validator.Product(v)
	case models.Product:
		res = e.validator.Product(&v)
	default:
		rec, ok := asRecord(raw)
		if !ok {
			return models.NewValidationResult(
				[]string{messageNotObject},
				[]string{"Pass the product as a JSON object"},
			)
		}
		res = e.validator.Flexible(flexibleRecord(rec))
	}

	if !res.Valid {
		e.logInvalid("validate", res)
	}
	return res
}

// ValidateRaw runs the flexible checks on a decoded payload.
func (e *Engine) ValidateRaw(rec fields.Record) models.ValidationResult {
	return e.Validate(rec)
}

// ValidateProduct runs the structural checks on a canonical product.
func (e *Engine) ValidateProduct(p *models.Product) models.ValidationResult {
	return e.Validate(p)
}

// ValidateGuided reports every missing field with a fix instruction.
func (e *Engine) ValidateGuided(raw any) models.ValidationResult {
	rec, ok := asRecord(raw)
	if !ok {
		res := models.NewValidationResult(
			[]string{messageNotObject},
			[]string{"Pass the product as a JSON object"},
		)
		res.FixInstructions = []string{"Fix: wrap the product fields in a JSON object"}
		return res
	}
	return e.validator.Guided(rec)
}

// ValidateOrFail returns a *validation.ValidationError when Validate fails.
func (e *Engine) ValidateOrFail(raw any) error {
	res := e.Validate(raw)
	if res.Valid {
		return nil
	}
	return validation.NewValidationError("", res)
}

// CanAutoTransform reports whether SmartTransform would accept the payload.
func (e *Engine) CanAutoTransform(raw any) bool {
	return e.ValidateGuided(raw).CanAutoTransform
}

// Format describes one accepted input layout.
type Format struct {
	Shape       structure.Shape `json:"shape"`
	Description string          `json:"description"`
	Example     fields.Record   `json:"example"`
}

// SupportedFormats lists the input layouts in detection order.
func (e *Engine) SupportedFormats() []Format {
	return []Format{
		{
			Shape:       structure.ComplexStructure,
			Description: "Variants carrying their own variations and media lists",
			Example: fields.Record{
				"product_id": "P1",
				"title":      "Kurta",
				"currency":   "INR",
				"variants": []any{fields.Record{
					"color":      "Red",
					"mediaList":  []any{"https://cdn.example.com/red.jpg"},
					"variations": []any{fields.Record{"size": "M", "mrp": 1000, "sellingPrice": 800}},
				}},
			},
		},
		{
			Shape:       structure.SimpleMultiVariant,
			Description: "A variants list of flat variant objects",
			Example: fields.Record{
				"product_id": "P1",
				"title":      "Kurta",
				"variants": []any{
					fields.Record{"variant_name": "Red", "color": "Red", "price": 800, "mrp": 1000},
					fields.Record{"variant_name": "Blue", "color": "Blue", "price": 850, "mrp": 1000},
				},
			},
		},
		{
			Shape:       structure.SimpleSingleVariant,
			Description: "Variant fields at the top level of the product",
			Example: fields.Record{
				"product_id":            "P1",
				"title":                 "Kurta",
				"variant_name":          "Red Kurta",
				"variant_mrp":           1000,
				"variant_selling_price": 800,
			},
		},
		{
			Shape:       structure.MixedStructure,
			Description: "Anything else, including declared sizes referenced by name",
			Example: fields.Record{
				"product_id": "P1",
				"title":      "Kurta",
				"sizes":      []any{fields.Record{"name": "M"}},
				"variants":   []any{fields.Record{"color": "Red", "size": "M", "price": 800}},
			},
		},
	}
}
