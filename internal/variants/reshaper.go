package variants

import (
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/discount"
	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/ids"
	"github.com/maltedev/ekatra-normalizer/internal/media"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
)

// Result is the variant sub-graph of a product.
type Result struct {
	Variants []models.Variant
	Sizes    []models.Size
	// Healed counts sizes synthesized for variations that referenced an
	// undeclared size.
	Healed int
}

// Reshaper builds canonical variants, variations and sizes.
type Reshaper struct {
	ids   ids.Generator
	media *media.Normalizer
	syn   fields.Synonyms
}

func NewReshaper(gen ids.Generator, norm *media.Normalizer, syn fields.Synonyms) *Reshaper {
	return &Reshaper{
		ids:   gen,
		media: norm,
		syn:   syn,
	}
}

// Reshape dispatches on the detected shape using the shape specific
// strategies.
func (r *Reshaper) Reshape(shape structure.Shape, rec fields.Record) Result {
	switch shape {
	case structure.SimpleSingleVariant:
		return r.Single(rec)
	case structure.SimpleMultiVariant:
		return r.Multi(rec)
	case structure.ComplexStructure:
		return r.Complex(rec)
	default:
		return r.Mixed(rec)
	}
}

// SizesFromVariations returns one size per distinct sizeId in first-seen
// order. Names may repeat.
func SizesFromVariations(variants []models.Variant) []models.Size {
	seen := make(map[string]bool)
	sizes := make([]models.Size, 0)
	for _, v := range variants {
		for _, vr := range v.Variations {
			if seen[vr.SizeID] {
				continue
			}
			seen[vr.SizeID] = true
			sizes = append(sizes, models.Size{ID: vr.SizeID, Name: vr.Size})
		}
	}
	return sizes
}

type variationOpts struct {
	// mrp falls back to the selling price when absent
	mrpFromPrice bool
	// size used when the record names none
	size string
}

func (r *Reshaper) variation(rec fields.Record, variantID, sizeID string, opts variationOpts) models.Variation {
	sp := nonNegative(fields.Float(fields.Resolve(rec, r.syn.VariantSellingPrice...)))

	rawMRP := fields.Resolve(rec, r.syn.VariantMRP...)
	mrp := nonNegative(fields.Float(rawMRP))
	if rawMRP == nil && opts.mrpFromPrice {
		mrp = sp
	}

	d := discount.Compute(mrp, sp,
		fields.Resolve(rec, r.syn.Discount...),
		fields.Resolve(rec, r.syn.DiscountLabel...),
	)

	size := strings.TrimSpace(fields.String(fields.Resolve(rec, r.syn.Size...)))
	if size == "" {
		size = opts.size
	}
	if size == "" {
		size = models.DefaultSize
	}

	v := models.Variation{
		SizeID:        sizeID,
		VariantID:     variantID,
		MRP:           mrp,
		SellingPrice:  sp,
		Discount:      d.Discount,
		DiscountLabel: d.Label,
		Quantity:      fields.Int(fields.Resolve(rec, r.syn.VariantQuantity...)),
		Size:          size,
	}
	v.SetAvailability()
	return v
}

func (r *Reshaper) color(rec fields.Record, fallback string) string {
	if c := strings.TrimSpace(fields.String(fields.Resolve(rec, r.syn.Color...))); c != "" {
		return c
	}
	if fallback != "" {
		return fallback
	}
	return models.DefaultColor
}

func (r *Reshaper) weight(rec fields.Record) float64 {
	return nonNegative(fields.Float(fields.Resolve(rec, r.syn.Weight...)))
}

func (r *Reshaper) mediaOf(rec fields.Record) ([]models.Media, string) {
	list := r.media.Normalize(rec)
	return list, media.Thumbnail(list)
}

// titleOptions splits Shopify style titles such as "Small / Red" into size
// and color.
func titleOptions(rec fields.Record) (size, color string) {
	title, _ := rec["title"].(string)
	if !strings.Contains(title, "/") {
		return "", ""
	}
	parts := strings.Split(title, "/")
	size = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		color = strings.TrimSpace(parts[1])
	}
	return size, color
}

func existingID(rec fields.Record, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(fields.String(rec[key])); s != "" {
			return s
		}
	}
	return ""
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
