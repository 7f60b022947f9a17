package variants

import (
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
)

// Flexible reshapes for the flexible transformer. A flat variant is built
// when the payload carries variant prices, then every element of variants
// is reshaped on its own. Each variation gets a fresh size, so sizes are
// never merged by name. With no variant data a default variant is built.
func (r *Reshaper) Flexible(rec fields.Record) Result {
	variants := make([]models.Variant, 0)

	if r.hasFlatVariant(rec) {
		variants = append(variants, r.flatVariant(rec, models.DefaultVariant, false))
	}

	for _, el := range fields.Records(rec["variants"]) {
		variants = append(variants, r.element(el, models.DefaultVariant))
	}

	if len(variants) == 0 {
		variants = append(variants, r.flatVariant(rec, models.DefaultVariant, true))
	}

	return Result{
		Variants: variants,
		Sizes:    SizesFromVariations(variants),
	}
}

func (r *Reshaper) hasFlatVariant(rec fields.Record) bool {
	return fields.Resolve(rec, "variant_mrp", "variant_selling_price") != nil
}

// flatVariant builds one variant from top level fields. Product level keys
// such as title are never read as variant names.
func (r *Reshaper) flatVariant(rec fields.Record, name string, mrpFromPrice bool) models.Variant {
	id := r.ids.NewID()
	list, thumb := r.mediaOf(rec)

	if n := strings.TrimSpace(fields.String(fields.Resolve(rec, structure.DefaultNameMarkers...))); n != "" {
		name = n
	}

	return models.Variant{
		ID:        id,
		Name:      name,
		Color:     r.color(rec, ""),
		Weight:    r.weight(rec),
		Thumbnail: thumb,
		MediaList: list,
		Variations: []models.Variation{
			r.variation(rec, id, r.ids.NewID(), variationOpts{mrpFromPrice: mrpFromPrice}),
		},
	}
}

// element reshapes one entry of a variants list. Entries carrying their own
// variations yield one variation each.
func (r *Reshaper) element(el fields.Record, name string) models.Variant {
	id := r.ids.NewID()
	list, thumb := r.mediaOf(el)
	titleSize, titleColor := titleOptions(el)

	if n := strings.TrimSpace(fields.String(fields.Resolve(el, r.syn.VariantName...))); n != "" {
		name = n
	}

	v := models.Variant{
		ID:        id,
		Name:      name,
		Color:     r.color(el, titleColor),
		Weight:    r.weight(el),
		Thumbnail: thumb,
		MediaList: list,
	}

	for _, nested := range fields.Records(el["variations"]) {
		v.Variations = append(v.Variations,
			r.variation(nested, id, r.ids.NewID(), variationOpts{size: titleSize}))
	}
	if len(v.Variations) == 0 {
		v.Variations = []models.Variation{
			r.variation(el, id, r.ids.NewID(), variationOpts{size: titleSize}),
		}
	}
	return v
}
