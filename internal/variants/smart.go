package variants

import (
	"fmt"
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
)

// Single builds one variant and one size from a flat payload.
func (r *Reshaper) Single(rec fields.Record) Result {
	v := r.flatVariant(rec, models.DefaultVariant, false)
	return Result{
		Variants: []models.Variant{v},
		Sizes:    SizesFromVariations([]models.Variant{v}),
	}
}

// Multi builds one variant and one fresh size per element of a flat
// variants list. Sizes sharing a name are kept apart.
func (r *Reshaper) Multi(rec fields.Record) Result {
	variants := make([]models.Variant, 0)
	for i, el := range fields.Records(rec["variants"]) {
		variants = append(variants, r.element(el, fmt.Sprintf("Variant %d", i)))
	}
	if len(variants) == 0 {
		return r.Single(rec)
	}
	return Result{
		Variants: variants,
		Sizes:    SizesFromVariations(variants),
	}
}

// Complex normalizes an already nested payload. Existing ids and sizes are
// kept, missing discounts computed and availability recomputed. Variations
// pointing at undeclared sizes get a size synthesized for them.
func (r *Reshaper) Complex(rec fields.Record) Result {
	variants := make([]models.Variant, 0)
	for _, el := range fields.Records(rec["variants"]) {
		variants = append(variants, r.nested(el))
	}
	if len(variants) == 0 {
		variants = append(variants, r.flatVariant(rec, models.DefaultVariant, false))
	}

	sizes := newSizeSet(r.declaredSizes(rec))
	healed := 0
	for vi := range variants {
		for i := range variants[vi].Variations {
			vr := &variants[vi].Variations[i]
			if vr.SizeID == "" {
				if id, ok := sizes.byName(vr.Size); ok {
					vr.SizeID = id
					continue
				}
				vr.SizeID = r.ids.NewID()
			}
			if sizes.add(models.Size{ID: vr.SizeID, Name: vr.Size}) && len(sizes.declared) > 0 {
				healed++
			}
		}
	}

	return Result{Variants: variants, Sizes: sizes.list, Healed: healed}
}

// Mixed handles payloads that fit no other shape. Variants without
// variations are lifted into one variation each. When sizes are declared,
// every variation is linked to the declared size of the same name and
// unknown names get a new size. Otherwise sizes are derived from the
// variations.
func (r *Reshaper) Mixed(rec fields.Record) Result {
	variants := make([]models.Variant, 0)
	for _, el := range fields.Records(rec["variants"]) {
		if len(fields.Records(el["variations"])) > 0 {
			variants = append(variants, r.nested(el))
			continue
		}
		variants = append(variants, r.lifted(el))
	}
	if len(variants) == 0 {
		variants = append(variants, r.flatVariant(rec, models.DefaultVariant, false))
	}

	declared := r.declaredSizes(rec)
	if _, ok := rec["sizes"].([]any); !ok {
		for vi := range variants {
			for i := range variants[vi].Variations {
				if variants[vi].Variations[i].SizeID == "" {
					variants[vi].Variations[i].SizeID = r.ids.NewID()
				}
			}
		}
		return Result{Variants: variants, Sizes: SizesFromVariations(variants)}
	}

	sizes := newSizeSet(declared)
	healed := 0
	for vi := range variants {
		for i := range variants[vi].Variations {
			vr := &variants[vi].Variations[i]
			if id, ok := sizes.byName(vr.Size); ok {
				vr.SizeID = id
				continue
			}
			vr.SizeID = r.ids.NewID()
			sizes.add(models.Size{ID: vr.SizeID, Name: vr.Size})
			healed++
		}
	}

	return Result{Variants: variants, Sizes: sizes.list, Healed: healed}
}

// nested keeps the ids of an already nested variant.
func (r *Reshaper) nested(el fields.Record) models.Variant {
	id := existingID(el, "id", "_id", "variant_id")
	if id == "" {
		id = r.ids.NewID()
	}
	list, thumb := r.mediaOf(el)
	if thumb == "" {
		thumb, _ = el["thumbnail"].(string)
	}

	v := models.Variant{
		ID:        id,
		Name:      strings.TrimSpace(fields.String(fields.Resolve(el, r.syn.VariantName...))),
		Color:     r.color(el, ""),
		Weight:    r.weight(el),
		Thumbnail: thumb,
		MediaList: list,
	}

	for _, nested := range fields.Records(el["variations"]) {
		v.Variations = append(v.Variations,
			r.variation(nested, id, existingID(nested, "sizeId", "size_id"), variationOpts{}))
	}
	if len(v.Variations) == 0 {
		v.Variations = []models.Variation{r.variation(el, id, "", variationOpts{})}
	}
	return v
}

// lifted turns a flat variant element into a nested one. The size id is
// left empty for the caller to link.
func (r *Reshaper) lifted(el fields.Record) models.Variant {
	id := existingID(el, "variant_id", "id", "_id")
	if id == "" {
		id = r.ids.NewID()
	}
	list, thumb := r.mediaOf(el)
	titleSize, titleColor := titleOptions(el)

	return models.Variant{
		ID:        id,
		Name:      strings.TrimSpace(fields.String(fields.Resolve(el, r.syn.VariantName...))),
		Color:     r.color(el, titleColor),
		Weight:    r.weight(el),
		Thumbnail: thumb,
		MediaList: list,
		Variations: []models.Variation{
			r.variation(el, id, "", variationOpts{size: titleSize}),
		},
	}
}

func (r *Reshaper) declaredSizes(rec fields.Record) []models.Size {
	var sizes []models.Size
	for _, s := range fields.Records(rec["sizes"]) {
		id := existingID(s, "id", "_id", "sizeId")
		if id == "" {
			id = r.ids.NewID()
		}
		name := strings.TrimSpace(fields.String(fields.Resolve(s, "name", "size")))
		if name == "" {
			name = models.DefaultSize
		}
		sizes = append(sizes, models.Size{ID: id, Name: name})
	}
	return sizes
}

// sizeSet keeps sizes unique by id in insertion order.
type sizeSet struct {
	declared []models.Size
	list     []models.Size
	ids      map[string]bool
}

func newSizeSet(declared []models.Size) *sizeSet {
	s := &sizeSet{
		declared: declared,
		list:     make([]models.Size, 0, len(declared)),
		ids:      make(map[string]bool),
	}
	for _, size := range declared {
		s.add(size)
	}
	return s
}

// add reports whether the size was new.
func (s *sizeSet) add(size models.Size) bool {
	if s.ids[size.ID] {
		return false
	}
	s.ids[size.ID] = true
	s.list = append(s.list, size)
	return true
}

func (s *sizeSet) byName(name string) (string, bool) {
	for _, size := range s.list {
		if size.Name == name {
			return size.ID, true
		}
	}
	return "", false
}
