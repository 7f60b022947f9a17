package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
)

var DefaultCurrencies = []string{"INR", "USD", "EUR", "GBP"}

// Validator checks raw payloads before transformation and canonical
// products after it.
type Validator struct {
	syn        fields.Synonyms
	currencies []string
	v          *validator.Validate
}

func New(syn fields.Synonyms, currencies []string) *Validator {
	if len(currencies) == 0 {
		currencies = DefaultCurrencies
	}

	v := validator.New()
	allowed := slices.Clone(currencies)
	_ = v.RegisterValidation("supported_currency", func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	})

	return &Validator{
		syn:        syn,
		currencies: allowed,
		v:          v,
	}
}

// Currencies returns the allow-list in use.
func (val *Validator) Currencies() []string {
	return slices.Clone(val.currencies)
}

type report struct {
	errors      []string
	suggestions []string
	fixes       []string
}

func (r *report) add(err string, suggestions ...string) {
	r.errors = append(r.errors, err)
	r.suggestions = append(r.suggestions, suggestions...)
}

func (r *report) result() models.ValidationResult {
	res := models.NewValidationResult(r.errors, r.suggestions)
	res.FixInstructions = r.fixes
	res.CanAutoTransform = res.Valid
	return res
}

// Flexible validates a raw payload for the flexible transformer. Product id
// and title are required. Variant data is required unless the payload is
// minimal, i.e. has no description, currency or url, in which case a
// default variant is built later.
func (val *Validator) Flexible(rec fields.Record) models.ValidationResult {
	var r report

	if !fields.Has(rec, val.syn.ProductID...) {
		r.add("Product ID is required", "Add 'product_id' field to your data")
	}
	if !fields.Has(rec, val.syn.Title...) {
		r.add("Product title is required", "Add 'title' field to your data")
	}

	if !val.hasVariantData(rec) && !val.isMinimal(rec) {
		r.add("No variant data found",
			"Add variant data using one of these methods:",
			"Method 1: Add 'variant_mrp', 'variant_selling_price' fields",
			"Method 2: Add 'variants' array with variant objects",
			"Method 3: Add 'price' field for minimal format",
		)
	}

	return r.result()
}

func (val *Validator) hasVariantData(rec fields.Record) bool {
	return fields.Has(rec, "variants") ||
		fields.Has(rec, val.syn.VariantMRP...) ||
		fields.Has(rec, val.syn.VariantSellingPrice...)
}

func (val *Validator) isMinimal(rec fields.Record) bool {
	return !fields.Has(rec, val.syn.Description...) &&
		!fields.Has(rec, val.syn.Currency...) &&
		!fields.Has(rec, val.syn.URL...)
}

// Guided validates a raw payload and explains how to fix each problem.
// CanAutoTransform is true when id, title, currency and variant data are
// all present, even if optional checks failed.
func (val *Validator) Guided(rec fields.Record) models.ValidationResult {
	var r report

	hasID := fields.Has(rec, val.syn.ProductID...)
	hasTitle := fields.Has(rec, val.syn.Title...)
	currency := strings.ToUpper(strings.TrimSpace(fields.String(fields.Resolve(rec, val.syn.Currency...))))
	hasVariants := fields.Has(rec, "variants") || fields.Has(rec, structure.DefaultNameMarkers...)

	if !hasID {
		r.add("Product ID is required", "Add 'product_id' field to your data")
		r.fixes = append(r.fixes, "Fix: add \"product_id\": \"YOUR_PRODUCT_ID\" to your payload")
	}
	if !hasTitle {
		r.add("Product title is required", "Add 'title' field to your data")
		r.fixes = append(r.fixes, "Fix: add \"title\": \"Your Product Title\" to your payload")
	}
	if currency == "" {
		r.add("Currency is required", "Add 'currency' field to your data")
		r.fixes = append(r.fixes, fmt.Sprintf("Fix: add \"currency\": \"%s\" (one of %s) to your payload", val.currencies[0], strings.Join(val.currencies, ", ")))
	}
	if !fields.Has(rec, val.syn.Description...) {
		r.add("Product description is required", "Add 'description' field to your data")
		r.fixes = append(r.fixes, "Fix: add \"description\": \"Your product description\" to your payload")
	}
	if !fields.Has(rec, val.syn.URL...) {
		r.add("Existing URL is required", "Add 'existing_url' field to your data")
		r.fixes = append(r.fixes, "Fix: add \"existing_url\": \"https://your-site.com/product\" to your payload")
	}
	if !hasVariants {
		r.add("No variant data found",
			"Add variant data using one of these methods:",
			"Method 1: Add 'variant_name', 'variant_mrp', 'variant_selling_price' fields",
			"Method 2: Add 'variants' array with variant objects",
		)
		r.fixes = append(r.fixes, "Fix: add variant fields or a \"variants\" list")
	}
	if !fields.Has(rec, val.syn.Keywords...) {
		r.add("At least one keyword is required", "Add 'keywords' field to your data")
		r.fixes = append(r.fixes, "Fix: add \"keywords\": [\"keyword1\", \"keyword2\"] to your payload")
	}
	if currency != "" && !slices.Contains(val.currencies, currency) {
		list := strings.Join(val.currencies, ", ")
		r.add("Currency must be one of: "+list, "Use a supported currency code")
		r.fixes = append(r.fixes, fmt.Sprintf("Fix: change currency %q to one of: %s", currency, list))
	}

	res := r.result()
	res.CanAutoTransform = hasID && hasTitle && currency != "" && hasVariants
	return res
}

// Sync validates the minimal sync payload: id, title, currency and an
// image, each looked up through its own synonym table.
func (val *Validator) Sync(rec fields.Record) models.ValidationResult {
	var r report

	required := []struct {
		label string
		keys  []string
	}{
		{"Product ID", val.syn.SyncProductID},
		{"Product title", val.syn.SyncTitle},
		{"Currency", val.syn.SyncCurrency},
		{"Image URL", val.syn.SyncImageURL},
	}

	for _, f := range required {
		if fields.Has(rec, f.keys...) {
			continue
		}
		hint := f.keys
		if len(hint) > 5 {
			hint = hint[:5]
		}
		r.add(f.label+" is required", "Add one of these fields: "+strings.Join(hint, ", ")+"...")
	}

	return r.result()
}

// Product validates a canonical product.
func (val *Validator) Product(p *models.Product) models.ValidationResult {
	var r report
	if p == nil {
		r.add("Product is required", "Pass a transformed product")
		return r.result()
	}

	if strings.TrimSpace(p.ProductID) == "" {
		r.add("Product ID is required", "Set 'productId' on the product")
	}
	if strings.TrimSpace(p.Title) == "" {
		r.add("Title is required", "Set 'title' on the product")
	}
	if strings.TrimSpace(p.Description) == "" {
		r.add("Description is required", "Set 'description' on the product")
	}
	switch {
	case strings.TrimSpace(p.ExistingProductURL) == "":
		r.add("Existing URL is required", "Set 'existingProductUrl' to the product page URL")
	case val.v.Var(p.ExistingProductURL, "url") != nil:
		r.add("Existing URL is not valid", "Use an absolute URL such as https://your-site.com/product")
	}
	if p.SearchKeywords.Empty() {
		r.add("At least one keyword is required", "Set 'searchKeywords' on the product")
	}
	if len(p.Variants) == 0 {
		r.add("At least one variant is required", "Add a variant with at least one variation")
	}
	if val.v.Var(p.Currency, "supported_currency") != nil {
		r.add("Currency must be one of: "+strings.Join(val.currencies, ", "), "Use a supported currency code")
	}
	if p.CountryCode != nil && val.v.Var(*p.CountryCode, "len=2,alpha") != nil {
		r.add("Country code must be a 2-letter ISO code", "Use a code such as IN or US")
	}

	for i, o := range p.Offers {
		if o.Title == nil || strings.TrimSpace(*o.Title) == "" {
			r.add(fmt.Sprintf("Offer at index %d must have 'title' field", i))
		}
	}
	for i, s := range p.Specifications {
		if s.Key == "" || s.Value == "" {
			r.add(fmt.Sprintf("Specification at index %d must have 'key' and 'value' fields", i))
		}
	}

	declared := make(map[string]int)
	for i, s := range p.Sizes {
		if s.ID == "" || s.Name == "" {
			r.add(fmt.Sprintf("Size at index %d must have 'id' and 'name' fields", i))
		}
		declared[s.ID]++
		if s.ID != "" && declared[s.ID] == 2 {
			r.add(fmt.Sprintf("Size id %s is declared more than once", s.ID))
		}
	}

	for i, v := range p.Variants {
		if errs := val.variant(v, declared); len(errs) > 0 {
			r.add(fmt.Sprintf("Variant %d: %s", i, strings.Join(errs, ", ")))
		}
	}

	return r.result()
}

func (val *Validator) variant(v models.Variant, sizes map[string]int) []string {
	var errs []string

	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, "Variant name is required")
	}
	if len(v.MediaList) == 0 && v.Thumbnail == "" {
		errs = append(errs, "At least one image is required")
	}
	if v.Thumbnail != "" && val.v.Var(v.Thumbnail, "url") != nil {
		errs = append(errs, "Thumbnail URL is not valid")
	}
	if v.Weight < 0 {
		errs = append(errs, "Weight must be >= 0")
	}

	for i, m := range v.MediaList {
		if m.MediaType == "" {
			errs = append(errs, fmt.Sprintf("Media at index %d must have 'mediaType' field", i))
		}
		if m.PlayURL == "" {
			errs = append(errs, fmt.Sprintf("Media at index %d must have 'playUrl' field", i))
		} else if val.v.Var(m.PlayURL, "url") != nil {
			errs = append(errs, fmt.Sprintf("Media at index %d playUrl is not a valid URL", i))
		}
		if m.MimeType == "" {
			errs = append(errs, fmt.Sprintf("Media at index %d must have 'mimeType' field", i))
		}
	}

	if len(v.Variations) == 0 {
		errs = append(errs, "At least one variation is required")
	}
	for i, vr := range v.Variations {
		switch {
		case vr.SizeID == "":
			errs = append(errs, fmt.Sprintf("Variation at index %d must have 'sizeId' field", i))
		case sizes[vr.SizeID] == 0:
			errs = append(errs, fmt.Sprintf("Variation at index %d references unknown size %s", i, vr.SizeID))
		}
		if vr.MRP <= 0 {
			errs = append(errs, fmt.Sprintf("Variation at index %d MRP must be > 0", i))
		}
		if vr.SellingPrice <= 0 {
			errs = append(errs, fmt.Sprintf("Variation at index %d selling price must be > 0", i))
		}
		if vr.SellingPrice > vr.MRP {
			errs = append(errs, fmt.Sprintf("Variation at index %d selling price cannot be greater than MRP", i))
		}
		if vr.Quantity < 0 {
			errs = append(errs, fmt.Sprintf("Variation at index %d quantity must be >= 0", i))
		}
		if vr.Discount < 0 || vr.Discount > 100 {
			errs = append(errs, fmt.Sprintf("Variation at index %d discount must be between 0 and 100", i))
		}
	}

	return errs
}

// ProductOrFail returns a *ValidationError when p is invalid.
func (val *Validator) ProductOrFail(p *models.Product) error {
	res := val.Product(p)
	if !res.Valid {
		return NewValidationError(DefaultMessage, res)
	}
	return nil
}

// FlexibleOrFail returns a *ValidationError when rec cannot be transformed.
func (val *Validator) FlexibleOrFail(rec fields.Record) error {
	res := val.Flexible(rec)
	if !res.Valid {
		return NewValidationError(DefaultMessage, res)
	}
	return nil
}
