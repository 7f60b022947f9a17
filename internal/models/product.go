package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	DefaultSize    = "freestyle"
	DefaultColor   = "unknown"
	DefaultTitle   = "Untitled Product"
	DefaultVariant = "Default Variant"
)

const (
	MediaImage   = "IMAGE"
	MediaVideo   = "VIDEO"
	MediaUnknown = "UNKNOWN"
)

// Product is the canonical Ekatra product.
type Product struct {
	ProductID          string          `json:"productId"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Currency           string          `json:"currency"`
	ExistingProductURL string          `json:"existingProductUrl"`
	SearchKeywords     Keywords        `json:"searchKeywords"`
	Handle             string          `json:"handle"`
	CountryCode        *string         `json:"countryCode"`
	Offers             []Offer         `json:"offers"`
	Specifications     []Specification `json:"specifications"`
	Variants           []Variant       `json:"variants"`
	Sizes              []Size          `json:"sizes"`
}

type Variant struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Color      string      `json:"color"`
	Weight     float64     `json:"weight"`
	Thumbnail  string      `json:"thumbnail"`
	MediaList  []Media     `json:"mediaList"`
	Variations []Variation `json:"variations"`
}

type Variation struct {
	SizeID        string  `json:"sizeId"`
	VariantID     string  `json:"variantId"`
	MRP           float64 `json:"mrp"`
	SellingPrice  float64 `json:"sellingPrice"`
	Discount      float64 `json:"discount"`
	DiscountLabel *string `json:"discountLabel"`
	Availability  bool    `json:"availability"`
	Quantity      int     `json:"quantity"`
	Size          string  `json:"size"`
}

type Size struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Media struct {
	MediaType      string  `json:"mediaType"`
	PlayerTypeEnum string  `json:"playerTypeEnum"`
	PlayURL        string  `json:"playUrl"`
	ThumbnailURL   string  `json:"thumbnailUrl"`
	MimeType       string  `json:"mimeType"`
	Weight         int     `json:"weight"`
	Duration       float64 `json:"duration"`
	Size           int64   `json:"size"`
}

type Offer struct {
	Title               *string       `json:"title,omitempty"`
	ProductOfferDetails []OfferDetail `json:"productOfferDetails,omitempty"`
}

type OfferDetail struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ValidationResult carries errors and remediation hints in input order.
type ValidationResult struct {
	Valid            bool     `json:"valid"`
	Errors           []string `json:"errors"`
	Suggestions      []string `json:"suggestions"`
	FixInstructions  []string `json:"fixInstructions,omitempty"`
	CanAutoTransform bool     `json:"canAutoTransform"`
}

func NewValidationResult(errors, suggestions []string) ValidationResult {
	if errors == nil {
		errors = make([]string, 0)
	}
	if suggestions == nil {
		suggestions = make([]string, 0)
	}
	return ValidationResult{
		Valid:       len(errors) == 0,
		Errors:      errors,
		Suggestions: suggestions,
	}
}

// SetAvailability keeps availability in step with quantity.
func (v *Variation) SetAvailability() {
	if v.Quantity < 0 {
		v.Quantity = 0
	}
	v.Availability = v.Quantity > 0
}

// VariationCount returns the number of variations across all variants.
func (p *Product) VariationCount() int {
	n := 0
	for _, v := range p.Variants {
		n += len(v.Variations)
	}
	return n
}

// SizeIndex maps size ids to their position in p.Sizes.
func (p *Product) SizeIndex() map[string]int {
	idx := make(map[string]int, len(p.Sizes))
	for i, s := range p.Sizes {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = i
		}
	}
	return idx
}

// Keywords holds search keywords either as one comma-joined string or as a
// list. Which form is produced depends on the entry point.
type Keywords struct {
	text   string
	list   []string
	isList bool
}

func KeywordText(s string) Keywords {
	return Keywords{text: s}
}

func KeywordList(items []string) Keywords {
	if items == nil {
		items = make([]string, 0)
	}
	return Keywords{list: items, isList: true}
}

func (k Keywords) IsList() bool {
	return k.isList
}

func (k Keywords) Text() string {
	if k.isList {
		return strings.Join(k.list, ",")
	}
	return k.text
}

// Items returns the keywords as a list, splitting the text form on commas.
func (k Keywords) Items() []string {
	if k.isList {
		return k.list
	}
	var items []string
	for _, part := range strings.Split(k.text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (k Keywords) Empty() bool {
	return len(k.Items()) == 0
}

func (k Keywords) MarshalJSON() ([]byte, error) {
	if k.isList {
		return json.Marshal(k.list)
	}
	return json.Marshal(k.text)
}

func (k *Keywords) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*k = KeywordList(items)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*k = Keywords{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = KeywordText(s)
	return nil
}
