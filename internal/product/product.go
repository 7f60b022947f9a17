package product

import (
	"regexp"
	"sort"
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/ids"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/parser"
	"github.com/maltedev/ekatra-normalizer/internal/variants"
)

// KeywordForm selects how searchKeywords is emitted.
type KeywordForm int

const (
	// KeywordsText joins keywords into one comma separated string.
	KeywordsText KeywordForm = iota
	// KeywordsList emits a de-duplicated list.
	KeywordsList
)

var (
	handleStrip    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	handleCollapse = regexp.MustCompile(`[\s-]+`)
)

// Resolved holds product level values pulled from a payload. Empty fields
// were not found. KeywordSources holds every non-empty keyword field in
// synonym order.
type Resolved struct {
	ProductID      string
	Title          string
	Description    string
	Currency       string
	URL            string
	Keywords       any
	KeywordSources []any
	CountryCode    string
	Offers         any
	Specifications any
}

type Assembler struct {
	ids             ids.Generator
	syn             fields.Synonyms
	html            parser.Parser
	defaultCurrency string
}

func NewAssembler(gen ids.Generator, syn fields.Synonyms, html parser.Parser, defaultCurrency string) *Assembler {
	return &Assembler{
		ids:             gen,
		syn:             syn,
		html:            html,
		defaultCurrency: defaultCurrency,
	}
}

// Resolve pulls product level fields, including Magento custom_attributes
// for description and keywords.
func (a *Assembler) Resolve(rec fields.Record) Resolved {
	res := Resolved{
		ProductID:      text(fields.Resolve(rec, a.syn.ProductID...)),
		Title:          text(fields.Resolve(rec, a.syn.Title...)),
		Description:    text(fields.Resolve(rec, a.syn.Description...)),
		Currency:       strings.ToUpper(text(fields.Resolve(rec, a.syn.Currency...))),
		URL:            text(fields.Resolve(rec, a.syn.URL...)),
		Keywords:       fields.Resolve(rec, a.syn.Keywords...),
		CountryCode:    fields.String(fields.Resolve(rec, a.syn.CountryCode...)),
		Offers:         fields.Resolve(rec, a.syn.Offers...),
		Specifications: fields.Resolve(rec, a.syn.Specifications...),
	}

	for _, key := range a.syn.Keywords {
		if v := fields.Resolve(rec, key); v != nil {
			res.KeywordSources = append(res.KeywordSources, v)
		}
	}

	for _, attr := range fields.Records(rec["custom_attributes"]) {
		switch fields.String(attr["attribute_code"]) {
		case "description":
			if res.Description == "" {
				res.Description = text(attr["value"])
			}
		case "meta_keyword":
			if res.Keywords == nil && !fields.IsEmpty(attr["value"]) {
				res.Keywords = attr["value"]
				res.KeywordSources = append(res.KeywordSources, attr["value"])
			}
		}
	}

	res.Description = parser.CleanText(a.html, res.Description)
	return res
}

// Assemble builds the canonical product. Missing ids are generated, a
// missing title becomes "Untitled Product" and a missing currency the
// configured default.
func (a *Assembler) Assemble(res Resolved, form KeywordForm, vs variants.Result) *models.Product {
	p := &models.Product{
		ProductID:          res.ProductID,
		Title:              res.Title,
		Description:        res.Description,
		Currency:           res.Currency,
		ExistingProductURL: res.URL,
		Offers:             Offers(res.Offers),
		Specifications:     Specifications(res.Specifications),
		Variants:           vs.Variants,
		Sizes:              vs.Sizes,
	}

	if p.ProductID == "" {
		p.ProductID = a.ids.NewID()
	}
	if p.Title == "" {
		p.Title = models.DefaultTitle
	}
	if p.Currency == "" {
		p.Currency = a.defaultCurrency
	}
	// countryCode passes through as resolved
	if res.CountryCode != "" {
		cc := res.CountryCode
		p.CountryCode = &cc
	}

	switch form {
	case KeywordsList:
		sources := res.KeywordSources
		if len(sources) == 0 && res.Keywords != nil {
			sources = []any{res.Keywords}
		}
		p.SearchKeywords = models.KeywordList(KeywordItems(sources...))
	default:
		p.SearchKeywords = models.KeywordText(KeywordText(res.Keywords))
	}

	p.Handle = Handle(p.Title)
	return p
}

// Handle derives a URL safe slug from a title.
func Handle(title string) string {
	h := strings.ToLower(title)
	h = handleStrip.ReplaceAllString(h, "")
	h = handleCollapse.ReplaceAllString(h, "-")
	return strings.Trim(h, "-")
}

// KeywordText renders keywords as a string: strings pass through and lists
// of tags are joined by their name with commas.
func KeywordText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		var names []string
		for _, item := range t {
			switch tag := item.(type) {
			case map[string]any:
				if name := strings.TrimSpace(fields.String(tag["name"])); name != "" {
					names = append(names, name)
				}
			default:
				if s := strings.TrimSpace(fields.String(tag)); s != "" {
					names = append(names, s)
				}
			}
		}
		return strings.Join(names, ",")
	}
	return ""
}

// KeywordItems renders keywords as a de-duplicated list, splitting strings
// on commas.
func KeywordItems(values ...any) []string {
	seen := make(map[string]bool)
	items := make([]string, 0)
	for _, v := range values {
		for _, kw := range fields.Strings(KeywordText(v)) {
			if !seen[kw] {
				seen[kw] = true
				items = append(items, kw)
			}
		}
	}
	return items
}

// Offers keeps offer records and their details. Anything else is dropped.
func Offers(v any) []models.Offer {
	offers := make([]models.Offer, 0)
	for _, rec := range fields.Records(v) {
		var o models.Offer
		if title := strings.TrimSpace(fields.String(rec["title"])); title != "" {
			o.Title = &title
		}
		for _, d := range fields.Records(rec["productOfferDetails"]) {
			o.ProductOfferDetails = append(o.ProductOfferDetails, models.OfferDetail{
				Title:       fields.String(d["title"]),
				Description: fields.String(d["description"]),
			})
		}
		offers = append(offers, o)
	}
	return offers
}

// Specifications accepts a list of {key, value} records or a flat object,
// whose keys are emitted sorted.
func Specifications(v any) []models.Specification {
	specs := make([]models.Specification, 0)

	if obj, ok := fields.AsRecord(v); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			specs = append(specs, models.Specification{Key: k, Value: fields.String(obj[k])})
		}
		return specs
	}

	for _, rec := range fields.Records(v) {
		key := fields.String(fields.Resolve(rec, "key", "name", "label", "attribute_code"))
		specs = append(specs, models.Specification{
			Key:   key,
			Value: fields.String(rec["value"]),
		})
	}
	return specs
}

func text(v any) string {
	return strings.TrimSpace(fields.String(v))
}
