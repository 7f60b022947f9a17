package fields

// Synonyms lists, per canonical field, the source keys tried in order.
// Tables are plain values so callers can substitute their own.
type Synonyms struct {
	ProductID      []string
	Title          []string
	Description    []string
	Currency       []string
	URL            []string
	Keywords       []string
	CountryCode    []string
	Offers         []string
	Specifications []string

	VariantName         []string
	VariantMRP          []string
	VariantSellingPrice []string
	VariantQuantity     []string
	Size                []string
	Color               []string
	Weight              []string
	Discount            []string
	DiscountLabel       []string
	Images              []string

	// Minimal-sync tables are wider and matched case-insensitively.
	SyncProductID []string
	SyncTitle     []string
	SyncCurrency  []string
	SyncImageURL  []string
}

// DefaultSynonyms returns a fresh copy of the built-in tables.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		ProductID:      []string{"product_id", "id", "item_id", "sku", "productId"},
		Title:          []string{"title", "name", "product_name", "product_title"},
		Description:    []string{"description", "body_html", "product_description", "short_description", "meta_description"},
		Currency:       []string{"currency", "currency_code", "currencyCode"},
		URL:            []string{"existing_url", "url", "permalink", "link", "product_url", "existingProductUrl"},
		Keywords:       []string{"keywords", "product_keywords", "tags", "meta_keyword", "searchKeywords", "search_keywords"},
		CountryCode:    []string{"countryCode", "country_code", "country"},
		Offers:         []string{"offers", "product_offers"},
		Specifications: []string{"specifications", "specs", "attributes"},

		VariantName:         []string{"variant_name", "variant_title", "title", "name"},
		VariantMRP:          []string{"variant_mrp", "mrp", "compare_at_price", "regular_price", "original_price", "base_price"},
		VariantSellingPrice: []string{"variant_selling_price", "selling_price", "sellingPrice", "price", "sale_price"},
		VariantQuantity:     []string{"variant_quantity", "quantity", "stock_quantity", "inventory_quantity", "qty"},
		Size:                []string{"size", "variant_size", "option1"},
		Color:               []string{"color", "variant_color", "colour", "option2"},
		Weight:              []string{"weight", "variant_weight"},
		Discount:            []string{"discount"},
		DiscountLabel:       []string{"discountLabel", "discount_label"},
		Images:              []string{"image_urls", "images", "media_gallery_entries", "media", "mediaList", "imageUrls", "image_url", "imageUrl", "image"},

		SyncProductID: []string{
			"productId", "product_id", "id", "item_id", "sku",
			"productCode", "product_code", "itemId", "productSKU", "product_sku",
		},
		SyncTitle: []string{
			"title", "name", "product_name", "product_title", "productName",
			"item_name", "itemName", "productTitle", "label", "productLabel",
		},
		SyncCurrency: []string{
			"currency", "currency_code", "currencyCode", "curr", "curr_code", "currency_symbol",
		},
		SyncImageURL: []string{
			"imageUrl", "image_url", "image_urls", "thumbnailUrl", "thumbnail_url",
			"images", "image", "photo", "photos", "picture", "pictures",
			"thumbnail", "thumb", "thumbUrl", "thumb_url", "mainImage", "main_image",
			"primaryImage", "primary_image", "featuredImage", "featured_image", "imageUrls",
		},
	}
}
