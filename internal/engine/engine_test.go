package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/ids"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/response"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
	"github.com/maltedev/ekatra-normalizer/internal/validation"
)

func newTestEngine() *Engine {
	return New(Options{
		DefaultCurrency: "INR",
		SDKVersion:      "2.0.4",
		IDs:             ids.NewSequenceGenerator("id"),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		LogMapping:      true,
		LogValidation:   true,
	})
}

func firstVariation(t *testing.T, env response.Envelope) models.Variation {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NotEmpty(t, env.Data.Variants)
	require.NotEmpty(t, env.Data.Variants[0].Variations)
	return env.Data.Variants[0].Variations[0]
}

func assertIntegrity(t *testing.T, p *models.Product) {
	t.Helper()
	idx := make(map[string]int)
	for _, s := range p.Sizes {
		idx[s.ID]++
	}
	for _, v := range p.Variants {
		for _, vr := range v.Variations {
			assert.Equal(t, 1, idx[vr.SizeID], "sizeId %q must match exactly one size", vr.SizeID)
			assert.Equal(t, vr.Quantity > 0, vr.Availability)
		}
	}
}

func TestTransformFlexible_Scenarios(t *testing.T) {
	e := newTestEngine()

	t.Run("computed discount", func(t *testing.T) {
		env := e.TransformFlexible(map[string]any{
			"product_id":            "P1",
			"title":                 "T",
			"variant_mrp":           float64(100),
			"variant_selling_price": float64(80),
		})

		require.True(t, env.OK(), env.Message)
		vr := firstVariation(t, env)
		assert.Equal(t, 20.0, vr.Discount)
		assert.Nil(t, vr.DiscountLabel)
		assert.Equal(t, structure.MixedStructure, env.Metadata["dataType"])
		assert.Equal(t, "2.0.4", env.Metadata["sdkVersion"])
		assert.Equal(t, response.MessageSuccess, env.Message)
	})

	t.Run("named flat variant is a single variant", func(t *testing.T) {
		env := e.TransformFlexible(map[string]any{
			"product_id":            "P1",
			"title":                 "T",
			"variant_name":          "Red Tee",
			"variant_mrp":           float64(100),
			"variant_selling_price": float64(80),
		})

		require.True(t, env.OK(), env.Message)
		assert.Equal(t, structure.SimpleSingleVariant, env.Metadata["dataType"])
		assert.Equal(t, "Red Tee", env.Data.Variants[0].Name)
	})

	t.Run("textual discount becomes label", func(t *testing.T) {
		env := e.TransformFlexible(map[string]any{
			"product_id":            "P1",
			"title":                 "T",
			"variant_mrp":           float64(100),
			"variant_selling_price": float64(80),
			"discount":              "20% OFF",
		})

		require.True(t, env.OK())
		vr := firstVariation(t, env)
		assert.Equal(t, 20.0, vr.Discount)
		require.NotNil(t, vr.DiscountLabel)
		assert.Equal(t, "20% OFF", *vr.DiscountLabel)
	})

	t.Run("empty object", func(t *testing.T) {
		env := e.TransformFlexible(map[string]any{})

		assert.Equal(t, response.StatusError, env.Status)
		assert.Nil(t, env.Data)
		res, ok := env.Validation()
		require.True(t, ok)
		assert.Contains(t, res.Errors, "Product ID is required")
		assert.Contains(t, res.Errors, "Product title is required")
		assert.Equal(t, true, env.Metadata["manualSetupRequired"])
	})

	t.Run("zero prices", func(t *testing.T) {
		env := e.TransformFlexible(map[string]any{
			"product_id":            "P2",
			"title":                 "T2",
			"variant_mrp":           float64(0),
			"variant_selling_price": float64(0),
		})

		require.True(t, env.OK(), env.Message)
		vr := firstVariation(t, env)
		assert.Equal(t, 0.0, vr.Discount)
		assert.Equal(t, 0, vr.Quantity)
		assert.False(t, vr.Availability)
	})

	t.Run("scalar input", func(t *testing.T) {
		env := e.TransformFlexible("not an object")

		assert.Equal(t, response.StatusError, env.Status)
		assert.Nil(t, env.Data)
		assert.Equal(t, "string", env.Metadata["inputType"])
	})
}

func TestTransformFlexible_RawJSON(t *testing.T) {
	e := newTestEngine()

	env := e.TransformFlexible([]byte(`{
		"success": true,
		"product_details": {
			"product_id": "P9",
			"title": "Cotton Kurta",
			"currency": "usd",
			"description": "<p>Soft <b>cotton</b></p>",
			"keywords": ["ethnic", "cotton"],
			"variant_mrp": 1000,
			"variant_selling_price": 750,
			"variant_quantity": 4,
			"image_urls": "https://cdn.io/a.jpg,https://cdn.io/b.png"
		}
	}`))

	require.True(t, env.OK(), env.Message)
	p := env.Data
	assert.Equal(t, "P9", p.ProductID)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "Soft cotton", p.Description)
	assert.Equal(t, "cotton-kurta", p.Handle)
	assert.False(t, p.SearchKeywords.IsList())
	assert.Equal(t, []string{"ethnic", "cotton"}, p.SearchKeywords.Items())

	vr := firstVariation(t, env)
	assert.Equal(t, 25.0, vr.Discount)
	assert.True(t, vr.Availability)

	media := p.Variants[0].MediaList
	require.Len(t, media, 2)
	assert.Equal(t, "image/jpeg", media[0].MimeType)
	assert.Equal(t, "image/png", media[1].MimeType)
	assertIntegrity(t, p)
}

func TestTransformFlexible_DefaultCurrency(t *testing.T) {
	e := newTestEngine()

	p, err := e.TransformFlexibleData(map[string]any{"product_id": "P3", "title": "Plain", "price": float64(50)})

	require.NoError(t, err)
	assert.Equal(t, "INR", p.Currency)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 50.0, p.Variants[0].Variations[0].MRP)
	assert.Equal(t, 50.0, p.Variants[0].Variations[0].SellingPrice)
}

func TestTransformFlexible_Idempotent(t *testing.T) {
	e := newTestEngine()

	first, err := e.TransformFlexibleData(map[string]any{
		"product_id": "P4",
		"title":      "Sneaker",
		"currency":   "INR",
		"variants": []any{
			map[string]any{"color": "White", "size": "8", "price": float64(90), "mrp": float64(100), "quantity": float64(2)},
			map[string]any{"color": "Black", "size": "9", "price": float64(95), "mrp": float64(100)},
		},
	})
	require.NoError(t, err)
	assertIntegrity(t, first)

	second, err := e.TransformFlexibleData(first)
	require.NoError(t, err)

	assert.Equal(t, first.ProductID, second.ProductID)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, len(first.Variants), len(second.Variants))
	assert.Equal(t, first.VariationCount(), second.VariationCount())
	assertIntegrity(t, second)
}

func TestTransformFlexibleData_Errors(t *testing.T) {
	e := newTestEngine()

	_, err := e.TransformFlexibleData(42)
	assert.True(t, errors.Is(err, ErrInputType))

	_, err = e.TransformFlexibleData(map[string]any{"title": "No id"})
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Errors(), "Product ID is required")
}

func TestTransformSimple(t *testing.T) {
	e := newTestEngine()

	rec := fields.Record{
		"product_id": "P5",
		"title":      "Dress",
		"keywords":   "summer, linen",
		"tags":       []any{"linen", "midi"},
		"sizes":      []any{map[string]any{"id": "S-M", "name": "M"}},
		"variants": []any{
			map[string]any{"color": "Red", "size": "M", "price": float64(10)},
			map[string]any{"color": "Blue", "size": "L", "price": float64(12)},
		},
	}

	p := e.TransformSimple(rec, structure.MixedStructure)

	assert.True(t, p.SearchKeywords.IsList())
	assert.Equal(t, []string{"summer", "linen", "midi"}, p.SearchKeywords.Items())
	require.Len(t, p.Sizes, 2)
	assert.Equal(t, "S-M", p.Sizes[0].ID)
	assertIntegrity(t, p)
}

func TestSmartTransform(t *testing.T) {
	e := newTestEngine()

	t.Run("complex payload", func(t *testing.T) {
		env := e.SmartTransform(map[string]any{
			"product_id": "P6",
			"title":      "Saree",
			"currency":   "INR",
			"variants": []any{map[string]any{
				"color":     "Green",
				"mediaList": []any{"https://cdn.io/g.webp"},
				"variations": []any{
					map[string]any{"size": "Free", "mrp": float64(2000), "sellingPrice": float64(1500), "quantity": float64(1)},
				},
			}},
		})

		require.True(t, env.OK(), env.Message)
		assert.Equal(t, structure.ComplexStructure, env.Metadata["dataType"])
		assert.Equal(t, true, env.Metadata["autoTransformed"])
		assert.Equal(t, 25.0, firstVariation(t, env).Discount)
		assertIntegrity(t, env.Data)
	})

	t.Run("missing currency", func(t *testing.T) {
		env := e.SmartTransform(map[string]any{"product_id": "P6", "title": "Saree", "variant_name": "x"})

		assert.False(t, env.OK())
		res, ok := env.Validation()
		require.True(t, ok)
		assert.False(t, res.CanAutoTransform)
		assert.NotEmpty(t, res.FixInstructions)
	})
}

func TestSyncTransform(t *testing.T) {
	e := newTestEngine()

	env := e.SyncTransform(map[string]any{
		"data": map[string]any{
			"productCode": "S1",
			"productName": "Shirt",
			"curr":        "usd",
			"photos":      []any{"https://cdn.io/front.png", "https://cdn.io/back.png"},
		},
	})

	require.True(t, env.OK(), env.Message)
	assert.Equal(t, MessageSynced, env.Message)
	assert.Equal(t, DataTypeSync, env.Metadata["dataType"])

	p := env.Data
	assert.Equal(t, "S1", p.ProductID)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "", p.SearchKeywords.Text())
	require.Len(t, p.Offers, 1)
	require.Len(t, p.Variants, 1)

	v := p.Variants[0]
	assert.Equal(t, 1.0, v.Weight)
	assert.Equal(t, "https://cdn.io/front.png", v.Thumbnail)
	require.Len(t, v.MediaList, 1)
	assert.Equal(t, "image/png", v.MediaList[0].MimeType)

	vr := v.Variations[0]
	require.NotNil(t, vr.DiscountLabel)
	assert.Equal(t, "", *vr.DiscountLabel)
	assert.False(t, vr.Availability)
	assertIntegrity(t, p)

	_, err := e.SyncTransformData(map[string]any{"title": "Only title"})
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, MessageSyncFailed, verr.Message)
}

func TestValidate(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name  string
		input any
		valid bool
	}{
		{"raw payload", map[string]any{"product_id": "P1", "title": "T", "price": float64(5)}, true},
		{"missing title", map[string]any{"product_id": "P1"}, false},
		{"scalar", "nope", false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, e.Validate(tt.input).Valid)
		})
	}

	p, err := e.TransformFlexibleData(map[string]any{
		"product_id":            "P1",
		"title":                 "T",
		"description":           "Plain tee",
		"currency":              "INR",
		"url":                   "https://shop.example.com/p1",
		"keywords":              "tee, cotton",
		"variant_mrp":           float64(100),
		"variant_selling_price": float64(80),
		"image_urls":            "https://cdn.io/a.jpg",
	})
	require.NoError(t, err)
	assert.True(t, e.Validate(p).Valid, e.Validate(p).Errors)
	assert.NoError(t, e.ValidateOrFail(p))

	p.Variants[0].Variations[0].SizeID = "missing"
	verr, ok := validation.AsValidationError(e.ValidateOrFail(p))
	require.True(t, ok)
	assert.NotEmpty(t, verr.Errors())

	assert.Contains(t, e.Validate(5).Errors, "Input must be a JSON object")
}

func TestTransformBatch(t *testing.T) {
	e := newTestEngine()

	items := make([]any, 0, 10)
	for i := range 9 {
		items = append(items, map[string]any{
			"product_id":  fmt.Sprintf("B%d", i),
			"title":       "Batch",
			"variant_mrp": float64(10 * (i + 1)),
		})
	}
	items = append(items, "broken")

	out, err := e.TransformBatch(context.Background(), ModeFlexible, items)
	require.NoError(t, err)
	require.Len(t, out, 10)

	for i := range 9 {
		require.True(t, out[i].OK())
		assert.Equal(t, fmt.Sprintf("B%d", i), out[i].Data.ProductID)
		assert.Equal(t, i, out[i].Metadata["index"])
	}
	assert.False(t, out[9].OK())
}

func TestTransformBatch_Limits(t *testing.T) {
	e := New(Options{BatchMaxItems: 1, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	_, err := e.TransformBatch(context.Background(), ModeFlexible, []any{map[string]any{}, map[string]any{}})
	assert.True(t, errors.Is(err, ErrBatchTooLarge))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := e.TransformBatch(ctx, ModeSync, []any{map[string]any{}})
	require.NoError(t, err)
	assert.False(t, out[0].OK())
	assert.Nil(t, out[0].Data)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeFlexible, m)

	_, ok = ParseMode("legacy")
	assert.False(t, ok)
}

func TestSupportedFormatsMatchDetection(t *testing.T) {
	e := newTestEngine()
	for _, f := range e.SupportedFormats() {
		assert.Equal(t, f.Shape, e.Detect(f.Example), f.Shape.String())
	}
}

func TestBuildEnvelope(t *testing.T) {
	e := newTestEngine()
	env := e.BuildEnvelope(response.StatusError, &models.Product{}, map[string]any{"k": 1}, "boom")
	assert.Nil(t, env.Data)
	assert.Equal(t, 1, env.Metadata["k"])
	assert.Equal(t, "boom", env.Message)
}
