package engine

import (
	"fmt"
	"strings"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/product"
	"github.com/maltedev/ekatra-normalizer/internal/response"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
	"github.com/maltedev/ekatra-normalizer/internal/validation"
	"github.com/maltedev/ekatra-normalizer/internal/variants"
)

// TransformFlexible maps an arbitrary product payload onto the canonical
// product. It never returns an error: failures become error envelopes.
// searchKeywords is emitted as a comma separated string.
func (e *Engine) TransformFlexible(raw any) response.Envelope {
	rec, ok := asRecord(raw)
	if !ok {
		return e.inputTypeFailure(raw)
	}

	p, shape, res := e.flexible(rec)
	if !res.Valid {
		return e.responses.ValidationFailure(res, map[string]any{"dataType": shape}, "")
	}

	return e.responses.Success(p, map[string]any{
		"validation":          res,
		"dataType":            shape,
		"canAutoTransform":    true,
		"manualSetupRequired": false,
	}, "")
}

// TransformFlexibleData is TransformFlexible returning only the product.
// Non-objects yield ErrInputType and invalid payloads a
// *validation.ValidationError.
func (e *Engine) TransformFlexibleData(raw any) (*models.Product, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrInputType, typeName(raw))
	}

	p, _, res := e.flexible(rec)
	if !res.Valid {
		return nil, validation.NewValidationError("", res)
	}
	return p, nil
}

// flexibleRecord strips API envelopes and flattens variants-only payloads.
func flexibleRecord(rec fields.Record) fields.Record {
	return product.MergeFirstVariant(product.Unwrap(rec, product.ProductEnvelopes))
}

func (e *Engine) flexible(rec fields.Record) (*models.Product, structure.Shape, models.ValidationResult) {
	rec = flexibleRecord(rec)
	shape := e.detector.Detect(rec)
	e.logger.Debug("payload classified", "shape", shape)

	res := e.validator.Flexible(rec)
	if !res.Valid {
		e.logInvalid("flexible", res)
		return nil, shape, res
	}

	resolved := e.assembler.Resolve(rec)
	p := e.assembler.Assemble(resolved, product.KeywordsText, e.reshaper.Flexible(rec))

	if e.logMapping {
		e.logger.Debug("product mapped",
			"product_id", p.ProductID,
			"shape", shape,
			"variants", len(p.Variants),
			"sizes", len(p.Sizes),
		)
	}
	return p, shape, res
}

// TransformSimple builds a product for an already classified payload using
// the shape specific strategy. Sizes are merged by name only on the mixed
// path. searchKeywords is emitted as a list.
func (e *Engine) TransformSimple(rec fields.Record, shape structure.Shape) *models.Product {
	p, _ := e.simple(rec, shape)
	return p
}

func (e *Engine) simple(rec fields.Record, shape structure.Shape) (*models.Product, variants.Result) {
	if !shape.Valid() {
		shape = e.detector.Detect(rec)
	}
	vs := e.reshaper.Reshape(shape, rec)
	if vs.Healed > 0 {
		e.logger.Info("synthesized missing sizes", "shape", shape, "count", vs.Healed)
	}
	return e.assembler.Assemble(e.assembler.Resolve(rec), product.KeywordsList, vs), vs
}

// SmartTransform validates with guidance, detects the shape and runs the
// matching strategy.
func (e *Engine) SmartTransform(raw any) response.Envelope {
	rec, ok := asRecord(raw)
	if !ok {
		return e.inputTypeFailure(raw)
	}

	rec = product.Unwrap(rec, product.ProductEnvelopes)
	shape := e.detector.Detect(rec)
	res := e.validator.Guided(rec)
	if !res.CanAutoTransform {
		e.logInvalid("smart", res)
		return e.responses.ValidationFailure(res, map[string]any{"dataType": shape}, "")
	}

	p, vs := e.simple(rec, shape)
	return e.responses.Success(p, map[string]any{
		"validation":          res,
		"dataType":            shape,
		"autoTransformed":     true,
		"canAutoTransform":    true,
		"manualSetupRequired": false,
		"sizesSynthesized":    vs.Healed,
	}, "")
}

// SyncTransform builds the minimal sync product: one zero-priced default
// variant carrying the first image.
func (e *Engine) SyncTransform(raw any) response.Envelope {
	rec, ok := asRecord(raw)
	if !ok {
		return e.inputTypeFailure(raw)
	}

	rec = product.Unwrap(rec, product.ProductEnvelopes, product.ResultEnvelopes...)
	res := e.validator.Sync(rec)
	if !res.Valid {
		e.logInvalid("sync", res)
		return e.responses.ValidationFailure(res, map[string]any{"dataType": DataTypeSync}, MessageSyncFailed)
	}

	return e.responses.Success(e.sync(rec), map[string]any{
		"validation":          res,
		"dataType":            DataTypeSync,
		"canAutoTransform":    true,
		"manualSetupRequired": false,
	}, MessageSynced)
}

// SyncTransformData is SyncTransform returning only the product.
func (e *Engine) SyncTransformData(raw any) (*models.Product, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrInputType, typeName(raw))
	}

	rec = product.Unwrap(rec, product.ProductEnvelopes, product.ResultEnvelopes...)
	res := e.validator.Sync(rec)
	if !res.Valid {
		return nil, validation.NewValidationError(MessageSyncFailed, res)
	}
	return e.sync(rec), nil
}

func (e *Engine) sync(rec fields.Record) *models.Product {
	var image string
	if list := e.media.FromValue(fields.Resolve(rec, e.syn.SyncImageURL...)); len(list) > 0 {
		image = list[0].PlayURL
	}

	variantID := e.ids.NewID()
	noLabel := ""
	variant := models.Variant{
		ID:        variantID,
		Color:     models.DefaultColor,
		Weight:    1,
		Thumbnail: image,
		MediaList: e.media.FromURLs([]string{image}),
		Variations: []models.Variation{{
			SizeID:        e.ids.NewID(),
			VariantID:     variantID,
			DiscountLabel: &noLabel,
			Size:          models.DefaultSize,
		}},
	}
	variant.Variations[0].SetAvailability()

	title := strings.TrimSpace(fields.String(fields.Resolve(rec, e.syn.SyncTitle...)))
	vs := []models.Variant{variant}

	return &models.Product{
		ProductID:      fields.String(fields.Resolve(rec, e.syn.SyncProductID...)),
		Title:          title,
		Currency:       strings.ToUpper(strings.TrimSpace(fields.String(fields.Resolve(rec, e.syn.SyncCurrency...)))),
		SearchKeywords: models.KeywordText(""),
		Handle:         product.Handle(title),
		Offers:         []models.Offer{{ProductOfferDetails: []models.OfferDetail{{}}}},
		Specifications: make([]models.Specification, 0),
		Variants:       vs,
		Sizes:          variants.SizesFromVariations(vs),
	}
}
