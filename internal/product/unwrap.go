package product

import (
	"github.com/maltedev/ekatra-normalizer/internal/fields"
)

var (
	ProductEnvelopes = []string{"product_details", "product"}
	ResultEnvelopes  = []string{"data", "result"}
)

// Unwrap returns the product record inside common API envelopes such as
// {"success": true, "product_details": {...}}. The lenient keys are only
// unwrapped when the outer record has no title of its own.
func Unwrap(rec fields.Record, strict []string, lenient ...string) fields.Record {
	for _, key := range strict {
		if inner, ok := fields.AsRecord(rec[key]); ok {
			return inner
		}
	}
	if _, hasTitle := rec["title"]; !hasTitle {
		for _, key := range lenient {
			if inner, ok := fields.AsRecord(rec[key]); ok {
				return inner
			}
		}
	}
	return rec
}

// MergeFirstVariant handles variants-only responses: without a title the
// fields of the first variant are laid over the payload.
func MergeFirstVariant(rec fields.Record) fields.Record {
	list, ok := rec["variants"].([]any)
	if !ok {
		return rec
	}
	if _, hasTitle := rec["title"]; hasTitle {
		return rec
	}

	merged := make(fields.Record, len(rec))
	for k, v := range rec {
		merged[k] = v
	}
	if len(list) > 0 {
		if first, ok := fields.AsRecord(list[0]); ok {
			for k, v := range first {
				merged[k] = v
			}
		}
	}
	return merged
}
