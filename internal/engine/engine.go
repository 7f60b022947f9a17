package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/ids"
	"github.com/maltedev/ekatra-normalizer/internal/media"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/parser"
	"github.com/maltedev/ekatra-normalizer/internal/product"
	"github.com/maltedev/ekatra-normalizer/internal/response"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
	"github.com/maltedev/ekatra-normalizer/internal/validation"
	"github.com/maltedev/ekatra-normalizer/internal/variants"
)

// ErrInputType is returned when the payload is not a JSON object.
var ErrInputType = errors.New("input must be a JSON object")

const (
	DataTypeSync = "SYNC_FORMAT"

	MessageSynced     = "Product synced successfully"
	MessageSyncFailed = "Product sync transformation failed"
)

type Options struct {
	DefaultCurrency     string
	SupportedCurrencies []string
	SDKVersion          string
	// Synonyms replaces the built-in field tables when set.
	Synonyms *fields.Synonyms
	Prober   media.Prober
	IDs      ids.Generator
	Logger   *slog.Logger

	LogMapping    bool
	LogValidation bool

	BatchConcurrency int
	BatchMaxItems    int
}

// Engine is the transformation entry point. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	syn       fields.Synonyms
	ids       ids.Generator
	detector  *structure.Detector
	media     *media.Normalizer
	reshaper  *variants.Reshaper
	assembler *product.Assembler
	validator *validation.Validator
	responses *response.Builder
	logger    *slog.Logger

	logMapping    bool
	logValidation bool

	batchConcurrency int
	batchMaxItems    int
}

func New(opts Options) *Engine {
	syn := fields.DefaultSynonyms()
	if opts.Synonyms != nil {
		syn = *opts.Synonyms
	}
	gen := opts.IDs
	if gen == nil {
		gen = ids.NewUUIDGenerator()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	currency := opts.DefaultCurrency
	if currency == "" {
		currency = "INR"
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 4
	}
	if opts.BatchMaxItems < 1 {
		opts.BatchMaxItems = 100
	}

	norm := media.NewNormalizer(syn.Images, opts.Prober)

	return &Engine{
		syn:              syn,
		ids:              gen,
		detector:         structure.NewDetector(nil),
		media:            norm,
		reshaper:         variants.NewReshaper(gen, norm, syn),
		assembler:        product.NewAssembler(gen, syn, parser.NewHTMLParser(), currency),
		validator:        validation.New(syn, opts.SupportedCurrencies),
		responses:        response.NewBuilder(opts.SDKVersion),
		logger:           logger.With("component", "engine"),
		logMapping:       opts.LogMapping,
		logValidation:    opts.LogValidation,
		batchConcurrency: opts.BatchConcurrency,
		batchMaxItems:    opts.BatchMaxItems,
	}
}

// BuildEnvelope wraps data in the uniform response shape.
func (e *Engine) BuildEnvelope(status string, data *models.Product, extras map[string]any, message string) response.Envelope {
	return e.responses.Build(status, data, extras, message)
}

// Detect classifies a payload. Non-objects are MIXED_STRUCTURE.
func (e *Engine) Detect(raw any) structure.Shape {
	rec, ok := asRecord(raw)
	if !ok {
		return structure.MixedStructure
	}
	return e.detector.Detect(rec)
}

// asRecord accepts decoded JSON objects, raw JSON documents and canonical
// products.
func asRecord(raw any) (fields.Record, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, v != nil
	case []byte:
		decoded, err := fields.Decode(v)
		if err != nil {
			return nil, false
		}
		return fields.AsRecord(decoded)
	case *models.Product:
		if v == nil {
			return nil, false
		}
		rec, err := fields.ToRecord(v)
		return rec, err == nil
	case models.Product:
		rec, err := fields.ToRecord(&v)
		return rec, err == nil
	}
	return nil, false
}

func typeName(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if fields.IsNumeric(raw) {
		return "number"
	}
	return fmt.Sprintf("%T", raw)
}

func (e *Engine) inputTypeFailure(raw any) response.Envelope {
	return e.responses.TransformationFailure(
		"Invalid input: product data must be a JSON object",
		map[string]any{"inputType": typeName(raw)},
	)
}

func (e *Engine) logInvalid(entry string, res models.ValidationResult) {
	if e.logValidation {
		e.logger.Info("validation failed", "entry", entry, "errors", res.Errors)
	}
}
