package response

import (
	"github.com/maltedev/ekatra-normalizer/internal/models"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	DefaultSDKVersion = "2.0.4"

	MessageSuccess          = "Product details retrieved successfully"
	MessageValidationFailed = "Product validation failed"
)

// Envelope is the uniform wire shape of every entry point.
type Envelope struct {
	Status   string          `json:"status"`
	Data     *models.Product `json:"data"`
	Metadata map[string]any  `json:"metadata"`
	Message  string          `json:"message"`
}

func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// Validation returns metadata.validation when present.
func (e Envelope) Validation() (models.ValidationResult, bool) {
	v, ok := e.Metadata["validation"].(models.ValidationResult)
	return v, ok
}

// Builder stamps every envelope with the SDK version.
type Builder struct {
	sdkVersion string
}

func NewBuilder(sdkVersion string) *Builder {
	if sdkVersion == "" {
		sdkVersion = DefaultSDKVersion
	}
	return &Builder{sdkVersion: sdkVersion}
}

// Build merges extras over the base metadata.
func (b *Builder) Build(status string, data *models.Product, extras map[string]any, message string) Envelope {
	meta := map[string]any{"sdkVersion": b.sdkVersion}
	for k, v := range extras {
		meta[k] = v
	}
	if status == StatusError {
		data = nil
	}
	return Envelope{
		Status:   status,
		Data:     data,
		Metadata: meta,
		Message:  message,
	}
}

func (b *Builder) Success(data *models.Product, extras map[string]any, message string) Envelope {
	if message == "" {
		message = MessageSuccess
	}
	return b.Build(StatusSuccess, data, extras, message)
}

func (b *Builder) Error(message string, extras map[string]any) Envelope {
	return b.Build(StatusError, nil, extras, message)
}

// ValidationFailure always marks the payload as needing manual setup.
func (b *Builder) ValidationFailure(result models.ValidationResult, extras map[string]any, message string) Envelope {
	if message == "" {
		message = MessageValidationFailed
	}
	meta := make(map[string]any, len(extras)+4)
	for k, v := range extras {
		meta[k] = v
	}
	meta["validation"] = result
	meta["canAutoTransform"] = false
	meta["manualSetupRequired"] = true
	meta["maxQuantity"] = nil
	return b.Error(message, meta)
}

// TransformationFailure reports an error raised while building the product.
// Callers may override the defaults through extras.
func (b *Builder) TransformationFailure(message string, extras map[string]any) Envelope {
	meta := map[string]any{
		"validation":          nil,
		"canAutoTransform":    false,
		"manualSetupRequired": true,
		"maxQuantity":         nil,
	}
	for k, v := range extras {
		meta[k] = v
	}
	return b.Error(message, meta)
}
