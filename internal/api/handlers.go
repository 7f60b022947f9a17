package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/maltedev/ekatra-normalizer/internal/engine"
	"github.com/maltedev/ekatra-normalizer/internal/events"
	"github.com/maltedev/ekatra-normalizer/internal/fields"
	"github.com/maltedev/ekatra-normalizer/internal/metrics"
	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/response"
)

const maxBodyBytes = 4 << 20

// Publisher receives every successfully transformed product.
type Publisher interface {
	PublishProductNormalized(ctx context.Context, payload *events.ProductNormalizedPayload) (string, error)
}

type Options struct {
	// StrictMode answers error envelopes with 422 instead of 200
	StrictMode bool
	Metrics    *metrics.Recorder
	Publisher  Publisher
}

type Handlers struct {
	engine    *engine.Engine
	metrics   *metrics.Recorder
	publisher Publisher
	strict    bool
	logger    *slog.Logger
}

func NewHandlers(eng *engine.Engine, opts Options, logger *slog.Logger) *Handlers {
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &Handlers{
		engine:    eng,
		metrics:   rec,
		publisher: opts.Publisher,
		strict:    opts.StrictMode,
		logger:    logger.With("component", "api"),
	}
}

// BatchRequest is the body of the batch endpoint.
type BatchRequest struct {
	Mode  string `json:"mode"`
	Items []any  `json:"items"`
}

// decodeBatch keeps numbers as json.Number so item ids survive as sent.
func decodeBatch(body []byte) (BatchRequest, error) {
	raw, err := fields.Decode(body)
	if err != nil {
		return BatchRequest{}, err
	}
	rec, ok := fields.AsRecord(raw)
	if !ok {
		return BatchRequest{}, fmt.Errorf("batch body must be a JSON object")
	}

	req := BatchRequest{Mode: fields.String(rec["mode"])}
	if v, exists := rec["items"]; exists && v != nil {
		items, ok := fields.AsList(v)
		if !ok {
			return BatchRequest{}, fmt.Errorf("items must be a JSON array")
		}
		req.Items = items
	}
	return req, nil
}

// BatchResponse holds one envelope per item in request order.
type BatchResponse struct {
	Total   int                 `json:"total"`
	Failed  int                 `json:"failed"`
	Results []response.Envelope `json:"results"`
}

// Transform handles the flexible transformer.
func (h *Handlers) Transform(w http.ResponseWriter, r *http.Request) {
	h.transform(w, r, engine.ModeFlexible)
}

// SmartTransform handles shape aware transformation with guided validation.
func (h *Handlers) SmartTransform(w http.ResponseWriter, r *http.Request) {
	h.transform(w, r, engine.ModeSmart)
}

// SyncTransform handles minimal sync payloads.
func (h *Handlers) SyncTransform(w http.ResponseWriter, r *http.Request) {
	h.transform(w, r, engine.ModeSync)
}

func (h *Handlers) transform(w http.ResponseWriter, r *http.Request, mode engine.Mode) {
	raw, ok := h.readJSON(w, r)
	if !ok {
		return
	}

	started := time.Now()
	env := h.engine.Transform(mode, raw)
	h.metrics.Observe(string(mode), env, started)

	if env.OK() {
		h.publish(r.Context(), mode, env)
	}

	h.respondJSON(w, h.envelopeStatus(env), env)
}

// TransformBatch handles up to BATCH_MAX_ITEMS payloads in one request.
func (h *Handlers) TransformBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	req, err := decodeBatch(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, ok := engine.ParseMode(req.Mode)
	if !ok {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}
	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "items is required")
		return
	}

	started := time.Now()
	results, err := h.engine.TransformBatch(r.Context(), mode, req.Items)
	if errors.Is(err, engine.ErrBatchTooLarge) {
		h.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to transform batch", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to transform batch")
		return
	}
	h.metrics.BatchItems.Observe(float64(len(req.Items)))

	resp := BatchResponse{Total: len(results), Results: results}
	for _, env := range results {
		h.metrics.Observe("batch_"+string(mode), env, started)
		if !env.OK() {
			resp.Failed++
			continue
		}
		h.publish(r.Context(), mode, env)
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Validate checks a raw payload without transforming it.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readJSON(w, r)
	if !ok {
		return
	}

	var res models.ValidationResult
	if r.URL.Query().Get("guided") == "true" {
		res = h.engine.ValidateGuided(raw)
	} else {
		res = h.engine.Validate(raw)
	}
	h.respondJSON(w, h.validationStatus(res), res)
}

// ValidateCanonical checks a product already in canonical form.
func (h *Handlers) ValidateCanonical(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p models.Product
	if err := fields.Unmarshal(body, &p); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.engine.Validate(&p)
	h.respondJSON(w, h.validationStatus(res), res)
}

// Formats lists the accepted input layouts.
func (h *Handlers) Formats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"formats": h.engine.SupportedFormats(),
	})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"publishing": h.publisher != nil,
	})
}

func (h *Handlers) publish(ctx context.Context, mode engine.Mode, env response.Envelope) {
	if h.publisher == nil || env.Data == nil {
		return
	}

	payload := &events.ProductNormalizedPayload{
		Entry:   string(mode),
		Product: env.Data,
	}
	if s, ok := env.Metadata["dataType"].(fmt.Stringer); ok {
		payload.DataType = s.String()
	} else if s, ok := env.Metadata["dataType"].(string); ok {
		payload.DataType = s
	}
	if v, ok := env.Metadata["sdkVersion"].(string); ok {
		payload.SDKVersion = v
	}

	_, err := h.publisher.PublishProductNormalized(ctx, payload)
	h.metrics.Published(err)
	if err != nil {
		h.logger.Error("failed to publish product", "error", err, "product_id", env.Data.ProductID)
	}
}

func (h *Handlers) envelopeStatus(env response.Envelope) int {
	if !env.OK() && h.strict {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (h *Handlers) validationStatus(res models.ValidationResult) int {
	if !res.Valid && h.strict {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (h *Handlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

// readJSON decodes any JSON value. Non-object values are passed on so the
// engine can answer with an error envelope.
func (h *Handlers) readJSON(w http.ResponseWriter, r *http.Request) (any, bool) {
	body, ok := h.readBody(w, r)
	if !ok {
		return nil, false
	}
	raw, err := fields.Decode(body)
	if errors.Is(err, fields.ErrEmptyBody) {
		h.respondError(w, http.StatusBadRequest, "request body is required")
		return nil, false
	}
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	return raw, true
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := fields.Marshal(data)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
