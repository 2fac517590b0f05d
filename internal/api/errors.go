// Error-to-status mapping for C7, the single switch spec.md §7 calls for:
// every error that reaches a handler passes through statusForError exactly
// once, so the taxonomy lives in one place instead of scattered across
// handlers.
package api

import (
	"errors"
	"net/http"

	"sttgateway/internal/admission"
	"sttgateway/internal/engine"
	"sttgateway/internal/registry"
	"sttgateway/internal/scheduler"
)

// errorResponse is the body shape for every non-2xx response. request_id
// lets an operator correlate a client report with server-side logs without
// the client ever seeing file paths or back-end internals (spec.md §7).
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusForError implements the table in spec.md §7. Order matters only
// where error types could otherwise be ambiguous; none are here, so this
// reads top to bottom without fallthrough surprises.
func statusForError(err error) (int, string) {
	var unsupportedMediaType *admission.ErrUnsupportedMediaType
	if errors.As(err, &unsupportedMediaType) {
		return http.StatusUnsupportedMediaType, err.Error()
	}

	var payloadTooLarge *admission.ErrPayloadTooLarge
	if errors.As(err, &payloadTooLarge) {
		return http.StatusRequestEntityTooLarge, err.Error()
	}

	var unknownModel *registry.ErrUnknownModel
	if errors.As(err, &unknownModel) {
		return http.StatusBadRequest, err.Error()
	}

	var capabilityMismatch *admission.ErrCapabilityMismatch
	if errors.As(err, &capabilityMismatch) {
		return http.StatusBadRequest, err.Error()
	}

	if errors.Is(err, scheduler.ErrQueueFull) {
		return http.StatusServiceUnavailable, err.Error()
	}

	if errors.Is(err, scheduler.ErrServiceDegraded) || errors.Is(err, scheduler.ErrServiceStopping) {
		return http.StatusServiceUnavailable, err.Error()
	}

	// ErrSwapFailed covers EngineLoadFailed during a swap (spec.md §7: "Job
	// gets 500 (SwapFailed); service may degrade"). Whether the service is
	// actually degraded afterward is reported separately on
	// GET /v1/models/current, not encoded in this response.
	if errors.Is(err, scheduler.ErrSwapFailed) {
		return http.StatusInternalServerError, "model swap failed"
	}

	// engine.ErrLoadFailed never reaches here directly: scheduler.maybeSwap
	// always converts a load failure into the ErrSwapFailed sentinel above
	// before a job sees it.
	var inferenceFailed *engine.ErrInferenceFailed
	if errors.As(err, &inferenceFailed) {
		return http.StatusInternalServerError, "transcription failed"
	}

	return http.StatusInternalServerError, "internal error"
}
