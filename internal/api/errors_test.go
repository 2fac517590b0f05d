package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"sttgateway/internal/admission"
	"sttgateway/internal/engine"
	"sttgateway/internal/registry"
	"sttgateway/internal/scheduler"
)

func TestStatusForErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported media type", &admission.ErrUnsupportedMediaType{ContentType: "video/mp4"}, http.StatusUnsupportedMediaType},
		{"payload too large", &admission.ErrPayloadTooLarge{SizeBytes: 10, MaxBytes: 5}, http.StatusRequestEntityTooLarge},
		{"unknown model", &registry.ErrUnknownModel{Requested: "bogus"}, http.StatusBadRequest},
		{"capability mismatch", &admission.ErrCapabilityMismatch{Missing: "timestamp"}, http.StatusBadRequest},
		{"queue full", scheduler.ErrQueueFull, http.StatusServiceUnavailable},
		{"service degraded", scheduler.ErrServiceDegraded, http.StatusServiceUnavailable},
		{"service stopping", scheduler.ErrServiceStopping, http.StatusServiceUnavailable},
		{"swap failed", scheduler.ErrSwapFailed, http.StatusInternalServerError},
		{"engine load failed", &engine.ErrLoadFailed{ModelID: "m", Cause: assertErr("boom")}, http.StatusInternalServerError},
		{"engine inference failed", &engine.ErrInferenceFailed{ModelID: "m", Cause: assertErr("boom")}, http.StatusInternalServerError},
		{"unrecognized error", assertErr("mystery"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := statusForError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusForErrorNeverLeaksInternalsForEngineErrors(t *testing.T) {
	_, msg := statusForError(&engine.ErrLoadFailed{ModelID: "m", Cause: assertErr("/secret/path not found")})
	assert.NotContains(t, msg, "/secret/path")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
