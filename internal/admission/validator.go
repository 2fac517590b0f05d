// Package admission implements C5: the ordered set of checks that run
// before a job is ever enqueued. None of these checks touch the queue;
// a validation failure means no job exists yet, consistent with
// spec.md §7's "no job is ever enqueued" propagation policy. Grounded on
// the teacher's hand-rolled CORS check in internal/api/router.go — no pack
// example reaches for a validation library for any of this.
package admission

import (
	"strings"

	"sttgateway/internal/models"
	"sttgateway/internal/registry"
)

// allowedMediaTypes is the exact allowlist from spec.md §4.5 rule 2.
var allowedMediaTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/mp4":   true,
	"audio/x-m4a": true,
	"audio/flac":  true,
	"audio/ogg":   true,
	"audio/webm":  true,
}

// Validator runs the ordered checks of spec.md §4.5. It holds no mutable
// state: every method is a pure function of its arguments.
type Validator struct {
	registry *registry.Registry
}

// New builds a Validator bound to the model registry it resolves requested
// models against.
func New(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// CheckOrigin implements rule 1. An empty Origin header means the request
// didn't come from a browser context and is never CORS-rejected (matches
// the teacher's router.go: only present Origin headers are checked).
func (v *Validator) CheckOrigin(origin string, allowed []string) error {
	if origin == "" {
		return nil
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return nil
		}
	}
	return &ErrOriginNotAllowed{Origin: origin}
}

// CheckMediaType implements rule 2. contentType may carry a "; charset=..."
// suffix, which is stripped before matching.
func (v *Validator) CheckMediaType(contentType string) error {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if allowedMediaTypes[strings.ToLower(base)] {
		return nil
	}
	return &ErrUnsupportedMediaType{ContentType: contentType}
}

// CheckUploadSize implements rule 3. sizeBytes must come from a
// seek-to-end on the persisted temp file or a trusted Content-Length, never
// from buffering the body to measure it.
func (v *Validator) CheckUploadSize(sizeBytes int64, maxMB int) error {
	maxBytes := int64(maxMB) * 1024 * 1024
	if sizeBytes > maxBytes {
		return &ErrPayloadTooLarge{SizeBytes: sizeBytes, MaxBytes: maxBytes}
	}
	return nil
}

// ResolveModel implements rule 4. Passthrough values ("", "None",
// "whisper-1") resolve to current without a registry lookup, per
// spec.md §4.1.
func (v *Validator) ResolveModel(requested string, current models.ModelSpec) (models.ModelSpec, error) {
	if registry.IsPassthrough(requested) {
		return current, nil
	}
	return v.registry.Lookup(requested, current)
}

// CheckCapabilities implements rule 5. Only the explicit client-facing
// knobs from spec.md §6 gate admission: srt output and with_timestamp
// require the timestamp capability. language=="auto" without
// language_detect is advisory only (spec.md §4.2: "downgrade to default
// language if absent") and never blocks the request. Diarization has no
// client-facing toggle in §6 — whether segments carry a speaker label is
// determined entirely by what the resolved model declares, so there is
// nothing to validate against here.
func (v *Validator) CheckCapabilities(format models.OutputFormat, withTimestamp bool, caps models.Capabilities) error {
	needsTimestamp := format == models.FormatSRT || withTimestamp
	if needsTimestamp && !caps.Timestamp {
		return &ErrCapabilityMismatch{Missing: "timestamp"}
	}
	return nil
}
