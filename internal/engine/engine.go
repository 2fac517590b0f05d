// Package engine implements C3 (the polymorphic engine contract) and C4
// (the factory that builds concrete engines from a ModelSpec). Engines are
// single-threaded by contract: the scheduler is the only caller and it never
// invokes more than one method on a given Engine concurrently.
package engine

import (
	"context"
	"fmt"

	"sttgateway/internal/models"
)

// Engine is the uniform contract every ASR back-end implements, per
// spec.md §4.3.
type Engine interface {
	// Load brings the model into memory. May take tens of seconds.
	// Synchronous, idempotent on success.
	Load(ctx context.Context) error

	// Release frees all accelerator memory. Must return in bounded time.
	// Implementations log their own failures; Release never returns an
	// error because a failed release must never abort a swap (spec.md §4.6).
	Release(ctx context.Context)

	// Transcribe runs inference synchronously over one audio file.
	Transcribe(ctx context.Context, path string, opts models.TranscribeOptions) (models.TranscriptionResult, error)

	ModelID() string
	EngineKind() models.EngineKind
	Capabilities() models.Capabilities
}

// ErrLoadFailed wraps a concrete engine's load-time error. The scheduler
// does not match on this type: any non-nil Load error drives the hot-swap
// recovery path (spec.md §4.6 step 4).
type ErrLoadFailed struct {
	ModelID string
	Cause   error
}

func (e *ErrLoadFailed) Error() string {
	return fmt.Sprintf("engine load failed for %s: %v", e.ModelID, e.Cause)
}

func (e *ErrLoadFailed) Unwrap() error { return e.Cause }

// ErrInferenceFailed wraps a transcribe-time error. It never triggers a
// swap or a state change; the job simply fails (spec.md §7).
type ErrInferenceFailed struct {
	ModelID string
	Cause   error
}

func (e *ErrInferenceFailed) Error() string {
	return fmt.Sprintf("inference failed on %s: %v", e.ModelID, e.Cause)
}

func (e *ErrInferenceFailed) Unwrap() error { return e.Cause }
