package scheduler

import "errors"

// ErrQueueFull is returned synchronously by Submit when the bounded queue
// is at capacity (spec.md §4.6, surfaces as 503 QueueFull).
var ErrQueueFull = errors.New("queue is full")

// ErrServiceDegraded is returned synchronously by Submit once the
// scheduler has entered the Degraded state after a failed swap recovery
// (spec.md §4.6 step 4, surfaces as 503 ServiceDegraded).
var ErrServiceDegraded = errors.New("service degraded: model load failed and recovery failed, restart required")

// ErrServiceStopping is returned synchronously by Submit after shutdown has
// begun (spec.md §4.6 "Shutdown" step 1).
var ErrServiceStopping = errors.New("service is shutting down")

// ErrSwapFailed is delivered through a job's completion channel when a
// hot-swap fails, per spec.md §4.6 step 4 ("Propagate SwapFailed to the
// current job"). It is distinct from ErrServiceDegraded: a job can see
// this even when recovery succeeds and the service stays healthy.
var ErrSwapFailed = errors.New("model load failed; service degraded")
