package scheduler

import (
	"time"

	"sttgateway/internal/models"
)

// Job binds a validated TranscriptionRequest to a one-shot completion
// channel, per spec.md's TranscriptionJob: the scheduler owns the temp file
// until the worker completes it, and exactly one of (Result, Err) is set
// before done is closed.
type Job struct {
	Request    models.TranscriptionRequest
	EnqueuedAt time.Time

	done   chan struct{}
	Result models.TranscriptionResult
	Err    error
}

// NewJob wraps a request in a completion handle ready to submit. EnqueuedAt
// is stamped here rather than at the moment Submit actually accepts it,
// since the two happen back to back and the caller already knows the
// request arrived now.
func NewJob(req models.TranscriptionRequest) *Job {
	return &Job{Request: req, done: make(chan struct{}), EnqueuedAt: time.Now()}
}

// Wait blocks until the worker has delivered a result or an error.
func (j *Job) Wait() {
	<-j.done
}

// Done exposes the completion channel for select-based waiting (e.g. to
// race against a client disconnect without abandoning the job — spec.md §5
// says the job still runs to completion even if the caller stops waiting).
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) deliver(result models.TranscriptionResult, err error) {
	j.Result = result
	j.Err = err
	close(j.done)
}
