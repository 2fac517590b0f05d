// Package scheduler implements C6, the bounded FIFO queue and single
// consumer worker that is "the heart of the system" (spec.md §4.6).
// Grounded on the teacher's internal/queue/queue.go: a buffered channel for
// non-blocking back-pressure, one dedicated goroutine owning all engine
// mutation, and atomic counters for observability.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"sttgateway/internal/admission"
	"sttgateway/internal/engine"
	"sttgateway/internal/models"
	"sttgateway/internal/registry"
	"sttgateway/internal/systeminfo"
	"sttgateway/pkg/logger"
)

// engineFactory is the shape the scheduler actually depends on — a single
// Create method — rather than the concrete *engine.Factory, so tests can
// substitute a stub factory without touching real uv-managed environments.
type engineFactory func(spec models.ModelSpec) (engine.Engine, error)

// Scheduler owns the currently loaded engine and the bounded job queue. The
// zero value is not usable; construct with New.
type Scheduler struct {
	queue       chan *Job
	factoryFunc engineFactory
	reg         *registry.Registry

	// mu guards currentEngine/currentSpec/state: reads (for validation and
	// /v1/models/current) snapshot under this lock rather than routing
	// every read through the consumer goroutine, per the "either" option
	// spec.md §5 allows ("snapshotting under a lock or by placing all
	// reads and writes on the consumer"). Engine and spec are written by
	// Bootstrap (before traffic starts) and by the consumer goroutine;
	// state is written by the consumer and by Shutdown.
	mu            sync.Mutex
	currentEngine engine.Engine
	currentSpec   models.ModelSpec
	state         models.SchedulerState

	stopped  chan struct{}
	stopOnce sync.Once

	enqueued  atomic.Int64
	completed atomic.Int64
}

// Config bundles what New needs beyond the queue capacity itself.
type Config struct {
	QueueCapacity int
	Factory       *engine.Factory
	Registry      *registry.Registry
	InitialSpec   models.ModelSpec
}

// New constructs a Scheduler and starts its consumer goroutine. The caller
// must still arrange for the initial engine load — New does not call Load,
// matching C4's contract that only the scheduler invokes Load so failures
// are observable.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		queue:       make(chan *Job, cfg.QueueCapacity),
		factoryFunc: cfg.Factory.Create,
		reg:         cfg.Registry,
		state:       models.StateRunning,
		stopped:     make(chan struct{}),
	}
	s.currentSpec = cfg.InitialSpec
	go s.run()
	return s
}

// Bootstrap loads the initial engine synchronously, before the HTTP surface
// starts accepting traffic. It is not part of the consumer loop because
// nothing has been submitted yet; there is no job to attach a failure to.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	eng, err := s.factoryFunc(s.currentSpec)
	if err != nil {
		return fmt.Errorf("creating initial engine: %w", err)
	}
	if err := eng.Load(ctx); err != nil {
		return fmt.Errorf("loading initial engine: %w", err)
	}
	s.mu.Lock()
	s.currentEngine = eng
	s.mu.Unlock()
	return nil
}

// Submit enqueues a validated job. It never blocks on inference: either the
// queue has room and the job is accepted immediately, or it doesn't and
// Submit fails synchronously with ErrQueueFull (spec.md §4.6, testable
// property #2 — no submission ever blocks waiting for queue room).
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case models.StateDegraded:
		return ErrServiceDegraded
	case models.StateStopped:
		return ErrServiceStopping
	}

	select {
	case s.queue <- job:
		s.enqueued.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot is a race-free read of everything GET /v1/models/current needs.
type Snapshot struct {
	Spec      models.ModelSpec
	State     models.SchedulerState
	QueueSize int
	QueueCap  int
}

// Snapshot returns the current engine spec, scheduler state and queue
// depth under a single lock.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Spec:      s.currentSpec,
		State:     s.state,
		QueueSize: len(s.queue),
		QueueCap:  cap(s.queue),
	}
}

// Registry exposes the bound registry for handlers that need to list
// models alongside the current snapshot.
func (s *Scheduler) Registry() *registry.Registry { return s.reg }

// ResolveModel runs admission rule 4/C1 lookup against the scheduler's
// current spec without taking the consumer lock for the whole call —
// it snapshots currentSpec first, matching the read-path contract above.
func (s *Scheduler) ResolveModel(v *admission.Validator, requested string) (models.ModelSpec, error) {
	s.mu.Lock()
	current := s.currentSpec
	s.mu.Unlock()
	return v.ResolveModel(requested, current)
}

// Shutdown implements spec.md §4.6 "Shutdown": stop accepting submissions,
// drain the in-flight job, then release the engine. It blocks until the
// worker has exited or ctx is done.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.state = models.StateStopped
	s.mu.Unlock()

	// The sentinel send may block if the queue is momentarily full; that's
	// fine, shutdown is allowed to wait for the worker to make room.
	select {
	case s.queue <- nil:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the single dedicated consumer. All engine mutation happens here
// and nowhere else.
func (s *Scheduler) run() {
	defer close(s.stopped)
	for job := range s.queue {
		if job == nil { // stop sentinel
			s.mu.Lock()
			eng := s.currentEngine
			s.mu.Unlock()
			if eng != nil {
				eng.Release(context.Background())
			}
			return
		}
		s.process(job)
	}
}

// process runs one job to completion: swap if needed, transcribe, clean up,
// deliver. An error here never escapes to the caller of run(): an
// inference error completes the job with an error and the worker moves on
// to the next job (testable property #4). A panic is not recovered and
// ends the process.
func (s *Scheduler) process(job *Job) {
	defer func() {
		if job.Request.TempAudioPath != "" {
			_ = os.Remove(job.Request.TempAudioPath)
		}
		s.completed.Add(1)
	}()

	ctx := context.Background()
	queueTime := time.Since(job.EnqueuedAt)

	target, err := s.resolveForSwap(job.Request.RequestedModel)
	if err != nil {
		job.deliver(models.TranscriptionResult{}, fmt.Errorf("resolving requested model: %w", err))
		return
	}

	if err := s.maybeSwap(ctx, target); err != nil {
		job.deliver(models.TranscriptionResult{}, err)
		return
	}

	s.mu.Lock()
	current := s.currentEngine
	s.mu.Unlock()

	logger.JobStarted(job.Request.RequestID, current.ModelID(), queueTime)
	inferenceStart := time.Now()
	result, err := current.Transcribe(ctx, job.Request.TempAudioPath, models.TranscribeOptions{
		Language:      job.Request.Language,
		WithTimestamp: job.Request.WithTimestamp,
	})
	if err != nil {
		logger.JobFailed(job.Request.RequestID, time.Since(inferenceStart), err)
		job.deliver(models.TranscriptionResult{}, err)
		return
	}
	logger.JobCompleted(job.Request.RequestID, time.Since(inferenceStart))
	job.deliver(result, nil)
}

func (s *Scheduler) resolveForSwap(requested string) (models.ModelSpec, error) {
	s.mu.Lock()
	current := s.currentSpec
	s.mu.Unlock()
	if registry.IsPassthrough(requested) {
		return current, nil
	}
	return s.reg.Lookup(requested, current)
}

// maybeSwap implements spec.md §4.6 "Hot-swap protocol": release the
// previous engine before the new one loads, with no overlap. On load
// failure it attempts to restore the previous engine; if that also fails
// the scheduler enters Degraded and all future submissions are rejected
// until an operator restart.
func (s *Scheduler) maybeSwap(ctx context.Context, target models.ModelSpec) error {
	s.mu.Lock()
	previousSpec := s.currentSpec
	previousEngine := s.currentEngine
	s.mu.Unlock()

	if target.ModelID == previousSpec.ModelID && target.EngineKind == previousSpec.EngineKind {
		return nil
	}

	logMemory("before hot-swap", previousSpec, target)
	logger.SwapStarted(previousSpec.ModelID, target.ModelID)
	swapStart := time.Now()

	previousEngine.Release(ctx)

	newEngine, err := s.factoryFunc(target)
	if err == nil {
		err = newEngine.Load(ctx)
	}
	if err != nil {
		recreated, recreateErr := s.factoryFunc(previousSpec)
		if recreateErr == nil {
			recreateErr = recreated.Load(ctx)
		}
		if recreateErr != nil {
			s.mu.Lock()
			s.state = models.StateDegraded
			s.mu.Unlock()
			logger.SwapFailed(target.ModelID, err, true)
			return ErrSwapFailed
		}
		s.mu.Lock()
		s.currentEngine = recreated
		s.currentSpec = previousSpec
		s.mu.Unlock()
		logger.SwapFailed(target.ModelID, err, false)
		return ErrSwapFailed
	}

	s.mu.Lock()
	s.currentEngine = newEngine
	s.currentSpec = target
	s.mu.Unlock()

	logMemory("after hot-swap", previousSpec, target)
	logger.SwapCompleted(previousSpec.ModelID, target.ModelID, time.Since(swapStart))
	return nil
}

func logMemory(phase string, from, to models.ModelSpec) {
	total, err := systeminfo.TotalMemoryBytes()
	if err != nil {
		return
	}
	logger.Debug(phase,
		"from_model", from.ModelID,
		"to_model", to.ModelID,
		"total_memory_bytes", total,
	)
}
