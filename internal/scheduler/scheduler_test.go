package scheduler

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sttgateway/internal/engine"
	"sttgateway/internal/models"
	"sttgateway/internal/registry"
)

// stubEngine is a test double recording calls into a shared, mutex-guarded
// log so hot-swap ordering can be asserted across two distinct engine
// instances (testable property #3 in spec.md §8).
type stubEngine struct {
	spec          models.ModelSpec
	log           *callLog
	loadErr       error
	transcribeErr error
	blockUntil    chan struct{} // if non-nil, Transcribe waits on this
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

func (e *stubEngine) Load(ctx context.Context) error {
	e.log.add("load:" + e.spec.ModelID)
	return e.loadErr
}

func (e *stubEngine) Release(ctx context.Context) {
	e.log.add("release:" + e.spec.ModelID)
}

func (e *stubEngine) Transcribe(ctx context.Context, path string, opts models.TranscribeOptions) (models.TranscriptionResult, error) {
	e.log.add("transcribe:" + e.spec.ModelID)
	if e.blockUntil != nil {
		<-e.blockUntil
	}
	if e.transcribeErr != nil {
		return models.TranscriptionResult{}, e.transcribeErr
	}
	return models.TranscriptionResult{Text: "ok", ModelID: e.spec.ModelID}, nil
}

func (e *stubEngine) ModelID() string                  { return e.spec.ModelID }
func (e *stubEngine) EngineKind() models.EngineKind     { return e.spec.EngineKind }
func (e *stubEngine) Capabilities() models.Capabilities { return e.spec.Capabilities }

// stubFactory builds a stubEngine per spec, optionally failing Load for one
// specific model ID.
type stubFactory struct {
	log         *callLog
	failLoadFor string
}

func (f *stubFactory) Create(spec models.ModelSpec) (engine.Engine, error) {
	e := &stubEngine{spec: spec, log: f.log}
	if spec.ModelID == f.failLoadFor {
		e.loadErr = assertError("forced load failure")
	}
	return e, nil
}

type assertError string

func (e assertError) Error() string { return string(e) }

func specFor(alias string, modelID string) models.ModelSpec {
	return models.ModelSpec{
		Alias:        alias,
		EngineKind:   models.EngineFunASR,
		ModelID:      modelID,
		Capabilities: models.Capabilities{Timestamp: true},
	}
}

func newTestScheduler(t *testing.T, qCap int, log *callLog, failLoadFor string) (*Scheduler, *registry.Registry) {
	t.Helper()
	reg := registry.New([]models.ModelSpec{
		specFor("paraformer", "paraformer-id"),
		specFor("qwen3-asr-mini", "qwen-id"),
	})
	factory := &stubFactory{log: log, failLoadFor: failLoadFor}
	// Wrap stubFactory behind engine.Factory's concrete type isn't possible
	// (Factory is a concrete struct bound to config), so the scheduler is
	// constructed directly against the function type the Scheduler actually
	// needs: func(spec) (engine.Engine, error).
	s := &Scheduler{
		queue:   make(chan *Job, qCap),
		reg:     reg,
		state:   models.StateRunning,
		stopped: make(chan struct{}),
	}
	s.currentSpec = specFor("paraformer", "paraformer-id")
	s.factoryFunc = factory.Create
	go s.run()
	require.NoError(t, s.Bootstrap(context.Background()))
	return s, reg
}

func TestTempFileRemovedOnSuccess(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "")
	defer s.Shutdown(context.Background())

	f, err := os.CreateTemp("", "job-*")
	require.NoError(t, err)
	f.Close()

	job := NewJob(models.TranscriptionRequest{TempAudioPath: f.Name()})
	require.NoError(t, s.Submit(job))
	job.Wait()

	require.NoError(t, job.Err)
	_, statErr := os.Stat(f.Name())
	assert.True(t, os.IsNotExist(statErr))
}

func TestTempFileRemovedOnInferenceError(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "")
	defer s.Shutdown(context.Background())

	f, err := os.CreateTemp("", "job-*")
	require.NoError(t, err)
	f.Close()

	s.mu.Lock()
	s.currentEngine.(*stubEngine).transcribeErr = assertError("boom")
	s.mu.Unlock()

	job := NewJob(models.TranscriptionRequest{TempAudioPath: f.Name()})
	require.NoError(t, s.Submit(job))
	job.Wait()

	require.Error(t, job.Err)
	_, statErr := os.Stat(f.Name())
	assert.True(t, os.IsNotExist(statErr))
}

func TestQueueFullRejectsSynchronously(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 1, log, "")
	defer s.Shutdown(context.Background())

	block := make(chan struct{})
	s.mu.Lock()
	s.currentEngine.(*stubEngine).blockUntil = block
	s.mu.Unlock()

	first := NewJob(models.TranscriptionRequest{})
	require.NoError(t, s.Submit(first))
	// give the worker a moment to dequeue "first" so the queue is actually empty
	// and the next submission fills it
	time.Sleep(20 * time.Millisecond)

	second := NewJob(models.TranscriptionRequest{})
	require.NoError(t, s.Submit(second))

	start := time.Now()
	third := NewJob(models.TranscriptionRequest{})
	err := s.Submit(third)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Less(t, elapsed, 100*time.Millisecond)
	close(block)
}

func TestWorkerSurvivesInferenceError(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "")
	defer s.Shutdown(context.Background())

	s.mu.Lock()
	s.currentEngine.(*stubEngine).transcribeErr = assertError("boom")
	s.mu.Unlock()

	failing := NewJob(models.TranscriptionRequest{})
	require.NoError(t, s.Submit(failing))
	failing.Wait()
	require.Error(t, failing.Err)

	s.mu.Lock()
	s.currentEngine.(*stubEngine).transcribeErr = nil
	s.mu.Unlock()

	next := NewJob(models.TranscriptionRequest{})
	require.NoError(t, s.Submit(next))
	next.Wait()
	require.NoError(t, next.Err)
}

func TestHotSwapReleaseBeforeLoad(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "")
	defer s.Shutdown(context.Background())

	job := NewJob(models.TranscriptionRequest{RequestedModel: "qwen3-asr-mini"})
	require.NoError(t, s.Submit(job))
	job.Wait()
	require.NoError(t, job.Err)

	calls := log.snapshot()
	releaseIdx, loadIdx := -1, -1
	for i, c := range calls {
		if c == "release:paraformer-id" && releaseIdx == -1 {
			releaseIdx = i
		}
		if c == "load:qwen-id" && loadIdx == -1 {
			loadIdx = i
		}
	}
	require.NotEqual(t, -1, releaseIdx)
	require.NotEqual(t, -1, loadIdx)
	assert.Less(t, releaseIdx, loadIdx)
}

func TestPassthroughDoesNotReload(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "")
	defer s.Shutdown(context.Background())

	for _, requested := range []string{"", "None", "whisper-1"} {
		job := NewJob(models.TranscriptionRequest{RequestedModel: requested})
		require.NoError(t, s.Submit(job))
		job.Wait()
		require.NoError(t, job.Err)
	}

	calls := log.snapshot()
	loadCount := 0
	for _, c := range calls {
		if c == "load:paraformer-id" {
			loadCount++
		}
	}
	// Only the Bootstrap load, never a second one triggered by passthrough.
	assert.Equal(t, 1, loadCount)
}

func TestSwapFailureDegradesAfterFailedRecovery(t *testing.T) {
	log := &callLog{}
	s, _ := newTestScheduler(t, 10, log, "qwen-id")

	s.factoryFunc = (&stubFactory{log: log, failLoadFor: "qwen-id"}).Create
	// also make recovery of the previous model fail, forcing Degraded
	s.factoryFunc = func(spec models.ModelSpec) (engine.Engine, error) {
		e := &stubEngine{spec: spec, log: log}
		e.loadErr = assertError("always fails")
		return e, nil
	}
	defer s.Shutdown(context.Background())

	job := NewJob(models.TranscriptionRequest{RequestedModel: "qwen3-asr-mini"})
	require.NoError(t, s.Submit(job))
	job.Wait()
	require.Error(t, job.Err)

	snap := s.Snapshot()
	assert.Equal(t, models.StateDegraded, snap.State)

	err := s.Submit(NewJob(models.TranscriptionRequest{}))
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
