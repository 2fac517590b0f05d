// Package models holds the value types shared across the registry, engine,
// admission, scheduler and API layers. Nothing here is persisted; every value
// lives only as long as the job that owns it.
package models

// EngineKind identifies which family of ASR back-end a ModelSpec targets.
type EngineKind string

const (
	EngineFunASR EngineKind = "funasr"
	EngineMLX    EngineKind = "mlx"
)

// OutputFormat is the closed set of response bodies the HTTP surface can emit.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "txt"
	FormatSRT  OutputFormat = "srt"
)

// Language is the closed set of language hints accepted on a request.
type Language string

const (
	LanguageZH   Language = "zh"
	LanguageEN   Language = "en"
	LanguageAuto Language = "auto"
)

// SchedulerState describes whether the scheduler is accepting new jobs.
type SchedulerState string

const (
	StateRunning  SchedulerState = "running"
	StateDegraded SchedulerState = "degraded"
	StateStopped  SchedulerState = "stopped"
)

// Capabilities is the frozen set of features a loaded engine declares. It
// never changes while an engine is loaded; a hot-swap replaces it wholesale.
type Capabilities struct {
	Timestamp       bool `json:"timestamp"`
	Diarization     bool `json:"diarization"`
	EmotionTags     bool `json:"emotion_tags"`
	LanguageDetect  bool `json:"language_detect"`
}

// ModelSpec is a compile-time, immutable entry in the registry table.
type ModelSpec struct {
	Alias        string       `json:"alias"`
	EngineKind   EngineKind   `json:"engine_kind"`
	ModelID      string       `json:"model_id"`
	Description  string       `json:"description"`
	Capabilities Capabilities `json:"capabilities"`
}

// Segment is one timestamped, optionally-diarized span of transcript text.
// Start/End are pointers because encoding/json silently leaves a non-pointer
// float64 at its zero value when the wire JSON carries null for that field —
// indistinguishable from a genuine 0.0 timestamp. Keeping them as *float64
// across the subprocess JSON boundary lets sanitize tell "unset" from "starts
// at the beginning of the audio" apart.
type Segment struct {
	ID      int      `json:"id"`
	Speaker *string  `json:"speaker"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Text    string   `json:"text"`
}

// TranscriptionResult is what an Engine hands back for one audio file.
type TranscriptionResult struct {
	Text     string    `json:"text"`
	Duration float64   `json:"duration,omitempty"`
	Language string    `json:"language,omitempty"`
	ModelID  string    `json:"model"`
	Segments []Segment `json:"segments,omitempty"`
}

// TranscribeOptions carries the per-request knobs an Engine.Transcribe reads.
type TranscribeOptions struct {
	Language      Language
	WithTimestamp bool
}

// TranscriptionRequest is built by the HTTP layer once admission passes.
// RequestedModel holds whatever the client sent in the `model` field
// verbatim; resolving passthrough aliases ("", "whisper-1") is the
// registry's job, not this struct's.
type TranscriptionRequest struct {
	RequestID      string
	TempAudioPath  string
	Language       Language
	OutputFormat   OutputFormat
	WithTimestamp  bool
	RequestedModel string
}
