package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"

	"sttgateway/internal/models"
	"sttgateway/pkg/downloader"
)

// subprocessConfig is the invocation-time configuration a concrete engine
// needs to shell out to its uv-managed Python environment.
type subprocessConfig struct {
	uvPath          string
	ffmpegPath      string
	envPath         string
	scriptPath      string
	scriptURL       string // fetched to scriptPath on first Load if scriptPath is absent
	importStatement string
	extraArgs       string // shlex-parsed, e.g. "--device mps --batch-size 4"
}

// subprocessEngine is the shared shape behind both concrete engines: load
// does a cached readiness probe, transcribe shells out to a script that
// writes one JSON result file, per the teacher's whisperx.go
// TranscribeAudioFile/parseResultFile pattern. funasr.go and mlx.go only
// differ in environment path, script path/URL, import statement and extra
// args; declared capabilities come from the ModelSpec.
type subprocessEngine struct {
	spec      models.ModelSpec
	cfg       subprocessConfig
	readiness *readinessCache
	loaded    bool
}

func newSubprocessEngine(spec models.ModelSpec, cfg subprocessConfig) *subprocessEngine {
	return &subprocessEngine{spec: spec, cfg: cfg, readiness: newReadinessCache()}
}

func (e *subprocessEngine) ModelID() string                  { return e.spec.ModelID }
func (e *subprocessEngine) EngineKind() models.EngineKind     { return e.spec.EngineKind }
func (e *subprocessEngine) Capabilities() models.Capabilities { return e.spec.Capabilities }

// Load fetches the inference script if it isn't already present and probes
// that the environment can import the inference module; it runs no warm-up
// inference. It does not keep a resident subprocess: each Transcribe call is
// its own invocation, which keeps "release" trivially correct (there is no
// long-lived process to kill) at the cost of per-request interpreter
// startup, an acceptable trade given inference itself runs tens of seconds.
func (e *subprocessEngine) Load(ctx context.Context) error {
	if err := e.ensureScript(ctx); err != nil {
		return &ErrLoadFailed{ModelID: e.spec.ModelID, Cause: err}
	}
	if !e.readiness.check(e.cfg.uvPath, e.cfg.envPath, e.cfg.importStatement) {
		return &ErrLoadFailed{
			ModelID: e.spec.ModelID,
			Cause:   fmt.Errorf("environment %s cannot import %q", e.cfg.envPath, e.cfg.importStatement),
		}
	}
	e.loaded = true
	return nil
}

// ensureScript fetches cfg.scriptURL to cfg.scriptPath the first time an
// environment is loaded and the script is missing from disk. Operators who
// pre-provision the uv environment themselves never hit the network path:
// scriptURL is empty by default (spec.md §6 config table), and an existing
// file on disk is never re-downloaded.
func (e *subprocessEngine) ensureScript(ctx context.Context) error {
	if e.cfg.scriptURL == "" {
		return nil
	}
	if _, err := os.Stat(e.cfg.scriptPath); err == nil {
		return nil
	}
	if err := downloader.DownloadFile(ctx, e.cfg.scriptURL, e.cfg.scriptPath); err != nil {
		return fmt.Errorf("fetching inference script from %s: %w", e.cfg.scriptURL, err)
	}
	return nil
}

// Release is best-effort: there is no resident process to tear down, so
// this only clears local state. Any future resident-process variant would
// kill it here and log failures without propagating them, per spec.md §4.3.
func (e *subprocessEngine) Release(ctx context.Context) {
	e.loaded = false
}

// Transcribe shells out to the engine's script with the audio path and a
// temporary output directory, then parses the JSON result it writes.
func (e *subprocessEngine) Transcribe(ctx context.Context, path string, opts models.TranscribeOptions) (models.TranscriptionResult, error) {
	normalizedPath, cleanupNormalized, err := normalizeAudio(ctx, e.cfg.ffmpegPath, path)
	defer cleanupNormalized()
	if err != nil {
		return models.TranscriptionResult{}, &ErrInferenceFailed{ModelID: e.spec.ModelID, Cause: err}
	}

	outDir, err := os.MkdirTemp("", "sttgateway-infer-*")
	if err != nil {
		return models.TranscriptionResult{}, &ErrInferenceFailed{ModelID: e.spec.ModelID, Cause: err}
	}
	defer os.RemoveAll(outDir)

	args := []string{"run", "--project", e.cfg.envPath, "python", e.cfg.scriptPath,
		"--input", normalizedPath,
		"--output-dir", outDir,
		"--model-id", e.spec.ModelID,
		"--language", string(opts.Language),
	}
	if opts.WithTimestamp {
		args = append(args, "--with-timestamp")
	}
	if e.cfg.extraArgs != "" {
		extra, err := shlex.Split(e.cfg.extraArgs)
		if err != nil {
			return models.TranscriptionResult{}, &ErrInferenceFailed{ModelID: e.spec.ModelID, Cause: fmt.Errorf("invalid extra args: %w", err)}
		}
		args = append(args, extra...)
	}

	cmd := exec.CommandContext(ctx, e.cfg.uvPath, args...)
	cmd.Env = append(os.Environ(), "PYTHONUNBUFFERED=1")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return models.TranscriptionResult{}, &ErrInferenceFailed{
			ModelID: e.spec.ModelID,
			Cause:   fmt.Errorf("subprocess failed: %w (output: %s)", err, truncate(output, 2048)),
		}
	}

	result, err := parseResultFile(outDir)
	if err != nil {
		return models.TranscriptionResult{}, &ErrInferenceFailed{ModelID: e.spec.ModelID, Cause: err}
	}
	result.ModelID = e.spec.ModelID
	return sanitize(result, e.spec.Capabilities.Diarization), nil
}

// parseResultFile reads the single *.json file a script writes to outDir.
// Scripts may name it anything; this mirrors the teacher's glob-based
// discovery (whisperx.go parseResultFile) rather than assuming a fixed name.
func parseResultFile(outDir string) (models.TranscriptionResult, error) {
	matches, err := filepath.Glob(filepath.Join(outDir, "*.json"))
	if err != nil {
		return models.TranscriptionResult{}, fmt.Errorf("globbing result dir: %w", err)
	}
	if len(matches) == 0 {
		return models.TranscriptionResult{}, fmt.Errorf("no result file written to %s", outDir)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return models.TranscriptionResult{}, fmt.Errorf("reading result file: %w", err)
	}

	var result models.TranscriptionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.TranscriptionResult{}, fmt.Errorf("parsing result JSON: %w", err)
	}
	if result.Text == "" && len(result.Segments) > 0 {
		result.Text = joinSegmentText(result.Segments)
	}
	return result, nil
}

func joinSegmentText(segments []models.Segment) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += " "
		}
		out += s.Text
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
