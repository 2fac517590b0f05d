// Package api implements C7, the thin HTTP adapter: parse multipart
// bodies, persist uploads to temp files, run admission, hand work to the
// scheduler, and serialize results. Grounded on the teacher's
// internal/api/handlers.go (the multipart-upload-then-FileService-save
// shape) and openai_handler.go (OpenAI-compatible response aliasing).
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sttgateway/internal/admission"
	"sttgateway/internal/config"
	"sttgateway/internal/format"
	"sttgateway/internal/models"
	"sttgateway/internal/scheduler"
	"sttgateway/internal/service"
	"sttgateway/pkg/logger"
)

const fieldAudioFile = "file"

// Handler holds everything the four C7 endpoints need. It is stateless
// beyond these references: all mutable state lives in the scheduler.
type Handler struct {
	cfg       *config.Config
	validator *admission.Validator
	scheduler *scheduler.Scheduler
	files     service.FileService
}

// NewHandler wires a Handler to the process configuration, the admission
// validator and the running scheduler.
func NewHandler(cfg *config.Config, validator *admission.Validator, sched *scheduler.Scheduler, files service.FileService) *Handler {
	return &Handler{cfg: cfg, validator: validator, scheduler: sched, files: files}
}

// HealthCheck reports liveness only; it never touches the scheduler state,
// so it stays cheap under the polling load GET /health normally sees.
//
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// modelListEntry is one row of GET /v1/models: a spec plus whether it is
// the one currently loaded.
type modelListEntry struct {
	Alias        string              `json:"alias"`
	EngineKind   models.EngineKind   `json:"engine_kind"`
	ModelID      string              `json:"model_id"`
	Description  string              `json:"description"`
	Capabilities models.Capabilities `json:"capabilities"`
}

// ListModels reports the full registry plus the alias of whichever spec is
// currently loaded (null when the loaded spec isn't a registered alias —
// e.g. it was synthesized from an engine-qualified identifier).
//
// @Summary List registered models
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/models [get]
func (h *Handler) ListModels(c *gin.Context) {
	reg := h.scheduler.Registry()
	snap := h.scheduler.Snapshot()

	entries := make([]modelListEntry, 0, len(reg.List()))
	for _, spec := range reg.List() {
		entries = append(entries, modelListEntry{
			Alias:        spec.Alias,
			EngineKind:   spec.EngineKind,
			ModelID:      spec.ModelID,
			Description:  spec.Description,
			Capabilities: spec.Capabilities,
		})
	}

	var current *string
	if alias, ok := reg.AliasFor(snap.Spec); ok {
		current = &alias
	}

	c.JSON(http.StatusOK, gin.H{
		"models":  entries,
		"current": current,
	})
}

// CurrentModel reports the exact shape spec.md §4.7 names for
// GET /v1/models/current.
//
// @Summary Report the currently loaded model and queue depth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/models/current [get]
func (h *Handler) CurrentModel(c *gin.Context) {
	snap := h.scheduler.Snapshot()
	reg := h.scheduler.Registry()

	var alias *string
	if a, ok := reg.AliasFor(snap.Spec); ok {
		alias = &a
	}

	c.JSON(http.StatusOK, gin.H{
		"engine_kind":    snap.Spec.EngineKind,
		"model_id":       snap.Spec.ModelID,
		"model_alias":    alias,
		"capabilities":   snap.Spec.Capabilities,
		"queue_size":     snap.QueueSize,
		"max_queue_size": snap.QueueCap,
		"state":          snap.State,
	})
}

// Transcribe implements POST /v1/audio/transcriptions: admission in the
// order spec.md §4.5 names, a non-blocking scheduler submission, then a
// response body shaped by output_format (spec.md §6).
//
// @Summary Transcribe an audio file
// @Accept multipart/form-data
// @Produce json,plain
// @Param file formData file true "Audio payload"
// @Param output_format formData string false "json, txt, or srt"
// @Param response_format formData string false "OpenAI-compatible alias"
// @Param with_timestamp formData bool false "Prefix txt lines with [MM:SS]"
// @Param language formData string false "zh, en, or auto"
// @Param model formData string false "Alias or full model id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errorResponse
// @Failure 413 {object} errorResponse
// @Failure 415 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /v1/audio/transcriptions [post]
func (h *Handler) Transcribe(c *gin.Context) {
	requestID := uuid.New().String()
	c.Header("X-Request-ID", requestID)
	start := time.Now()

	outputFormat, err := parseOutputFormat(c.PostForm("output_format"), c.PostForm("response_format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), RequestID: requestID})
		return
	}
	language, err := parseLanguage(c.PostForm("language"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), RequestID: requestID})
		return
	}
	withTimestamp := parseBoolDefault(c.PostForm("with_timestamp"), false)
	requestedModel := c.PostForm("model")

	fileHeader, err := c.FormFile(fieldAudioFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "audio file is required", RequestID: requestID})
		return
	}

	// Rule 2: media type allowlist, checked against the part's own
	// Content-Type before anything is persisted to disk.
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.validator.CheckMediaType(contentType); err != nil {
		status, msg := statusForError(err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	tempPath, err := h.files.SaveUpload(fileHeader, h.cfg.UploadDir)
	if err != nil {
		logger.Error("failed to persist upload", "request_id", requestID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", RequestID: requestID})
		return
	}

	// deleteTemp is called on every validation-failure exit from here on;
	// spec.md §4.5: "any persisted temp file must be deleted before
	// returning." Once the job is successfully submitted, ownership passes
	// to the scheduler and this handler must not touch the file again.
	deleteTemp := func() { _ = h.files.RemoveFile(tempPath) }

	// Rule 3: content length, measured on the persisted file's own size
	// rather than trusting the advertised Content-Length header.
	if err := h.validator.CheckUploadSize(fileHeader.Size, h.cfg.MaxUploadSizeMB); err != nil {
		deleteTemp()
		status, msg := statusForError(err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	// Rule 4: resolve the requested model against whatever is currently
	// loaded, re-validated again at dequeue time by the scheduler itself
	// since the currently loaded spec may change before this job runs.
	resolved, err := h.scheduler.ResolveModel(h.validator, requestedModel)
	if err != nil {
		deleteTemp()
		status, msg := statusForError(err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	// Rule 5: format/capability compatibility.
	if err := h.validator.CheckCapabilities(outputFormat, withTimestamp, resolved.Capabilities); err != nil {
		deleteTemp()
		status, msg := statusForError(err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	job := scheduler.NewJob(models.TranscriptionRequest{
		RequestID:      requestID,
		TempAudioPath:  tempPath,
		Language:       language,
		OutputFormat:   outputFormat,
		WithTimestamp:  withTimestamp,
		RequestedModel: requestedModel,
	})

	if err := h.scheduler.Submit(job); err != nil {
		// The scheduler never took ownership of the temp file, so this
		// handler is still the one that must clean it up.
		deleteTemp()
		status, msg := statusForError(err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	job.Wait()

	if job.Err != nil {
		status, msg := statusForError(job.Err)
		c.JSON(status, errorResponse{Error: msg, RequestID: requestID})
		return
	}

	logger.Debug("request completed", "request_id", requestID, "total_time_ms", time.Since(start).Milliseconds())
	writeResult(c, job.Result, outputFormat, withTimestamp)
}

// writeResult serializes a TranscriptionResult according to output_format,
// the only place in the handler that knows about response bodies.
func writeResult(c *gin.Context, result models.TranscriptionResult, outputFormat models.OutputFormat, withTimestamp bool) {
	switch outputFormat {
	case models.FormatText:
		c.String(http.StatusOK, format.Text(result.Segments, withTimestamp))
	case models.FormatSRT:
		c.String(http.StatusOK, format.SRT(result.Segments))
	default:
		includeSegments := len(result.Segments) > 0
		c.JSON(http.StatusOK, format.JSON(result, includeSegments))
	}
}
