// Package registry implements C1, the static alias -> ModelSpec table.
// It is a pure lookup: no I/O, no mutation after construction, grounded on
// the teacher's transcription/registry package but stripped down to the
// single rule spec.md §4.1 actually asks for (no requirement scoring, no
// adapter discovery).
package registry

import (
	"fmt"
	"strings"

	"sttgateway/internal/models"
)

// ErrUnknownModel is returned when an alias does not resolve by any rule.
type ErrUnknownModel struct {
	Requested string
}

func (e *ErrUnknownModel) Error() string {
	return fmt.Sprintf("unknown model: %q", e.Requested)
}

// conservativeCapabilities is the downgrade applied to any engine-qualified
// identifier that isn't already a known alias: timestamp only, nothing else,
// per spec.md §4.1 rule 2.
var conservativeCapabilities = models.Capabilities{
	Timestamp:      true,
	Diarization:    false,
	EmotionTags:    false,
	LanguageDetect: false,
}

// enginePrefixes maps a known identifier prefix to the engine family it
// implies, used only when an alias lookup misses.
var enginePrefixes = []struct {
	prefix string
	kind   models.EngineKind
}{
	{"mlx-community/", models.EngineMLX},
	{"iic/", models.EngineFunASR},
}

// passthroughValues are not model selectors; they mean "keep current".
var passthroughValues = map[string]bool{
	"":          true,
	"None":      true,
	"whisper-1": true,
}

// IsPassthrough reports whether requested should be treated as "keep current".
func IsPassthrough(requested string) bool {
	return passthroughValues[requested]
}

// Registry is the immutable alias table. The zero value is not usable;
// construct with New.
type Registry struct {
	byAlias map[string]models.ModelSpec
	order   []string
}

// New builds a Registry from a fixed list of specs. Duplicate aliases are a
// programmer error and the last one wins, matching a plain map literal's
// behaviour.
func New(specs []models.ModelSpec) *Registry {
	r := &Registry{byAlias: make(map[string]models.ModelSpec, len(specs))}
	for _, s := range specs {
		if _, exists := r.byAlias[s.Alias]; !exists {
			r.order = append(r.order, s.Alias)
		}
		r.byAlias[s.Alias] = s
	}
	return r
}

// Default returns the built-in registry shipped with the gateway: two
// FunASR models (one with the full capability surface, one without
// timestamps) and one MLX model, matching the engine back-ends implemented
// in internal/engine.
func Default() *Registry {
	return New([]models.ModelSpec{
		{
			Alias:       "paraformer",
			EngineKind:  models.EngineFunASR,
			ModelID:     "iic/SenseVoiceSmall",
			Description: "FunASR Paraformer-style model: timestamps, diarization, emotion tags, language detection.",
			Capabilities: models.Capabilities{
				Timestamp:      true,
				Diarization:    true,
				EmotionTags:    true,
				LanguageDetect: true,
			},
		},
		{
			Alias:       "sensevoice-small",
			EngineKind:  models.EngineFunASR,
			ModelID:     "iic/SenseVoiceSmall-lite",
			Description: "Lighter FunASR variant: no timestamps.",
			Capabilities: models.Capabilities{
				Timestamp:      false,
				Diarization:    false,
				EmotionTags:    true,
				LanguageDetect: true,
			},
		},
		{
			Alias:       "qwen3-asr-mini",
			EngineKind:  models.EngineMLX,
			ModelID:     "mlx-community/Qwen3-ASR-mini",
			Description: "MLX back-end, timestamps only, no diarization.",
			Capabilities: models.Capabilities{
				Timestamp:      true,
				Diarization:    false,
				EmotionTags:    false,
				LanguageDetect: true,
			},
		},
	})
}

// List returns every registered spec, in registration order.
func (r *Registry) List() []models.ModelSpec {
	out := make([]models.ModelSpec, 0, len(r.order))
	for _, alias := range r.order {
		out = append(out, r.byAlias[alias])
	}
	return out
}

// Lookup resolves requested against the rules in spec.md §4.1. current is
// the currently loaded spec (possibly the zero value); it is not consulted,
// since a qualified-identifier synthesis always uses the conservative
// capability set.
//
// The passthrough case is NOT handled here: callers must check
// IsPassthrough(requested) first, since "keep current" isn't a lookup at
// all, it's the absence of one.
func (r *Registry) Lookup(requested string, current models.ModelSpec) (models.ModelSpec, error) {
	if spec, ok := r.byAlias[requested]; ok {
		return spec, nil
	}
	for _, p := range enginePrefixes {
		if strings.HasPrefix(requested, p.prefix) {
			return models.ModelSpec{
				Alias:        requested,
				EngineKind:   p.kind,
				ModelID:      requested,
				Description:  "engine-qualified identifier, capabilities conservatively downgraded",
				Capabilities: conservativeCapabilities,
			}, nil
		}
	}
	return models.ModelSpec{}, &ErrUnknownModel{Requested: requested}
}

// ResolveInitial is Lookup plus one extra fallback used only at startup
// (cmd/server/main.go): when requested is neither a known alias nor a
// recognized engine-qualified prefix, engineHint (from ENGINE_TYPE, spec.md
// §6) picks the engine family instead of failing outright, so an operator
// can point MODEL_ID at an arbitrary identifier for a not-yet-registered
// model as long as they also say which engine loads it. Per-request model
// switches still go through the plain Lookup, since a swap request never
// carries an engine-kind hint of its own.
func (r *Registry) ResolveInitial(requested string, engineHint models.EngineKind) (models.ModelSpec, error) {
	spec, err := r.Lookup(requested, models.ModelSpec{})
	if err == nil {
		return spec, nil
	}
	if engineHint == "" {
		return models.ModelSpec{}, err
	}
	return models.ModelSpec{
		Alias:        requested,
		EngineKind:   engineHint,
		ModelID:      requested,
		Description:  "engine-qualified by ENGINE_TYPE, capabilities conservatively downgraded",
		Capabilities: conservativeCapabilities,
	}, nil
}

// AliasFor returns the alias naming spec in the registry, or ("", false) if
// spec isn't a registered entry (e.g. it was synthesized from a qualified
// identifier). Used by GET /v1/models to report `current`.
func (r *Registry) AliasFor(spec models.ModelSpec) (string, bool) {
	if existing, ok := r.byAlias[spec.Alias]; ok && existing.ModelID == spec.ModelID {
		return spec.Alias, true
	}
	return "", false
}
