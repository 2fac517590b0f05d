package engine

import (
	"fmt"

	"sttgateway/internal/config"
	"sttgateway/internal/models"
)

// Factory constructs an Engine from a ModelSpec without loading it, per
// spec.md §4.4. The scheduler calls Load itself so load failures are
// observable in the swap protocol.
type Factory struct {
	cfg *config.Config
}

// NewFactory builds a Factory bound to the process configuration (uv/ffmpeg
// paths, per-engine environment directories).
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// Create dispatches on spec.EngineKind. It never calls Load.
func (f *Factory) Create(spec models.ModelSpec) (Engine, error) {
	switch spec.EngineKind {
	case models.EngineFunASR:
		return NewFunASR(spec, f.cfg), nil
	case models.EngineMLX:
		return NewMLX(spec, f.cfg), nil
	default:
		return nil, fmt.Errorf("no engine factory for engine kind %q", spec.EngineKind)
	}
}
