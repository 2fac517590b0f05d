package engine

import (
	"sttgateway/internal/config"
	"sttgateway/internal/models"
)

// NewMLX builds the MLX back-end: a uv-managed Python environment running
// an mlx-community/... model via an MLX inference script, on the same
// uv-managed-environment pattern as the FunASR engine.
func NewMLX(spec models.ModelSpec, cfg *config.Config) Engine {
	return newSubprocessEngine(spec, subprocessConfig{
		uvPath:          cfg.UVPath,
		ffmpegPath:      cfg.FFmpegPath,
		envPath:         cfg.MLXEnvPath,
		scriptPath:      cfg.MLXEnvPath + "/scripts/transcribe_mlx.py",
		scriptURL:       cfg.MLXScriptURL,
		importStatement: "import mlx_whisper",
		extraArgs:       cfg.MLXExtraArgs,
	})
}
