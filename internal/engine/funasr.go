package engine

import (
	"sttgateway/internal/config"
	"sttgateway/internal/models"
)

// NewFunASR builds the FunASR back-end: a uv-managed Python environment
// running a FunASR (iic/... model family) inference script, following the
// teacher's ensurePythonEnv/uv run --project pattern (whisperx.go).
func NewFunASR(spec models.ModelSpec, cfg *config.Config) Engine {
	return newSubprocessEngine(spec, subprocessConfig{
		uvPath:          cfg.UVPath,
		ffmpegPath:      cfg.FFmpegPath,
		envPath:         cfg.FunASREnvPath,
		scriptPath:      cfg.FunASREnvPath + "/scripts/transcribe_funasr.py",
		scriptURL:       cfg.FunASRScriptURL,
		importStatement: "import funasr",
		extraArgs:       cfg.FunASRExtraArgs,
	})
}
