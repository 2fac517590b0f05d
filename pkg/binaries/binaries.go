// Package binaries resolves the external executables the engine subprocess
// layer shells out to (uv, ffmpeg), preferring an operator-configured
// override over whatever PATH provides. Grounded on the teacher's
// pkg/binaries/binaries.go, trimmed to the two tools this gateway actually
// invokes (internal/engine/subprocess.go, preprocess.go) — yt-dlp and
// ffprobe back teacher features (URL downloads, probing) with no
// counterpart in the scheduling core.
package binaries

import "os"

func resolve(envKey, fallback string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return fallback
}

// UV returns the configured uv executable path, used to run every engine's
// Python environment.
func UV() string {
	return resolve("STTGATEWAY_UV_BIN", "uv")
}

// FFmpeg returns the configured ffmpeg executable path, used to normalize
// uploaded audio to 16kHz mono before handing it to an engine.
func FFmpeg() string {
	return resolve("STTGATEWAY_FFMPEG_BIN", "ffmpeg")
}
