package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// normalizeAudio runs the ffmpeg pre-inference adapter spec.md §1 names as
// an out-of-scope external collaborator ("audio decoding / re-sampling /
// chunking... treated as a pure adapter invoked before inference"): every
// back-end script expects 16 kHz mono PCM regardless of what the client
// uploaded, so this runs once, ahead of the engine-specific subprocess,
// rather than duplicating resampling logic in every script.
//
// The returned cleanup always succeeds removing a temp file that may not
// exist; callers defer it unconditionally.
func normalizeAudio(ctx context.Context, ffmpegPath, srcPath string) (normalizedPath string, cleanup func(), err error) {
	dst, err := os.CreateTemp("", "sttgateway-norm-*.wav")
	if err != nil {
		return "", func() {}, fmt.Errorf("creating normalized-audio temp file: %w", err)
	}
	dst.Close()
	cleanup = func() { _ = os.Remove(dst.Name()) }

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-y",
		"-i", srcPath,
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		dst.Name(),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", cleanup, fmt.Errorf("ffmpeg normalization failed: %w (output: %s)", err, truncate(output, 2048))
	}
	return dst.Name(), cleanup, nil
}
