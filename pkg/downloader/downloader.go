// Package downloader fetches one-shot assets over HTTP with a progress
// line on stdout. Grounded on the teacher's pkg/downloader/downloader.go;
// here it backs a single caller, internal/engine.ensureScript, which pulls
// an engine's inference script into its uv environment the first time that
// environment is loaded and no script exists on disk yet.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadFile streams url to dest, writing to a ".tmp" sibling and
// renaming only once the transfer completes, so a crash mid-download never
// leaves a partial file at dest.
func DownloadFile(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}

	tempDest := dest + ".tmp"
	out, err := os.Create(tempDest)
	if err != nil {
		return fmt.Errorf("creating temp file %s: %w", tempDest, err)
	}
	defer out.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: bad status %s", url, resp.Status)
	}

	tracker := &progressTracker{
		Total:    resp.ContentLength,
		Filename: filepath.Base(dest),
		LastLog:  time.Now(),
	}
	if _, err := io.Copy(out, io.TeeReader(resp.Body, tracker)); err != nil {
		return fmt.Errorf("writing %s: %w", tempDest, err)
	}
	out.Close()

	if err := os.Rename(tempDest, dest); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tempDest, dest, err)
	}
	fmt.Println()
	return nil
}

type progressTracker struct {
	Total       int64
	Current     int64
	Filename    string
	LastLog     time.Time
	LastPercent int
}

func (pt *progressTracker) Write(p []byte) (int, error) {
	n := len(p)
	pt.Current += int64(n)
	pt.printProgress()
	return n, nil
}

func (pt *progressTracker) printProgress() {
	// Calculate percentage
	percent := int(float64(pt.Current) / float64(pt.Total) * 100)

	// Update only if percentage changed significantly or enough time passed
	if percent != pt.LastPercent && (percent%5 == 0 || time.Since(pt.LastLog) > 1*time.Second) {
		pt.LastPercent = percent
		pt.LastLog = time.Now()

		// Clear line and print progress
		// \r moves cursor to start of line
		// \033[K clears the line
		fmt.Printf("\r\033[KDownloading %s: %d%% (%s / %s)",
			pt.Filename,
			percent,
			formatBytes(pt.Current),
			formatBytes(pt.Total))
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
