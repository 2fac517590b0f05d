// Package format implements the pure, stateless output formatters spec.md
// treats as "out of scope" for the core's design but still names as part of
// the external interface (§6): txt and SRT bodies over []models.Segment.
// No pack example formats subtitles with a third-party library, so this is
// hand-rolled the way the teacher hand-rolls its own timestamp formatting
// scattered through unified_service.go.
package format

import (
	"fmt"
	"strings"

	"sttgateway/internal/models"
)

// JSON returns the exact struct spec.md §6 documents for output_format=json;
// callers marshal it with encoding/json. Segments are kept only when
// includeSegments is true; the HTTP handler passes true whenever the
// engine returned any segments.
func JSON(result models.TranscriptionResult, includeSegments bool) models.TranscriptionResult {
	if !includeSegments {
		result.Segments = nil
	}
	return result
}

// Text renders one line per segment: an optional "[MM:SS] " prefix, then
// "[Speaker N]: <text>" when diarized, else just the text.
func Text(segments []models.Segment, withTimestamp bool) string {
	var b strings.Builder
	for _, seg := range segments {
		if withTimestamp && seg.Start != nil {
			b.WriteString(fmt.Sprintf("[%s] ", formatMinutesSeconds(*seg.Start)))
		}
		if seg.Speaker != nil {
			b.WriteString(fmt.Sprintf("[Speaker %s]: %s", *seg.Speaker, seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SRT renders standard SubRip: a 1-based cue index, an "HH:MM:SS,mmm -->
// HH:MM:SS,mmm" timing line, the text, and a blank line between cues.
// Segments reaching here have already passed sanitize, which drops any
// segment with an unset start or end, so seconds() never needs to guess.
func SRT(segments []models.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTimestamp(seconds(seg.Start)), formatSRTTimestamp(seconds(seg.End)))
		text := seg.Text
		if seg.Speaker != nil {
			text = fmt.Sprintf("[Speaker %s]: %s", *seg.Speaker, seg.Text)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// seconds unwraps a possibly-nil timestamp pointer, treating an unset value
// as 0 — a defensive fallback for callers that bypass sanitize, since by
// contract every segment reaching a formatter already has both set.
func seconds(t *float64) float64 {
	if t == nil {
		return 0
	}
	return *t
}

func formatMinutesSeconds(totalSeconds float64) string {
	total := int(totalSeconds + 0.5)
	minutes := total / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func formatSRTTimestamp(totalSeconds float64) string {
	totalMillis := int64(totalSeconds*1000 + 0.5)
	hours := totalMillis / 3_600_000
	totalMillis %= 3_600_000
	minutes := totalMillis / 60_000
	totalMillis %= 60_000
	seconds := totalMillis / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
