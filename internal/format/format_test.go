package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sttgateway/internal/models"
)

func speakerPtr(s string) *string { return &s }
func timePtr(t float64) *float64  { return &t }

func sampleSegments() []models.Segment {
	return []models.Segment{
		{ID: 1, Start: timePtr(0), End: timePtr(1.5), Text: "hello", Speaker: speakerPtr("0")},
		{ID: 2, Start: timePtr(61.2), End: timePtr(65.0), Text: "world", Speaker: speakerPtr("1")},
	}
}

func TestSRTTimestampFormat(t *testing.T) {
	assert.Equal(t, "00:00:00,000", formatSRTTimestamp(0))
	assert.Equal(t, "00:01:01,200", formatSRTTimestamp(61.2))
	assert.Equal(t, "01:00:00,000", formatSRTTimestamp(3600))
}

func TestSRTBodyShape(t *testing.T) {
	body := SRT(sampleSegments())
	assert.Contains(t, body, "1\n00:00:00,000 --> 00:00:01,500\n[Speaker 0]: hello\n\n")
	assert.Contains(t, body, "2\n00:01:01,200 --> 00:01:05,000\n[Speaker 1]: world\n\n")
}

func TestTextWithTimestamp(t *testing.T) {
	body := Text(sampleSegments(), true)
	assert.Contains(t, body, "[00:00] [Speaker 0]: hello")
	assert.Contains(t, body, "[01:01] [Speaker 1]: world")
}

func TestTextWithoutTimestampOrSpeaker(t *testing.T) {
	segments := []models.Segment{{ID: 1, Start: timePtr(0), End: timePtr(1), Text: "plain"}}
	body := Text(segments, false)
	assert.Equal(t, "plain\n", body)
}

func TestSRTIsIdempotentOverSameSegments(t *testing.T) {
	segments := sampleSegments()
	first := SRT(segments)
	second := SRT(segments)
	assert.Equal(t, first, second)
}

func TestJSONOmitsSegmentsWhenNotRequested(t *testing.T) {
	result := models.TranscriptionResult{Text: "hi", Segments: sampleSegments()}
	out := JSON(result, false)
	assert.Empty(t, out.Segments)
	out = JSON(result, true)
	assert.Len(t, out.Segments, 2)
}
