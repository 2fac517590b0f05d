package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sttgateway/internal/models"
)

func timePtr(t float64) *float64 { return &t }

func TestSanitizeDropsUnsetTimestamps(t *testing.T) {
	in := models.TranscriptionResult{
		Segments: []models.Segment{
			{ID: 1, Start: timePtr(0), End: timePtr(1.5), Text: "keep"},
			{ID: 2, Start: nil, End: timePtr(2.0), Text: "drop-start"},
			{ID: 3, Start: timePtr(2.0), End: nil, Text: "drop-end"},
			{ID: 4, Start: timePtr(-1), End: timePtr(1.0), Text: "drop-negative"},
		},
	}
	out := sanitize(in, true)
	assert.Len(t, out.Segments, 1)
	assert.Equal(t, "keep", out.Segments[0].Text)
}

// TestSanitizeDropsJSONNullTimestamps exercises the actual production path:
// a subprocess result where the script reports an unset timestamp as a JSON
// null, unmarshaled straight into models.Segment the way parseResultFile
// does, not a Go-constructed NaN that never occurs on the wire.
func TestSanitizeDropsJSONNullTimestamps(t *testing.T) {
	var result models.TranscriptionResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"text": "x",
		"model": "m",
		"segments": [
			{"id": 1, "start": 0, "end": 1.5, "text": "keep"},
			{"id": 2, "start": null, "end": 2.0, "text": "drop-start"},
			{"id": 3, "start": 2.0, "end": null, "text": "drop-end"}
		]
	}`), &result))

	out := sanitize(result, true)
	assert.Len(t, out.Segments, 1)
	assert.Equal(t, "keep", out.Segments[0].Text)
}

func TestSanitizeAssignsSpeakerZeroFallbackWhenDiarizing(t *testing.T) {
	in := models.TranscriptionResult{
		Segments: []models.Segment{
			{ID: 1, Start: timePtr(0), End: timePtr(1), Text: "no speaker"},
		},
	}
	out := sanitize(in, true)
	if assert.NotNil(t, out.Segments[0].Speaker) {
		assert.Equal(t, "0", *out.Segments[0].Speaker)
	}
}

func TestSanitizeLeavesSpeakerNullWhenNotDiarizing(t *testing.T) {
	in := models.TranscriptionResult{
		Segments: []models.Segment{
			{ID: 1, Start: timePtr(0), End: timePtr(1), Text: "mono"},
		},
	}
	out := sanitize(in, false)
	assert.Nil(t, out.Segments[0].Speaker)
}

func TestSanitizePreservesExistingSpeaker(t *testing.T) {
	existing := "1"
	in := models.TranscriptionResult{
		Segments: []models.Segment{
			{ID: 1, Start: timePtr(0), End: timePtr(1), Text: "labeled", Speaker: &existing},
		},
	}
	out := sanitize(in, true)
	assert.Equal(t, "1", *out.Segments[0].Speaker)
}

func TestSanitizeEmptySegmentsPassthrough(t *testing.T) {
	in := models.TranscriptionResult{Text: "hello", Segments: nil}
	out := sanitize(in, true)
	assert.Equal(t, "hello", out.Text)
	assert.Empty(t, out.Segments)
}
