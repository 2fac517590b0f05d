package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sttgateway/internal/models"
	"sttgateway/internal/registry"
)

func newTestValidator() *Validator {
	return New(registry.Default())
}

func TestCheckOriginWildcard(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.CheckOrigin("https://anywhere.example", []string{"*"}))
}

func TestCheckOriginEmptyHeaderAlwaysPasses(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.CheckOrigin("", []string{"https://only-this.example"}))
}

func TestCheckOriginRejectsUnlisted(t *testing.T) {
	v := newTestValidator()
	err := v.CheckOrigin("https://evil.example", []string{"https://only-this.example"})
	require.Error(t, err)
	var notAllowed *ErrOriginNotAllowed
	assert.ErrorAs(t, err, &notAllowed)
}

func TestCheckMediaTypeAllowlist(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.CheckMediaType("audio/wav"))
	assert.NoError(t, v.CheckMediaType("audio/mpeg; charset=binary"))
	err := v.CheckMediaType("video/mp4")
	require.Error(t, err)
	var unsupported *ErrUnsupportedMediaType
	assert.ErrorAs(t, err, &unsupported)
}

func TestCheckUploadSize(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.CheckUploadSize(100, 200))
	err := v.CheckUploadSize(201*1024*1024, 200)
	require.Error(t, err)
	var tooLarge *ErrPayloadTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

func TestResolveModelPassthrough(t *testing.T) {
	v := newTestValidator()
	current := models.ModelSpec{Alias: "paraformer"}
	for _, requested := range []string{"", "None", "whisper-1"} {
		spec, err := v.ResolveModel(requested, current)
		require.NoError(t, err)
		assert.Equal(t, current, spec)
	}
}

func TestResolveModelUnknown(t *testing.T) {
	v := newTestValidator()
	_, err := v.ResolveModel("does-not-exist", models.ModelSpec{})
	require.Error(t, err)
	var unknown *registry.ErrUnknownModel
	assert.ErrorAs(t, err, &unknown)
}

func TestCheckCapabilitiesRequiresTimestampForSRT(t *testing.T) {
	v := newTestValidator()
	noTimestamp := models.Capabilities{Timestamp: false}
	err := v.CheckCapabilities(models.FormatSRT, false, noTimestamp)
	require.Error(t, err)
	var mismatch *ErrCapabilityMismatch
	assert.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "timestamp")
}

func TestCheckCapabilitiesAllowsJSONWithoutTimestamp(t *testing.T) {
	v := newTestValidator()
	noTimestamp := models.Capabilities{Timestamp: false}
	assert.NoError(t, v.CheckCapabilities(models.FormatJSON, false, noTimestamp))
}
