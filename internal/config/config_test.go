package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "MAX_QUEUE_SIZE", "MAX_UPLOAD_SIZE_MB", "ALLOWED_ORIGINS", "ENGINE_TYPE"} {
		os.Unsetenv(key)
	}
	cfg := Load()
	assert.Equal(t, "50070", cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 50, cfg.MaxQueueSize)
	assert.Equal(t, 200, cfg.MaxUploadSizeMB)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "funasr", cfg.EngineType)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	os.Setenv("MAX_QUEUE_SIZE", "10")
	os.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	defer os.Unsetenv("MAX_QUEUE_SIZE")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	cfg := Load()
	assert.Equal(t, 10, cfg.MaxQueueSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
