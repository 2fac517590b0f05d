package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sttgateway/internal/models"
)

func TestParseOutputFormatDefaultsToJSON(t *testing.T) {
	f, err := parseOutputFormat("", "")
	assert.NoError(t, err)
	assert.Equal(t, models.FormatJSON, f)
}

func TestParseOutputFormatResponseFormatOverridesOutputFormat(t *testing.T) {
	f, err := parseOutputFormat("srt", "text")
	assert.NoError(t, err)
	assert.Equal(t, models.FormatText, f)
}

func TestParseOutputFormatOpenAIAliases(t *testing.T) {
	cases := map[string]models.OutputFormat{
		"verbose_json": models.FormatJSON,
		"text":         models.FormatText,
		"vtt":          models.FormatSRT,
	}
	for alias, want := range cases {
		got, err := parseOutputFormat("", alias)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseOutputFormatUnknownIsValidationError(t *testing.T) {
	_, err := parseOutputFormat("wav", "")
	assert.Error(t, err)

	_, err = parseOutputFormat("", "bogus")
	assert.Error(t, err)
}

func TestParseLanguageDefaultsToAuto(t *testing.T) {
	l, err := parseLanguage("")
	assert.NoError(t, err)
	assert.Equal(t, models.LanguageAuto, l)
}

func TestParseLanguageUnknownIsValidationError(t *testing.T) {
	_, err := parseLanguage("fr")
	assert.Error(t, err)
}

func TestParseBoolDefaultHandlesEmptyAndInvalid(t *testing.T) {
	assert.Equal(t, true, parseBoolDefault("", true))
	assert.Equal(t, false, parseBoolDefault("not-a-bool", false))
	assert.Equal(t, true, parseBoolDefault("true", false))
}
