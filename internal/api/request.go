package api

import (
	"fmt"
	"strconv"
	"strings"

	"sttgateway/internal/models"
)

// responseFormatAlias maps the OpenAI-compatible `response_format` values
// onto the closed output_format set, per spec.md §6. response_format, when
// present, overrides output_format entirely.
var responseFormatAlias = map[string]models.OutputFormat{
	"verbose_json": models.FormatJSON,
	"json":         models.FormatJSON,
	"text":         models.FormatText,
	"vtt":          models.FormatSRT,
	"srt":          models.FormatSRT,
}

// parseOutputFormat resolves output_format/response_format per spec.md §6
// and §9 ("tagged unions / enums; unknown values are validation errors, not
// silent defaults"). An unrecognized string is rejected rather than
// defaulted.
func parseOutputFormat(outputFormat, responseFormat string) (models.OutputFormat, error) {
	if responseFormat != "" {
		f, ok := responseFormatAlias[strings.ToLower(responseFormat)]
		if !ok {
			return "", fmt.Errorf("unknown response_format %q", responseFormat)
		}
		return f, nil
	}
	if outputFormat == "" {
		return models.FormatJSON, nil
	}
	switch models.OutputFormat(strings.ToLower(outputFormat)) {
	case models.FormatJSON:
		return models.FormatJSON, nil
	case models.FormatText:
		return models.FormatText, nil
	case models.FormatSRT:
		return models.FormatSRT, nil
	default:
		return "", fmt.Errorf("unknown output_format %q", outputFormat)
	}
}

// parseLanguage resolves the closed language set. Missing defaults to
// auto; anything else unrecognized is a validation error.
func parseLanguage(language string) (models.Language, error) {
	if language == "" {
		return models.LanguageAuto, nil
	}
	switch models.Language(strings.ToLower(language)) {
	case models.LanguageZH:
		return models.LanguageZH, nil
	case models.LanguageEN:
		return models.LanguageEN, nil
	case models.LanguageAuto:
		return models.LanguageAuto, nil
	default:
		return "", fmt.Errorf("unknown language %q", language)
	}
}

// parseBoolDefault mirrors the teacher's getFormBoolWithDefault: empty
// string keeps the default, a present-but-unparseable value also keeps it
// rather than failing the request over a cosmetic form field.
func parseBoolDefault(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
