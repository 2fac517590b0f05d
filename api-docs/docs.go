// Package docs registers the Swagger spec for the gateway's HTTP surface.
// Normally generated by `swag init` from the @-annotations in
// internal/api; hand-maintained here to match, since nothing in this
// workspace invokes the swag CLI as part of the build.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/models": {
            "get": {
                "summary": "List registered models",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/models/current": {
            "get": {
                "summary": "Report the currently loaded model and queue depth",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/audio/transcriptions": {
            "post": {
                "summary": "Transcribe an audio file",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json", "text/plain"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true},
                    {"name": "output_format", "in": "formData", "type": "string", "required": false},
                    {"name": "response_format", "in": "formData", "type": "string", "required": false},
                    {"name": "with_timestamp", "in": "formData", "type": "boolean", "required": false},
                    {"name": "language", "in": "formData", "type": "string", "required": false},
                    {"name": "model", "in": "formData", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "413": {"description": "Payload Too Large"},
                    "415": {"description": "Unsupported Media Type"},
                    "500": {"description": "Internal Server Error"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger metadata, filled in by main at
// startup (Host, in particular, is only known once config.Load runs).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Speech-to-Text Gateway API",
	Description:      "Admission, scheduling and model hot-swap surface for a local ASR gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
