// Package docs registers the OpenAPI description of the HTTP API with swag,
// which gofiber/swagger serves under /swagger. Keep it in step with the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/extractions": {
            "post": {
                "description": "Upload a PDF, JPG or PNG list and get the normalized code|value table",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["extractions"],
                "summary": "Extract EAN codes and quantities",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document file (pdf, jpg, jpeg, png)",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ExtractionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/extractions/download": {
            "post": {
                "description": "Same as CreateExtraction but returns the table as a text/plain attachment",
                "consumes": ["multipart/form-data"],
                "produces": ["text/plain"],
                "tags": ["extractions"],
                "summary": "Extract and download as text",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document file (pdf, jpg, jpeg, png)",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "code|value lines", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/model": {
            "get": {
                "description": "Returns the model chosen for extractions in this process",
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Resolved model",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ModelResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dto.ExtractionResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "deviations": {"type": "array", "items": {"$ref": "#/definitions/models.Deviation"}},
                "download_name": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "file_name": {"type": "string"},
                "id": {"type": "string"},
                "instruction_version": {"type": "string"},
                "kind": {"type": "string"},
                "model": {"type": "string"},
                "records": {"type": "array", "items": {"$ref": "#/definitions/models.Record"}},
                "text": {"type": "string"}
            }
        },
        "dto.ModelResponse": {
            "type": "object",
            "properties": {
                "fallback": {"type": "boolean"},
                "model": {"type": "string"},
                "provider": {"type": "string"}
            }
        },
        "models.Deviation": {
            "type": "object",
            "properties": {
                "line": {"type": "integer"},
                "reason": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "models.Record": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "value": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EAN Extractor API",
	Description:      "Extracts EAN code and quantity pairs from document images and PDFs with a hosted multimodal model",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
