// Package docs registers the OpenAPI description of the REST API with swag.
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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "summary": "Author login",
                "tags": ["auth"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "token issued"}, "401": {"description": "invalid credentials"}}
            }
        },
        "/assessments/{jobId}": {
            "get": {
                "summary": "Fetch the assessment for a job, or a new empty one",
                "tags": ["assessments"],
                "security": [{"Bearer": []}],
                "parameters": [{"in": "path", "name": "jobId", "type": "string", "required": true}],
                "responses": {"200": {"description": "assessment", "schema": {"$ref": "#/definitions/Assessment"}}}
            },
            "put": {
                "summary": "Replace the assessment for a job",
                "tags": ["assessments"],
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "path", "name": "jobId", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Assessment"}}
                ],
                "responses": {"200": {"description": "saved"}, "422": {"description": "authoring errors"}}
            }
        },
        "/assessments/{jobId}/check": {
            "post": {
                "summary": "Run the authoring checks on a draft assessment without saving",
                "tags": ["assessments"],
                "security": [{"Bearer": []}],
                "responses": {"200": {"description": "authoring report"}}
            }
        },
        "/assessments/{jobId}/sections": {
            "post": {"summary": "Add a section", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"201": {"description": "created"}}}
        },
        "/assessments/{jobId}/sections/reorder": {
            "post": {"summary": "Move a section", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "reordered"}}}
        },
        "/assessments/{jobId}/sections/{sectionId}": {
            "put": {"summary": "Update a section", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "updated"}}},
            "delete": {"summary": "Delete a section", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "deleted"}}}
        },
        "/assessments/{jobId}/sections/{sectionId}/questions": {
            "post": {"summary": "Add a question", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"201": {"description": "created"}}}
        },
        "/assessments/{jobId}/sections/{sectionId}/questions/reorder": {
            "post": {"summary": "Move a question inside a section", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "reordered"}}}
        },
        "/assessments/{jobId}/sections/{sectionId}/questions/{questionId}": {
            "put": {"summary": "Update a question", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "updated"}}},
            "delete": {"summary": "Delete a question", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "deleted"}}}
        },
        "/assessments/{jobId}/questions/{questionId}/dependencies": {
            "get": {"summary": "Questions a conditional rule may depend on", "tags": ["builder"], "security": [{"Bearer": []}], "responses": {"200": {"description": "candidate dependencies"}}}
        },
        "/assessments/{assessmentId}/invites": {
            "post": {"summary": "Issue a candidate token", "tags": ["responses"], "security": [{"Bearer": []}], "responses": {"201": {"description": "invite"}}}
        },
        "/assessments/{assessmentId}/progress": {
            "get": {"summary": "Candidate completion board", "tags": ["responses"], "security": [{"Bearer": []}], "responses": {"200": {"description": "progress entries"}}}
        },
        "/assessments/{assessmentId}/responses": {
            "get": {"summary": "Submitted responses for an assessment", "tags": ["responses"], "security": [{"Bearer": []}], "responses": {"200": {"description": "responses"}}}
        },
        "/candidates/{candidateId}/responses": {
            "get": {"summary": "Submitted responses of a candidate", "tags": ["responses"], "security": [{"Bearer": []}], "responses": {"200": {"description": "responses"}}}
        },
        "/respond/state": {
            "get": {"summary": "Visible questions, progress and answer results", "tags": ["respond"], "security": [{"Bearer": []}], "responses": {"200": {"description": "form state"}}}
        },
        "/respond/answers/{questionId}": {
            "put": {"summary": "Save one answer", "tags": ["respond"], "security": [{"Bearer": []}], "responses": {"200": {"description": "answer result"}, "404": {"description": "unknown question"}}}
        },
        "/respond/sections/{sectionId}/validate": {
            "post": {"summary": "Validate one section before moving on", "tags": ["respond"], "security": [{"Bearer": []}], "responses": {"200": {"description": "section check"}}}
        },
        "/respond/submit": {
            "post": {"summary": "Submit the response", "tags": ["respond"], "security": [{"Bearer": []}], "responses": {"201": {"description": "submitted"}, "409": {"description": "already submitted"}, "422": {"description": "blocking errors"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "Assessment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "jobId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/Section"}}
            }
        },
        "Section": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "order": {"type": "integer"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/Question"}}
            }
        },
        "Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["text", "longtext", "single", "multiple", "numeric", "file"]},
                "title": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "required": {"type": "boolean"},
                "order": {"type": "integer"},
                "validation": {"type": "object"},
                "conditional": {
                    "type": "object",
                    "properties": {
                        "dependsOn": {"type": "string"},
                        "showWhen": {"type": "string", "enum": ["equals", "not_equals", "contains"]},
                        "value": {}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "TalentFlow Assessment API",
	Description:      "Assessment authoring, conditional visibility and response validation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
