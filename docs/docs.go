// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {"get": {"tags": ["health"], "summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "dependency unavailable"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases": {
            "get": {"tags": ["cases"], "summary": "List cases", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "limit", "type": "integer", "default": 50}, {"in": "query", "name": "offset", "type": "integer", "default": 0}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CaseListResult"}}}},
            "post": {"tags": ["cases"], "summary": "Create case", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/createCaseRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Case"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorPayload"}}}}
        },
        "/cases/{id}": {"get": {"tags": ["cases"], "summary": "Get case", "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Case"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/evidence": {"post": {"tags": ["evidence"], "summary": "Upload evidence", "consumes": ["multipart/form-data"], "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "formData", "name": "files", "type": "file", "required": true}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Case"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorPayload"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/evidence/{eid}/content": {"get": {"tags": ["evidence"], "summary": "Evidence content", "produces": ["application/octet-stream"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "path", "name": "eid", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/evidence/{eid}/url": {"get": {"tags": ["evidence"], "summary": "Evidence download URL", "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "path", "name": "eid", "type": "string", "required": true}, {"in": "query", "name": "expiry", "type": "integer", "default": 900}],
            "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/analysis/estimate": {"post": {"tags": ["analysis"], "summary": "Estimate analysis cost", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/analysisRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Estimate"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/analysis": {"post": {"tags": ["analysis"], "summary": "Analyze evidence", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "query", "name": "wait", "type": "boolean"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/analysisRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.BatchReport"}}, "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/service.Estimate"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}, "409": {"description": "Not confirmed", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/search": {"post": {"tags": ["search"], "summary": "Search evidence", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/searchRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SearchResult"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}},
        "/cases/{id}/report.pdf": {"get": {"tags": ["cases"], "summary": "Case PDF report", "produces": ["application/pdf"],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorPayload"}}}}}
    },
    "definitions": {
        "errorPayload": {"type": "object", "properties": {"request_id": {"type": "string"}, "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}}},
        "loginRequest": {"type": "object", "properties": {"email": {"type": "string"}}},
        "createCaseRequest": {"type": "object", "properties": {"name": {"type": "string"}}},
        "analysisRequest": {"type": "object", "properties": {"evidence_ids": {"type": "array", "items": {"type": "string"}}, "confirm": {"type": "boolean"}}},
        "searchRequest": {"type": "object", "properties": {"query": {"type": "string"}}},
        "model.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string", "enum": ["Investigator", "Admin"]}}},
        "model.DetectedObject": {"type": "object", "properties": {"name": {"type": "string"}, "confidence": {"type": "number"}, "timestamp": {"type": "string"}}},
        "model.Entity": {"type": "object", "properties": {"type": {"type": "string"}, "value": {"type": "string"}, "confidence": {"type": "number"}, "location": {"type": "string"}}},
        "model.AnalysisResult": {"type": "object", "properties": {"fileId": {"type": "string"}, "summary": {"type": "string"},
            "objects": {"type": "array", "items": {"$ref": "#/definitions/model.DetectedObject"}},
            "entities": {"type": "array", "items": {"$ref": "#/definitions/model.Entity"}},
            "ocrText": {"type": "string"}, "transcription": {"type": "string"}}},
        "model.EvidenceFile": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "type": {"type": "string"}, "size": {"type": "integer"},
            "content_ref": {"type": "string"}, "uploaded_at": {"type": "string", "format": "date-time"},
            "status": {"type": "string", "enum": ["Not Started", "Pending Analysis", "Analyzing", "Completed", "Failed"]},
            "analysis_result": {"$ref": "#/definitions/model.AnalysisResult"}}},
        "model.Case": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "created_at": {"type": "string", "format": "date-time"},
            "storage_label": {"type": "string"}, "evidence": {"type": "array", "items": {"$ref": "#/definitions/model.EvidenceFile"}}}},
        "service.CaseListResult": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.Case"}}, "total": {"type": "integer"}}},
        "service.Estimate": {"type": "object", "properties": {"case_id": {"type": "string"}, "evidence_ids": {"type": "array", "items": {"type": "string"}}, "count": {"type": "integer"}, "cost": {"type": "number"}, "display": {"type": "string"}}},
        "analysis.Outcome": {"type": "object", "properties": {"evidence_id": {"type": "string"}, "result": {"$ref": "#/definitions/model.AnalysisResult"}, "error": {"type": "string"}}},
        "service.BatchReport": {"type": "object", "properties": {"estimate": {"$ref": "#/definitions/service.Estimate"}, "outcomes": {"type": "array", "items": {"$ref": "#/definitions/analysis.Outcome"}}, "completed": {"type": "integer"}, "failed": {"type": "integer"}}},
        "service.SearchResult": {"type": "object", "properties": {"query": {"type": "string"}, "keywords": {"type": "array", "items": {"type": "string"}}, "fallback": {"type": "boolean"},
            "results": {"type": "array", "items": {"$ref": "#/definitions/model.AnalysisResult"}}, "evidence_ids": {"type": "array", "items": {"type": "string"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Evidence API",
	Description:      "Case management, evidence upload, AI analysis and search for digital evidence triage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
