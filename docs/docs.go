// Package docs registers the OpenAPI description of the poll service with
// swag so the router can serve it at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/poll": {
            "get": {
                "description": "Returns {\"poll\": null} when no poll is active. The optional ward query restricts tallies to that ward.",
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Active poll with its current tallies",
                "parameters": [
                    {"type": "string", "description": "ward label", "name": "ward", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pollResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "description": "Body {\"choiceIndex\": number, \"ward\": string|null}. Unknown fields are rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Submit a vote for the active poll",
                "parameters": [
                    {"description": "vote", "name": "vote", "in": "body", "required": true, "schema": {"$ref": "#/definitions/voteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/voteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/poll/wards": {
            "get": {
                "produces": ["application/json"],
                "tags": ["poll"],
                "summary": "Active poll tallies grouped by ward",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/wardBreakdownResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/site/visit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["site"],
                "summary": "Record a page visit and return the visit total",
                "parameters": [
                    {"description": "visit", "name": "visit", "in": "body", "schema": {"$ref": "#/definitions/visitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/visitResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "optionResult": {
            "type": "object",
            "properties": {"option": {"type": "string"}, "votes": {"type": "integer"}}
        },
        "pollView": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "slug": {"type": "string"},
                "question": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "results": {"type": "array", "items": {"$ref": "#/definitions/optionResult"}},
                "total": {"type": "integer"}
            }
        },
        "pollResponse": {
            "type": "object",
            "properties": {"poll": {"$ref": "#/definitions/pollView"}}
        },
        "wardView": {
            "type": "object",
            "properties": {
                "ward": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/optionResult"}},
                "total": {"type": "integer"}
            }
        },
        "wardBreakdownResponse": {
            "type": "object",
            "properties": {
                "poll": {"$ref": "#/definitions/pollView"},
                "wards": {"type": "array", "items": {"$ref": "#/definitions/wardView"}}
            }
        },
        "voteRequest": {
            "type": "object",
            "properties": {"choiceIndex": {"type": "integer"}, "ward": {"type": "string"}}
        },
        "voteResponse": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}}
        },
        "visitRequest": {
            "type": "object",
            "properties": {"path": {"type": "string"}}
        },
        "visitResponse": {
            "type": "object",
            "properties": {"total": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RoySafi ward poll API",
	Description:      "Active poll, vote submission, ward breakdown and visit counter.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
