// Package docs registers the OpenAPI document served at /swagger.
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
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms": {
            "get": {
                "tags": ["rooms"],
                "summary": "All room statuses",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/room/{id}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Single room status",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/rooms/floor/{floor}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Room statuses on a floor",
                "parameters": [{"type": "integer", "name": "floor", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/rooms/type/{type}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Room statuses of a type",
                "parameters": [{"type": "string", "name": "type", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms/{id}/temperature": {
            "put": {
                "tags": ["rooms"],
                "summary": "Set target temperature",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"temperature": {"type": "number"}}}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/topology": {
            "get": {
                "tags": ["topology"],
                "summary": "House topology",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/topology/rooms/{type}": {
            "post": {
                "tags": ["topology"],
                "summary": "Add room",
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "floor": {"type": "integer"}}}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/topology/rooms/{id}": {
            "put": {
                "tags": ["topology"],
                "summary": "Update room",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"name": {"type": "string"}, "floor": {"type": "integer"}}}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["topology"],
                "summary": "Delete room",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/control/stop": {
            "post": {
                "tags": ["control"],
                "summary": "Stop the system",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"timestamp": {"type": "string"}, "token": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/control/restart": {
            "post": {
                "tags": ["control"],
                "summary": "Restart the system",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"timestamp": {"type": "string"}, "token": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "tags": ["logs"],
                "summary": "List action log entries",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Home Temperature Control API",
	Description:      "Per-room temperature monitoring and heater control.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
