// Package apidocs registers the keybusd OpenAPI document with swag.
// Code generated by swaggo/swag from cmd/keybusd/docs.go and the httpapi
// handler annotations; regenerate with `make swagger-gen`.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "keybus maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/invalidate": {
            "post": {
                "description": "Notifies every subscriber whose key path is a prefix of the given one.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invalidation"],
                "summary": "Publish an invalidation",
                "parameters": [
                    {
                        "description": "Key path",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.InvalidateRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.Invalidation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/subscribe": {
            "get": {
                "description": "Streams every invalidation whose key path starts with the given key segments.",
                "produces": ["text/event-stream"],
                "tags": ["invalidation"],
                "summary": "Subscribe to invalidations",
                "parameters": [
                    {
                        "type": "array",
                        "items": {"type": "string"},
                        "collectionFormat": "multi",
                        "description": "Key path segments, in order",
                        "name": "key",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "event stream", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Hub status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {"tags": ["ops"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/readyz": {
            "get": {"tags": ["ops"], "summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "draining"}}}
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.InvalidateRequest": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "datasets"},
                "keys": {"type": "array", "items": {"type": "string"}, "example": ["datasets", "42"]}
            }
        },
        "types.Invalidation": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "0b6f1c0e-5a8e-4c1b-9d55-1d7c1b3f7a10"},
                "keys": {"type": "array", "items": {"type": "string"}, "example": ["datasets", "42"]},
                "published_at": {"type": "integer", "example": 1700000000000}
            }
        },
        "types.SubscriberStatus": {
            "type": "object",
            "properties": {
                "dropped": {"type": "integer", "example": 0},
                "id": {"type": "string", "example": "7d3b6c4a-1f0e-4d8a-8a61-2b9f8f3c5e21"},
                "keys": {"type": "array", "items": {"type": "string"}, "example": ["datasets"]},
                "pending": {"type": "integer", "example": 0},
                "since_unix": {"type": "integer", "example": 1700000000}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "deliveries_total": {"type": "integer", "example": 30},
                "draining": {"type": "boolean"},
                "drops_total": {"type": "integer", "example": 0},
                "max_subscribers": {"type": "integer", "example": 1024},
                "publishes_total": {"type": "integer", "example": 12},
                "roots": {"type": "array", "items": {"type": "string"}, "example": ["workspace", "datasets"]},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "subscribers": {"type": "array", "items": {"$ref": "#/definitions/types.SubscriberStatus"}},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "keybusd API",
	Description:      "Cache invalidation signal bus. Subscribers listen on a key path prefix and receive every invalidation published at or below it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
