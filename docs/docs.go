// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/auth/chat/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Decrypted chat history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HistoryResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/chat/message": {
            "post": {
                "description": "Replies with the assistant message. An expired guest gets the expiry notice instead.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Send a chat message",
                "parameters": [
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChatMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/chat/mode": {
            "post": {
                "description": "Clears the history and stores one confirmation turn.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Choose listen or talk mode",
                "parameters": [
                    {"description": "Mode", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ModeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ModeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/chat/start": {
            "post": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Reset the chat and offer the modes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StartResponse"}}
                }
            }
        },
        "/auth/guest/status": {
            "get": {
                "description": "The first poll after expiry appends the expiry notice to the history and returns it.",
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Guest timer status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GuestStatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in and bind the browser session to the user",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Clear the session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"description": "Signup data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.ChatMessageRequest": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.ChatMessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "mode": {"type": "string"}}
        },
        "handler.GuestStatusResponse": {
            "type": "object",
            "properties": {
                "expiration_message": {"type": "string"},
                "expired": {"type": "boolean"},
                "guest_mode": {"type": "string"},
                "minutes_remaining": {"type": "integer"},
                "remaining_time": {"type": "number"},
                "seconds_remaining": {"type": "integer"},
                "show_expiration_message": {"type": "boolean"}
            }
        },
        "handler.HistoryEntry": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "role": {"type": "string"}, "timestamp": {"type": "string"}}
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/handler.HistoryEntry"}}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.LoginResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/model.UserSummary"}}
        },
        "handler.MeResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/model.UserSummary"}}
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.ModeRequest": {
            "type": "object",
            "properties": {"mode": {"type": "string"}}
        },
        "handler.ModeResponse": {
            "type": "object",
            "properties": {"confirmation": {"type": "string"}, "message": {"type": "string"}, "mode": {"type": "string"}}
        },
        "handler.SignupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "maxLength": 120},
                "first_name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72}
            }
        },
        "handler.StartResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string"}
            }
        },
        "model.UserSummary": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "first_name": {"type": "string"}, "id": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Neurochat API",
	Description:      "Guest and account chat sessions with listen and talk modes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
