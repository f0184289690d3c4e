// Package docs registers the Taskcrafter API description with swag.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
    "tags": [
        {"name": "Tasks", "description": "Task mutations"},
        {"name": "Queries", "description": "Filtering, deadlines and statistics"},
        {"name": "Sync", "description": "Relay connection status"}
    ],
    "paths": {
        "/tasks": {
            "get": {"tags": ["Queries"], "summary": "List tasks", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["Tasks"], "summary": "Create a task", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get a task", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Tasks"], "summary": "Patch a task", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Tasks"], "summary": "Delete a task", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/tasks/{id}/toggle": {
            "post": {"tags": ["Tasks"], "summary": "Flip a task's completion flag", "responses": {"200": {"description": "OK"}}}
        },
        "/tasks/{id}/duplicate": {
            "post": {"tags": ["Tasks"], "summary": "Copy a task under a new id", "responses": {"201": {"description": "Created"}}}
        },
        "/tasks/{id}/dependencies/{dependency_id}": {
            "post": {"tags": ["Tasks"], "summary": "Make a task depend on another", "responses": {"200": {"description": "OK"}, "409": {"description": "Would create a cycle"}}}
        },
        "/tasks/clear-completed": {
            "post": {"tags": ["Tasks"], "summary": "Delete every completed task", "responses": {"200": {"description": "OK"}}}
        },
        "/deadlines/upcoming": {
            "get": {"tags": ["Queries"], "summary": "Tasks due within the next N days", "responses": {"200": {"description": "OK"}}}
        },
        "/stats": {
            "get": {"tags": ["Queries"], "summary": "Collection statistics", "responses": {"200": {"description": "OK"}}}
        },
        "/sync": {
            "get": {"tags": ["Sync"], "summary": "Relay connection state and time of the last remote update", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Taskcrafter API",
	Description:      "Task store with filtering, deadlines and cross-session change relay.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
