// Package docs registra el OpenAPI del servicio para /swagger/*.
// Se regenera con `swag init -g cmd/api/main.go`.
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
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok", "schema": {"type": "string"}}}
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Crear cuenta",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/accounts.credentialsRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "503": {"description": "auth not configured", "schema": {"type": "string"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/accounts.credentialsRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/babies": {
            "get": {
                "tags": ["babies"],
                "summary": "Listar bebés propios y compartidos",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized", "schema": {"type": "string"}}}
            },
            "post": {
                "tags": ["babies"],
                "summary": "Crear bebé",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input", "schema": {"type": "string"}}}
            }
        },
        "/vaccines": {
            "get": {
                "tags": ["vaccines"],
                "summary": "Catálogo de vacunas",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/babies/{babyID}/vaccines/status": {
            "get": {
                "tags": ["vaccines"],
                "summary": "Estado de vacunación",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "babyID", "in": "path", "required": true},
                    {"type": "string", "description": "YYYY-MM-DD; default hoy", "name": "today", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden", "schema": {"type": "string"}}, "404": {"description": "baby not found", "schema": {"type": "string"}}}
            }
        },
        "/babies/{babyID}/vaccines/record.pdf": {
            "get": {
                "tags": ["vaccines"],
                "summary": "Cartilla de vacunación en PDF",
                "produces": ["application/pdf"],
                "parameters": [{"type": "string", "name": "babyID", "in": "path", "required": true}],
                "responses": {"200": {"description": "PDF"}}
            }
        },
        "/babies/{babyID}/measurements/chart": {
            "get": {
                "tags": ["measurements"],
                "summary": "Gráfico de mediciones",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "babyID", "in": "path", "required": true},
                    {"type": "string", "description": "height, weight o head_circumference", "name": "type", "in": "query", "required": true},
                    {"type": "string", "description": "week (default), month, six_months, year", "name": "span", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "type/span inválido", "schema": {"type": "string"}}}
            }
        },
        "/babies/{babyID}/measurements/export.xlsx": {
            "get": {
                "tags": ["measurements"],
                "summary": "Exportar mediciones",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "name": "babyID", "in": "path", "required": true}],
                "responses": {"200": {"description": "XLSX"}}
            }
        }
    },
    "definitions": {
        "accounts.credentialsRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Baby Health Tracker API",
	Description:      "Bebés, vacunas, mediciones y plan de comidas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
