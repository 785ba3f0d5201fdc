// Package docs registers the console's OpenAPI document with swag.
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
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/connect/initiate": {
            "get": {
                "tags": ["Connector"],
                "summary": "Start the Messenger OAuth flow",
                "parameters": [
                    {"type": "string", "name": "domain", "in": "query", "required": true},
                    {"type": "string", "name": "license_key", "in": "query", "required": true},
                    {"type": "string", "name": "redirect_uri", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect to Facebook or back to the plugin"},
                    "400": {"description": "No redirect target"}
                }
            }
        },
        "/connect/callback": {
            "get": {
                "tags": ["Connector"],
                "summary": "Facebook OAuth callback",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query"},
                    {"type": "string", "name": "state", "in": "query"},
                    {"type": "string", "name": "error", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect back to the plugin"},
                    "400": {"description": "Missing or invalid state"}
                }
            }
        },
        "/connect/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Connector"],
                "summary": "Messenger connection status",
                "parameters": [
                    {"type": "string", "name": "license_key", "in": "query", "required": true},
                    {"type": "string", "name": "domain", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing license_key or domain"},
                    "404": {"description": "Website not found"}
                }
            }
        },
        "/connect/disconnect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Connector"],
                "summary": "Disconnect Messenger",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing license key or domain"},
                    "404": {"description": "Website not found"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Staff login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid email or password"}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current staff user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/dashboard": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Console overview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/plans": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Websites"],
                "summary": "Plan catalog",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/websites": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Websites"],
                "summary": "List websites",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Websites"],
                "summary": "Create website",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Domain already exists"}
                }
            }
        },
        "/api/admin/websites/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Get website",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Website not found"}}
            },
            "patch": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Update website",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Delete website",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/admin/websites/{id}/credits": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Add or deduct credits",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/websites/{id}/credits/reset": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Reset credits",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/websites/{id}/sync": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Push credits to the credits backend",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Credits backend failure"}}
            }
        },
        "/api/admin/websites/{id}/renew": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Renew subscription",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/websites/{id}/license-key": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Websites"],
                "summary": "Regenerate license key",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/websites/{id}/usage-logs": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Logs"],
                "summary": "Usage logs held by the credits backend",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Credits backend failure"}}
            }
        },
        "/api/admin/logs": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Logs"],
                "summary": "List admin logs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/usage-logs": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Logs"],
                "summary": "List usage logs stored by the console",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "NS AI Search Console API",
	Description:      "Website, credits and Messenger connector administration for NS AI Search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
