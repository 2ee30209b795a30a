// Package docs is generated by swaggo/swag. Regenerate with `swag init -g cmd/api/main.go`.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/admin/moderation": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Moderate an app",
                "responses": {
                    "202": {"description": "Accepted"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/admin/moderation/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Moderate apps in batch",
                "responses": {
                    "202": {"description": "Accepted"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/apps": {
            "get": {
                "produces": ["application/json"],
                "tags": ["apps"],
                "summary": "List approved apps",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["apps"],
                "summary": "Submit an app for review",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/apps/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["apps"],
                "summary": "Get an app",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["apps"],
                "summary": "Update an app",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            },
            "delete": {
                "tags": ["apps"],
                "summary": "Delete an app",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/apps/{id}/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "List reviews of an app",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Review an app",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/me/apps": {
            "get": {
                "produces": ["application/json"],
                "tags": ["apps"],
                "summary": "List own submissions",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/reviews/{id}": {
            "delete": {
                "tags": ["reviews"],
                "summary": "Delete a review",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"}
                }
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
	Title:            "AppFounders Marketplace API",
	Description:      "Marketplace for app developers and testers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
