package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Agency Pulse API",
        "description": "Client scoring and prioritization API for agency workspaces",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Clients", "description": "Client roster, activity, hours and portal messages"},
        {"name": "Scoring", "description": "Health scores and profitability views"},
        {"name": "Alerts", "description": "Aggregated alert feed"},
        {"name": "Tasks", "description": "Tasks and the ranked work queue"},
        {"name": "Finance", "description": "Financial summary, capacity, costs and settings"},
        {"name": "Reports", "description": "Report rendering and signed downloads"},
        {"name": "Metrics", "description": "Runtime metrics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/clients": {
            "get": {
                "tags": ["Clients"],
                "summary": "List clients",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated client list"}
                }
            },
            "post": {
                "tags": ["Clients"],
                "summary": "Create client",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Client created"}
                }
            }
        },
        "/clients/health": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Health scores for all clients",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Health score list"}
                }
            }
        },
        "/clients/{id}/health": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Client health score",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Health score with contributing factors"},
                    "404": {"description": "Client not found"}
                }
            }
        },
        "/clients/{id}/profitability": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Client profitability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "month", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Margin breakdown for the month"},
                    "404": {"description": "Client not found"}
                }
            }
        },
        "/alerts": {
            "get": {
                "tags": ["Alerts"],
                "summary": "List active alerts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Alerts, urgent first"}
                }
            }
        },
        "/tasks/queue": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Ranked task queue",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Open tasks ordered by urgency score"}
                }
            }
        },
        "/finance/summary": {
            "get": {
                "tags": ["Finance"],
                "summary": "Monthly financial summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Revenue, costs and net profit"}
                }
            }
        },
        "/reports/profitability": {
            "get": {
                "tags": ["Reports"],
                "summary": "Render profitability report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "month", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Signed download link"}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a rendered report",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
