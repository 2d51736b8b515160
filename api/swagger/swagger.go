package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Edge API",
        "description": "Edge gateway in front of the LMS REST API: catalog caching, cart and checkout, back-office passthrough",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Public course catalog"},
        {"name": "Cart", "description": "Per-user shopping cart"},
        {"name": "Checkout", "description": "Staged checkout and receipts"},
        {"name": "Learning", "description": "Enrollments, progress and seat sharing"},
        {"name": "QuizBuilder", "description": "In-memory quiz drafting"},
        {"name": "Subscriptions", "description": "Subscription plan catalog"},
        {"name": "Admin", "description": "Back-office course and plan management"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [
                    {"name": "query", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "difficulty", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course detail with resolved pricing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "for", "in": "query", "type": "string", "description": "Pricing audience hint"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/modules": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List a course's modules",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/rating": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Rate a course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RateRequest"}}
                ],
                "responses": {
                    "204": {"description": "Rated"},
                    "400": {"description": "Invalid rating", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscriptions": {
            "get": {
                "tags": ["Subscriptions"],
                "summary": "List subscription plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscriptions/{id}": {
            "get": {
                "tags": ["Subscriptions"],
                "summary": "Get a subscription plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscriptions/{id}/courses": {
            "get": {
                "tags": ["Subscriptions"],
                "summary": "List courses included in a plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cart": {
            "get": {
                "tags": ["Cart"],
                "summary": "View the current user's cart",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Clear the cart",
                "security": [{"Bearer": []}],
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/cart/items": {
            "post": {
                "tags": ["Cart"],
                "summary": "Add a course to the cart",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Added", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Course has no pricing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cart/items/{itemId}": {
            "put": {
                "tags": ["Cart"],
                "summary": "Change an item's quantity",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "itemId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateQuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Remove an item",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "itemId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "tags": ["Checkout"],
                "summary": "Start a cart checkout",
                "security": [{"Bearer": []}],
                "responses": {
                    "202": {"description": "Session created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Checkout already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Cart is empty", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/checkout/subscription": {
            "post": {
                "tags": ["Checkout"],
                "summary": "Start a subscription checkout",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartSubscriptionRequest"}}
                ],
                "responses": {
                    "202": {"description": "Session created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/checkout/{id}": {
            "get": {
                "tags": ["Checkout"],
                "summary": "Poll a checkout session",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the session owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/receipts/{token}": {
            "get": {
                "tags": ["Checkout"],
                "summary": "Download a receipt by signed token",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        },
        "/learnings": {
            "get": {
                "tags": ["Learning"],
                "summary": "List the current user's enrollments",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learnings/{enrollmentId}/share": {
            "post": {
                "tags": ["Learning"],
                "summary": "Share enrollment seats",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "enrollmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShareRequest"}}
                ],
                "responses": {
                    "204": {"description": "Shared"},
                    "412": {"description": "Not enough seats left", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/modules/{id}/progress": {
            "get": {
                "tags": ["Learning"],
                "summary": "Get module completion progress",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/progress": {
            "put": {
                "tags": ["Learning"],
                "summary": "Toggle a material's completion status",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/quiz-builder/sessions": {
            "post": {
                "tags": ["QuizBuilder"],
                "summary": "Open a quiz builder session",
                "security": [{"Bearer": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/status": {
            "get": {
                "tags": ["Admin"],
                "summary": "Aggregate gateway metrics snapshot",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/courses": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a course",
                "security": [{"Bearer": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/courses/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the catalog as CSV",
                "security": [{"Bearer": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV"}
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "RateRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5}
            }
        },
        "AddItemRequest": {
            "type": "object",
            "required": ["course_id", "access_type"],
            "properties": {
                "course_id": {"type": "string"},
                "access_type": {"type": "string", "enum": ["individual", "institution", "corporate"]},
                "assign_limit": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "UpdateQuantityRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "minimum": 1}
            }
        },
        "StartSubscriptionRequest": {
            "type": "object",
            "required": ["subscription_id"],
            "properties": {
                "subscription_id": {"type": "string"}
            }
        },
        "ShareRequest": {
            "type": "object",
            "required": ["emails"],
            "properties": {
                "emails": {"type": "array", "items": {"type": "string"}}
            }
        },
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
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
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
