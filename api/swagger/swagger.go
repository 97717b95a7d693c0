package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Formdesk API",
        "description": "Bank form intake and admin review",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Admin sessions"},
        {"name": "Forms", "description": "Public form catalog and intake"},
        {"name": "Admin", "description": "Submission review"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current admin",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminInfo"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Acknowledged"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/forms": {
            "get": {
                "tags": ["Forms"],
                "summary": "List forms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FormCatalogResponse"}}
                }
            }
        },
        "/submissions": {
            "post": {
                "tags": ["Forms"],
                "summary": "Submit a filled form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Saved", "schema": {"$ref": "#/definitions/SubmitResponse"}},
                    "400": {"description": "Malformed JSON", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/submissions": {
            "get": {
                "tags": ["Admin"],
                "summary": "Search submissions by account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "accountNumber", "in": "query", "type": "string", "required": true},
                    {"name": "formType", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmissionListResponse"}},
                    "400": {"description": "Account number is required", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/submissions/comments": {
            "post": {
                "tags": ["Admin"],
                "summary": "Update official comments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCommentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UpdateCommentsResponse"}},
                    "400": {"description": "Submission ID is required", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Submission not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/submissions/{id}/audit": {
            "get": {
                "tags": ["Admin"],
                "summary": "Audit history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuditHistoryResponse"}},
                    "404": {"description": "Submission not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/submissions/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export submissions",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "accountNumber", "in": "query", "type": "string", "required": true},
                    {"name": "formType", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AdminInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/AdminInfo"}
            }
        },
        "SubmitResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "Submission": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "formType": {"type": "string"},
                "accountNumber": {"type": "string"},
                "submittedAt": {"type": "string", "format": "date-time"},
                "formData": {"type": "object"},
                "officialComments": {"type": "string"},
                "lastUpdatedBy": {"type": "string"},
                "lastUpdatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"}
            }
        },
        "SubmissionListResponse": {
            "type": "object",
            "properties": {
                "submissions": {"type": "array", "items": {"$ref": "#/definitions/Submission"}},
                "total": {"type": "integer"},
                "accountNumber": {"type": "string"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "UpdateCommentsRequest": {
            "type": "object",
            "required": ["submissionId"],
            "properties": {
                "submissionId": {"type": "string"},
                "comments": {"type": "string"}
            }
        },
        "UpdateCommentsResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "updatedAt": {"type": "string", "format": "date-time"},
                "updatedBy": {"type": "string"},
                "auditId": {"type": "string"}
            }
        },
        "AuditEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "submissionId": {"type": "string"},
                "adminId": {"type": "string"},
                "adminName": {"type": "string"},
                "action": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "oldValue": {"type": "string"},
                "newValue": {"type": "string"}
            }
        },
        "AuditHistoryResponse": {
            "type": "object",
            "properties": {
                "submissionId": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/AuditEntry"}},
                "total": {"type": "integer"}
            }
        },
        "FormCatalogResponse": {
            "type": "object",
            "properties": {
                "forms": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"}
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
