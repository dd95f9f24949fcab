package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mwingi School ERP Analytics API",
        "description": "Enrollment-scoped academic analytics and promotion engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollments", "description": "Current-enrollment resolution and stream rosters"},
        {"name": "Grading", "description": "Curriculum grading scales"},
        {"name": "Analytics", "description": "Exam statistics and item analysis"},
        {"name": "Merit", "description": "Merit lists and improvement comparison"},
        {"name": "Promotions", "description": "Batch student promotion"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/enrollments/resolve": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Resolve a student's current enrollment for a period",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "string"},
                    {"name": "yearId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/streams/{id}/roster": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Currently enrolled students of a stream",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "yearId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/{curriculum}": {
            "get": {
                "tags": ["Grading"],
                "summary": "Grade bands for a curriculum",
                "parameters": [
                    {"name": "curriculum", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/{curriculum}/grade": {
            "get": {
                "tags": ["Grading"],
                "summary": "Resolve a score to a grade band",
                "parameters": [
                    {"name": "curriculum", "in": "path", "required": true, "type": "string"},
                    {"name": "score", "in": "query", "required": true, "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No band or ambiguous bands", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/subject": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Descriptive statistics for one subject in an exam",
                "parameters": [
                    {"name": "examId", "in": "query", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "streamId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/subjects": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Statistics across every subject of an exam",
                "parameters": [
                    {"name": "examId", "in": "query", "required": true, "type": "string"},
                    {"name": "streamId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/students/{id}/performance": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-subject performance for one student in an exam",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "examId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/difficulty": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Difficulty and discrimination indices for a subject",
                "parameters": [
                    {"name": "examId", "in": "query", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "streamId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Runtime metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/merit/subject": {
            "get": {
                "tags": ["Merit"],
                "summary": "Ranked merit list for one subject within a stream",
                "parameters": [
                    {"name": "examId", "in": "query", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "streamId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/merit/most-improved": {
            "get": {
                "tags": ["Merit"],
                "summary": "Students whose term average improved by at least the threshold",
                "parameters": [
                    {"name": "yearId", "in": "query", "required": true, "type": "string"},
                    {"name": "comparisonTermId", "in": "query", "required": true, "type": "string"},
                    {"name": "currentTermId", "in": "query", "required": true, "type": "string"},
                    {"name": "streamId", "in": "query", "type": "string"},
                    {"name": "threshold", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/promotions": {
            "post": {
                "tags": ["Promotions"],
                "summary": "Promote a batch of students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PromoteBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid descriptor or oversized batch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "PromoteBatchRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "string"}},
                "from_stream_id": {"type": "string"},
                "from_year_id": {"type": "string"},
                "to_stream_id": {"type": "string"},
                "to_year_id": {"type": "string"},
                "to_term_id": {"type": "string"}
            },
            "required": ["student_ids", "from_stream_id", "from_year_id", "to_stream_id", "to_year_id", "to_term_id"]
        },
        "PromotionBatchResult": {
            "type": "object",
            "properties": {
                "attempted": {"type": "integer"},
                "promoted": {"type": "integer"},
                "failed": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "failure_details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
