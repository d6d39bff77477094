package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy Admin API",
        "description": "Course enrollment administration with a five step enrollment wizard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Wizard", "description": "Enrollment wizard sessions"},
        {"name": "Enrollment", "description": "Enrollment configuration collaborators"},
        {"name": "Assignments", "description": "Finalized course assignments"},
        {"name": "Students", "description": "Student catalog"},
        {"name": "Courses", "description": "Course catalog"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Start a new enrollment wizard session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}": {
            "get": {
                "tags": ["Wizard"],
                "summary": "Fetch a wizard session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Wizard"],
                "summary": "Discard a wizard session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/wizard/sessions/{id}/person": {
            "put": {
                "tags": ["Wizard"],
                "summary": "Choose the enrollee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonRef"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/course": {
            "put": {
                "tags": ["Wizard"],
                "summary": "Choose the course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/configuration": {
            "put": {
                "tags": ["Wizard"],
                "summary": "Configure facility, age group, session and location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfigureRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/payment": {
            "put": {
                "tags": ["Wizard"],
                "summary": "Record payment status and amount",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/advance": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Move one step forward",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/retreat": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Move one step backward",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/jump": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Jump to a specific step",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JumpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/finalize": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Submit the completed enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/sessions/{id}/reset": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Reset a wizard session to its first step",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/eligibility": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Evaluate a student's age eligibility for a course",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "string"},
                    {"name": "courseId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/default-facility": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Suggest a facility from the student's enrollment history",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/availability": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Match a facility against a requested configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/pricing": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Compute the price breakdown for a configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PricingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/coupons/validate": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Validate a coupon code against a subtotal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CouponCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/facilities": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "List facilities able to host a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List course assignments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "facilityId", "in": "query", "type": "string"},
                    {"name": "paymentStatus", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create a course assignment directly",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/export": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Export the filtered assignment list as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "facilityId", "in": "query", "type": "string"},
                    {"name": "paymentStatus", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Fetch one assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/receipt": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Issue a signed download link for a receipt",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a new student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "PersonRef": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["existing", "draft"]},
                "existing_id": {"type": "string"},
                "draft": {"$ref": "#/definitions/DraftPerson"}
            },
            "required": ["kind"]
        },
        "DraftPerson": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "birth_date": {"type": "string"}
            }
        },
        "SelectCourseRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"}
            },
            "required": ["course_id"]
        },
        "ConfigureRequest": {
            "type": "object",
            "properties": {
                "facility_id": {"type": "string"},
                "age_group": {"type": "string"},
                "session_type": {"type": "string", "enum": ["private", "group", "school_group"]},
                "location_type": {"type": "string", "enum": ["our-facility", "client-location", "virtual"]},
                "coupon_code": {"type": "string"}
            },
            "required": ["facility_id", "age_group", "session_type", "location_type"]
        },
        "PaymentRequest": {
            "type": "object",
            "properties": {
                "payment_status": {"type": "string", "enum": ["unpaid", "partially_paid", "fully_paid"]},
                "payment_amount": {"type": "integer"}
            },
            "required": ["payment_status"]
        },
        "JumpRequest": {
            "type": "object",
            "properties": {
                "step": {"type": "string"}
            },
            "required": ["step"]
        },
        "AvailabilityRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "facility_id": {"type": "string"},
                "age_group": {"type": "string"},
                "session_type": {"type": "string"},
                "location_type": {"type": "string"}
            },
            "required": ["course_id", "facility_id", "age_group", "session_type", "location_type"]
        },
        "PricingRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "facility_id": {"type": "string"},
                "age_group": {"type": "string"},
                "session_type": {"type": "string"},
                "location_type": {"type": "string"},
                "coupon_code": {"type": "string"}
            },
            "required": ["course_id", "facility_id", "age_group", "session_type", "location_type"]
        },
        "CouponCheckRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "course_id": {"type": "string"},
                "facility_id": {"type": "string"},
                "subtotal": {"type": "integer"}
            },
            "required": ["code", "course_id", "facility_id", "subtotal"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "person": {"$ref": "#/definitions/PersonRef"},
                "course_id": {"type": "string"},
                "facility_id": {"type": "string"},
                "age_group": {"type": "string"},
                "session_type": {"type": "string"},
                "location_type": {"type": "string"},
                "coupon_code": {"type": "string"},
                "payment_status": {"type": "string"},
                "payment_amount": {"type": "integer"}
            },
            "required": ["person", "course_id", "facility_id", "age_group", "session_type", "location_type", "payment_status"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "registration_code": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "birth_date": {"type": "string"}
            },
            "required": ["full_name", "birth_date"]
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
