package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Notoria Classroom API",
        "description": "Classroom management API: classrooms, enrollments, activities, submissions and chat.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login endpoints"},
        {"name": "Teachers", "description": "Teacher accounts and profiles"},
        {"name": "Students", "description": "Student accounts and self-service"},
        {"name": "Classrooms", "description": "Classroom management"},
        {"name": "Enrollments", "description": "Classroom membership"},
        {"name": "Activities", "description": "Classroom activities"},
        {"name": "Submissions", "description": "Activity submissions and grading"},
        {"name": "Chat", "description": "Teacher-student messaging"},
        {"name": "System", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["System"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["System"], "summary": "Readiness probe", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}
        },
        "/metrics": {
            "get": {"tags": ["System"], "summary": "Prometheus metrics", "responses": {"200": {"description": "OK"}}}
        },
        "/teacher": {
            "post": {
                "tags": ["Teachers"], "summary": "Register a teacher account",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterTeacherRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Email taken"}}
            }
        },
        "/teacher/login": {
            "post": {
                "tags": ["Auth"], "summary": "Teacher login",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/student/login": {
            "post": {
                "tags": ["Auth"], "summary": "Student login",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/teacher/profile": {
            "get": {"tags": ["Teachers"], "summary": "Get own profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {
                "tags": ["Teachers"], "summary": "Update own profile", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeacherProfileRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teacher/students": {
            "get": {"tags": ["Students"], "summary": "List own students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Students"], "summary": "Create a student account", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email taken"}}
            }
        },
        "/teacher/students/{studentId}": {
            "put": {
                "tags": ["Students"], "summary": "Update a student", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Students"], "summary": "Delete a student", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "studentId", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/classrooms": {
            "get": {"tags": ["Classrooms"], "summary": "List own classrooms with student counts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Classrooms"], "summary": "Create a classroom", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/classrooms/{classroomId}": {
            "get": {"tags": ["Classrooms"], "summary": "Get a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Classrooms"], "summary": "Rename a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassroomRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Classrooms"], "summary": "Delete a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/classrooms/{classroomId}/report": {
            "get": {
                "tags": ["Classrooms"], "summary": "Download the classroom score report", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classroomId", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {"200": {"description": "Report file"}}
            }
        },
        "/classrooms/{classroomId}/students": {
            "get": {"tags": ["Enrollments"], "summary": "List enrolled students", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/classrooms/{classroomId}/students/{studentId}": {
            "post": {"tags": ["Enrollments"], "summary": "Enroll a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}], "responses": {"201": {"description": "Enrolled"}, "409": {"description": "Already enrolled"}}},
            "get": {"tags": ["Enrollments"], "summary": "Get one enrolled student", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Enrollments"], "summary": "Remove a student from a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Removed"}}}
        },
        "/classrooms/{classroomId}/students/{studentId}/score": {
            "patch": {"tags": ["Enrollments"], "summary": "Update a student's classroom score", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScoreRequest"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not enrolled"}}}
        },
        "/activities/{classroomId}": {
            "post": {"tags": ["Activities"], "summary": "Post an activity", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateActivityRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/activities/{id}/activities": {
            "get": {"tags": ["Activities"], "summary": "List a classroom's activities", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/{activityId}": {
            "put": {"tags": ["Activities"], "summary": "Update an activity", "security": [{"BearerAuth": []}], "parameters": [{"name": "activityId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateActivityRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Activities"], "summary": "Delete an activity", "security": [{"BearerAuth": []}], "parameters": [{"name": "activityId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/activities/submissions": {
            "get": {"tags": ["Submissions"], "summary": "All submissions across own activities, split completed/pending", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/{id}/submissions": {
            "get": {"tags": ["Submissions"], "summary": "Activity submissions split graded/pending", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/submission/{submissionId}": {
            "get": {"tags": ["Submissions"], "summary": "Get one submission", "security": [{"BearerAuth": []}], "parameters": [{"name": "submissionId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/activities/submission/{submissionId}/grade": {
            "patch": {"tags": ["Submissions"], "summary": "Grade a submission", "security": [{"BearerAuth": []}], "parameters": [{"name": "submissionId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeSubmissionRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Cannot grade"}}}
        },
        "/activities/submissions/{classroomId}/{studentId}": {
            "get": {"tags": ["Submissions"], "summary": "One student's submissions in a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/student": {
            "get": {"tags": ["Submissions"], "summary": "All own submissions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/student/{classroomId}": {
            "get": {"tags": ["Submissions"], "summary": "Own submissions for a classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/student/{classroomId}/activities": {
            "get": {"tags": ["Activities"], "summary": "Classroom activities with own submission state", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/activities/student/{activityId}/submissions": {
            "patch": {"tags": ["Submissions"], "summary": "Submit an activity", "security": [{"BearerAuth": []}], "parameters": [{"name": "activityId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitActivityRequest"}}], "responses": {"200": {"description": "Submitted"}, "404": {"description": "No submission row"}}}
        },
        "/activities/student/activities/{activityId}/submissions": {
            "delete": {"tags": ["Submissions"], "summary": "Clear own submission back to pending", "security": [{"BearerAuth": []}], "parameters": [{"name": "activityId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "Cleared"}}}
        },
        "/student/change-password": {
            "put": {"tags": ["Students"], "summary": "Change own password", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Old password mismatch"}}}
        },
        "/student/classrooms": {
            "get": {"tags": ["Students"], "summary": "List own classrooms", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/student/classrooms/{classroomId}": {
            "get": {"tags": ["Students"], "summary": "Get one enrolled classroom", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not enrolled"}}}
        },
        "/student/mates/{classroomId}": {
            "get": {"tags": ["Students"], "summary": "List classmates", "security": [{"BearerAuth": []}], "parameters": [{"name": "classroomId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/chat": {
            "post": {"tags": ["Chat"], "summary": "Send a message", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}], "responses": {"201": {"description": "Sent"}}}
        },
        "/chat/conversations": {
            "get": {"tags": ["Chat"], "summary": "List own conversations", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/chat/conversations/{id}/messages": {
            "get": {"tags": ["Chat"], "summary": "List a conversation's messages", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not a party"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterTeacherRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "discipline": {"type": "string"},
                "educational_institution": {"type": "string"},
                "experience": {"type": "string"}
            }
        },
        "UpdateTeacherProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "discipline": {"type": "string"},
                "educational_institution": {"type": "string"},
                "experience": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            }
        },
        "CreateClassroomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        },
        "UpdateClassroomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        },
        "UpdateScoreRequest": {
            "type": "object",
            "required": ["score"],
            "properties": {"score": {"type": "number"}}
        },
        "CreateActivityRequest": {
            "type": "object",
            "required": ["title", "type"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string", "enum": ["EXERCISE", "COMPLEMENTARY_MATERIAL", "ASSIGNMENT"]},
                "due_date": {"type": "string", "format": "date-time"},
                "file_url": {"type": "string"}
            }
        },
        "UpdateActivityRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string", "enum": ["EXERCISE", "COMPLEMENTARY_MATERIAL", "ASSIGNMENT"]},
                "due_date": {"type": "string", "format": "date-time"},
                "file_url": {"type": "string"}
            }
        },
        "GradeSubmissionRequest": {
            "type": "object",
            "required": ["grade"],
            "properties": {"grade": {"type": "number"}}
        },
        "SubmitActivityRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "file_url": {"type": "string"}
            }
        },
        "SendMessageRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "student_id": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
