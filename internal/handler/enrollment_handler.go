package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// EnrollmentHandler exposes classroom membership endpoints for teachers.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Enroll a student into a classroom
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param studentId path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Router /classrooms/{classroomId}/students/{studentId} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	req := models.EnrollStudentRequest{StudentID: c.Param("studentId")}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), c.Param("classroomId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary Remove a student from a classroom
// @Tags Enrollments
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /classrooms/{classroomId}/students/{studentId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.enrollments.Unenroll(c.Request.Context(), c.Param("classroomId"), c.Param("studentId"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateScore godoc
// @Summary Update a student's classroom score
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param studentId path string true "Student ID"
// @Param payload body models.UpdateScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId}/students/{studentId}/score [patch]
func (h *EnrollmentHandler) UpdateScore(c *gin.Context) {
	var req models.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if err := h.enrollments.UpdateScore(c.Request.Context(), c.Param("classroomId"), c.Param("studentId"), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// ListStudents godoc
// @Summary List enrolled students
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId}/students [get]
func (h *EnrollmentHandler) ListStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	students, err := h.enrollments.ListStudents(c.Request.Context(), c.Param("classroomId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// GetStudent godoc
// @Summary Get one enrolled student with score
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId}/students/{studentId} [get]
func (h *EnrollmentHandler) GetStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	student, err := h.enrollments.StudentInClassroom(c.Request.Context(), c.Param("classroomId"), c.Param("studentId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}
