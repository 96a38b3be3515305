package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// StudentHandler exposes both sides of student management: the teacher-facing
// CRUD and the student's own endpoints.
type StudentHandler struct {
	students *service.StudentService
	teachers *service.TeacherService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, teachers *service.TeacherService) *StudentHandler {
	return &StudentHandler{students: students, teachers: teachers}
}

// Create godoc
// @Summary Create a student account
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /teacher/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	teacher, err := h.teachers.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), teacher, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// List godoc
// @Summary List own students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	students, err := h.students.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param payload body models.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	student, err := h.students.Update(c.Request.Context(), c.Param("studentId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /teacher/students/{studentId} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.students.Delete(c.Request.Context(), c.Param("studentId"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChangePasswordRequest true "Password payload"
// @Success 200 {object} response.Envelope
// @Router /student/change-password [put]
func (h *StudentHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if err := h.students.ChangePassword(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"changed": true})
}

// ListClassrooms godoc
// @Summary List own classrooms
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/classrooms [get]
func (h *StudentHandler) ListClassrooms(c *gin.Context) {
	claims := claimsFromContext(c)
	classrooms, err := h.students.ListClassrooms(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classrooms)
}

// GetClassroom godoc
// @Summary Get one enrolled classroom
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /student/classrooms/{classroomId} [get]
func (h *StudentHandler) GetClassroom(c *gin.Context) {
	claims := claimsFromContext(c)
	classroom, err := h.students.GetClassroom(c.Request.Context(), c.Param("classroomId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// ListClassmates godoc
// @Summary List classmates in a classroom
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /student/mates/{classroomId} [get]
func (h *StudentHandler) ListClassmates(c *gin.Context) {
	claims := claimsFromContext(c)
	classmates, err := h.students.ListClassmates(c.Request.Context(), c.Param("classroomId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classmates)
}
