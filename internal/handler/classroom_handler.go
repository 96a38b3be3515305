package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// ClassroomHandler exposes classroom endpoints for teachers.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms}
}

// Create godoc
// @Summary Create a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req models.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	classroom, err := h.classrooms.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// List godoc
// @Summary List own classrooms with student counts
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	classrooms, err := h.classrooms.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classrooms)
}

// Get godoc
// @Summary Get a classroom
// @Tags Classrooms
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	classroom, err := h.classrooms.Get(c.Request.Context(), c.Param("classroomId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// Update godoc
// @Summary Rename a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param payload body models.UpdateClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId} [put]
func (h *ClassroomHandler) Update(c *gin.Context) {
	var req models.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if err := h.classrooms.Rename(c.Request.Context(), c.Param("classroomId"), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// Delete godoc
// @Summary Delete a classroom
// @Tags Classrooms
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 204
// @Router /classrooms/{classroomId} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.classrooms.Delete(c.Request.Context(), c.Param("classroomId"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Report godoc
// @Summary Download the classroom score report
// @Tags Classrooms
// @Produce application/pdf
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /classrooms/{classroomId}/report [get]
func (h *ClassroomHandler) Report(c *gin.Context) {
	claims := claimsFromContext(c)
	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportFormatPDF)))
	report, err := h.classrooms.ScoreReport(c.Request.Context(), c.Param("classroomId"), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
