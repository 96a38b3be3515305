package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// SubmissionHandler exposes submission endpoints for both roles.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// ListByTeacher godoc
// @Summary List all submissions across own activities
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /activities/submissions [get]
func (h *SubmissionHandler) ListByTeacher(c *gin.Context) {
	claims := claimsFromContext(c)
	buckets, err := h.submissions.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, buckets)
}

// ListByActivity godoc
// @Summary List an activity's submissions split by grading state
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /activities/{id}/submissions [get]
func (h *SubmissionHandler) ListByActivity(c *gin.Context) {
	claims := claimsFromContext(c)
	buckets, err := h.submissions.ListByActivity(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, buckets)
}

// Get godoc
// @Summary Get one submission
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /activities/submission/{submissionId} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	detail, err := h.submissions.Get(c.Request.Context(), c.Param("submissionId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// ListByClassroomAndStudent godoc
// @Summary List one student's submissions in a classroom
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /activities/submissions/{classroomId}/{studentId} [get]
func (h *SubmissionHandler) ListByClassroomAndStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	submissions, err := h.submissions.ListByClassroomAndStudent(c.Request.Context(), c.Param("classroomId"), c.Param("studentId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submissions)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submissionId path string true "Submission ID"
// @Param payload body models.GradeSubmissionRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /activities/submission/{submissionId}/grade [patch]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	var req models.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	submission, err := h.submissions.Grade(c.Request.Context(), c.Param("submissionId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submission)
}

// ListMine godoc
// @Summary List all own submissions
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /activities/student [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	submissions, err := h.submissions.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submissions)
}

// ListMineByClassroom godoc
// @Summary List own submissions for a classroom
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /activities/student/{classroomId} [get]
func (h *SubmissionHandler) ListMineByClassroom(c *gin.Context) {
	claims := claimsFromContext(c)
	submissions, err := h.submissions.ListMineByClassroom(c.Request.Context(), claims.UserID, c.Param("classroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submissions)
}

// Submit godoc
// @Summary Submit an activity
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Param payload body models.SubmitActivityRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Router /activities/student/{activityId}/submissions [patch]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req models.SubmitActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if err := h.submissions.Submit(c.Request.Context(), claims.UserID, c.Param("activityId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"submitted": true})
}

// ClearOwn godoc
// @Summary Clear own submission back to pending
// @Tags Submissions
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Success 204
// @Router /activities/student/activities/{activityId}/submissions [delete]
func (h *SubmissionHandler) ClearOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.submissions.ClearOwn(c.Request.Context(), claims.UserID, c.Param("activityId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
