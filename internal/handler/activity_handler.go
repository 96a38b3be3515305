package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// ActivityHandler exposes activity endpoints for both roles.
type ActivityHandler struct {
	activities *service.ActivityService
}

// NewActivityHandler constructs ActivityHandler.
func NewActivityHandler(activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Create godoc
// @Summary Post an activity to a classroom
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Param payload body models.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Router /activities/{classroomId} [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	activity, err := h.activities.Create(c.Request.Context(), c.Param("classroomId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity)
}

// ListByClassroom godoc
// @Summary List a classroom's activities
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /activities/{id}/activities [get]
func (h *ActivityHandler) ListByClassroom(c *gin.Context) {
	claims := claimsFromContext(c)
	activities, err := h.activities.ListByClassroom(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, activities)
}

// Update godoc
// @Summary Update an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Param payload body models.UpdateActivityRequest true "Activity payload"
// @Success 200 {object} response.Envelope
// @Router /activities/{activityId} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	var req models.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	activity, err := h.activities.Update(c.Request.Context(), c.Param("activityId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Tags Activities
// @Security BearerAuth
// @Param activityId path string true "Activity ID"
// @Success 204
// @Router /activities/{activityId} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.activities.Delete(c.Request.Context(), c.Param("activityId"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListForStudent godoc
// @Summary List classroom activities with own submission state
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /activities/student/{classroomId}/activities [get]
func (h *ActivityHandler) ListForStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	activities, err := h.activities.ListForStudent(c.Request.Context(), c.Param("classroomId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, activities)
}
