package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/middleware"
	"github.com/notoria-edu/classroom-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}
