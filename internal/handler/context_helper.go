package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acadbase/degree-progress-api/internal/middleware"
	"github.com/acadbase/degree-progress-api/internal/models"
)

// actor resolves the verified identity attached by the JWT middleware.
// Handlers pass actorID and isAdmin down so services can apply ownership
// rules without touching the transport layer.
func actor(c *gin.Context) (actorID string, isAdmin bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return "", false
	}
	return claims.StudentID, claims.Role == models.RoleAdmin
}

// targetStudentID resolves the :id path parameter, defaulting to the caller's
// own identity when absent.
func targetStudentID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	actorID, _ := actor(c)
	return actorID
}
