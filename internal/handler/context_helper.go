package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/middleware"
	"github.com/agencydesk/agency-api/internal/models"
)

// claimsFromContext returns the JWT claims set by the auth middleware,
// or nil when the request is unauthenticated.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
