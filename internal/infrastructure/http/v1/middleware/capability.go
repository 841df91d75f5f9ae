// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"stockops/internal/core/apperror"
	appctx "stockops/internal/core/context"
)

// RequireCapability middleware checks if the user holds a capability.
// Admins implicitly hold every capability.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if !user.HasCapability(capability) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_capability", capability),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyCapability checks if the user holds any of the listed
// capabilities.
func RequireAnyCapability(capabilities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, capability := range capabilities {
			if user.HasCapability(capability) {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_capabilities", capabilities),
		)
		c.Abort()
	}
}
