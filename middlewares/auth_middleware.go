package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// AuthMiddleware validates the bearer token and stores the caller identity
// in the context. The company scope is derived here, once per request, and
// read by every downstream handler.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user ID in token"))
			c.Abort()
			return
		}

		role := models.Role(claims.Role)
		if !role.Valid() {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unknown role in token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", role)
		if claims.CompanyID != nil {
			c.Set("companyID", *claims.CompanyID)
		}
		c.Set("scope", models.ScopeForUser(role, claims.CompanyID))

		c.Next()
	}
}

// ScopeFromContext returns the company scope set by AuthMiddleware. Without
// one it falls back to the denied scope, so a handler wired outside the
// auth group can never see cross-company rows by accident.
func ScopeFromContext(c *gin.Context) models.CompanyScope {
	if v, ok := c.Get("scope"); ok {
		if scope, ok := v.(models.CompanyScope); ok {
			return scope
		}
	}
	return models.ScopeForUser(models.RoleEmployee, nil)
}

// RoleFromContext returns the caller role, defaulting to employee.
func RoleFromContext(c *gin.Context) models.Role {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return models.RoleEmployee
}
