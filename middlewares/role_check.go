package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casacomida/orders-app/utils"
)

// RequireSuperAdmin gates routes that manage companies and cross-company
// data.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RoleFromContext(c).CanManageAllCompanies() {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("super admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCompanyAdmin gates catalog, courier, settings and user management.
func RequireCompanyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RoleFromContext(c).CanManageOwnCompany() {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
