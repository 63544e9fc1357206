package service

import (
	"net/http"
	"strings"

	"sitepm/perms"
	"sitepm/response"
	"sitepm/util"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "x-current-user"

// AuthMiddleware parses the Bearer token and stores the claims in the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			response.HTTPError(c, http.StatusUnauthorized, "missing bearer token", response.InvalidToken)
			c.Abort()
			return
		}
		msg, err := util.GetTokenMgr().CheckToken(token)
		if err != nil {
			response.HTTPError(c, http.StatusUnauthorized, err.Error(), response.TokenExpired)
			c.Abort()
			return
		}
		c.Set(currentUserKey, msg)
		c.Next()
	}
}

func currentUser(c *gin.Context) (util.JWTMessage, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return util.JWTMessage{}, false
	}
	msg, ok := v.(util.JWTMessage)
	return msg, ok
}

// RequirePermission guards a route with a globally scoped permission key.
func RequirePermission(key string) gin.HandlerFunc {
	return requirePermission(key, false)
}

// RequireProjectPermission guards a route nested under /projects/:id,
// resolving the key within that project's scope so personnel overrides
// apply.
func RequireProjectPermission(key string) gin.HandlerFunc {
	return requirePermission(key, true)
}

func requirePermission(key string, projectScoped bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, ok := currentUser(c)
		if !ok {
			response.HTTPError(c, http.StatusUnauthorized, "not authenticated", response.InvalidToken)
			c.Abort()
			return
		}

		principal, err := loadPrincipal(msg.UserID)
		if err != nil {
			response.HTTPError(c, http.StatusUnauthorized, "unknown user", response.UserNotFound)
			c.Abort()
			return
		}

		scope := perms.NoProject
		if projectScoped {
			projectID, ok := parseID(c, "id")
			if !ok {
				c.Abort()
				return
			}
			scope = projectID
		}

		allowed, err := resolver().HasPermission(principal, key, scope)
		if err != nil {
			response.Error(c, err.Error(), response.NotSpecified)
			c.Abort()
			return
		}
		if !allowed {
			response.ForbiddenError(c, "missing permission "+key, response.PermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
