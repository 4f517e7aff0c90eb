package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workload/internal/apperr"
	"workload/internal/model"
	"workload/internal/session"
	"workload/internal/util"
	"workload/pkg/metrics"
	"workload/pkg/rbac"
)

// MarkerStore checks whether a live session marker exists for a user.
type MarkerStore interface {
	Active(ctx context.Context, userID string) (bool, error)
}

// RoleResolver re-reads the user's role; the marker does not carry it.
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID string) (model.Role, error)
}

// AuthMiddleware is the route guard. A request is authorized when it
// carries a valid token AND a live session marker; the role is then
// resolved from the user record and attached to the context as an
// explicit Session. A role-resolution failure answers immediately with
// an error response rather than leaving the request hanging.
func AuthMiddleware(jwtSecret string, markers MarkerStore, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		userID, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		active, err := markers.Active(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			c.Abort()
			return
		}
		if !active {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}

		role, err := roles.CurrentRole(c.Request.Context(), userID)
		if err != nil {
			if apperr.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve role"})
			}
			c.Abort()
			return
		}

		c.Set(session.ContextKey, session.Session{UserID: userID, Role: role})

		c.Next()
	}
}

// RequirePermission gates a route on the session's role.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if err := rbac.CheckPermission(sess.Role, permission); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Next()
	}
}

// MetricsMiddleware records request durations per method/route/status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
