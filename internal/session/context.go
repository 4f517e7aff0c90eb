package session

import "github.com/gin-gonic/gin"

// ContextKey is where the auth middleware stores the resolved Session
// on the gin context.
const ContextKey = "session"

// FromContext returns the Session the middleware attached, if any.
func FromContext(c *gin.Context) (Session, bool) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}
