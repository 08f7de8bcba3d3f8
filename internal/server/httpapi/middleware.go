package httpapi

import (
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// RequireAuth rejects requests without a valid bearer token. On success the
// subject id is stored in the gin context and in the request context.
func (h *handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := h.gate.Authenticate(c.GetHeader(common.AuthorizationHeader))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(contextKeyUserID, subject)
		c.Request = c.Request.WithContext(auth.WithSubject(c.Request.Context(), subject))
		c.Next()
	}
}

// callerID returns the subject set by RequireAuth.
func callerID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// requestLogger logs one line per request.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if subject, ok := auth.SubjectFromContext(c.Request.Context()); ok {
			args = append(args, "user_id", subject)
		}

		if status >= 500 {
			logger.Error(c.Request.Context(), "request", args...)
		} else {
			logger.Info(c.Request.Context(), "request", args...)
		}
	}
}
