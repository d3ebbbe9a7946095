package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasku-app/kasku/internal/logging"
	"github.com/kasku-app/kasku/internal/syncapi"
)

const ctxKeySession = "session"

// AuthRequired extracts the bearer token, resolves it to a session and puts
// the session into the request context. Missing, invalid or expired tokens
// all answer 401 auth_error.
func AuthRequired(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, syncapi.ErrorResponse{Error: syncapi.CodeAuthError})
			return
		}

		session, err := authSvc.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, syncapi.ErrorResponse{Error: syncapi.CodeAuthError})
			return
		}

		c.Set(ctxKeySession, session)
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
