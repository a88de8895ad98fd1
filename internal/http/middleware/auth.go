package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/gamehub-backend/internal/http/response"
	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/services"
)

type AuthMiddleware struct {
	log           *logger.Logger
	authenticator services.Authenticator
}

func NewAuthMiddleware(log *logger.Logger, authenticator services.Authenticator) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authenticator: authenticator}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, services.MsgUnauthorized, nil)
			return
		}
		rd, err := am.authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected bearer token", "error", err)
			response.RespondAPIError(c, err)
			return
		}
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusForbidden, "Forbidden", nil)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// OptionalAuth attaches request data when a valid token is present and lets
// anonymous or badly authenticated requests through unchanged.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		rd, err := am.authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Ignoring invalid bearer token", "error", err)
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (am *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.RespondError(c, http.StatusUnauthorized, services.MsgUnauthorized, nil)
			return
		}
		if rd.Role != role {
			response.RespondError(c, http.StatusForbidden, "Forbidden", nil)
			return
		}
		c.Next()
	}
}

func extractTokenFromAll(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
