package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/requestdata"
	"github.com/yungbote/company-registry-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLog := baseLog.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			_ = c.Error(apierr.Unauthorized("missing or invalid bearer token"))
			c.Abort()
			return
		}
		rd, err := am.authService.ParseToken(tokenString)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin gates routes that expose social security numbers verbatim.
// It must run after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requestdata.IsAdmin(c.Request.Context()) {
			rd := requestdata.GetRequestData(c.Request.Context())
			if rd != nil {
				am.log.Warn("caller lacks elevated role", "username", rd.Username, "role", rd.Role)
			}
			_ = c.Error(apierr.Unauthorized("administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
