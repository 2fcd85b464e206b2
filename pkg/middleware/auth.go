package middleware

import (
	"aurora-messenger/backend/pkg/errors"
	"aurora-messenger/backend/pkg/jwt"
	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware checks that the request has a valid token and adds the
// claims to the context
func JWTAuthMiddleware(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError(errors.CodeUnauthorized, "Authorization header is required"))
			c.Abort()
			return
		}

		// Strip "Bearer " prefix if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			log.Warn("Invalid token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError(errors.CodeUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims.Username)

		c.Next()
	}
}
