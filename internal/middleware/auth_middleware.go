package middleware

import (
	"net/http"
	"strings"

	"kanboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return authenticate(tokens, false)
}

// WebSocketAuthMiddleware is JWTAuthMiddleware for websocket upgrades.
// Browsers cannot set headers on a websocket handshake, so the token may
// also come as the "token" query parameter.
func WebSocketAuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return authenticate(tokens, true)
}

func authenticate(tokens *auth.TokenManager, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if allowQuery {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
				return
			}
			tokenStr = parts[1]
		}

		userID, err := tokens.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by the auth middleware.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
