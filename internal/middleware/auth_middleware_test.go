package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kanboard/internal/auth"
	"kanboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func setupRouter(logs *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AccessLogger(logs))

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	whoami := func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	}

	r.GET("/workspaces", middleware.JWTAuthMiddleware(tokens), whoami)
	r.GET("/boards/b1/ws", middleware.WebSocketAuthMiddleware(tokens), whoami)
	return r
}

func signToken(userID string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	return token
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.NewString()
	valid := signToken(userID)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid bearer token", "/workspaces", "Bearer " + valid, http.StatusOK, userID},
		{"missing header", "/workspaces", "", http.StatusUnauthorized, "Authorization header is required"},
		{"wrong scheme", "/workspaces", "InvalidFormat token123", http.StatusUnauthorized, "Authorization header format must be Bearer {token}"},
		{"empty bearer", "/workspaces", "Bearer ", http.StatusUnauthorized, "Authorization header format must be Bearer {token}"},
		{"garbage token", "/workspaces", "Bearer invalid-token", http.StatusUnauthorized, "Invalid or expired token"},
		{"user id is not a uuid", "/workspaces", "Bearer " + signToken("not-a-valid-uuid"), http.StatusUnauthorized, "Invalid user ID in token"},
		{"query token ignored on api routes", "/workspaces?token=" + valid, "", http.StatusUnauthorized, "Authorization header is required"},
		{"query token on websocket route", "/boards/b1/ws?token=" + valid, "", http.StatusOK, userID},
		{"header on websocket route", "/boards/b1/ws", "Bearer " + valid, http.StatusOK, userID},
		{"bad query token on websocket route", "/boards/b1/ws?token=nope", "", http.StatusUnauthorized, "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			router := setupRouter(&bytes.Buffer{})
			req, _ := http.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			// Act
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			// Assert
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestAccessLogger_RedactsQueryToken(t *testing.T) {
	// Arrange
	var logs bytes.Buffer
	router := setupRouter(&logs)
	token := signToken(uuid.NewString())
	req, _ := http.NewRequest("GET", "/boards/b1/ws?token="+token+"&v=2", nil)

	// Act
	router.ServeHTTP(httptest.NewRecorder(), req)

	// Assert
	assert.NotContains(t, logs.String(), token)
	assert.Contains(t, logs.String(), "/boards/b1/ws?token=REDACTED&v=2")
}
