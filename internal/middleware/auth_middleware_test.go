package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disbudpar-sulsel/tourism-data-backend/pkg/token"
)

const testAdminEmail = "sulsel.disbudpar@gmail.com"

func setupTokenService() *token.Service {
	return token.NewService("test-session-secret-123456789", time.Hour)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware_Success(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	sessionToken, err := tokens.Generate("officer@gowa.go.id", "Kabupaten Gowa", "upstream-token")
	require.NoError(t, err)

	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		session, exists := GetSessionContext(c)
		require.True(t, exists)
		assert.Equal(t, "upstream-token", session.AccessToken)
		c.JSON(http.StatusOK, gin.H{
			"email":  session.Email,
			"region": session.Region,
		})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "officer@gowa.go.id")
	assert.Contains(t, w.Body.String(), "Kabupaten Gowa")
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
}

func TestAuthMiddleware_LogsRejections(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, logs.String(), "AUTH FAILED: Missing authorization header")
	assert.Contains(t, logs.String(), "Path: /protected")

	logs.Reset()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, logs.String(), "AUTH FAILED: Invalid token")
}

func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{"Missing Bearer", "some-token"},
		{"Wrong prefix", "Basic some-token"},
		{"Empty Bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := token.NewService("test-session-secret-123456789", -time.Minute)
	router := setupRouter()

	sessionToken, err := expired.Generate("officer@gowa.go.id", "Kabupaten Gowa", "upstream-token")
	require.NoError(t, err)

	router.GET("/protected", AuthMiddleware(expired), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireAdmin(t *testing.T) {
	tokens := setupTokenService()
	router := setupRouter()

	router.GET("/admin", AuthMiddleware(tokens), RequireAdmin(testAdminEmail), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "welcome"})
	})

	adminToken, err := tokens.Generate(testAdminEmail, "admin", "upstream-token")
	require.NoError(t, err)
	officerToken, err := tokens.Generate("officer@gowa.go.id", "Kabupaten Gowa", "upstream-token")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+officerToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
}

func TestRequireAdmin_WithoutAuthMiddleware(t *testing.T) {
	router := setupRouter()

	router.GET("/admin", RequireAdmin(testAdminEmail), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_SESSION_CONTEXT")
}
