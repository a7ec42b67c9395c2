package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/middleware"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
	"github.com/disbudpar-sulsel/tourism-data-backend/pkg/token"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testTokenService() *token.Service {
	return token.NewService("test-session-secret", time.Hour)
}

// newAuthBackend serves the auth and directory endpoints one login needs
func newAuthBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "officer@gowa.go.id" && body["password"] == "secret123" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "upstream-token"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer upstream-token" {
			json.NewEncoder(w).Encode(map[string]string{"email": "officer@gowa.go.id"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/rest/v1/user_info", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"kabupaten_kota": "Kabupaten Gowa"}})
	})
	return httptest.NewServer(mux)
}

func newAuthRouter(serverURL string) (*gin.Engine, *token.Service) {
	gin.SetMode(gin.TestMode)

	client := supabase.NewClient(supabase.Config{
		BaseURL:        serverURL,
		APIKey:         "anon-key",
		ServiceRoleKey: "service-key",
		StorageBucket:  "gambar.pariwisata",
	})
	tokens := testTokenService()
	directory := services.NewDirectoryService(client, services.RetryPolicy{Attempts: 2}, testLogger())
	sessions := services.NewSessionService(client, directory, tokens, testLogger())
	handler := NewAuthHandler(sessions, testLogger())

	router := gin.New()
	router.POST("/api/v1/auth/login", handler.Login)
	router.POST("/api/v1/auth/restore", handler.Restore)
	router.POST("/api/v1/auth/logout", handler.Logout)
	router.GET("/api/v1/auth/session", middleware.AuthMiddleware(tokens), handler.Session)
	return router, tokens
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	encoded, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, tokens := newAuthRouter(server.URL)

	w := postJSON(router, "/api/v1/auth/login", LoginRequest{
		Email:    "officer@gowa.go.id",
		Password: "secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "officer@gowa.go.id", resp.Email)
	assert.Equal(t, "Kabupaten Gowa", resp.Region)

	claims, err := tokens.Validate(resp.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", claims.AccessToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, _ := newAuthRouter(server.URL)

	w := postJSON(router, "/api/v1/auth/login", LoginRequest{
		Email:    "officer@gowa.go.id",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestLogin_MissingFields(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, _ := newAuthRouter(server.URL)

	w := postJSON(router, "/api/v1/auth/login", gin.H{"email": "officer@gowa.go.id"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestore_Success(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, _ := newAuthRouter(server.URL)

	w := postJSON(router, "/api/v1/auth/restore", RestoreRequest{AccessToken: "upstream-token"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Kabupaten Gowa", resp.Region)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRestore_ExpiredUpstreamToken(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, _ := newAuthRouter(server.URL)

	w := postJSON(router, "/api/v1/auth/restore", RestoreRequest{AccessToken: "stale-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_EXPIRED")
}

func TestSession_ReturnsClaims(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, tokens := newAuthRouter(server.URL)

	sessionToken, err := tokens.Generate("officer@gowa.go.id", "Kabupaten Gowa", "upstream-token")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kabupaten Gowa")
}

func TestLogout_Idempotent(t *testing.T) {
	server := newAuthBackend(t)
	defer server.Close()
	router, _ := newAuthRouter(server.URL)

	for i := 0; i < 2; i++ {
		w := postJSON(router, "/api/v1/auth/logout", gin.H{})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
