package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/middleware"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *services.SessionService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RestoreRequest represents the request to restore a session from a held
// backend access token
type RestoreRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// SessionResponse represents an established session
type SessionResponse struct {
	Message      string `json:"message"`
	SessionToken string `json:"session_token"`
	Email        string `json:"email"`
	Region       string `json:"region"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Email and password are required",
		})
		return
	}

	device := utils.ParseUserAgent(c.GetHeader("User-Agent"))

	session, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"email":   req.Email,
			"ip":      c.ClientIP(),
			"device":  device.DeviceType,
			"browser": device.Browser,
		}).Warn("Login failed")
		h.writeSessionError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"email":   session.Email,
		"region":  session.Region,
		"ip":      c.ClientIP(),
		"device":  device.DeviceType,
		"os":      device.OS,
		"browser": device.Browser,
	}).Info("Login successful")

	c.JSON(http.StatusOK, SessionResponse{
		Message:      "Login successful",
		SessionToken: session.SessionToken,
		Email:        session.Email,
		Region:       session.Region,
	})
}

// Restore handles POST /api/v1/auth/restore
func (h *AuthHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Access token is required",
		})
		return
	}

	session, err := h.sessions.Restore(req.AccessToken)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Message:      "Session restored",
		SessionToken: session.SessionToken,
		Email:        session.Email,
		Region:       session.Region,
	})
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	session, exists := middleware.GetSessionContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "No active session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":  session.Email,
		"region": session.Region,
	})
}

// Logout handles POST /api/v1/auth/logout. Session tokens are held by the
// client, so logout is a stateless, idempotent acknowledgement.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
			Code:    "INVALID_CREDENTIALS",
		})
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "session_expired",
			Message: "Your session has expired. Please log in again.",
			Code:    "SESSION_EXPIRED",
		})
	case errors.Is(err, services.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "session_invalid",
			Message: "No region is assigned to this account",
			Code:    "REGION_NOT_FOUND",
		})
	default:
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "backend_error",
				Message: apiErr.Error(),
				Code:    "BACKEND_ERROR",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again.",
		})
	}
}
