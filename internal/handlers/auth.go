// Package handlers contains HTTP request handlers for the worker API.
package handlers

import (
	"net/http"

	"github.com/Janeirohurley/worker-api/internal/metrics"
	"github.com/Janeirohurley/worker-api/internal/middleware"
	"github.com/Janeirohurley/worker-api/internal/response"
	"github.com/Janeirohurley/worker-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance. metrics may be nil.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		log:         log,
	}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2" example:"John Doe"`
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
}

// AuthResponse documents the register/login success body.
type AuthResponse struct {
	Success bool               `json:"success" example:"true"`
	Message string             `json:"message" example:"Login successful"`
	Data    service.AuthResult `json:"data"`
}

// MeData is the payload of the current-user response.
type MeData struct {
	User *service.Claims `json:"user"`
}

// MeResponse documents the current-user success body.
type MeResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    MeData `json:"data"`
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with the worker role and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.record("register", err)
		response.AuthError(c, h.log, err)
		return
	}
	h.record("register", nil)

	h.log.Info("user registered",
		zap.Int64("user_id", result.User.ID),
		zap.String("request_id", middleware.RequestID(c)),
	)
	response.OK(c, http.StatusCreated, response.MsgRegistered, result)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.record("login", err)
		response.AuthError(c, h.log, err)
		return
	}
	h.record("login", nil)

	response.OK(c, http.StatusOK, response.MsgLoggedIn, result)
}

// Me godoc
// @Summary Current user
// @Description Return the identity claims carried by the bearer token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c.Request.Context())
	if !ok {
		response.AuthError(c, h.log, service.ErrMissingToken)
		return
	}

	response.OK(c, http.StatusOK, "", MeData{User: claims})
}

func (h *AuthHandler) record(operation string, err error) {
	if err == nil {
		h.metrics.RecordAuth(operation, metrics.OutcomeSuccess)
		return
	}
	if status, _ := response.StatusFor(err); status >= http.StatusInternalServerError {
		h.metrics.RecordAuth(operation, metrics.OutcomeError)
		return
	}
	h.metrics.RecordAuth(operation, metrics.OutcomeFailure)
}
