// Package response writes the uniform JSON envelope and maps auth errors to
// HTTP status codes. It is the only place that translation happens.
package response

import (
	"errors"
	"net/http"

	"github.com/Janeirohurley/worker-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stable user-facing messages.
const (
	MsgRegistered    = "User created successfully"
	MsgLoggedIn      = "Login successful"
	MsgEmailInUse    = "Email already in use"
	MsgUserNotFound  = "User not found"
	MsgBadPassword   = "Incorrect password"
	MsgMissingToken  = "Missing token"
	MsgInvalidToken  = "Invalid token"
	MsgForbidden     = "Access denied"
	MsgServerError   = "Server error"
	MsgNameTooShort  = "Name must be at least 2 characters"
	MsgPasswordLong  = "Password must be at most 72 bytes"
	MsgInvalidBody   = "Invalid request body"
	MsgRouteNotFound = "Route not found"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail aborts the chain with a failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Message: message,
	})
}

// StatusFor maps an auth workflow error to its status code and message.
// Unknown errors are internal.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidName):
		return http.StatusBadRequest, MsgNameTooShort
	case errors.Is(err, service.ErrPasswordLength):
		return http.StatusBadRequest, MsgPasswordLong
	case errors.Is(err, service.ErrEmailInUse):
		return http.StatusBadRequest, MsgEmailInUse
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, service.ErrBadCredentials):
		return http.StatusUnauthorized, MsgBadPassword
	case errors.Is(err, service.ErrMissingToken):
		return http.StatusUnauthorized, MsgMissingToken
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, MsgForbidden
	default:
		return http.StatusInternalServerError, MsgServerError
	}
}

// AuthError aborts with the envelope for err. Internal errors are logged
// with their cause; the client only sees the generic message.
func AuthError(c *gin.Context, log *zap.Logger, err error) {
	status, message := StatusFor(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	Fail(c, status, message)
}
