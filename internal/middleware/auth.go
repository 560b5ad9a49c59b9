// Package middleware provides HTTP middleware for the worker API.
package middleware

import (
	"context"

	"github.com/Janeirohurley/worker-api/internal/response"
	"github.com/Janeirohurley/worker-api/internal/service"
	"github.com/gin-gonic/gin"
)

type claimsKey struct{}

// ContextWithClaims returns a copy of ctx carrying the verified claims.
func ContextWithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims attached by Authenticate.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return claims, ok && claims != nil
}

// Authenticate verifies the bearer token and attaches its claims to the
// request context. Failures abort with 401.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authService.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			response.AuthError(c, nil, err)
			return
		}

		c.Request = c.Request.WithContext(ContextWithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// Authorize allows the request through only when the authenticated role is
// one of roles. It must run after Authenticate.
func Authorize(authService service.AuthService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c.Request.Context())
		if err := authService.Authorize(claims, roles...); err != nil {
			response.AuthError(c, nil, err)
			return
		}
		c.Next()
	}
}
