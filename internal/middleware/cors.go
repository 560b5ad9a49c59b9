package middleware

import (
	"net/http"
	"strings"

	"github.com/Janeirohurley/worker-api/internal/response"
	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	corsAllowHeaders = "Content-Type,Authorization,X-Request-ID"
	corsMaxAge       = "600"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API. A single "*"
	// allows any origin.
	AllowedOrigins []string
}

// CORS sets Access-Control headers for allowed origins and answers
// preflight requests. Disallowed preflights get 403; other requests from
// disallowed origins pass through without CORS headers and the browser
// blocks the response.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowAll := false
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""

		if origin == "" {
			c.Next()
			return
		}

		if !allowAll && !allowedSet[normalizeOrigin(origin)] {
			if preflight {
				response.Fail(c, http.StatusForbidden, "CORS origin not allowed")
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		if allowAll {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if preflight {
			h.Set("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// normalizeOrigin removes a trailing slash and lowercases.
func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}
