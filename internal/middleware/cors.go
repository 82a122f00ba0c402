package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginPolicy is a parsed CORS_ALLOW_ORIGINS list.
type OriginPolicy struct {
	allowed  map[string]bool
	allowAll bool
}

// ParseOrigins parses a comma separated origin list where "*" allows any
// origin.
func ParseOrigins(allowOrigins string) *OriginPolicy {
	p := &OriginPolicy{allowed: make(map[string]bool)}
	for _, origin := range strings.Split(allowOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.allowAll = true
		}
		if origin != "" {
			p.allowed[origin] = true
		}
	}
	return p
}

// Allows reports whether a non-empty origin is on the list.
func (p *OriginPolicy) Allows(origin string) bool {
	return origin != "" && (p.allowAll || p.allowed[origin])
}

// CORSMiddleware allows browser clients from allowOrigins, a comma
// separated list where "*" allows any origin.
func CORSMiddleware(allowOrigins string) gin.HandlerFunc {
	policy := ParseOrigins(allowOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if policy.Allows(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key")
			c.Header("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
