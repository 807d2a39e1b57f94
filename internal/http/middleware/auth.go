// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the shared-secret gate that keeps upstream credentials
// from ever being needed on the client side. Every secured route requires the
// X-Api-Key header to match the server-side secret exactly (after trimming
// whitespace). This is a deployment-boundary check shared by all clients, not
// per-user identity; per-user attribution happens via X-User-ID further down.
//
// The gate fails closed: when no secret is configured, secured routes return
// 500 instead of becoming silently public. Liveness and metrics endpoints are
// mounted outside this middleware and stay reachable either way.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey is the request header carrying the gateway shared secret.
const HeaderAPIKey = "X-Api-Key"

// SharedSecret returns a Gin middleware that rejects requests whose
// X-Api-Key header does not match secret.
//
// Behavior:
//   - secret empty (unset in the environment): every request is rejected
//     with 500 server_misconfigured. The request body is never read.
//   - header missing or mismatched: 401 unauthorized. Comparison is
//     constant-time; both sides are whitespace-trimmed first.
//   - match: the request proceeds.
//
// No upstream call can happen for a rejected request; the middleware aborts
// before any handler runs.
func SharedSecret(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "server_misconfigured",
				"message":    "gateway authentication is not configured",
			})
			return
		}

		presented := strings.TrimSpace(c.GetHeader(HeaderAPIKey))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid or missing api key",
			})
			return
		}

		c.Next()
	}
}
