// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints,
// including structured error envelopes, consistent JSON serialization, and
// helpers for common HTTP patterns. The goal is to guarantee uniform responses
// for both success and failure cases, making the API predictable and
// machine-friendly.
//
// Conventions:
//   - All error responses must return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting, ensuring 5xx responses
//     are logged with request context for observability.
//   - Upstream error detail never reaches the client; it is logged server-side
//     and replaced with a generic message.
//
// Example error response:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "quota_exceeded",
//	  "message": "daily image quota exceeded"
//	}
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ai-gateway/internal/http/middleware"
	"github.com/tbourn/go-ai-gateway/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: Optional correlation ID, echoed from X-Request-ID header, used
//     to correlate server logs with client-side errors.
//   - Code: A stable, machine-readable string (see errors.go constants).
//   - Message: A human-readable error description, safe for display to users.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"bad_request"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"prompt is required"`
}

// MessageResponse is the success payload for the chat, vision, and text routes.
type MessageResponse struct {
	Message string `json:"message" example:"A quiet street with two parked bicycles."`
}

// ImageURLResponse is the success payload for the image-generation route.
type ImageURLResponse struct {
	URL string `json:"url" example:"https://images.example.com/gen/abc123.png"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// It constructs an ErrorResponse, writes it as JSON with the given HTTP status,
// and calls gin.Context.AbortWithStatusJSON to stop further processing.
//
// Server errors (>=500) are logged using the request-scoped logger from middleware.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// bindJSON decodes the request body into dst, writing the appropriate error
// response on failure. A body exceeding the configured byte ceiling surfaces
// as *http.MaxBytesError from the MaxBytesReader wrapper and maps to 413;
// anything else unparseable maps to 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return false
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// identity resolves the caller identity used for quota accounting: the
// X-User-ID header when present, otherwise the client network address. The
// header is client-supplied and trusted only for quota bucketing, never for
// authorization.
func identity(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
		return h
	}
	return c.ClientIP()
}

// failService translates a service-layer error into the route response.
//
// Validation sentinels map to 400 with their own message (they are authored
// here and safe to show). Quota and configuration sentinels map to their
// dedicated statuses. Anything else is an upstream failure: the detail is
// logged with request context and the client receives a generic 502.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyPrompt),
		errors.Is(err, services.ErrEmptyImage),
		errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrEmptyInput),
		errors.Is(err, services.ErrInvalidLanguage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded):
		fail(c, http.StatusTooManyRequests, ErrCodeQuotaExceeded, "daily image quota exceeded")
	case errors.Is(err, services.ErrNewsNotConfigured):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "news is not available")
	case errors.Is(err, services.ErrEmptyUpstreamResponse):
		fail(c, http.StatusBadGateway, ErrCodeEmptyUpstream, "upstream returned no content")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("upstream call failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "upstream request failed")
	}
}
