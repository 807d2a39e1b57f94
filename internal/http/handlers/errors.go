// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (quota_exceeded, empty_upstream_response) are
//     reserved for gateway conditions that a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeQuotaExceeded = "quota_exceeded"
	ErrCodeUpstream      = "upstream_error"
	ErrCodeEmptyUpstream = "empty_upstream_response"
	ErrCodeMisconfigured = "server_misconfigured"
)
