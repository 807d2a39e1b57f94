// Package services defines the business logic for the gateway routes: input
// validation, upstream payload shaping, quota enforcement, and response
// decoding. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrEmptyPrompt is returned when a chat or image request carries no prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrEmptyImage is returned when a vision request carries no image payload.
	ErrEmptyImage = errors.New("image is empty")

	// ErrEmptyText is returned when a text request carries no text to process.
	ErrEmptyText = errors.New("text is empty")

	// ErrEmptyInput is returned when a speech request carries no input string.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInvalidLanguage is returned when the news lang parameter is not a
	// parseable BCP-47 tag.
	ErrInvalidLanguage = errors.New("invalid language code")

	// ErrQuotaExceeded is returned when an identity has used up its daily
	// image-generation allowance. The upstream provider is never contacted.
	ErrQuotaExceeded = errors.New("daily image quota exceeded")

	// ErrNewsNotConfigured is returned when the news upstream has no API key.
	// Only the news route is affected.
	ErrNewsNotConfigured = errors.New("news api key not configured")

	// ErrEmptyUpstreamResponse is returned when the upstream call succeeded
	// but the payload contained no usable content. Handlers map it to 502
	// rather than returning an empty 200.
	ErrEmptyUpstreamResponse = errors.New("upstream response contained no content")
)
