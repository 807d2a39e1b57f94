// Assistant HTTP handlers.
//
// This file exposes the three text-answer endpoints backed by the generative
// upstream's responses API:
//   - POST /chat    (free-form prompt)
//   - POST /vision  (image description)
//   - POST /text    (instruction over supplied text)
//
// Handlers are transport-thin: they bind input, call application services,
// and translate results into HTTP responses. All validation and payload
// shaping lives in the service layer.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ai-gateway/internal/services"
)

//
// Service contracts (context-aware)
//

// AssistantService defines the text-answer operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AssistantService interface {
	// Chat answers a free-form prompt.
	Chat(ctx context.Context, prompt string) (string, error)
	// Describe answers a prompt about an image (URL, data URI, or raw base64).
	Describe(ctx context.Context, image, prompt, mimeType, model string) (string, error)
	// Summarize applies an instruction (default: summarization) to text.
	Summarize(ctx context.Context, text, prompt string) (string, error)
}

// SpeechService defines text-to-speech synthesis.
type SpeechService interface {
	// Synthesize returns MP3 audio for input spoken in voice.
	Synthesize(ctx context.Context, input, voice string) ([]byte, error)
}

// ImageService defines quota-gated image generation.
type ImageService interface {
	// Generate produces one image for identity and returns its URL.
	Generate(ctx context.Context, identity, prompt, size, quality, style string) (string, error)
}

// NewsService defines headline retrieval.
type NewsService interface {
	// Headlines returns the upstream headlines payload verbatim.
	Headlines(ctx context.Context, p services.HeadlinesParams) (json.RawMessage, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the gateway. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	assistantSvc AssistantService
	speechSvc    SpeechService
	imageSvc     ImageService
	newsSvc      NewsService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(assistantSvc AssistantService, speechSvc SpeechService, imageSvc ImageService, newsSvc NewsService) *Handlers {
	return &Handlers{
		assistantSvc: assistantSvc,
		speechSvc:    speechSvc,
		imageSvc:     imageSvc,
		newsSvc:      newsSvc,
	}
}

//
// DTOs
//

// ChatRequest is the JSON payload for the chat route.
type ChatRequest struct {
	// Prompt is the user's message (required, non-empty).
	Prompt string `json:"prompt" example:"What should I cook tonight?"`
}

// VisionRequest is the JSON payload for the vision route.
type VisionRequest struct {
	// Image is an https URL, data URI, or raw base64 payload (required).
	Image string `json:"image" example:"https://example.com/photo.jpg"`
	// Prompt optionally overrides the built-in description instruction.
	Prompt string `json:"prompt,omitempty" example:"What brand is the car?"`
	// MimeType is used when Image is raw base64 (default image/jpeg).
	MimeType string `json:"mime_type,omitempty" example:"image/png"`
	// Model optionally overrides the configured vision model.
	Model string `json:"model,omitempty" example:"gpt-4o"`
}

// TextRequest is the JSON payload for the text route.
type TextRequest struct {
	// Text is the content to process (required, non-empty).
	Text string `json:"text" example:"Long article body..."`
	// Prompt optionally overrides the built-in summarization instruction.
	Prompt string `json:"prompt,omitempty" example:"Translate to French:"`
}

//
// Handlers
//

// Chat godoc
// @ID          chat
// @Summary     Answer a chat prompt
// @Description Forwards the prompt to the generative upstream and returns the answer.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       X-Api-Key  header  string  true  "Gateway shared secret"
// @Param       body       body    handlers.ChatRequest  true  "Chat payload"
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.assistantSvc.Chat(c.Request.Context(), req.Prompt)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: answer})
}

// Vision godoc
// @ID          vision
// @Summary     Describe an image
// @Description Sends the image with an instruction to the generative upstream and returns the description.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       X-Api-Key  header  string  true  "Gateway shared secret"
// @Param       body       body    handlers.VisionRequest  true  "Vision payload"
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /vision [post]
func (h *Handlers) Vision(c *gin.Context) {
	var req VisionRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.assistantSvc.Describe(c.Request.Context(), req.Image, req.Prompt, req.MimeType, req.Model)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: answer})
}

// Text godoc
// @ID          text
// @Summary     Process text with an instruction
// @Description Applies the supplied (or default summarization) instruction to the text.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       X-Api-Key  header  string  true  "Gateway shared secret"
// @Param       body       body    handlers.TextRequest  true  "Text payload"
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /text [post]
func (h *Handlers) Text(c *gin.Context) {
	var req TextRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.assistantSvc.Summarize(c.Request.Context(), req.Text, req.Prompt)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: answer})
}
