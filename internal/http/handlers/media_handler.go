// Media HTTP handlers.
//
// This file exposes the two binary/asset endpoints:
//   - POST /audio/speech  (text-to-speech, returns raw MP3)
//   - POST /image         (image generation, quota-gated per identity)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SpeechRequest is the JSON payload for the text-to-speech route.
type SpeechRequest struct {
	// Input is the text to speak (required, non-empty).
	Input string `json:"input" example:"Your order has shipped."`
	// Voice optionally selects the upstream voice (default from config).
	Voice string `json:"voice,omitempty" example:"alloy"`
}

// ImageRequest is the JSON payload for the image-generation route.
type ImageRequest struct {
	// Prompt describes the image to generate (required, non-empty).
	Prompt string `json:"prompt" example:"a watercolor fox in the snow"`
	// Size optionally sets the output dimensions, e.g. "1024x1024".
	Size string `json:"size,omitempty" example:"1024x1024"`
	// Quality optionally sets the render quality, e.g. "hd".
	Quality string `json:"quality,omitempty" example:"standard"`
	// Style optionally sets the render style, e.g. "vivid".
	Style string `json:"style,omitempty" example:"natural"`
}

// Speech godoc
// @ID          speech
// @Summary     Synthesize speech
// @Description Converts text to MP3 audio via the upstream TTS endpoint.
// @Tags        Media
// @Accept      json
// @Produce     audio/mpeg
//
// @Param       X-Api-Key  header  string  true  "Gateway shared secret"
// @Param       body       body    handlers.SpeechRequest  true  "Speech payload"
//
// @Success     200  {file}    file  "MP3 audio"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /audio/speech [post]
func (h *Handlers) Speech(c *gin.Context) {
	var req SpeechRequest
	if !bindJSON(c, &req) {
		return
	}

	audio, err := h.speechSvc.Synthesize(c.Request.Context(), req.Input, req.Voice)
	if err != nil {
		failService(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// Image godoc
// @ID          image
// @Summary     Generate an image
// @Description Generates one image per request. Each identity (X-User-ID header, falling back to client IP) has a small daily allowance; quota is charged only when the upstream call succeeds.
// @Tags        Media
// @Accept      json
// @Produce     json
//
// @Param       X-Api-Key  header  string  true   "Gateway shared secret"
// @Param       X-User-ID  header  string  false  "Caller identity for quota accounting"
// @Param       body       body    handlers.ImageRequest  true  "Image payload"
//
// @Success     200  {object}  handlers.ImageURLResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     429  {object}  handlers.ErrorResponse  "Daily quota exceeded"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Router      /image [post]
func (h *Handlers) Image(c *gin.Context) {
	var req ImageRequest
	if !bindJSON(c, &req) {
		return
	}

	url, err := h.imageSvc.Generate(c.Request.Context(), identity(c), req.Prompt, req.Size, req.Quality, req.Style)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ImageURLResponse{URL: url})
}
