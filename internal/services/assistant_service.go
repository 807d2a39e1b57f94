// Package services – AssistantService
//
// This file implements the AssistantService, which backs the chat, vision,
// and text routes. All three reduce to the same upstream operation: build a
// single user message for the responses endpoint, send it with the right
// model, and extract the first output-text block from the nested reply.
// What differs per route is only how the content blocks are assembled.
package services

import (
	"context"
	"strings"

	"github.com/tbourn/go-ai-gateway/internal/upstream/openai"
)

// Built-in instructions used when the caller does not supply a prompt.
const (
	// defaultVisionPrompt is an accessibility-oriented scene description
	// request used by the vision route.
	defaultVisionPrompt = "Describe this image for a person who cannot see it. " +
		"Cover the overall scene, the main objects and any people, any visible text, " +
		"and anything that could be a hazard. Keep it under 180 words."

	// defaultTextPrompt is the summarization instruction used by the text route.
	defaultTextPrompt = "Summarize the following text in a few short sentences, " +
		"keeping the key facts and omitting filler."

	// defaultImageMIME is assumed when a raw base64 image arrives without a
	// mime_type field.
	defaultImageMIME = "image/jpeg"
)

// ResponsesClient is the upstream contract required by AssistantService.
// *openai.Client satisfies it; tests substitute stubs.
type ResponsesClient interface {
	CreateResponse(ctx context.Context, req openai.ResponseRequest) (*openai.Response, error)
}

// AssistantService shapes chat, vision, and text requests for the responses
// endpoint and decodes the answers. It is safe for concurrent use.
type AssistantService struct {
	// Client calls the generative upstream.
	Client ResponsesClient
	// ChatModel is used by Chat and Summarize.
	ChatModel string
	// VisionModel is used by Describe unless the request overrides it.
	VisionModel string
}

// Chat sends a plain prompt as a single user message and returns the answer.
func (s *AssistantService) Chat(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	return s.respond(ctx, s.ChatModel, []openai.ContentPart{openai.TextPart(prompt)})
}

// Describe sends an image plus an instruction and returns the description.
//
// The image may be an http(s) URL, a data URI, or raw base64; URLs and data
// URIs pass through verbatim, raw base64 is wrapped into a data URI using
// mimeType (or a default). An empty model falls back to the configured
// vision model; an empty prompt falls back to the accessibility default.
func (s *AssistantService) Describe(ctx context.Context, image, prompt, mimeType, model string) (string, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return "", ErrEmptyImage
	}
	if prompt = strings.TrimSpace(prompt); prompt == "" {
		prompt = defaultVisionPrompt
	}
	if model = strings.TrimSpace(model); model == "" {
		model = s.VisionModel
	}
	return s.respond(ctx, model, []openai.ContentPart{
		openai.TextPart(prompt),
		openai.ImagePart(imageURL(image, mimeType)),
	})
}

// Summarize prefixes text with an instruction (caller-supplied or the
// built-in summarization default) and returns the answer.
func (s *AssistantService) Summarize(ctx context.Context, text, prompt string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if prompt = strings.TrimSpace(prompt); prompt == "" {
		prompt = defaultTextPrompt
	}
	return s.respond(ctx, s.ChatModel, []openai.ContentPart{
		openai.TextPart(prompt + "\n\n" + text),
	})
}

// respond performs the upstream call with a single user message and extracts
// the first non-empty output-text block.
func (s *AssistantService) respond(ctx context.Context, model string, content []openai.ContentPart) (string, error) {
	resp, err := s.Client.CreateResponse(ctx, openai.ResponseRequest{
		Model: model,
		Input: []openai.Message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", err
	}
	answer := resp.FirstText()
	if answer == "" {
		return "", ErrEmptyUpstreamResponse
	}
	return answer, nil
}

// imageURL normalizes a client-supplied image into something the upstream
// accepts as an image reference. Anything with a scheme passes through; bare
// base64 is wrapped into a data URI.
func imageURL(image, mimeType string) string {
	if strings.HasPrefix(image, "http://") ||
		strings.HasPrefix(image, "https://") ||
		strings.HasPrefix(image, "data:") {
		return image
	}
	if mimeType = strings.TrimSpace(mimeType); mimeType == "" {
		mimeType = defaultImageMIME
	}
	return "data:" + mimeType + ";base64," + image
}
