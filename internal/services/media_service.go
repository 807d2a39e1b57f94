// Package services – SpeechService and ImageService
//
// SpeechService backs the text-to-speech route; it is a thin translation to
// the audio/speech endpoint. ImageService backs the image-generation route
// and owns the one piece of real business logic in this gateway: the daily
// per-identity quota. The quota is checked before the upstream call and
// charged only after it succeeds, so a failed generation never costs a slot.
package services

import (
	"context"
	"strings"

	"github.com/tbourn/go-ai-gateway/internal/quota"
	"github.com/tbourn/go-ai-gateway/internal/upstream/openai"
)

// SpeechClient is the upstream contract required by SpeechService.
type SpeechClient interface {
	CreateSpeech(ctx context.Context, req openai.SpeechRequest) ([]byte, error)
}

// SpeechService converts text into MP3 audio via the upstream TTS endpoint.
type SpeechService struct {
	// Client calls the generative upstream.
	Client SpeechClient
	// Model is the TTS model name.
	Model string
	// DefaultVoice is used when the request does not name a voice.
	DefaultVoice string
}

// Synthesize returns MP3 audio for input spoken in voice (or the default).
func (s *SpeechService) Synthesize(ctx context.Context, input, voice string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	if voice = strings.TrimSpace(voice); voice == "" {
		voice = s.DefaultVoice
	}
	return s.Client.CreateSpeech(ctx, openai.SpeechRequest{
		Model: s.Model,
		Input: input,
		Voice: voice,
	})
}

// ImageClient is the upstream contract required by ImageService.
type ImageClient interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (*openai.ImageResponse, error)
}

// ImageService generates a single image per request, gated by the daily quota.
type ImageService struct {
	// Client calls the generative upstream.
	Client ImageClient
	// Model is the image-generation model name.
	Model string
	// Quota is the process-wide daily counter keyed by caller identity.
	Quota *quota.Counter
}

// Generate produces one image for prompt on behalf of identity and returns
// its URL.
//
// Order matters: the quota check happens before the upstream call
// (ErrQuotaExceeded means the provider was never contacted) and the charge
// happens only after the upstream reports success.
func (s *ImageService) Generate(ctx context.Context, identity, prompt, size, qualityOpt, style string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if s.Quota.Remaining(identity) <= 0 {
		return "", ErrQuotaExceeded
	}

	resp, err := s.Client.CreateImage(ctx, openai.ImageRequest{
		Model:   s.Model,
		Prompt:  prompt,
		Size:    strings.TrimSpace(size),
		Quality: strings.TrimSpace(qualityOpt),
		Style:   strings.TrimSpace(style),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrEmptyUpstreamResponse
	}

	s.Quota.Commit(identity)
	return resp.Data[0].URL, nil
}

// Remaining reports identity's unused image generations for today.
func (s *ImageService) Remaining(identity string) int {
	return s.Quota.Remaining(identity)
}
