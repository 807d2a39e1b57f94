// Package openai is a minimal HTTP client for the generative upstream: the
// responses, audio/speech, and images/generations endpoints.
//
// It is deliberately not an SDK. The gateway forwards a handful of fixed
// shapes, so the client models exactly those with stdlib net/http and
// encoding/json, the way the rest of the stack talks to third parties.
// Every call carries the configured timeout, is traced via OpenTelemetry,
// and is counted in the shared upstream Prometheus collectors.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-ai-gateway/internal/config"
	"github.com/tbourn/go-ai-gateway/internal/upstream"
)

const (
	providerName = "openai"

	// maxErrBody caps how much of an upstream error body is kept for logs.
	maxErrBody = 2048

	// maxAudioBytes caps a speech response read; anything bigger is broken.
	maxAudioBytes = 64 << 20
)

var tracer = otel.Tracer("github.com/tbourn/go-ai-gateway/internal/upstream/openai")

// Client calls the generative upstream. It is safe for concurrent use.
type Client struct {
	apiKey       string
	organization string
	project      string
	baseURL      string
	httpClient   *http.Client
}

// New constructs a Client from configuration. The HTTP client timeout is the
// only cancellation the gateway enforces on upstream calls.
func New(cfg config.OpenAIConfig, timeout time.Duration) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		organization: cfg.Organization,
		project:      cfg.Project,
		baseURL:      cfg.BaseURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// CreateResponse posts req to the responses endpoint and decodes the nested
// output structure. A non-2xx status yields an *APIError.
func (c *Client) CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error) {
	var out Response
	if err := c.postJSON(ctx, "responses", req.Model, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSpeech posts req to the audio/speech endpoint and returns the raw
// MP3 bytes.
func (c *Client) CreateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	const endpoint = "audio/speech"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode speech request: %w", err)
	}

	ctx, span := tracer.Start(ctx, "openai."+endpoint, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("openai.model", req.Model)))
	defer span.End()

	resp, err := c.do(ctx, endpoint, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := apiError(endpoint, resp)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return audio, nil
}

// CreateImage posts req to the images/generations endpoint. N is forced to 1;
// the gateway never requests more than a single image per call.
func (c *Client) CreateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	req.N = 1
	var out ImageResponse
	if err := c.postJSON(ctx, "images/generations", req.Model, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// postJSON posts a JSON body to endpoint and decodes a JSON response into out.
func (c *Client) postJSON(ctx context.Context, endpoint, model string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	ctx, span := tracer.Start(ctx, "openai."+endpoint, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("openai.model", model)))
	defer span.End()

	resp, err := c.do(ctx, endpoint, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := apiError(endpoint, resp)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// do issues the POST and records upstream metrics. Transport-level failures
// are observed with status 0.
func (c *Client) do(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
	if c.project != "" {
		req.Header.Set("OpenAI-Project", c.project)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstream.Observe(providerName, endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	upstream.Observe(providerName, endpoint, resp.StatusCode, time.Since(start))
	return resp, nil
}

// apiError drains up to maxErrBody bytes of a failed response into an
// *APIError for server-side logging.
func apiError(endpoint string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(excerpt)}
}
