// Package news is a minimal HTTP client for the headlines upstream (a
// GNews-style API). The gateway forwards the upstream JSON verbatim, so the
// client returns the raw payload instead of decoding article structures.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-ai-gateway/internal/config"
	"github.com/tbourn/go-ai-gateway/internal/upstream"
)

const (
	providerName = "news"
	endpointName = "top-headlines"

	// maxErrBody caps how much of an upstream error body is kept for logs.
	maxErrBody = 2048

	// maxNewsBytes caps a headlines response read.
	maxNewsBytes = 8 << 20
)

var tracer = otel.Tracer("github.com/tbourn/go-ai-gateway/internal/upstream/news")

// Query carries the optional headline filters forwarded upstream. A zero
// value requests the default front page. Topic must already be resolved by
// the caller (the literal category "all" is represented as an empty Topic).
type Query struct {
	Country string
	Topic   string
	Lang    string
	Max     int
	Q       string
}

// APIError reports a non-2xx upstream response. Logged server-side only.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("news top-headlines: status %d: %s", e.Status, e.Body)
}

// Client calls the headlines upstream. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client from configuration.
func New(cfg config.NewsConfig, timeout time.Duration) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a news API key is present. When false, the news
// route must answer 503 without calling TopHeadlines.
func (c *Client) Configured() bool { return c.apiKey != "" }

// TopHeadlines fetches headlines matching q and returns the upstream JSON
// payload unmodified.
func (c *Client) TopHeadlines(ctx context.Context, q Query) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Topic != "" {
		params.Set("topic", q.Topic)
	}
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(q.Max))
	}
	if q.Q != "" {
		params.Set("q", q.Q)
	}

	ctx, span := tracer.Start(ctx, "news."+endpointName, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("news.topic", q.Topic)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+endpointName+"?"+params.Encode(), nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build headlines request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstream.Observe(providerName, endpointName, 0, time.Since(start))
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("call headlines: %w", err)
	}
	defer resp.Body.Close()
	upstream.Observe(providerName, endpointName, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		apiErr := &APIError{Status: resp.StatusCode, Body: string(excerpt)}
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxNewsBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read headlines response: %w", err)
	}
	return json.RawMessage(payload), nil
}
