// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, authentication, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Liveness and metrics stay outside auth and rate limiting
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-ai-gateway/internal/config"
	"github.com/tbourn/go-ai-gateway/internal/http/handlers"
	"github.com/tbourn/go-ai-gateway/internal/http/middleware"
	"github.com/tbourn/go-ai-gateway/internal/quota"
	"github.com/tbourn/go-ai-gateway/internal/services"
	"github.com/tbourn/go-ai-gateway/internal/upstream/news"
	"github.com/tbourn/go-ai-gateway/internal/upstream/openai"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2025-06-01T12:00:00Z"`
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It constructs the upstream clients and services from cfg, mounts
// the public liveness/metrics endpoints, and then mounts the secured API
// (shared-secret auth + per-IP rate limiting) under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with secret/PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (cap from config; vision payloads carry base64 images)
//  6. Metrics
//  7. Gzip (except the binary audio route)
//  8. CORS and Security headers
//  9. Secured group only: SharedSecret auth → rate limiter
func RegisterRoutes(r *gin.Engine, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (X-Api-Key masked by default)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression; MP3 output is already compressed
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/audio/speech"})))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID", middleware.HeaderAPIKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID", middleware.HeaderAPIKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health: public, never rate-limited, works without the secret.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Swagger UI (docs generated out-of-band with swag init)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: handlers ← services ← upstream clients
	openaiClient := openai.New(cfg.OpenAI, cfg.UpstreamTimeout)
	newsClient := news.New(cfg.News, cfg.UpstreamTimeout)

	assistantSvc := &services.AssistantService{
		Client:      openaiClient,
		ChatModel:   cfg.OpenAI.ChatModel,
		VisionModel: cfg.OpenAI.VisionModel,
	}
	speechSvc := &services.SpeechService{
		Client:       openaiClient,
		Model:        cfg.OpenAI.SpeechModel,
		DefaultVoice: cfg.OpenAI.SpeechVoice,
	}
	imageSvc := &services.ImageService{
		Client: openaiClient,
		Model:  cfg.OpenAI.ImageModel,
		Quota:  quota.NewCounter(cfg.ImageDailyLimit),
	}
	newsSvc := &services.NewsService{Client: newsClient}

	h := handlers.New(assistantSvc, speechSvc, imageSvc, newsSvc)

	// Secured API: shared secret, then per-IP rate limiting.
	rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, middleware.KeyByClientIP())
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.SharedSecret(cfg.SharedSecret))
	api.Use(rl.Handler())
	{
		api.POST("/chat", h.Chat)
		api.POST("/vision", h.Vision)
		api.POST("/text", h.Text)
		api.POST("/audio/speech", h.Speech)
		api.POST("/image", h.Image)
		api.GET("/news/headlines", h.News)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// surface *http.MaxBytesError on body reads, which handlers map to 413.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
