package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host state cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE",
		"LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED", "API_BASE_PATH",
		"API_SHARED_SECRET",
		"OPENAI_API_KEY", "OPENAI_ORG", "OPENAI_PROJECT", "OPENAI_BASE_URL",
		"CHAT_MODEL", "VISION_MODEL", "SPEECH_MODEL", "IMAGE_MODEL", "SPEECH_VOICE",
		"NEWS_API_KEY", "NEWS_BASE_URL", "UPSTREAM_TIMEOUT",
		"RATE_LIMIT", "RATE_WINDOW", "IMAGE_DAILY_LIMIT", "MAX_BODY_BYTES",
		"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAI.BaseURL = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o-mini" || cfg.OpenAI.SpeechModel != "tts-1" ||
		cfg.OpenAI.ImageModel != "dall-e-3" || cfg.OpenAI.SpeechVoice != "alloy" {
		t.Errorf("model defaults = %+v", cfg.OpenAI)
	}
	if cfg.News.BaseURL != "https://gnews.io/api/v4" {
		t.Errorf("News.BaseURL = %q", cfg.News.BaseURL)
	}
	if cfg.News.APIKey != "" {
		t.Errorf("News.APIKey should default empty, got %q", cfg.News.APIKey)
	}
	if cfg.UpstreamTimeout != 60*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.RateLimit != 60 || cfg.RateWindow != time.Minute {
		t.Errorf("rate limit defaults = %d/%v", cfg.RateLimit, cfg.RateWindow)
	}
	if cfg.ImageDailyLimit != 5 {
		t.Errorf("ImageDailyLimit = %d", cfg.ImageDailyLimit)
	}
	if cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.WriteTimeout != 120*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.WriteTimeout)
	}
	if cfg.SharedSecret != "" {
		t.Errorf("SharedSecret should default empty, got %q", cfg.SharedSecret)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL should default disabled")
	}
	if cfg.OTEL.SampleRatio != 1.0 {
		t.Errorf("OTEL.SampleRatio = %v", cfg.OTEL.SampleRatio)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("OPENAI_BASE_URL", "http://127.0.0.1:9999/v1/")
	t.Setenv("NEWS_API_KEY", "gnews-key")
	t.Setenv("NEWS_BASE_URL", "http://127.0.0.1:9998/api/v4/")
	t.Setenv("API_SHARED_SECRET", " secret ")
	t.Setenv("API_BASE_PATH", "api/v1/")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("UPSTREAM_TIMEOUT", "90s")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_WINDOW", "10s")
	t.Setenv("IMAGE_DAILY_LIMIT", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("APIKey not trimmed: %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.BaseURL != "http://127.0.0.1:9999/v1" {
		t.Errorf("BaseURL trailing slash kept: %q", cfg.OpenAI.BaseURL)
	}
	if cfg.News.BaseURL != "http://127.0.0.1:9998/api/v4" {
		t.Errorf("News.BaseURL trailing slash kept: %q", cfg.News.BaseURL)
	}
	if cfg.SharedSecret != "secret" {
		t.Errorf("SharedSecret not trimmed: %q", cfg.SharedSecret)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.GinMode != "release" {
		t.Errorf("unknown GIN_MODE should fall back to release, got %q", cfg.GinMode)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LOG_LEVEL warning should normalize to warn, got %q", cfg.LogLevel)
	}
	if cfg.UpstreamTimeout != 90*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.RateLimit != 5 || cfg.RateWindow != 10*time.Second || cfg.ImageDailyLimit != 2 {
		t.Errorf("limits = %d/%v/%d", cfg.RateLimit, cfg.RateWindow, cfg.ImageDailyLimit)
	}
	wantOrigins := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, wantOrigins) {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing api key", map[string]string{}, "OPENAI_API_KEY"},
		{"bad log level", map[string]string{"OPENAI_API_KEY": "k", "LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"zero rate limit", map[string]string{"OPENAI_API_KEY": "k", "RATE_LIMIT": "0"}, "RATE_LIMIT"},
		{"negative timeout", map[string]string{"OPENAI_API_KEY": "k", "READ_TIMEOUT": "-1s"}, "timeouts"},
		{"zero quota", map[string]string{"OPENAI_API_KEY": "k", "IMAGE_DAILY_LIMIT": "0"}, "IMAGE_DAILY_LIMIT"},
		{"bad sample ratio", map[string]string{"OPENAI_API_KEY": "k", "OTEL_TRACES_SAMPLER_ARG": "2.5"}, "OTEL_TRACES_SAMPLER_ARG"},
		{"zero body cap", map[string]string{"OPENAI_API_KEY": "k", "MAX_BODY_BYTES": "0"}, "MAX_BODY_BYTES"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	clearEnv(t)

	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad should panic when validation fails")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
		{"/api/v1///", "/api/v1"},
		{"  /api  ", "/api"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"0", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("TEST_BOOL", tc.val)
		if got := getbool("TEST_BOOL", tc.def); got != tc.want {
			t.Errorf("getbool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}
