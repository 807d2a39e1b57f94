package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ai-gateway/internal/services"
)

//
// Service stubs
//

type fakeAssistant struct {
	answer string
	err    error

	lastPrompt string
	lastImage  string
	lastMime   string
	lastModel  string
	lastText   string
}

func (f *fakeAssistant) Chat(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.answer, f.err
}

func (f *fakeAssistant) Describe(ctx context.Context, image, prompt, mimeType, model string) (string, error) {
	f.lastImage, f.lastPrompt, f.lastMime, f.lastModel = image, prompt, mimeType, model
	return f.answer, f.err
}

func (f *fakeAssistant) Summarize(ctx context.Context, text, prompt string) (string, error) {
	f.lastText, f.lastPrompt = text, prompt
	return f.answer, f.err
}

type fakeSpeech struct {
	audio []byte
	err   error

	lastInput string
	lastVoice string
}

func (f *fakeSpeech) Synthesize(ctx context.Context, input, voice string) ([]byte, error) {
	f.lastInput, f.lastVoice = input, voice
	return f.audio, f.err
}

type fakeImage struct {
	url string
	err error

	lastIdentity string
	lastPrompt   string
}

func (f *fakeImage) Generate(ctx context.Context, identity, prompt, size, quality, style string) (string, error) {
	f.lastIdentity, f.lastPrompt = identity, prompt
	return f.url, f.err
}

type fakeNews struct {
	payload json.RawMessage
	err     error

	lastParams services.HeadlinesParams
}

func (f *fakeNews) Headlines(ctx context.Context, p services.HeadlinesParams) (json.RawMessage, error) {
	f.lastParams = p
	return f.payload, f.err
}

//
// Router fixture
//

type fixture struct {
	assistant *fakeAssistant
	speech    *fakeSpeech
	image     *fakeImage
	news      *fakeNews
	router    *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		assistant: &fakeAssistant{answer: "answer"},
		speech:    &fakeSpeech{audio: []byte("mp3-bytes")},
		image:     &fakeImage{url: "https://img/1.png"},
		news:      &fakeNews{payload: json.RawMessage(`{"articles":[]}`)},
	}
	h := New(f.assistant, f.speech, f.image, f.news)

	r := gin.New()
	r.POST("/chat", h.Chat)
	r.POST("/vision", h.Vision)
	r.POST("/text", h.Text)
	r.POST("/audio/speech", h.Speech)
	r.POST("/image", h.Image)
	r.GET("/news/headlines", h.News)
	f.router = r
	return f
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return e
}

//
// Chat / Vision / Text
//

func TestChat_Success(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/chat", `{"prompt":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body: %v", err)
	}
	if resp.Message != "answer" {
		t.Fatalf("message = %q", resp.Message)
	}
	if f.assistant.lastPrompt != "hello" {
		t.Fatalf("prompt = %q", f.assistant.lastPrompt)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/chat", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestChat_ValidationErrorMapsTo400(t *testing.T) {
	f := newFixture()
	f.assistant.err = services.ErrEmptyPrompt

	w := postJSON(t, f.router, "/chat", `{"prompt":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", e.Code)
	}
	if e.Message != services.ErrEmptyPrompt.Error() {
		t.Fatalf("message = %q", e.Message)
	}
}

func TestChat_UpstreamErrorIsGeneric502(t *testing.T) {
	f := newFixture()
	f.assistant.err = errors.New("401 invalid api key sk-live-abc")

	w := postJSON(t, f.router, "/chat", `{"prompt":"hi"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != ErrCodeUpstream {
		t.Fatalf("code = %q", e.Code)
	}
	// Upstream detail must never reach the client.
	if strings.Contains(w.Body.String(), "sk-live-abc") {
		t.Fatal("upstream error detail leaked to the client")
	}
}

func TestChat_EmptyUpstreamMapsTo502(t *testing.T) {
	f := newFixture()
	f.assistant.err = services.ErrEmptyUpstreamResponse

	w := postJSON(t, f.router, "/chat", `{"prompt":"hi"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeEmptyUpstream {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestVision_ForwardsAllFields(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/vision",
		`{"image":"https://x/p.jpg","prompt":"what?","mime_type":"image/png","model":"gpt-4o"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if f.assistant.lastImage != "https://x/p.jpg" || f.assistant.lastPrompt != "what?" ||
		f.assistant.lastMime != "image/png" || f.assistant.lastModel != "gpt-4o" {
		t.Fatalf("fields not forwarded: %+v", f.assistant)
	}
}

func TestText_ForwardsTextAndPrompt(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/text", `{"text":"long body","prompt":"Translate:"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if f.assistant.lastText != "long body" || f.assistant.lastPrompt != "Translate:" {
		t.Fatalf("fields not forwarded: %+v", f.assistant)
	}
}

//
// Speech / Image
//

func TestSpeech_ReturnsRawAudio(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/audio/speech", `{"input":"hello","voice":"nova"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if w.Body.String() != "mp3-bytes" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if f.speech.lastInput != "hello" || f.speech.lastVoice != "nova" {
		t.Fatalf("fields not forwarded: %+v", f.speech)
	}
}

func TestImage_Success(t *testing.T) {
	f := newFixture()

	w := postJSON(t, f.router, "/image", `{"prompt":"a fox"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp ImageURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body: %v", err)
	}
	if resp.URL != "https://img/1.png" {
		t.Fatalf("url = %q", resp.URL)
	}
	if f.image.lastPrompt != "a fox" {
		t.Fatalf("prompt = %q", f.image.lastPrompt)
	}
}

func TestImage_IdentityFromHeaderOrIP(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/image", strings.NewReader(`{"prompt":"a fox"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-42")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if f.image.lastIdentity != "user-42" {
		t.Fatalf("identity = %q, want user-42", f.image.lastIdentity)
	}

	req = httptest.NewRequest(http.MethodPost, "/image", strings.NewReader(`{"prompt":"a fox"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.7:1234"
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if f.image.lastIdentity != "192.0.2.7" {
		t.Fatalf("identity = %q, want client IP", f.image.lastIdentity)
	}
}

func TestImage_QuotaExceededMapsTo429(t *testing.T) {
	f := newFixture()
	f.image.err = services.ErrQuotaExceeded

	w := postJSON(t, f.router, "/image", `{"prompt":"a fox"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeQuotaExceeded {
		t.Fatalf("code = %q", e.Code)
	}
}

//
// News
//

func TestNews_ForwardsQueryParams(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet,
		"/news/headlines?country=gb&category=sports&lang=en&max=5&q=cup", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q", ct)
	}
	want := services.HeadlinesParams{Country: "gb", Category: "sports", Lang: "en", Max: "5", Q: "cup"}
	if f.news.lastParams != want {
		t.Fatalf("params = %+v", f.news.lastParams)
	}
	if w.Body.String() != `{"articles":[]}` {
		t.Fatalf("payload mutated: %s", w.Body.String())
	}
}

func TestNews_NotConfiguredMapsTo503(t *testing.T) {
	f := newFixture()
	f.news.err = services.ErrNewsNotConfigured

	req := httptest.NewRequest(http.MethodGet, "/news/headlines", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeUnavailable {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestNews_InvalidLangMapsTo400(t *testing.T) {
	f := newFixture()
	f.news.err = services.ErrInvalidLanguage

	req := httptest.NewRequest(http.MethodGet, "/news/headlines?lang=bogus!", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("code = %q", e.Code)
	}
}

//
// Body size cap
//

func TestBindJSON_OversizedBodyMapsTo413(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture()
	h := New(f.assistant, f.speech, f.image, f.news)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 64)
		c.Next()
	})
	r.POST("/chat", h.Chat)

	big := `{"prompt":"` + strings.Repeat("a", 200) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(big)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodePayloadTooLarge {
		t.Fatalf("code = %q", e.Code)
	}
}
