// Package services – NewsService
//
// This file implements the NewsService, which backs the headlines route. The
// upstream payload is forwarded verbatim; the service only normalizes the
// query: the literal category "all" drops the topic filter, the lang
// parameter must be a valid BCP-47 tag (normalized to its base language), and
// max is clamped to the range the upstream accepts.
package services

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/text/language"

	"github.com/tbourn/go-ai-gateway/internal/upstream/news"
	"github.com/tbourn/go-ai-gateway/internal/utils"
)

const (
	defaultHeadlineCount = 10
	maxHeadlineCount     = 100
)

// HeadlinesClient is the upstream contract required by NewsService.
type HeadlinesClient interface {
	Configured() bool
	TopHeadlines(ctx context.Context, q news.Query) (json.RawMessage, error)
}

// HeadlinesParams carries the raw query parameters from the news route.
type HeadlinesParams struct {
	Country  string
	Category string
	Lang     string
	Max      string
	Q        string
}

// NewsService fetches headlines from the news upstream.
type NewsService struct {
	// Client calls the headlines upstream.
	Client HeadlinesClient
}

// Headlines validates and normalizes p, queries the upstream, and returns its
// JSON payload unmodified.
//
// Returns ErrNewsNotConfigured when no news API key is set and
// ErrInvalidLanguage when p.Lang is not a parseable language tag.
func (s *NewsService) Headlines(ctx context.Context, p HeadlinesParams) (json.RawMessage, error) {
	if !s.Client.Configured() {
		return nil, ErrNewsNotConfigured
	}

	topic := strings.ToLower(strings.TrimSpace(p.Category))
	if topic == "all" {
		topic = ""
	}

	lang := strings.TrimSpace(p.Lang)
	if lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, ErrInvalidLanguage
		}
		base, _ := tag.Base()
		lang = base.String()
	}

	return s.Client.TopHeadlines(ctx, news.Query{
		Country: strings.TrimSpace(p.Country),
		Topic:   topic,
		Lang:    lang,
		Max:     utils.ClampInt(utils.AtoiDefault(p.Max, defaultHeadlineCount), 1, maxHeadlineCount),
		Q:       strings.TrimSpace(p.Q),
	})
}
