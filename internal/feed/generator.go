// Package feed asks the generation service for a trend-biased home feed and
// normalizes the answer into display-ready posts.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"viral_feed/internal/domain"
	"viral_feed/internal/llmjson"
)

const (
	TrendingLimit = 3
	LatestLimit   = 12

	heroPublishDate   = "Just now"
	heroReadTime      = "5 min read"
	latestAuthor      = "Staff Writer"
	latestPublishDate = "1 hour ago"
	latestReadTime    = "3 min read"
	defaultViews      = "0"

	op = "generate feed"
)

var errMissingHero = errors.New("missing hero title")

// Capability is the generation service call the generator depends on.
type Capability interface {
	RequestFeed(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type Generator struct {
	capability Capability
	categories []string
	timeout    time.Duration
	newBatchID func() string
	logger     *slog.Logger
}

// NewGenerator creates a generator over the given category vocabulary. A
// positive timeout bounds every Generate call.
func NewGenerator(capability Capability, categories []string, timeout time.Duration, logger *slog.Logger) *Generator {
	return &Generator{
		capability: capability,
		categories: append([]string(nil), categories...),
		timeout:    timeout,
		newBatchID: batchID,
		logger:     logger.With("component", "feed_generator"),
	}
}

// Generate requests a new feed biased towards trends. An empty trend list
// lets the service pick viral categories itself. All failures are
// *domain.GenerationError values.
func (g *Generator) Generate(ctx context.Context, cfg domain.PipelineConfig, trends []string) (domain.Feed, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.capability.RequestFeed(ctx, buildPrompt(cfg, g.categories, trends), feedSchema())
	if err != nil {
		return domain.Feed{}, domain.RequestFailed(ctx, op, err)
	}

	var raw rawFeed
	if err := llmjson.Decode(text, &raw); err != nil {
		return domain.Feed{}, domain.Malformed(op, err)
	}
	if raw.Hero == nil || strings.TrimSpace(raw.Hero.Title) == "" {
		return domain.Feed{}, domain.Malformed(op, errMissingHero)
	}

	feed := g.normalize(raw)

	g.logger.Debug("feed generated",
		"trends", trends,
		"trending", len(feed.Trending),
		"latest", len(feed.Latest),
		"duration", time.Since(start),
	)

	return feed, nil
}

func (g *Generator) normalize(raw rawFeed) domain.Feed {
	batch := g.newBatchID()

	hero := raw.Hero.post()
	hero.ID = "hero-" + batch
	hero.BatchID = batch
	hero.Type = domain.PostHero
	hero.PublishDate = heroPublishDate
	hero.ReadTime = heroReadTime

	feed := domain.Feed{
		Hero:     hero,
		Trending: make([]domain.Post, 0, min(len(raw.Trending), TrendingLimit)),
		Latest:   make([]domain.Post, 0, min(len(raw.Latest), LatestLimit)),
	}

	for i, t := range raw.Trending {
		if i == TrendingLimit {
			break
		}
		p := t.post()
		p.ID = "trend-" + strconv.Itoa(i)
		p.BatchID = batch
		p.Type = domain.PostTrending
		feed.Trending = append(feed.Trending, p)
	}

	for i, l := range raw.Latest {
		if i == LatestLimit {
			break
		}
		p := l.post()
		p.ID = "latest-" + strconv.Itoa(i)
		p.BatchID = batch
		p.Type = domain.PostStandard
		if p.Author == "" {
			p.Author = latestAuthor
		}
		p.PublishDate = latestPublishDate
		p.ReadTime = latestReadTime
		feed.Latest = append(feed.Latest, p)
	}

	return feed
}

func (r rawPost) post() domain.Post {
	views := strings.TrimSpace(string(r.Views))
	if views == "" {
		views = defaultViews
	}
	return domain.Post{
		Title:    strings.TrimSpace(r.Title),
		Excerpt:  strings.TrimSpace(r.Excerpt),
		Category: strings.TrimSpace(r.Category),
		Author:   strings.TrimSpace(r.Author),
		Views:    views,
	}
}

// batchID is time-ordered so batches sort by creation.
func batchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
