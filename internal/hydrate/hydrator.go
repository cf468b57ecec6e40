// Package hydrate resolves the full article content behind a post, either
// from content already attached to it or with a single generation call.
package hydrate

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"viral_feed/internal/domain"
	"viral_feed/internal/llmjson"
	"viral_feed/internal/markup"
	"viral_feed/internal/metrics"
)

// WordCount is the target length requested when hydrating a post.
const WordCount = 1500

const op = "hydrate content"

// Result is the resolved content for one post.
type Result = domain.Hydration

// Capability is the generation service call the hydrator depends on.
type Capability interface {
	RequestArticle(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type Hydrator struct {
	capability Capability
	timeout    time.Duration
	logger     *slog.Logger
}

// NewHydrator creates a hydrator. A positive timeout bounds every call to
// the generation service.
func NewHydrator(capability Capability, timeout time.Duration, logger *slog.Logger) *Hydrator {
	return &Hydrator{
		capability: capability,
		timeout:    timeout,
		logger:     logger.With("component", "hydrator"),
	}
}

// Hydrate returns the post's content. Attached non-empty content is returned
// as is, without a generation call. Otherwise one article is generated using
// the post title as topic. The result always carries post.Key().
func (h *Hydrator) Hydrate(ctx context.Context, post domain.Post, cfg domain.PipelineConfig) (Result, error) {
	if post.HasContent() {
		metrics.Hydrations.WithLabelValues("cached").Inc()

		readTime := post.ReadTime
		if readTime == "" {
			readTime = markup.ReadTime(post.Content.Body)
		}
		return Result{PostID: post.Key(), Content: post.Content, ReadTime: readTime, Cached: true}, nil
	}

	content, err := h.Article(ctx, cfg.WithNiche(post.Title, WordCount))
	if err != nil {
		metrics.Hydrations.WithLabelValues("failed").Inc()
		h.logger.Warn("hydration failed", "post_key", post.Key(), "error", err)
		return Result{PostID: post.Key()}, err
	}

	metrics.Hydrations.WithLabelValues("generated").Inc()
	return Result{PostID: post.Key(), Content: content, ReadTime: markup.ReadTime(content.Body)}, nil
}

// Article generates one article for cfg.Niche. Missing optional fields are
// defaulted; a missing title or a body without visible text is an
// incomplete response.
func (h *Hydrator) Article(ctx context.Context, cfg domain.PipelineConfig) (*domain.Content, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := h.capability.RequestArticle(ctx, buildPrompt(cfg), articleSchema())
	if err != nil {
		return nil, domain.RequestFailed(ctx, op, err)
	}

	var raw rawContent
	if err := llmjson.Decode(text, &raw); err != nil {
		return nil, domain.Malformed(op, err)
	}

	content := raw.content()
	if content.Title == "" {
		return nil, domain.Incomplete(op, "title")
	}
	if markup.PlainText(content.Body) == "" {
		return nil, domain.Incomplete(op, "body")
	}

	h.logger.Debug("article generated",
		"topic", cfg.Niche,
		"words", markup.WordCount(content.Body),
		"duration", time.Since(start),
	)

	return content, nil
}
