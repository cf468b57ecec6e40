package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"viral_feed/internal/archive"
	"viral_feed/internal/domain"
	"viral_feed/internal/metrics"
	"viral_feed/internal/trend"
)

// RunStateKey identifies the feed generator's row in the run state store.
const RunStateKey = "feed"

// Deps are the collaborators of a BlogService. Generator, Hydrator and
// Archive are required; the image resolver, stores and publisher are
// optional and skipped when nil.
type Deps struct {
	Generator FeedGenerator
	Hydrator  ContentHydrator
	Images    ImageResolver

	Posts     PostStore
	Contents  ContentStore
	RunState  RunStateStore
	TxManager TransactionManager
	Publisher Publisher

	Archive     *archive.Archive
	InitialFeed domain.Feed
	SiteURL     string
}

type BlogService struct {
	generator FeedGenerator
	hydrator  ContentHydrator
	images    ImageResolver
	posts     PostStore
	contents  ContentStore
	runState  RunStateStore
	txManager TransactionManager
	publisher Publisher
	archive   *archive.Archive
	siteURL   string
	logger    *slog.Logger

	mu      sync.RWMutex
	current domain.Feed
}

// Bootstrap builds the startup archive (seed posts followed by a simulated
// batch for every category) and the seed home feed.
func Bootstrap(categories []string, rng *rand.Rand) (*archive.Archive, domain.Feed) {
	return archive.New(archive.Bootstrap(categories, rng)), archive.SeedFeed()
}

func NewBlogService(deps Deps, logger *slog.Logger) *BlogService {
	siteURL := deps.SiteURL
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}

	s := &BlogService{
		generator: deps.Generator,
		hydrator:  deps.Hydrator,
		images:    deps.Images,
		posts:     deps.Posts,
		contents:  deps.Contents,
		runState:  deps.RunState,
		txManager: deps.TxManager,
		publisher: deps.Publisher,
		archive:   deps.Archive,
		siteURL:   siteURL,
		logger:    logger.With("component", "blog_service"),
		current:   deps.InitialFeed,
	}
	metrics.ArchiveSize.Set(float64(s.archive.Len()))
	return s
}

// CurrentFeed returns the last successfully generated feed, or the initial
// feed before any generation succeeded.
func (s *BlogService) CurrentFeed() domain.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Archive returns a snapshot of every post, most recent first.
func (s *BlogService) Archive() []domain.Post {
	return s.archive.Snapshot()
}

// Restore prepends up to limit posts persisted by earlier runs.
func (s *BlogService) Restore(ctx context.Context, limit int) (int, error) {
	if s.posts == nil || limit <= 0 {
		return 0, nil
	}

	posts, err := s.posts.Recent(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load recent posts: %w", err)
	}
	if len(posts) == 0 {
		return 0, nil
	}

	size := s.archive.Prepend(posts)
	metrics.ArchiveSize.Set(float64(size))
	s.logger.Info("restored posts", "count", len(posts), "archive_size", size)

	return len(posts), nil
}

// GenerateFeed asks for a new feed biased towards the archive's trending
// categories. On success the new feed replaces the current one and its posts
// are prepended to the archive, then persisted and published. Sink failures
// are counted in the returned run but do not fail it. On failure the current
// feed and the archive are left untouched.
func (s *BlogService) GenerateFeed(ctx context.Context, cfg domain.PipelineConfig) (*domain.GenerationRun, error) {
	startTime := time.Now()

	ranking := trend.Rank(s.archive.Snapshot())
	trends := trend.Top(ranking)

	s.logger.Info("starting feed generation",
		"trends", trends,
		"archive_size", s.archive.Len(),
	)

	feed, err := s.generator.Generate(ctx, cfg, trends)
	if err != nil {
		metrics.FeedGenerations.WithLabelValues("failed").Inc()
		s.logger.Error("feed generation failed", "error", err)
		return nil, fmt.Errorf("generate feed: %w", err)
	}

	batch := feed.Posts()

	// The current feed must always be the head of the archive.
	s.mu.Lock()
	s.current = feed
	size := s.archive.Prepend(batch)
	s.mu.Unlock()

	run := &domain.GenerationRun{
		Trends:      trends,
		HeroID:      feed.Hero.ID,
		Generated:   len(batch),
		ArchiveSize: size,
	}

	if err := s.persist(ctx, run, batch); err != nil {
		run.Errors++
		metrics.SinkErrors.WithLabelValues("postgres").Inc()
		s.logger.Warn("failed to persist feed", "error", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishBatch(ctx, batch, trends); err != nil {
			run.Errors++
			metrics.SinkErrors.WithLabelValues("rabbitmq").Inc()
			s.logger.Warn("failed to publish feed", "error", err)
		} else {
			run.Published = len(batch)
		}
	}

	run.Duration = time.Since(startTime)
	s.record(run, ranking)

	s.logger.Info("feed generation completed",
		"hero_id", run.HeroID,
		"generated", run.Generated,
		"archive_size", run.ArchiveSize,
		"persisted", run.Persisted,
		"published", run.Published,
		"errors", run.Errors,
		"duration", run.Duration,
	)

	return run, nil
}

// Hydrate resolves the content of an archived post. ref is a post Key; a
// bare id resolves to the most recent post carrying it.
func (s *BlogService) Hydrate(ctx context.Context, ref string, cfg domain.PipelineConfig) (domain.Hydration, error) {
	post, ok := s.archive.Find(ref)
	if !ok {
		return domain.Hydration{PostID: ref}, fmt.Errorf("hydrate %q: %w", ref, domain.ErrPostNotFound)
	}

	result, err := s.hydrator.Hydrate(ctx, post, cfg)
	if err != nil {
		return result, fmt.Errorf("hydrate %q: %w", ref, err)
	}

	if !result.Cached && s.contents != nil {
		if err := s.contents.Save(ctx, post.Key(), result.Content); err != nil {
			metrics.SinkErrors.WithLabelValues("postgres").Inc()
			s.logger.Warn("failed to save content", "post_key", post.Key(), "error", err)
		}
	}

	return result, nil
}

// Simulate generates one article for cfg.Niche and previews how it would
// appear in search results. The image is only requested when
// cfg.IncludeImages is set; an image failure does not fail the simulation.
func (s *BlogService) Simulate(ctx context.Context, cfg domain.PipelineConfig) (*domain.Simulation, error) {
	content, err := s.hydrator.Article(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	sim := &domain.Simulation{
		Content:     content,
		SchemaValid: ValidJSONLD(content.JSONLD),
		Snippet:     Snippet(s.siteURL, content),
	}

	if cfg.IncludeImages && content.ImagePrompt != "" && s.images != nil {
		img, err := s.images.RequestImage(ctx, content.ImagePrompt)
		if err != nil {
			s.logger.Warn("image generation failed", "error", err)
		} else {
			sim.ImageURL = img.DataURL()
		}
	}

	return sim, nil
}

func (s *BlogService) persist(ctx context.Context, run *domain.GenerationRun, batch []domain.Post) error {
	if s.posts == nil || s.txManager == nil {
		return nil
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.posts.UpsertBatch(txCtx, batch)
		if err != nil {
			return fmt.Errorf("upsert posts: %w", err)
		}

		if s.runState != nil {
			state, err := s.runState.Get(txCtx, RunStateKey)
			if err != nil {
				return fmt.Errorf("get run state: %w", err)
			}

			state.Key = RunStateKey
			state.LastRunAt = time.Now()
			state.LastHeroID = run.HeroID
			state.TotalGenerated += int64(n)

			if err := s.runState.Update(txCtx, state); err != nil {
				return fmt.Errorf("update run state: %w", err)
			}
		}

		run.Persisted = n
		return nil
	})
}

func (s *BlogService) record(run *domain.GenerationRun, ranking []trend.CategoryStat) {
	metrics.FeedGenerations.WithLabelValues("success").Inc()
	metrics.FeedGenerationDuration.Observe(run.Duration.Seconds())
	metrics.ArchiveSize.Set(float64(run.ArchiveSize))

	metrics.TrendMeanViews.Reset()
	for i, stat := range ranking {
		if i == trend.TopN {
			break
		}
		metrics.TrendMeanViews.WithLabelValues(stat.Category).Set(stat.MeanViews)
	}
}
