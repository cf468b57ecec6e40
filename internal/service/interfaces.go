package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"viral_feed/internal/domain"
)

type FeedGenerator interface {
	Generate(ctx context.Context, cfg domain.PipelineConfig, trends []string) (domain.Feed, error)
}

type ContentHydrator interface {
	Hydrate(ctx context.Context, post domain.Post, cfg domain.PipelineConfig) (domain.Hydration, error)
	Article(ctx context.Context, cfg domain.PipelineConfig) (*domain.Content, error)
}

type ImageResolver interface {
	RequestImage(ctx context.Context, prompt string) (domain.Image, error)
}

type PostStore interface {
	UpsertBatch(ctx context.Context, posts []domain.Post) (int, error)
	Recent(ctx context.Context, limit int) ([]domain.Post, error)
}

type ContentStore interface {
	Save(ctx context.Context, postKey string, content *domain.Content) error
}

type RunStateStore interface {
	Get(ctx context.Context, key string) (*domain.RunState, error)
	Update(ctx context.Context, state *domain.RunState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishBatch(ctx context.Context, posts []domain.Post, trends []string) error
	Close() error
}
