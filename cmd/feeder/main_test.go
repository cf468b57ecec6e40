package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"viral_feed/internal/archive"
	"viral_feed/internal/domain"
	"viral_feed/internal/service"
	"viral_feed/internal/service/mocks"
)

type StartupTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	hydrator *mocks.MockContentHydrator
	posts    *mocks.MockPostStore
	blog     *service.BlogService
	cfg      domain.PipelineConfig
	logger   *slog.Logger
}

func (s *StartupTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.hydrator = mocks.NewMockContentHydrator(s.ctrl)
	s.posts = mocks.NewMockPostStore(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s.cfg = domain.PipelineConfig{Niche: "Global Viral News"}
	s.blog = service.NewBlogService(service.Deps{
		Hydrator: s.hydrator,
		Posts:    s.posts,
		Archive:  archive.New(nil),
	}, s.logger)
}

func (s *StartupTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestStartupTestSuite(t *testing.T) {
	suite.Run(t, new(StartupTestSuite))
}

func (s *StartupTestSuite) TestHydrateSeesRestoredPosts() {
	content := &domain.Content{Title: "Persisted", Body: "<p>saved</p>"}
	s.posts.EXPECT().Recent(gomock.Any(), 20).Return([]domain.Post{
		{ID: "latest-0", BatchID: "b1", Title: "Persisted", Category: "Auto", Views: "10k", Content: content},
	}, nil)
	s.hydrator.EXPECT().
		Hydrate(gomock.Any(), gomock.Any(), s.cfg).
		DoAndReturn(func(_ context.Context, post domain.Post, _ domain.PipelineConfig) (domain.Hydration, error) {
			s.Same(content, post.Content)
			return domain.Hydration{PostID: post.Key(), Content: post.Content, Cached: true}, nil
		})

	var out bytes.Buffer
	err := startup(context.Background(), s.blog, 20, oneShot{hydrate: "b1/latest-0"}, s.cfg, &out, s.logger)

	s.Require().NoError(err)
	var result domain.Hydration
	s.Require().NoError(json.Unmarshal(out.Bytes(), &result))
	s.Equal("b1/latest-0", result.PostID)
	s.True(result.Cached)
	s.Equal("Persisted", result.Content.Title)
}

func (s *StartupTestSuite) TestRestoreFailureStillRunsCommand() {
	s.posts.EXPECT().Recent(gomock.Any(), 20).Return(nil, errors.New("db down"))

	var out bytes.Buffer
	err := startup(context.Background(), s.blog, 20, oneShot{hydrate: "missing"}, s.cfg, &out, s.logger)

	s.ErrorIs(err, domain.ErrPostNotFound)
	s.Zero(out.Len())
}

func (s *StartupTestSuite) TestNoCommandOnlyRestores() {
	s.posts.EXPECT().Recent(gomock.Any(), 20).Return([]domain.Post{{ID: "hero-b1", BatchID: "b1"}}, nil)

	var out bytes.Buffer
	err := startup(context.Background(), s.blog, 20, oneShot{}, s.cfg, &out, s.logger)

	s.Require().NoError(err)
	s.Zero(out.Len())
	s.Len(s.blog.Archive(), 1)
	s.False(oneShot{}.requested())
}
