package hydrate

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"

	"viral_feed/internal/domain"
)

type fakeCapability struct {
	text    string
	err     error
	block   bool
	prompts []string
}

func (f *fakeCapability) RequestArticle(ctx context.Context, prompt string, _ *genai.Schema) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type HydratorTestSuite struct {
	suite.Suite
	capability *fakeCapability
	hydrator   *Hydrator
	cfg        domain.PipelineConfig
	logger     *slog.Logger
}

func (s *HydratorTestSuite) SetupTest() {
	s.capability = &fakeCapability{}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.hydrator = NewHydrator(s.capability, time.Second, s.logger)
	s.cfg = domain.PipelineConfig{
		Niche:        "Global Viral News",
		WordCount:    800,
		Language:     "English",
		Monetization: []string{"AdSense", "Amazon Affiliate"},
		Credentials:  domain.Credentials{AmazonAffiliateTag: "velocity20-20"},
	}
}

func TestHydratorTestSuite(t *testing.T) {
	suite.Run(t, new(HydratorTestSuite))
}

func (s *HydratorTestSuite) TestHydrate_CachedContentIsReturnedAsIs() {
	content := &domain.Content{Title: "Cached", Body: "<p>already here</p>"}
	post := domain.Post{ID: "sim-Auto-0", Title: "Cached", ReadTime: "7 min read", Content: content}

	result, err := s.hydrator.Hydrate(context.Background(), post, s.cfg)

	s.Require().NoError(err)
	s.True(result.Cached)
	s.Same(content, result.Content)
	s.Equal("sim-Auto-0", result.PostID)
	s.Equal("7 min read", result.ReadTime)
	s.Empty(s.capability.prompts)
}

func (s *HydratorTestSuite) TestHydrate_CachedWithoutReadTime() {
	post := domain.Post{ID: "p", Content: &domain.Content{Body: "<p>only a body</p>"}}

	result, err := s.hydrator.Hydrate(context.Background(), post, s.cfg)

	s.Require().NoError(err)
	s.True(result.Cached)
	s.Equal("1 min read", result.ReadTime)
	s.Empty(s.capability.prompts)
}

func (s *HydratorTestSuite) TestHydrate_EmptyContentIsGenerated() {
	s.capability.text = `{"title":"Generated","body":"<p>fresh text</p>"}`
	post := domain.Post{ID: "latest-3", Title: "Why Insurance Is Exploding", Content: &domain.Content{}}

	result, err := s.hydrator.Hydrate(context.Background(), post, s.cfg)

	s.Require().NoError(err)
	s.False(result.Cached)
	s.Equal("Generated", result.Content.Title)
	s.Require().Len(s.capability.prompts, 1)
	s.Contains(s.capability.prompts[0], `Topic: "Why Insurance Is Exploding"`)
	s.Contains(s.capability.prompts[0], "about 1500 words")
	s.Contains(s.capability.prompts[0], "velocity20-20")
	s.Equal("Global Viral News", s.cfg.Niche)
}

func (s *HydratorTestSuite) TestHydrate_NormalizesResponse() {
	body := "<h2>Key Takeaways</h2><p>" + strings.Repeat("word ", 450) + "</p>"
	s.capability.text = "```json\n{" +
		`"title":" Generated ","body":"` + body + `",` +
		`"tags":["Insurance"," ",""],` +
		`"jsonLd":{"@context":"https://schema.org", "@type":"NewsArticle"},` +
		`"seoScore":"92","trendingScore":105,` +
		`"relatedPosts":[{"title":"Next","category":"Insurance"},{"title":"","category":"x"}],` +
		`"projectedEarnings":"$12.50"` +
		"}\n```"

	result, err := s.hydrator.Hydrate(context.Background(), domain.Post{ID: "hero-1", Title: "T"}, s.cfg)
	s.Require().NoError(err)

	c := result.Content
	s.Equal("hero-1", result.PostID)
	s.Equal("Generated", c.Title)
	s.Equal([]string{"Insurance"}, c.Tags)
	s.Equal(`{"@context":"https://schema.org","@type":"NewsArticle"}`, c.JSONLD)
	s.Equal(92.0, c.SEOScore)
	s.Equal(105.0, c.TrendingScore)
	s.Equal([]domain.RelatedPost{{Title: "Next", Category: "Insurance"}}, c.RelatedPosts)
	s.Require().NotNil(c.ProjectedEarnings)
	s.InDelta(12.5, *c.ProjectedEarnings, 0.0001)
	s.Equal("3 min read", result.ReadTime)
}

func (s *HydratorTestSuite) TestHydrate_OptionalFieldsDefault() {
	s.capability.text = `{"title":"T","body":"Plain markdown body"}`

	result, err := s.hydrator.Hydrate(context.Background(), domain.Post{ID: "p", Title: "T"}, s.cfg)
	s.Require().NoError(err)

	c := result.Content
	s.NotNil(c.Tags)
	s.Empty(c.Tags)
	s.NotNil(c.RelatedPosts)
	s.Empty(c.RelatedPosts)
	s.Zero(c.SEOScore)
	s.Zero(c.TrendingScore)
	s.Empty(c.JSONLD)
	s.Nil(c.ProjectedEarnings)
}

func (s *HydratorTestSuite) TestHydrate_MissingMandatoryFields() {
	tests := map[string]string{
		"no title":        `{"body":"<p>text</p>"}`,
		"no body":         `{"title":"T"}`,
		"markup only":     `{"title":"T","body":"<p> </p><script>var x = 1;</script>"}`,
		"whitespace body": `{"title":"T","body":"   "}`,
	}

	for name, text := range tests {
		s.Run(name, func() {
			s.capability.text = text

			result, err := s.hydrator.Hydrate(context.Background(), domain.Post{ID: "p", Title: "T"}, s.cfg)

			s.ErrorIs(err, domain.ErrGenerationFailed)
			s.NotErrorIs(err, domain.ErrMalformedResponse)
			var genErr *domain.GenerationError
			s.Require().ErrorAs(err, &genErr)
			s.Equal(domain.ReasonIncomplete, genErr.Reason)
			s.Equal("p", result.PostID)
			s.Nil(result.Content)
		})
	}
}

func (s *HydratorTestSuite) TestHydrate_Malformed() {
	s.capability.text = "not json at all"

	_, err := s.hydrator.Hydrate(context.Background(), domain.Post{ID: "p", Title: "T"}, s.cfg)

	s.ErrorIs(err, domain.ErrMalformedResponse)
}

func (s *HydratorTestSuite) TestHydrate_RequestError() {
	cause := errors.New("quota exhausted")
	s.capability.err = cause

	result, err := s.hydrator.Hydrate(context.Background(), domain.Post{ID: "p", Title: "T"}, s.cfg)

	s.ErrorIs(err, domain.ErrGenerationFailed)
	s.ErrorIs(err, cause)
	s.Equal("p", result.PostID)
}

func (s *HydratorTestSuite) TestHydrate_Timeout() {
	hydrator := NewHydrator(s.capability, 10*time.Millisecond, s.logger)
	s.capability.block = true

	_, err := hydrator.Hydrate(context.Background(), domain.Post{ID: "p", Title: "T"}, s.cfg)

	var genErr *domain.GenerationError
	s.Require().ErrorAs(err, &genErr)
	s.Equal(domain.ReasonTimeout, genErr.Reason)
}

func (s *HydratorTestSuite) TestArticle_UsesConfigNiche() {
	s.capability.text = `{"title":"T","body":"text"}`

	_, err := s.hydrator.Article(context.Background(), s.cfg)

	s.Require().NoError(err)
	s.Contains(s.capability.prompts[0], `Topic: "Global Viral News"`)
	s.Contains(s.capability.prompts[0], "about 800 words")
	s.Contains(s.capability.prompts[0], "AdSense, Amazon Affiliate")
}
