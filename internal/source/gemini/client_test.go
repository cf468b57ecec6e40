package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"

	"viral_feed/internal/domain"
)

type call struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type fakeGenerator struct {
	mu        sync.Mutex
	calls     []call
	responses []*genai.GenerateContentResponse
	errs      []error
}

func (f *fakeGenerator) generate(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt string
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		prompt = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, call{model: model, prompt: prompt, config: config})

	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return textResponse(`{}`), nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

type ClientTestSuite struct {
	suite.Suite
	fake   *fakeGenerator
	client *Client
	logger *slog.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.fake = &fakeGenerator{}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.client = newClient(Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}, s.fake.generate, s.logger)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestRequestFeed_SendsSchemaAndJoinsText() {
	s.fake.responses = []*genai.GenerateContentResponse{textResponse(`{"hero":`, `{"title":"x"}}`)}
	schema := &genai.Schema{Type: genai.TypeObject}

	text, err := s.client.RequestFeed(context.Background(), "prompt", schema)

	s.Require().NoError(err)
	s.Equal(`{"hero":{"title":"x"}}`, text)
	s.Require().Len(s.fake.calls, 1)
	s.Equal(DefaultModel, s.fake.calls[0].model)
	s.Equal("prompt", s.fake.calls[0].prompt)
	s.Equal("application/json", s.fake.calls[0].config.ResponseMIMEType)
	s.Same(schema, s.fake.calls[0].config.ResponseSchema)
}

func (s *ClientTestSuite) TestRequestArticle_SkipsThoughtParts() {
	resp := textResponse(`{"title":"T"}`)
	resp.Candidates[0].Content.Parts = append([]*genai.Part{{Text: "thinking...", Thought: true}}, resp.Candidates[0].Content.Parts...)
	s.fake.responses = []*genai.GenerateContentResponse{resp}

	text, err := s.client.RequestArticle(context.Background(), "prompt", nil)

	s.Require().NoError(err)
	s.Equal(`{"title":"T"}`, text)
}

func (s *ClientTestSuite) TestRequestFeed_EmptyResponse() {
	s.fake.responses = []*genai.GenerateContentResponse{{}}

	_, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	s.ErrorIs(err, ErrEmptyResponse)
}

func (s *ClientTestSuite) TestRetriesTransientErrors() {
	s.fake.errs = []error{
		genai.APIError{Code: 503, Status: "UNAVAILABLE"},
		fmt.Errorf("generate: %w", &genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}),
	}
	s.fake.responses = []*genai.GenerateContentResponse{nil, nil, textResponse(`{"ok":true}`)}

	text, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	s.Require().NoError(err)
	s.Equal(`{"ok":true}`, text)
	s.Len(s.fake.calls, 3)
}

func (s *ClientTestSuite) TestGivesUpAfterMaxAttempts() {
	transient := errors.New("Error 500, INTERNAL")
	s.fake.errs = []error{transient, transient, transient, transient}

	_, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	s.ErrorIs(err, transient)
	s.Len(s.fake.calls, 3)
}

func (s *ClientTestSuite) TestDoesNotRetryClientErrors() {
	s.fake.errs = []error{genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "invalid argument"}}

	_, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	var apiErr genai.APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(400, apiErr.Code)
	s.Len(s.fake.calls, 1)
}

func (s *ClientTestSuite) TestRetriesServerErrorWithCodeLikeMessage() {
	s.fake.errs = []error{genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "model overloaded, retry in 4000ms"}}
	s.fake.responses = []*genai.GenerateContentResponse{nil, textResponse(`{"ok":true}`)}

	text, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	s.Require().NoError(err)
	s.Equal(`{"ok":true}`, text)
	s.Len(s.fake.calls, 2)
}

func (s *ClientTestSuite) TestRateLimitPastDeadlineIsFinalTimeout() {
	client := newClient(Config{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        2 * time.Millisecond,
		RequestsPerMinute: 1,
	}, s.fake.generate, s.logger)

	_, err := client.RequestFeed(context.Background(), "first", nil)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = client.RequestFeed(ctx, "second", nil)

	s.ErrorIs(err, context.DeadlineExceeded)
	s.ErrorIs(err, errRateLimited)
	s.Less(time.Since(start), 40*time.Millisecond)
	s.Len(s.fake.calls, 1)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "server error", err: genai.APIError{Code: 500}, want: true},
		{name: "too many requests", err: &genai.APIError{Code: 429}, want: true},
		{name: "bad request", err: genai.APIError{Code: 400, Message: "status 503 upstream"}, want: false},
		{name: "forbidden pointer", err: fmt.Errorf("call: %w", &genai.APIError{Code: 403}), want: false},
		{name: "transport error", err: errors.New("connection reset"), want: true},
		{name: "rate limited", err: fmt.Errorf("%w: %w", errRateLimited, errors.New("burst exceeded")), want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "breaker open", err: gobreaker.ErrOpenState, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func (s *ClientTestSuite) TestDoesNotRetryCancelledContext() {
	s.fake.errs = []error{context.DeadlineExceeded}

	_, err := s.client.RequestFeed(context.Background(), "prompt", nil)

	s.ErrorIs(err, context.DeadlineExceeded)
	s.Len(s.fake.calls, 1)
}

func (s *ClientTestSuite) TestCircuitBreakerOpens() {
	client := newClient(Config{MaxAttempts: 1, BreakerFailures: 2, BreakerTimeout: time.Minute}, s.fake.generate, s.logger)
	boom := errors.New("Error 500, INTERNAL")
	s.fake.errs = []error{boom, boom, boom}

	for i := 0; i < 2; i++ {
		_, err := client.RequestFeed(context.Background(), "prompt", nil)
		s.ErrorIs(err, boom)
	}
	_, err := client.RequestFeed(context.Background(), "prompt", nil)

	s.ErrorIs(err, gobreaker.ErrOpenState)
	s.Len(s.fake.calls, 2)
}

func (s *ClientTestSuite) TestRequestImage() {
	s.fake.responses = []*genai.GenerateContentResponse{{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "Here is your image"},
			{InlineData: &genai.Blob{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}},
		}}}},
	}}

	img, err := s.client.RequestImage(context.Background(), "a neon city skyline")

	s.Require().NoError(err)
	s.Equal([]byte{0x89, 0x50}, img.Data)
	s.Equal("image/png", img.MIMEType)
	s.Equal(DefaultImageModel, s.fake.calls[0].model)
	s.True(strings.HasPrefix(s.fake.calls[0].prompt, "a neon city skyline"))
	s.Contains(s.fake.calls[0].prompt, ImageAspectRatio)
}

func (s *ClientTestSuite) TestRequestImage_NoImage() {
	s.fake.responses = []*genai.GenerateContentResponse{textResponse("I cannot draw that")}

	_, err := s.client.RequestImage(context.Background(), "prompt")

	s.ErrorIs(err, ErrNoImage)
}

func (s *ClientTestSuite) TestCalculateBackoff() {
	client := newClient(Config{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}, s.fake.generate, s.logger)

	s.Equal(time.Second, client.calculateBackoff(1))
	s.Equal(2*time.Second, client.calculateBackoff(2))
	s.Equal(4*time.Second, client.calculateBackoff(3))
	s.Equal(5*time.Second, client.calculateBackoff(4))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := New(context.Background(), Config{}, slog.Default())

	require.ErrorIs(t, err, domain.ErrConfigurationMissing)
}
