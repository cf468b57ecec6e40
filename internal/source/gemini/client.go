package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"viral_feed/internal/domain"
	"viral_feed/internal/metrics"
)

const (
	SourceID = "gemini"

	DefaultModel      = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"

	// ImageAspectRatio is requested for every hero image.
	ImageAspectRatio = "16:9"

	jsonMIMEType = "application/json"
)

var (
	ErrEmptyResponse = errors.New("empty response")
	ErrNoImage       = errors.New("no image in response")

	errRateLimited = errors.New("rate limit")
)

// Config holds Gemini client configuration.
type Config struct {
	APIKey            string
	Model             string
	ImageModel        string
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerMinute int
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client is the generation capability backed by the Gemini API.
type Client struct {
	generate       generateFunc
	model          string
	imageModel     string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	logger         *slog.Logger
}

// New creates a Gemini client. The API key falls back to GEMINI_API_KEY and
// then API_KEY; without one it returns domain.ErrConfigurationMissing.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	apiKey := cfg.APIKey
	for _, env := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if apiKey != "" {
			break
		}
		apiKey = os.Getenv(env)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key: %w", domain.ErrConfigurationMissing)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(cfg, client.Models.GenerateContent, logger), nil
}

func newClient(cfg Config, generate generateFunc, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	c := &Client{
		generate:       generate,
		model:          cfg.Model,
		imageModel:     cfg.ImageModel,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		limiter:        rate.NewLimiter(limit, 1),
		logger:         logger.With("source", SourceID),
	}

	c.breaker = gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](gobreaker.Settings{
		Name:    SourceID,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return c
}

// RequestFeed asks for a JSON document matching schema and returns its raw text.
func (c *Client) RequestFeed(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return c.requestJSON(ctx, "feed", prompt, schema)
}

// RequestArticle asks for a JSON article matching schema and returns its raw text.
func (c *Client) RequestArticle(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return c.requestJSON(ctx, "article", prompt, schema)
}

// RequestImage generates a single 16:9 image for prompt.
func (c *Client) RequestImage(ctx context.Context, prompt string) (domain.Image, error) {
	prompt = fmt.Sprintf("%s\n\nAspect ratio: %s. No text or watermarks.", strings.TrimSpace(prompt), ImageAspectRatio)

	resp, err := c.call(ctx, "image", c.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return domain.Image{}, err
	}

	for _, part := range firstParts(resp) {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return domain.Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return domain.Image{}, ErrNoImage
}

func (c *Client) requestJSON(ctx context.Context, op, prompt string, schema *genai.Schema) (string, error) {
	resp, err := c.call(ctx, op, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, part := range firstParts(resp) {
		if part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (c *Client) call(ctx context.Context, op, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err = c.do(ctx, op, model, contents, config)
		if err == nil {
			return resp, nil
		}

		if attempt == c.maxAttempts || !retryable(err) {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"operation", op,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		metrics.GenerationRequests.WithLabelValues(op, "retry").Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("%s request: %w", op, err)
}

func (c *Client) do(ctx context.Context, op, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.GenerationRequests.WithLabelValues(op, "rejected").Inc()
		// Wait fails early when the next slot lies past the deadline.
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %w", errRateLimited, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("%w: %w", errRateLimited, err)
	}

	resp, err := c.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return c.generate(ctx, model, contents, config)
	})
	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
		}
		metrics.GenerationRequests.WithLabelValues(op, status).Inc()
		return nil, err
	}

	metrics.GenerationRequests.WithLabelValues(op, "ok").Inc()
	return resp, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

// retryable reports whether err is worth another attempt. Context errors,
// limiter and breaker rejections and 4xx responses other than 429 are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, errRateLimited) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}

	if code, ok := apiErrorCode(err); ok {
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError || code == 0
	}
	return true
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}
