package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"viral_feed/internal/domain"
)

var ErrNotFound = errors.New("not found")

var contentColumns = []string{
	"post_key", "title", "body", "meta_description", "tags", "json_ld",
	"seo_score", "trending_score", "search_intent", "image_prompt",
	"author_bio", "affiliate_product", "affiliate_cta", "related_posts",
	"projected_earnings",
}

type contentRow struct {
	PostKey           string          `db:"post_key"`
	Title             string          `db:"title"`
	Body              string          `db:"body"`
	MetaDescription   string          `db:"meta_description"`
	Tags              pq.StringArray  `db:"tags"`
	JSONLD            string          `db:"json_ld"`
	SEOScore          float64         `db:"seo_score"`
	TrendingScore     float64         `db:"trending_score"`
	SearchIntent      string          `db:"search_intent"`
	ImagePrompt       string          `db:"image_prompt"`
	AuthorBio         string          `db:"author_bio"`
	AffiliateProduct  string          `db:"affiliate_product"`
	AffiliateCTA      string          `db:"affiliate_cta"`
	RelatedPosts      []byte          `db:"related_posts"`
	ProjectedEarnings sql.NullFloat64 `db:"projected_earnings"`
}

func (r contentRow) content() (*domain.Content, error) {
	c := &domain.Content{
		Title:            r.Title,
		Body:             r.Body,
		MetaDescription:  r.MetaDescription,
		Tags:             []string(r.Tags),
		JSONLD:           r.JSONLD,
		SEOScore:         r.SEOScore,
		TrendingScore:    r.TrendingScore,
		SearchIntent:     r.SearchIntent,
		ImagePrompt:      r.ImagePrompt,
		AuthorBio:        r.AuthorBio,
		AffiliateProduct: r.AffiliateProduct,
		AffiliateCTA:     r.AffiliateCTA,
		RelatedPosts:     []domain.RelatedPost{},
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if len(r.RelatedPosts) > 0 {
		if err := json.Unmarshal(r.RelatedPosts, &c.RelatedPosts); err != nil {
			return nil, fmt.Errorf("decode related posts of %q: %w", r.PostKey, err)
		}
	}
	if r.ProjectedEarnings.Valid {
		earnings := r.ProjectedEarnings.Float64
		c.ProjectedEarnings = &earnings
	}
	return c, nil
}

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Save stores the content of the post identified by postKey (domain.Post.Key).
func (s *ContentStore) Save(ctx context.Context, postKey string, content *domain.Content) error {
	if content == nil {
		return fmt.Errorf("save content of %q: nil content", postKey)
	}

	related := content.RelatedPosts
	if related == nil {
		related = []domain.RelatedPost{}
	}
	relatedJSON, err := json.Marshal(related)
	if err != nil {
		return fmt.Errorf("encode related posts: %w", err)
	}

	tags := pq.StringArray(content.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}

	query, args, err := psql.Insert("post_contents").
		Columns(contentColumns...).
		Values(
			postKey, content.Title, content.Body, content.MetaDescription, tags, content.JSONLD,
			content.SEOScore, content.TrendingScore, content.SearchIntent, content.ImagePrompt,
			content.AuthorBio, content.AffiliateProduct, content.AffiliateCTA, string(relatedJSON),
			content.ProjectedEarnings,
		).
		Suffix(`
		ON CONFLICT (post_key) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			meta_description = EXCLUDED.meta_description,
			tags = EXCLUDED.tags,
			json_ld = EXCLUDED.json_ld,
			seo_score = EXCLUDED.seo_score,
			trending_score = EXCLUDED.trending_score,
			search_intent = EXCLUDED.search_intent,
			image_prompt = EXCLUDED.image_prompt,
			author_bio = EXCLUDED.author_bio,
			affiliate_product = EXCLUDED.affiliate_product,
			affiliate_cta = EXCLUDED.affiliate_cta,
			related_posts = EXCLUDED.related_posts,
			projected_earnings = EXCLUDED.projected_earnings,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = GetExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	return err
}

// Get returns the saved content of a post or ErrNotFound.
func (s *ContentStore) Get(ctx context.Context, postKey string) (*domain.Content, error) {
	contents, err := loadContents(ctx, GetExecutor(ctx, s.db), []string{postKey})
	if err != nil {
		return nil, err
	}
	content, ok := contents[postKey]
	if !ok {
		return nil, fmt.Errorf("content of %q: %w", postKey, ErrNotFound)
	}
	return content, nil
}

func loadContents(ctx context.Context, exec sqlx.ExtContext, postKeys []string) (map[string]*domain.Content, error) {
	result := make(map[string]*domain.Content, len(postKeys))
	if len(postKeys) == 0 {
		return result, nil
	}

	query, args, err := psql.Select(contentColumns...).
		From("post_contents").
		Where(sq.Expr("post_key = ANY(?)", pq.Array(postKeys))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []contentRow
	if err := sqlx.SelectContext(ctx, exec, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, r := range rows {
		content, err := r.content()
		if err != nil {
			return nil, err
		}
		result[r.PostKey] = content
	}
	return result, nil
}
