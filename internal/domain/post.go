package domain

import "time"

// PostType is the display variant of a post.
type PostType string

const (
	PostHero     PostType = "HERO"
	PostStandard PostType = "STANDARD"
	PostTrending PostType = "TRENDING"
)

// Post is a single content item with display metadata. Generated posts
// reuse positional ids ("trend-0", "latest-3") in every batch; BatchID tells
// them apart.
type Post struct {
	ID          string   `json:"id"`
	BatchID     string   `json:"batchId,omitempty"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Category    string   `json:"category"`
	Author      string   `json:"author,omitempty"`
	ReadTime    string   `json:"readTime,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Views       string   `json:"views"`
	PublishDate string   `json:"publishDate,omitempty"`
	Type        PostType `json:"type"`
	Content     *Content `json:"content,omitempty"`
}

// Key identifies the post across merged batches.
func (p Post) Key() string {
	if p.BatchID == "" {
		return p.ID
	}
	return p.BatchID + "/" + p.ID
}

// HasContent reports whether the post already carries usable article content.
func (p Post) HasContent() bool {
	return p.Content != nil && !p.Content.IsEmpty()
}

// Content is the generated article body plus SEO metadata for one post.
type Content struct {
	Title             string        `json:"title"`
	Body              string        `json:"body"`
	MetaDescription   string        `json:"metaDescription"`
	Tags              []string      `json:"tags"`
	JSONLD            string        `json:"jsonLd"`
	SEOScore          float64       `json:"seoScore"`
	TrendingScore     float64       `json:"trendingScore"`
	SearchIntent      string        `json:"searchIntent"`
	ImagePrompt       string        `json:"imagePrompt"`
	AuthorBio         string        `json:"authorBio"`
	AffiliateProduct  string        `json:"affiliateProduct,omitempty"`
	AffiliateCTA      string        `json:"affiliateCta,omitempty"`
	RelatedPosts      []RelatedPost `json:"relatedPosts"`
	ProjectedEarnings *float64      `json:"projectedEarnings,omitempty"`
}

// IsEmpty is true when neither a title nor a body is present.
func (c *Content) IsEmpty() bool {
	return c == nil || (c.Title == "" && c.Body == "")
}

// RelatedPost is a stub pointing at another article.
type RelatedPost struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Feed is the curated subset shown on the home view.
type Feed struct {
	Hero     Post   `json:"hero"`
	Trending []Post `json:"trending"`
	Latest   []Post `json:"latest"`
}

// Posts flattens the feed in display order: hero, trending, latest.
func (f Feed) Posts() []Post {
	posts := make([]Post, 0, 1+len(f.Trending)+len(f.Latest))
	posts = append(posts, f.Hero)
	posts = append(posts, f.Trending...)
	posts = append(posts, f.Latest...)
	return posts
}

// Hydration is the resolved content for one post. PostID holds the post Key
// of the originating request so callers can drop responses for posts the
// user has already left.
type Hydration struct {
	PostID   string   `json:"postId"`
	Content  *Content `json:"content"`
	ReadTime string   `json:"readTime"`
	Cached   bool     `json:"cached"`
}

// GenerationRun holds statistics about one feed generation.
type GenerationRun struct {
	Trends      []string
	HeroID      string
	Generated   int
	ArchiveSize int
	Persisted   int
	Published   int
	Errors      int
	Duration    time.Duration
}

// RunState is the persisted progress of feed generation.
type RunState struct {
	ID             int64     `db:"id"`
	Key            string    `db:"key"`
	LastRunAt      time.Time `db:"last_run_at"`
	LastHeroID     string    `db:"last_hero_id"`
	TotalGenerated int64     `db:"total_generated"`
}
