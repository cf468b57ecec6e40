package archive

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"viral_feed/internal/domain"
)

// PostsPerCategory is how many synthetic posts each category receives.
const PostsPerCategory = 4

var titleTemplates = []string{
	"Why {cat} Is Exploding This Year",
	"The Secret To Mastering {cat} Quickly",
	"10 {cat} Mistakes You Are Making",
	"How I Made $5000 with {cat}",
	"The Ultimate Guide to {cat}",
	"{cat}: What The Experts Aren't Telling You",
	"Is {cat} The Future of Tech?",
	"Beginner's Guide to {cat} Success",
	"Stop Ignoring {cat} Before It's Too Late",
	"Top 5 Tools for {cat} Enthusiasts",
}

// NewRand returns a time-seeded generator for production use.
func NewRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}

// NewSeededRand returns a deterministic generator.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Bootstrap builds the initial pool: seed posts followed by the synthetic
// batch.
func Bootstrap(categories []string, rng *rand.Rand) []domain.Post {
	seed := SeedPosts()
	simulated := BuildSimulated(categories, rng)

	posts := make([]domain.Post, 0, len(seed)+len(simulated))
	posts = append(posts, seed...)
	return append(posts, simulated...)
}

// BuildSimulated synthesizes PostsPerCategory posts for every non-blank
// category, each with pre-attached content, and returns them shuffled.
func BuildSimulated(categories []string, rng *rand.Rand) []domain.Post {
	if rng == nil {
		rng = NewRand()
	}

	posts := make([]domain.Post, 0, len(categories)*PostsPerCategory)
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		for i := 0; i < PostsPerCategory; i++ {
			template := titleTemplates[rng.IntN(len(titleTemplates))]
			title := strings.ReplaceAll(template, "{cat}", category)

			posts = append(posts, domain.Post{
				ID:          fmt.Sprintf("sim-%s-%d", category, i),
				Title:       title,
				Excerpt:     fmt.Sprintf("Learn the essential strategies behind %s and why it matters today.", category),
				Category:    category,
				Author:      "Staff Writer",
				ReadTime:    fmt.Sprintf("%d min read", rng.IntN(10)+3),
				Views:       domain.HumanizeViews(float64((rng.IntN(800) + 50) * 1_000)),
				PublishDate: fmt.Sprintf("%d days ago", rng.IntN(30)+1),
				Type:        domain.PostStandard,
				Content:     simulatedContent(category, title, rng),
			})
		}
	}

	rng.Shuffle(len(posts), func(i, j int) {
		posts[i], posts[j] = posts[j], posts[i]
	})

	return posts
}

func simulatedContent(category, title string, rng *rand.Rand) *domain.Content {
	body := fmt.Sprintf(`<h2>Key Takeaways</h2>
<ul>
<li>%[1]s is drawing more attention than ever.</li>
<li>Small, consistent steps beat one-off bursts of effort.</li>
<li>The right tools cut the learning curve in half.</li>
</ul>
<h2>Why %[1]s Matters Now</h2>
<p>Interest in %[1]s keeps climbing, and the people who start early capture most of the upside. This guide walks through what works today.</p>
<h2>Getting Started</h2>
<p>Pick one goal, measure it weekly and cut anything that does not move it. Most beginners in %[1]s stall because they spread their effort too thin.</p>
<h2>FAQ</h2>
<p><strong>Is %[1]s worth it?</strong> For most readers, yes, if they commit for at least three months.</p>`, category)

	jsonLD := fmt.Sprintf(`{"@context":"https://schema.org","@type":"NewsArticle","headline":%q,"articleSection":%q,"speakable":{"@type":"SpeakableSpecification","cssSelector":["h2"]}}`, title, category)

	return &domain.Content{
		Title:           title,
		Body:            body,
		MetaDescription: fmt.Sprintf("Everything you need to know about %s: proven strategies, common mistakes and the tools experts use. Read the full guide now.", category),
		Tags:            []string{category, "Guide", "Trending"},
		JSONLD:          jsonLD,
		SEOScore:        float64(rng.IntN(20) + 80),
		TrendingScore:   float64(rng.IntN(40) + 60),
		SearchIntent:    "Informational",
		ImagePrompt:     fmt.Sprintf("Editorial cover photo illustrating %s, bold colors, 16:9", category),
		AuthorBio:       "Staff Writer covering trends, money and technology.",
		RelatedPosts: []domain.RelatedPost{
			{Title: fmt.Sprintf("The Ultimate Guide to %s", category), Category: category},
			{Title: fmt.Sprintf("10 %s Mistakes You Are Making", category), Category: category},
		},
	}
}
