package archive

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viral_feed/internal/domain"
)

var testCategories = []string{"Insurance", "Mortgages", "Crypto Airdrops", "Life Hacks"}

func TestBuildSimulated_FourPostsPerCategory(t *testing.T) {
	posts := BuildSimulated(testCategories, NewSeededRand(7))
	require.Len(t, posts, len(testCategories)*PostsPerCategory)

	counts := map[string]int{}
	for _, p := range posts {
		counts[p.Category]++
		assert.Contains(t, p.Title, p.Category)
		assert.Equal(t, domain.PostStandard, p.Type)
	}
	for _, c := range testCategories {
		assert.Equal(t, PostsPerCategory, counts[c], c)
	}
}

func TestBuildSimulated_ViewsAndLabels(t *testing.T) {
	viewsExpr := regexp.MustCompile(`(?i)^\d+[km]?$`)

	for _, p := range BuildSimulated(testCategories, NewSeededRand(1)) {
		assert.Regexp(t, viewsExpr, p.Views)
		views := domain.ParseViews(p.Views)
		assert.GreaterOrEqual(t, views, 50_000.0)
		assert.Less(t, views, 850_000.0)
		assert.True(t, strings.HasSuffix(p.ReadTime, " min read"), p.ReadTime)
		assert.True(t, strings.HasSuffix(p.PublishDate, " days ago"), p.PublishDate)
	}
}

func TestBuildSimulated_AttachesContent(t *testing.T) {
	for _, p := range BuildSimulated(testCategories, NewSeededRand(3)) {
		require.True(t, p.HasContent(), p.ID)
		assert.Equal(t, p.Title, p.Content.Title)
		assert.Contains(t, p.Content.Body, p.Category)
		assert.True(t, json.Valid([]byte(p.Content.JSONLD)), p.Content.JSONLD)
		assert.NotEmpty(t, p.Content.RelatedPosts)
	}
}

func TestBuildSimulated_Deterministic(t *testing.T) {
	a := BuildSimulated(testCategories, NewSeededRand(42))
	b := BuildSimulated(testCategories, NewSeededRand(42))

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Title, b[i].Title)
		assert.Equal(t, a[i].Views, b[i].Views)
	}
}

func TestBuildSimulated_Shuffled(t *testing.T) {
	categories := make([]string, 12)
	for i := range categories {
		categories[i] = fmt.Sprintf("Category %02d", i)
	}

	posts := BuildSimulated(categories, NewSeededRand(99))

	grouped := true
	for i := 0; i < len(posts); i += PostsPerCategory {
		for j := i + 1; j < i+PostsPerCategory; j++ {
			if posts[j].Category != posts[i].Category {
				grouped = false
			}
		}
	}
	assert.False(t, grouped, "posts should not be grouped by category")
}

func TestBuildSimulated_EmptyCategories(t *testing.T) {
	posts := BuildSimulated(nil, NewSeededRand(1))
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestBuildSimulated_SkipsBlankCategories(t *testing.T) {
	posts := BuildSimulated([]string{"", "Finance", "   "}, NewSeededRand(1))

	require.Len(t, posts, PostsPerCategory)
	for _, p := range posts {
		assert.Equal(t, "Finance", p.Category)
	}
}

func TestBootstrap_SeedFirst(t *testing.T) {
	posts := Bootstrap(testCategories, NewSeededRand(5))
	seed := SeedPosts()

	require.Len(t, posts, len(seed)+len(testCategories)*PostsPerCategory)
	for i := range seed {
		assert.Equal(t, seed[i].ID, posts[i].ID)
	}
	assert.Equal(t, domain.PostHero, posts[0].Type)
}

func TestSeedFeed_Shape(t *testing.T) {
	feed := SeedFeed()
	assert.Equal(t, domain.PostHero, feed.Hero.Type)
	assert.Len(t, feed.Trending, 3)
	assert.Len(t, feed.Latest, 12)
}

func TestArchive_Prepend(t *testing.T) {
	original := []domain.Post{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	a := New(original)

	size := a.Prepend([]domain.Post{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, 5, size)

	ids := postIDs(a.Snapshot())
	assert.Equal(t, []string{"x", "y", "a", "b", "c"}, ids)
	assert.Equal(t, []string{"a", "b", "c"}, postIDs(original))
}

func TestArchive_PrependEmpty(t *testing.T) {
	a := New([]domain.Post{{ID: "a"}})
	assert.Equal(t, 1, a.Prepend(nil))
}

func TestArchive_SnapshotIsCopy(t *testing.T) {
	a := New([]domain.Post{{ID: "a", Title: "original"}})
	snap := a.Snapshot()
	snap[0].Title = "changed"

	got, ok := a.Find("a")
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
}

func TestArchive_ConcurrentPrependKeepsAllBatches(t *testing.T) {
	a := New([]domain.Post{{ID: "seed"}})

	const writers = 20
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			a.Prepend([]domain.Post{
				{ID: fmt.Sprintf("w%d-0", w)},
				{ID: fmt.Sprintf("w%d-1", w)},
			})
		}(w)
	}
	wg.Wait()

	snap := a.Snapshot()
	require.Len(t, snap, 1+writers*2)
	assert.Equal(t, "seed", snap[len(snap)-1].ID)

	seen := map[string]bool{}
	for _, p := range snap {
		seen[p.ID] = true
	}
	for w := 0; w < writers; w++ {
		assert.True(t, seen[fmt.Sprintf("w%d-0", w)])
		assert.True(t, seen[fmt.Sprintf("w%d-1", w)])
	}
}

func TestArchive_ByCategoryAndFind(t *testing.T) {
	a := New([]domain.Post{
		{ID: "1", Category: "Tech"},
		{ID: "2", Category: "Finance"},
		{ID: "3", Category: "Tech"},
	})
	a.Prepend([]domain.Post{{ID: "3", Category: "Travel"}})

	assert.Equal(t, []string{"1", "3"}, postIDs(a.ByCategory("Tech")))
	assert.Empty(t, a.ByCategory("Astrology"))

	got, ok := a.Find("3")
	require.True(t, ok)
	assert.Equal(t, "Travel", got.Category)

	_, ok = a.Find("missing")
	assert.False(t, ok)
}

func TestArchive_FindByBatchKey(t *testing.T) {
	a := New(nil)
	a.Prepend([]domain.Post{{ID: "latest-0", BatchID: "b1", Title: "First article"}})
	a.Prepend([]domain.Post{{ID: "latest-0", BatchID: "b2", Title: "Second article"}})

	got, ok := a.Find("b1/latest-0")
	require.True(t, ok)
	assert.Equal(t, "First article", got.Title)

	got, ok = a.Find("b2/latest-0")
	require.True(t, ok)
	assert.Equal(t, "Second article", got.Title)

	got, ok = a.Find("latest-0")
	require.True(t, ok)
	assert.Equal(t, "Second article", got.Title)

	_, ok = a.Find("b3/latest-0")
	assert.False(t, ok)
}

func postIDs(posts []domain.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
