package archive

import (
	"sync"

	"viral_feed/internal/domain"
)

// Archive is the in-memory content pool shown in the "browse all" view.
// It is prepend-only: generated batches go in front, nothing is removed.
type Archive struct {
	mu    sync.RWMutex
	posts []domain.Post
}

// New creates an archive holding a copy of initial.
func New(initial []domain.Post) *Archive {
	posts := make([]domain.Post, len(initial))
	copy(posts, initial)
	return &Archive{posts: posts}
}

// Prepend puts batch in front of the existing posts and returns the new size.
func (a *Archive) Prepend(batch []domain.Post) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(batch) == 0 {
		return len(a.posts)
	}

	merged := make([]domain.Post, 0, len(batch)+len(a.posts))
	merged = append(merged, batch...)
	merged = append(merged, a.posts...)
	a.posts = merged

	return len(a.posts)
}

// Snapshot returns a copy of the posts, most recent first.
func (a *Archive) Snapshot() []domain.Post {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.Post, len(a.posts))
	copy(out, a.posts)
	return out
}

func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.posts)
}

// ByCategory returns the posts of one category in archive order.
func (a *Archive) ByCategory(category string) []domain.Post {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []domain.Post
	for _, p := range a.posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Find resolves a post by its Key. A bare id that repeats across merged
// batches resolves to the most recent post carrying it.
func (a *Archive) Find(ref string) (domain.Post, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, p := range a.posts {
		if p.Key() == ref || p.ID == ref {
			return p, true
		}
	}
	return domain.Post{}, false
}
