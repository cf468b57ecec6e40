// Package trend derives which categories are currently winning from the
// archive's view counts.
package trend

import (
	"sort"

	"viral_feed/internal/domain"
)

// TopN is the length of the trend signal.
const TopN = 3

// CategoryStat aggregates the views of one category.
type CategoryStat struct {
	Category   string
	TotalViews float64
	Count      int
	MeanViews  float64
}

// Rank returns every category ordered by mean views, highest first. Ties
// keep the order in which categories were first seen.
func Rank(posts []domain.Post) []CategoryStat {
	index := map[string]int{}
	stats := make([]CategoryStat, 0)

	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(stats)
			index[p.Category] = i
			stats = append(stats, CategoryStat{Category: p.Category})
		}
		stats[i].TotalViews += domain.ParseViews(p.Views)
		stats[i].Count++
	}

	for i := range stats {
		stats[i].MeanViews = stats[i].TotalViews / float64(stats[i].Count)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MeanViews > stats[j].MeanViews
	})

	return stats
}

// Analyze returns up to TopN category names, most trending first. An empty
// archive yields an empty signal.
func Analyze(posts []domain.Post) []string {
	return Top(Rank(posts))
}

// Top returns the names of the first TopN entries of a ranking.
func Top(stats []CategoryStat) []string {
	if len(stats) > TopN {
		stats = stats[:TopN]
	}

	top := make([]string, len(stats))
	for i, s := range stats {
		top[i] = s.Category
	}
	return top
}
