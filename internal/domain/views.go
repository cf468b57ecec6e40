package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseViews converts a humanized view count ("2.4M", "450k", "1,200") into
// a number. Unparseable input yields 0.
func ParseViews(views string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(views, ",", ""))
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n * multiplier
}

// HumanizeViews renders a view count the way posts display it.
func HumanizeViews(n float64) string {
	switch {
	case n >= 1_000_000:
		return strings.TrimSuffix(strconv.FormatFloat(n/1_000_000, 'f', 1, 64), ".0") + "M"
	case n >= 1_000:
		return strconv.FormatFloat(math.Floor(n/1_000), 'f', 0, 64) + "k"
	default:
		return strconv.FormatFloat(math.Floor(n), 'f', 0, 64)
	}
}
