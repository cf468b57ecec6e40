package service

import (
	"encoding/json"
	"strings"

	"viral_feed/internal/domain"
	"viral_feed/internal/markup"
)

// DefaultSiteURL is the base URL shown in search previews.
const DefaultSiteURL = "https://www.yourblog.com"

const (
	snippetTitleLimit       = 60
	snippetDescriptionLimit = 160
	snippetExcerptLimit     = 150
)

// Snippet renders the search-result preview of an article.
func Snippet(siteURL string, content *domain.Content) domain.SERPSnippet {
	url := strings.TrimRight(siteURL, "/")
	if len(content.Tags) > 0 {
		url += "/" + slug(content.Tags[0])
	}

	return domain.SERPSnippet{
		Title:       markup.Truncate(content.Title, snippetTitleLimit),
		URL:         url,
		Description: markup.Truncate(content.MetaDescription, snippetDescriptionLimit),
		Excerpt:     markup.Excerpt(content.Body, snippetExcerptLimit),
		Tags:        content.Tags,
	}
}

// ValidJSONLD reports whether blob is a JSON object naming a schema.org type.
func ValidJSONLD(blob string) bool {
	var doc map[string]any
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return false
	}
	t, ok := doc["@type"]
	return ok && t != ""
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
