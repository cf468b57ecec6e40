package hydrate

import (
	"bytes"
	"encoding/json"
	"strings"

	"viral_feed/internal/domain"
	"viral_feed/internal/llmjson"
)

type rawContent struct {
	Title             string               `json:"title"`
	Body              string               `json:"body"`
	MetaDescription   string               `json:"metaDescription"`
	Tags              []string             `json:"tags"`
	JSONLD            json.RawMessage      `json:"jsonLd"`
	SEOScore          llmjson.Number       `json:"seoScore"`
	TrendingScore     llmjson.Number       `json:"trendingScore"`
	SearchIntent      string               `json:"searchIntent"`
	ImagePrompt       string               `json:"imagePrompt"`
	AuthorBio         string               `json:"authorBio"`
	AffiliateProduct  string               `json:"affiliateProduct"`
	AffiliateCTA      string               `json:"affiliateCta"`
	RelatedPosts      []domain.RelatedPost `json:"relatedPosts"`
	ProjectedEarnings *llmjson.Number      `json:"projectedEarnings"`
}

func (r rawContent) content() *domain.Content {
	c := &domain.Content{
		Title:            strings.TrimSpace(r.Title),
		Body:             strings.TrimSpace(r.Body),
		MetaDescription:  strings.TrimSpace(r.MetaDescription),
		Tags:             make([]string, 0, len(r.Tags)),
		JSONLD:           jsonLD(r.JSONLD),
		SEOScore:         float64(r.SEOScore),
		TrendingScore:    float64(r.TrendingScore),
		SearchIntent:     strings.TrimSpace(r.SearchIntent),
		ImagePrompt:      strings.TrimSpace(r.ImagePrompt),
		AuthorBio:        strings.TrimSpace(r.AuthorBio),
		AffiliateProduct: strings.TrimSpace(r.AffiliateProduct),
		AffiliateCTA:     strings.TrimSpace(r.AffiliateCTA),
		RelatedPosts:     make([]domain.RelatedPost, 0, len(r.RelatedPosts)),
	}

	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			c.Tags = append(c.Tags, tag)
		}
	}
	for _, rp := range r.RelatedPosts {
		if strings.TrimSpace(rp.Title) != "" {
			c.RelatedPosts = append(c.RelatedPosts, rp)
		}
	}
	if r.ProjectedEarnings != nil {
		earnings := float64(*r.ProjectedEarnings)
		c.ProjectedEarnings = &earnings
	}

	return c
}

// jsonLD keeps the structured-data blob as a serialized string. Models return
// it either as an escaped string or as an inline object.
func jsonLD(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
