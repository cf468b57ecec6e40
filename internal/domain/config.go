package domain

// Credentials are the ad and affiliate network identifiers threaded through
// generation prompts.
type Credentials struct {
	AdSenseID          string `json:"adSenseId"`
	AdSenseSlotID      string `json:"adSenseSlotId"`
	AmazonAffiliateTag string `json:"amazonAffiliateTag"`
	BloggerBlogID      string `json:"bloggerBlogId"`
}

// PipelineConfig holds the generation parameters. It is passed by value into
// every generation call and never mutated.
type PipelineConfig struct {
	Niche            string      `json:"niche"`
	Frequency        string      `json:"frequency"`
	WordCount        int         `json:"wordCount"`
	Tone             string      `json:"tone"`
	IncludeImages    bool        `json:"includeImages"`
	Monetization     []string    `json:"monetization"`
	SEOStrategy      string      `json:"seoStrategy"`
	DataSource       string      `json:"dataSource"`
	TargetRegion     string      `json:"targetRegion"`
	IndexingStrategy string      `json:"indexingStrategy"`
	Language         string      `json:"language"`
	Credentials      Credentials `json:"credentials"`
}

// WithNiche returns a copy of the config targeting a single topic.
func (c PipelineConfig) WithNiche(niche string, wordCount int) PipelineConfig {
	c.Niche = niche
	c.WordCount = wordCount
	c.Monetization = append([]string(nil), c.Monetization...)
	return c
}
