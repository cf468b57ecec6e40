package hydrate

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"viral_feed/internal/domain"
)

func buildPrompt(cfg domain.PipelineConfig) string {
	var b strings.Builder

	b.WriteString("You are an expert article writer and SEO strategist optimizing for revenue and search visibility.\n")
	fmt.Fprintf(&b, "Topic: %q\n", cfg.Niche)
	fmt.Fprintf(&b, "Language: %s\n", orDefault(cfg.Language, "English"))
	fmt.Fprintf(&b, "Target region: %s\n", orDefault(cfg.TargetRegion, "Global"))
	fmt.Fprintf(&b, "Tone: %s\n", orDefault(cfg.Tone, "Authoritative"))
	fmt.Fprintf(&b, "SEO strategy: %s\n", orDefault(cfg.SEOStrategy, "Viral News"))
	if cfg.WordCount > 0 {
		fmt.Fprintf(&b, "Target length: about %d words.\n", cfg.WordCount)
	}
	b.WriteString("\n")

	b.WriteString("STEP 1: ANALYZE AUDIENCE AND MONETIZATION\n")
	b.WriteString("Decide whether the topic appeals more to a Tier 1 (US/UK/CA/DE, high CPC) or a Tier 3 (IN/NG/PK/BD, high volume) audience.\n")
	b.WriteString("- Tier 1: professional, analytical, E-E-A-T focused. Use words like Analysis, Market Report, Review.")
	if tag := cfg.Credentials.AmazonAffiliateTag; tag != "" {
		fmt.Fprintf(&b, " Affiliate tag: %s.", tag)
	}
	b.WriteString(" Affiliate CTA such as \"Check Best Price\".\n")
	b.WriteString("- Tier 3: actionable, urgent, viral. Use words like Free, Tutorial, Earn Money. Affiliate CTA such as \"Start Earning Today\".\n")
	if len(cfg.Monetization) > 0 {
		fmt.Fprintf(&b, "Monetization channels: %s.\n", strings.Join(cfg.Monetization, ", "))
	}
	b.WriteString("\n")

	b.WriteString("STEP 2: SEO ENGINEERING\n")
	b.WriteString("1. Mention 3-5 specific named entities (people, companies, places, laws) related to the topic.\n")
	b.WriteString("2. Right after the first heading include a 40-60 word answer paragraph targeting the featured snippet.\n")
	b.WriteString("3. Meta description of 150-160 characters with the primary keyword and a call to action.\n")
	b.WriteString("4. A complete NewsArticle JSON-LD document including the speakable property, serialized as a string.\n\n")

	b.WriteString("STEP 3: WRITE THE ARTICLE BODY AS HTML\n")
	b.WriteString("Key Takeaways box, introduction with the answer paragraph, H2/H3 deep-dive sections, an Editor's Choice block with the affiliate CTA, then an FAQ section.\n\n")

	b.WriteString("Output JSON only.\n")
	return b.String()
}

func articleSchema() *genai.Schema {
	str := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
	num := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: description}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":            str(""),
			"body":             str("Article body as HTML"),
			"metaDescription":  str(""),
			"tags":             {Type: genai.TypeArray, Items: str("")},
			"jsonLd":           str("Serialized NewsArticle JSON-LD"),
			"seoScore":         num("0-100"),
			"trendingScore":    num("0-100"),
			"searchIntent":     str(""),
			"imagePrompt":      str("Detailed prompt for text-to-image generation based on audience visual strategy"),
			"authorBio":        str(""),
			"affiliateProduct": str("Name of the recommended product or service for monetization"),
			"affiliateCta":     str("Call to action for the affiliate link based on audience tier"),
			"relatedPosts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    str(""),
						"category": str(""),
					},
				},
			},
			"projectedEarnings": num("Estimated USD earnings for this post based on tier"),
		},
		Required: []string{"title", "body"},
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
