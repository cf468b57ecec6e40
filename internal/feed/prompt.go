package feed

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"viral_feed/internal/domain"
)

func buildPrompt(cfg domain.PipelineConfig, categories, trends []string) string {
	var b strings.Builder

	b.WriteString("Act as an Editor-in-Chief for a massive global media empire.\n\n")
	b.WriteString("YOUR STRATEGY:\n")
	if len(trends) > 0 {
		fmt.Fprintf(&b, "1. TRAFFIC ANALYSIS: Real traffic data shows these categories are trending right now: %s. Treat them as VIRAL and give them huge view counts (2.5M+).\n",
			strings.Join(trends, ", "))
	} else {
		b.WriteString("1. TRAFFIC ANALYSIS: No traffic data is available yet. Analyze the category list yourself and pick 3-4 categories to be VIRAL right now. Give them huge view counts (2.5M+).\n")
	}
	b.WriteString("2. FEEDBACK LOOP: Because those categories are viral, generate MORE posts about them in the 'latest' section.\n")
	b.WriteString("3. AUDIENCE BALANCE: Keep alternating between Tier 1 and Tier 3 topics, but bias towards the viral categories.\n")
	fmt.Fprintf(&b, "4. DENSITY: Generate %d items in the 'latest' array to fill the home page.\n\n", LatestLimit)

	fmt.Fprintf(&b, "Category List: %s\n\n", strings.Join(categories, ", "))

	fmt.Fprintf(&b, "Editorial focus: %s\n", orDefault(cfg.Niche, "Global viral news"))
	fmt.Fprintf(&b, "Tone: %s\n", orDefault(cfg.Tone, "Engaging"))
	fmt.Fprintf(&b, "SEO strategy: %s\n", orDefault(cfg.SEOStrategy, "Viral News"))
	fmt.Fprintf(&b, "Target region: %s\n", orDefault(cfg.TargetRegion, "Global"))
	fmt.Fprintf(&b, "Write every title and excerpt in %s.\n\n", orDefault(cfg.Language, "English"))

	b.WriteString("Output a JSON feed with:\n")
	b.WriteString("- 1 hero article (Tier 1 topic) with title, excerpt, category, views and author\n")
	fmt.Fprintf(&b, "- %d trending articles (the viral ones with 1M+ views) with title, category and views\n", TrendingLimit)
	fmt.Fprintf(&b, "- %d latest articles (mix of topics, heavily favoring the viral categories) with title, excerpt, category and views\n", LatestLimit)
	b.WriteString("Views are display strings such as \"2.4M\" or \"450k\". Every category must come from the category list.\n")

	return b.String()
}

func feedSchema() *genai.Schema {
	post := func(fields ...string) *genai.Schema {
		s := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, f := range fields {
			s.Properties[f] = &genai.Schema{Type: genai.TypeString}
		}
		s.Required = []string{"title", "category", "views"}
		return s
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"hero":     post("title", "excerpt", "category", "views", "author"),
			"trending": {Type: genai.TypeArray, Items: post("title", "category", "views")},
			"latest":   {Type: genai.TypeArray, Items: post("title", "excerpt", "category", "views")},
		},
		Required: []string{"hero", "trending", "latest"},
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
