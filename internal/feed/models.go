package feed

import "viral_feed/internal/llmjson"

// rawFeed is the decoded response before normalization. Every field is
// optional on the wire.
type rawFeed struct {
	Hero     *rawPost  `json:"hero"`
	Trending []rawPost `json:"trending"`
	Latest   []rawPost `json:"latest"`
}

type rawPost struct {
	Title    string         `json:"title"`
	Excerpt  string         `json:"excerpt"`
	Category string         `json:"category"`
	Views    llmjson.String `json:"views"`
	Author   string         `json:"author"`
}
