package domain

import "encoding/base64"

// Image is a generated raster. It is display-only.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL renders the image as an inline data URL; empty images yield "".
func (i Image) DataURL() string {
	if len(i.Data) == 0 {
		return ""
	}
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// SERPSnippet approximates how an article renders in search results.
type SERPSnippet struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Excerpt     string   `json:"excerpt"`
	Tags        []string `json:"tags"`
}

// Simulation is the result of a search-preview run for the configured niche.
type Simulation struct {
	Content     *Content    `json:"content"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	SchemaValid bool        `json:"schemaValid"`
	Snippet     SERPSnippet `json:"snippet"`
}
