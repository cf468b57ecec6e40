// Package markup extracts reader-visible text from generated article bodies.
package markup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used for read-time labels.
const WordsPerMinute = 200

const blockElements = "p, div, br, li, ul, ol, h1, h2, h3, h4, h5, h6, blockquote, pre, table, tr, td, th, section, article, header, footer"

// PlainText returns the visible text of an HTML or Markdown body with
// whitespace collapsed.
func PlainText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return strings.Join(strings.Fields(body), " ")
	}
	doc.Find("script, style").Remove()
	// block boundaries separate words even when the markup has no whitespace
	doc.Find(blockElements).AppendHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// WordCount counts words in the visible text.
func WordCount(body string) int {
	return len(strings.Fields(PlainText(body)))
}

// ReadTime renders the "N min read" label for a body, never below one minute.
func ReadTime(body string) string {
	minutes := (WordCount(body) + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// Excerpt returns at most limit runes of visible text, ending with "..."
// when truncated.
func Excerpt(body string, limit int) string {
	return Truncate(PlainText(body), limit)
}

// Truncate cuts s to at most limit runes, appending "..." when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
