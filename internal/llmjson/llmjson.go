// Package llmjson decodes JSON returned by text-generation models, which
// frequently wrap it in Markdown code fences or surround it with prose.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmpty = errors.New("empty response")

// Clean strips surrounding whitespace and Markdown code fences.
func Clean(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "```") {
		return input
	}

	input = strings.TrimPrefix(input, "```")
	if nl := strings.IndexByte(input, '\n'); nl >= 0 && !strings.ContainsAny(input[:nl], "{[") {
		// drop the language tag line, e.g. ```json
		input = input[nl+1:]
	} else {
		input = strings.TrimPrefix(input, "json")
	}
	input = strings.TrimSuffix(strings.TrimSpace(input), "```")
	return strings.TrimSpace(input)
}

// Decode cleans text and unmarshals it into v. When the first attempt fails
// it retries once on the outermost JSON object found in the text.
func Decode(text string, v any) error {
	cleaned := Clean(text)
	if cleaned == "" {
		return ErrEmpty
	}

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("decode json: %w", err)
	}

	if retryErr := json.Unmarshal([]byte(cleaned[start:end+1]), v); retryErr != nil {
		return fmt.Errorf("decode json: %w", retryErr)
	}
	return nil
}
