package textgen

import (
	"errors"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// codeBlockPattern matches markdown code blocks with an optional language tag.
var codeBlockPattern = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// extractJSON pulls a JSON document out of a model response that may be
// wrapped in markdown. Code blocks are preferred over raw brace scanning;
// anything that does not validate as JSON is rejected.
func extractJSON(response string) (string, error) {
	if doc, ok := extractFromCodeBlock(response); ok {
		return doc, nil
	}
	if doc, ok := extractRawJSON(response); ok {
		return doc, nil
	}
	return "", errors.New("no valid JSON document found in response")
}

func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if (strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[")) && json.Valid([]byte(content)) {
			return content, true
		}
	}
	return "", false
}

// extractRawJSON scans for the outermost brace or bracket pair.
func extractRawJSON(response string) (string, bool) {
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(response, pair[0])
		end := strings.LastIndexByte(response, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := response[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}
