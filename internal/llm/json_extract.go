package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/zero-day-ai/conductor/internal/types"
)

// codeBlockPattern matches markdown code blocks with an optional language tag.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON extracts a JSON object or array from a model response that may
// be wrapped in markdown. Fenced ` ```json ` blocks are preferred over raw
// brace matching.
func ExtractJSON(response string) (string, error) {
	if jsonStr, found := extractFromCodeBlock(response); found {
		return jsonStr, nil
	}

	if jsonStr, found := extractRawJSON(response); found {
		return jsonStr, nil
	}

	return "", types.NewError(types.LLM_RESPONSE_PARSE_FAILED, "no valid JSON found in response")
}

// ExtractJSONMap extracts and unmarshals a JSON object from a model response.
func ExtractJSONMap(response string) (map[string]any, error) {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		return nil, types.WrapError(types.LLM_RESPONSE_PARSE_FAILED, "response is not a JSON object", err)
	}
	return m, nil
}

func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		// Skip blocks explicitly tagged as other languages.
		if lang != "" && lang != "json" {
			continue
		}

		if isValidJSON(content) {
			return content, true
		}
	}

	return "", false
}

func extractRawJSON(response string) (string, bool) {
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(response, pair[0])
		end := strings.LastIndexByte(response, pair[1])
		if start < 0 || end <= start {
			continue
		}

		candidate := response[start : end+1]
		if isValidJSON(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func isValidJSON(s string) bool {
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return false
	}
	var tmp any
	return json.Unmarshal([]byte(s), &tmp) == nil
}
