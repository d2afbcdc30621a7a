package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\n(.*?)\n```")

// ExtractJSONArray slices the most plausible JSON array out of freeform model
// text: a fenced code block wins, otherwise everything between the first '['
// and the last ']'.
func ExtractJSONArray(raw string) string {
	text := strings.TrimSpace(raw)

	if match := fencedJSONPattern.FindStringSubmatch(text); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}

	first := strings.Index(text, "[")
	last := strings.LastIndex(text, "]")
	if first != -1 && last != -1 && last > first {
		return text[first : last+1]
	}

	return text
}

// ParseQuestionList parses the extracted array into a flat list of strings.
// Two shapes are accepted: a flat string array, or an array of objects each
// holding a "questions" string list (flattened in order). Anything else is a
// parse error; an empty result is returned as an empty slice, not an error,
// so the caller decides the fallback.
func ParseQuestionList(raw string) ([]string, error) {
	jsonText := ExtractJSONArray(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			questions = append(questions, s)
			continue
		}

		var obj struct {
			Questions []string `json:"questions"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			questions = append(questions, obj.Questions...)
			continue
		}

		return nil, fmt.Errorf("unsupported array element: %s", string(item))
	}

	return questions, nil
}
