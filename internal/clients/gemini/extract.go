package gemini

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model answer. Models sometimes wrap
// answers in markdown fences or add commentary, so this strips fences and
// brackets to the first {...} block before unmarshalling.
func ExtractJSON(payload string) (map[string]interface{}, bool) {
	if payload == "" {
		return nil, false
	}

	content := strings.TrimSpace(payload)

	if strings.HasPrefix(content, "```") {
		var kept []string
		for _, line := range strings.Split(content, "\n") {
			if strings.HasPrefix(line, "```") {
				continue
			}
			kept = append(kept, line)
		}
		content = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	first := strings.Index(content, "{")
	last := strings.LastIndex(content, "}")
	if first != -1 && last != -1 && last > first {
		content = content[first : last+1]
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, false
	}

	return parsed, true
}
