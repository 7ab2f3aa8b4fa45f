package utils

import "strings"

// TruncateForLog flattens s to one line and cuts it to limit runes, appending
// an ellipsis when something was cut. Postings and prompts are multi-line.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	flat := strings.Join(strings.Fields(s), " ")
	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}
