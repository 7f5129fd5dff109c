package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ExtractJSON returns the outermost JSON object or array in text, dropping markdown fences.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	objOK := startObj != -1 && endObj > startObj
	arrOK := startArr != -1 && endArr > startArr

	switch {
	case objOK && (!arrOK || startObj < startArr):
		return text[startObj : endObj+1]
	case arrOK:
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}

// DecodeJSON unmarshals the JSON payload embedded in an LLM response into target.
func DecodeJSON(response string, target interface{}) error {
	if err := json.Unmarshal([]byte(ExtractJSON(response)), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

var (
	scorePattern  = regexp.MustCompile(`(?i)(?:match\s*score|overall\s*score|score|rating)\s*(?:is|of|:|=|-)?\s*\**\s*(\d{1,3})(?:\s*(?:/|out of)\s*(\d{1,3}))?`)
	percentRegexp = regexp.MustCompile(`(\d{1,3})\s*%`)
	bulletPrefix  = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,2}[.)])\s+`)
)

// FindScore looks for a score in free text and scales it to 0-100.
// A "7/10" style score is rescaled; a bare percentage is used as-is.
func FindScore(text string) (int, bool) {
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.Atoi(m[1])
		if m[2] != "" {
			if total, _ := strconv.Atoi(m[2]); total > 0 {
				value = value * 100 / total
			}
		}
		return ClampScore(value), true
	}
	if m := percentRegexp.FindStringSubmatch(text); m != nil {
		value, _ := strconv.Atoi(m[1])
		return ClampScore(value), true
	}
	return 0, false
}

// BulletLines returns the text of every list item in text, in order.
func BulletLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if !bulletPrefix.MatchString(line) {
			continue
		}
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		item = strings.Trim(item, "*_ ")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FirstProse returns the first line that is neither a list item, a heading nor a score line.
func FirstProse(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || bulletPrefix.MatchString(line) {
			continue
		}
		if scorePattern.MatchString(line) && len(line) < 40 {
			continue
		}
		return strings.Trim(line, "*_ ")
	}
	return ""
}

func ClampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
