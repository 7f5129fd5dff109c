package services

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/models"
)

// MatchResult is a parsed job-match response. Fallback is set when the text
// was not usable JSON and the heuristic reader filled the fields.
type MatchResult struct {
	Score          int
	Summary        string
	MatchingSkills []string
	MissingSkills  []string
	Suggestions    []models.Suggestion
	Fallback       bool
}

type ReviewResult struct {
	OverallScore int
	Strengths    []string
	Weaknesses   []string
	Suggestions  []models.Suggestion
	Fallback     bool
}

// ParseMatchResponse reads a job-match response. Well-formed JSON is read
// leniently (numbers may arrive as strings or floats); anything else goes
// through the text heuristic.
func ParseMatchResponse(text string) MatchResult {
	raw := ai.ExtractJSON(text)
	if gjson.Valid(raw) && gjson.Parse(raw).IsObject() {
		doc := gjson.Parse(raw)
		return MatchResult{
			Score:          readScore(doc, "score", "match_score"),
			Summary:        strings.TrimSpace(doc.Get("summary").String()),
			MatchingSkills: stringList(doc.Get("matching_skills")),
			MissingSkills:  stringList(doc.Get("missing_skills")),
			Suggestions:    suggestionList(doc.Get("suggestions")),
		}
	}

	score, _ := ai.FindScore(text)
	return MatchResult{
		Score:       score,
		Summary:     ai.FirstProse(text),
		Suggestions: bulletSuggestions(text),
		Fallback:    true,
	}
}

func ParseReviewResponse(text string) ReviewResult {
	raw := ai.ExtractJSON(text)
	if gjson.Valid(raw) && gjson.Parse(raw).IsObject() {
		doc := gjson.Parse(raw)
		return ReviewResult{
			OverallScore: readScore(doc, "overall_score", "score"),
			Strengths:    stringList(doc.Get("strengths")),
			Weaknesses:   stringList(doc.Get("weaknesses")),
			Suggestions:  suggestionList(doc.Get("suggestions")),
		}
	}

	score, _ := ai.FindScore(text)
	return ReviewResult{
		OverallScore: score,
		Suggestions:  bulletSuggestions(text),
		Fallback:     true,
	}
}

func readScore(doc gjson.Result, keys ...string) int {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() {
			f := v.Float()
			// a fractional 0-1 value is a ratio
			if f > 0 && f < 1 {
				f *= 100
			}
			return ai.ClampScore(int(math.Round(f)))
		}
	}
	return 0
}

func stringList(v gjson.Result) []string {
	var out []string
	if v.IsArray() {
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	// a comma separated string is accepted too
	for _, part := range strings.Split(v.String(), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func suggestionList(v gjson.Result) []models.Suggestion {
	var out []models.Suggestion
	for _, item := range v.Array() {
		if item.Type == gjson.String {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, models.Suggestion{Section: "General", Suggested: s})
			}
			continue
		}

		s := models.Suggestion{
			Section:   strings.TrimSpace(item.Get("section").String()),
			Original:  strings.TrimSpace(item.Get("original").String()),
			Suggested: strings.TrimSpace(item.Get("suggested").String()),
			Reason:    strings.TrimSpace(item.Get("reason").String()),
		}
		if s.Suggested == "" {
			continue
		}
		if s.Section == "" {
			s.Section = "General"
		}
		out = append(out, s)
	}
	return out
}

func bulletSuggestions(text string) []models.Suggestion {
	var out []models.Suggestion
	for _, line := range ai.BulletLines(text) {
		out = append(out, models.Suggestion{Section: "General", Suggested: line})
	}
	return out
}
