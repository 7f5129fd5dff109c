package services

import (
	"fmt"
	"strings"

	"matchmycv/backend/internal/models"
)

const (
	structureSystem = "You convert CVs into structured JSON. Never invent facts that are not in the CV."
	matchSystem     = "You are an expert technical recruiter comparing a CV against a job description. Respond with JSON only."
	reviewSystem    = "You are a senior career coach reviewing CVs. Respond with JSON only."

	noGuidance = "No guidance available."

	// maxPromptCV bounds the CV text sent in a single prompt.
	maxPromptCV = 24000
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildStructurePrompt asks for the CV as a models.Resume document.
func (pb *PromptBuilder) BuildStructurePrompt(cvText string) string {
	return fmt.Sprintf(`Convert the CV below into JSON with exactly this shape:
{
  "name": "",
  "headline": "",
  "contact": {"email": "", "phone": "", "location": "", "links": []},
  "summary": "",
  "experience": [{"title": "", "company": "", "location": "", "start_date": "", "end_date": "", "bullets": []}],
  "education": [{"institution": "", "degree": "", "start_date": "", "end_date": "", "details": []}],
  "skills": [],
  "certifications": [],
  "languages": []
}

Keep the CV's wording. Leave end_date empty for a current role. Omit nothing that is present.

CV:
%s`, clip(cvText, maxPromptCV))
}

func (pb *PromptBuilder) BuildMatchPrompt(cvText string, target *models.JobTarget) string {
	company := target.Company
	if company == "" {
		company = "(not specified)"
	}

	return fmt.Sprintf(`Compare the candidate's CV with the job below.

JOB TITLE: %s
COMPANY: %s

JOB DESCRIPTION:
%s

CANDIDATE CV:
%s

Return JSON in this format:
{
  "score": <integer 0-100, how well the CV matches the job>,
  "summary": "<2-4 sentences on overall fit>",
  "matching_skills": ["<skill the CV shows that the job asks for>"],
  "missing_skills": ["<skill the job asks for that the CV lacks>"],
  "suggestions": [
    {"section": "<CV section>", "original": "<current text or empty>", "suggested": "<improved text>", "reason": "<why it helps for this job>"}
  ]
}

Give at most 8 suggestions. Suggestions must only rephrase or emphasise what the CV already says.`,
		target.Title, company, target.Description, clip(cvText, maxPromptCV))
}

func (pb *PromptBuilder) BuildReviewPrompt(cvText, guidance string) string {
	if strings.TrimSpace(guidance) == "" {
		guidance = noGuidance
	}

	return fmt.Sprintf(`Review the CV below as a whole, independent of any particular job.

RESUME WRITING GUIDANCE:
%s

CV:
%s

Return JSON in this format:
{
  "overall_score": <integer 0-100>,
  "strengths": ["<strength>"],
  "weaknesses": ["<weakness>"],
  "suggestions": [
    {"section": "<CV section>", "original": "<current text or empty>", "suggested": "<improved text>", "reason": "<why>"}
  ]
}`, guidance, clip(cvText, maxPromptCV))
}

// BuildRetrievalQuery is the text embedded to look up guidance for a CV.
func (pb *PromptBuilder) BuildRetrievalQuery(cvText string) string {
	return "Resume writing best practices for this CV: " + clip(cvText, 2000)
}

// FormatRAGContext renders retrieved chunks for inclusion in a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return noGuidance
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guidance %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
