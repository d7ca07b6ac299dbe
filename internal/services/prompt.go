package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/ats-analyzer/internal/market"
	"alfredoptarigan/ats-analyzer/internal/models"
)

type PromptBuilder struct {
	profile market.Profile
}

func NewPromptBuilder(profile market.Profile) *PromptBuilder {
	return &PromptBuilder{profile: profile}
}

// BuildAnalysisPrompt creates the ATS scoring prompt for a resume against a job description.
func (pb *PromptBuilder) BuildAnalysisPrompt(jdText, resumeText string) string {
	return pb.BuildAnalysisPromptWithContext(jdText, resumeText, "")
}

// BuildAnalysisPromptWithContext is BuildAnalysisPrompt plus retrieved market
// guidance. An empty marketContext produces the plain prompt.
func (pb *PromptBuilder) BuildAnalysisPromptWithContext(jdText, resumeText, marketContext string) string {
	region := pb.profile.Region

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert %s Technical Recruiter. Analyze this resume against the Job Description (JD).

JD: %s
Resume: %s
`, region, jdText, resumeText)

	if guidance := pb.profile.Guidance(); len(guidance) > 0 {
		fmt.Fprintf(&sb, "\n%s MARKET CONVENTIONS:\n- %s\n", strings.ToUpper(region), strings.Join(guidance, "\n- "))
	}

	if ctx := strings.TrimSpace(marketContext); ctx != "" {
		fmt.Fprintf(&sb, "\nMARKET CONTEXT:\n%s\n", ctx)
	}

	fmt.Fprintf(&sb, `
Provide the response strictly in JSON format:
{
  "score": (%d-%d),
  "missing_keywords": ["tech skill", "soft skill"],
  "indian_market_tips": ["specific advice for the %s market like notice period, CGPA, etc."],
  "verdict": %s
}`, models.MinScore, models.MaxScore, region, verdictChoices())

	return sb.String()
}

func verdictChoices() string {
	quoted := make([]string, 0, len(models.Verdicts))
	for _, v := range models.Verdicts {
		quoted = append(quoted, fmt.Sprintf("%q", string(v)))
	}
	return strings.Join(quoted, " | ")
}

// FormatMarketContext renders retrieved guidance snippets for the prompt.
func FormatMarketContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for _, result := range results {
		text := strings.TrimSpace(result.Text)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Guidance %d (Score: %.2f) ---\n%s", len(parts)+1, result.Score, text))
	}

	return strings.Join(parts, "\n\n")
}
