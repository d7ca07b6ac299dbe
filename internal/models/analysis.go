package models

type Verdict string

const (
	VerdictStrong   Verdict = "Strong Match"
	VerdictModerate Verdict = "Moderate Match"
	VerdictWeak     Verdict = "Weak Match"
)

// Verdicts lists the allowed verdict literals in descending order of fit.
var Verdicts = []Verdict{VerdictStrong, VerdictModerate, VerdictWeak}

func (v Verdict) Valid() bool {
	for _, allowed := range Verdicts {
		if v == allowed {
			return true
		}
	}
	return false
}

const (
	MinScore = 0
	MaxScore = 100
)

// AnalysisRequest is built per request once the resume text has been extracted.
type AnalysisRequest struct {
	ResumeText string `json:"resume_text"`
	JDText     string `json:"jd_text"`
}

type AnalysisResponse struct {
	Score            int      `json:"score"`
	MissingKeywords  []string `json:"missing_keywords"`
	IndianMarketTips []string `json:"indian_market_tips"`
	Verdict          Verdict  `json:"verdict"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
