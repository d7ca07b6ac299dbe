// Package market holds the regional hiring conventions the analyzer tailors
// its advice to.
package market

import (
	"fmt"
	"strings"
)

// NoticePeriod maps a notice period label to how recruiters weigh it.
type NoticePeriod struct {
	Label    string
	Priority string
}

// AcademicSystem describes how grades are usually reported in the region.
type AcademicSystem struct {
	CGPAScale            float64
	PercentageConversion float64
}

type Profile struct {
	Region        string
	Cities        []string
	NoticePeriods []NoticePeriod
	Academics     *AcademicSystem
}

func Indian() Profile {
	return Profile{
		Region: "Indian",
		Cities: []string{"Mumbai", "Bengaluru", "Pune", "Delhi NCR", "Hyderabad", "Chennai"},
		NoticePeriods: []NoticePeriod{
			{Label: "Immediate", Priority: "High Priority"},
			{Label: "15 Days", Priority: "Very Good"},
			{Label: "30 Days", Priority: "Standard"},
			{Label: "90 Days", Priority: "Risk Factor"},
		},
		Academics: &AcademicSystem{
			CGPAScale:            10,
			PercentageConversion: 9.5,
		},
	}
}

// ForRegion returns the built-in profile for region, or a bare profile
// carrying only the region name when none is known.
func ForRegion(region string) Profile {
	region = strings.TrimSpace(region)
	if region == "" || strings.EqualFold(region, "indian") || strings.EqualFold(region, "india") {
		return Indian()
	}
	return Profile{Region: region}
}

// Guidance renders the profile as standalone snippets, one fact each.
func (p Profile) Guidance() []string {
	var snippets []string

	if len(p.Cities) > 0 {
		snippets = append(snippets, fmt.Sprintf(
			"Major %s tech hiring hubs: %s. Mention willingness to work from or relocate to these cities when relevant.",
			p.Region, strings.Join(p.Cities, ", ")))
	}

	if len(p.NoticePeriods) > 0 {
		parts := make([]string, 0, len(p.NoticePeriods))
		for _, np := range p.NoticePeriods {
			parts = append(parts, fmt.Sprintf("%s = %s", np.Label, np.Priority))
		}
		snippets = append(snippets, fmt.Sprintf(
			"%s recruiters weigh notice period heavily: %s. State the notice period on the resume.",
			p.Region, strings.Join(parts, "; ")))
	}

	if p.Academics != nil {
		snippets = append(snippets, fmt.Sprintf(
			"Academic scores are usually reported as CGPA on a %g-point scale; percentage is CGPA multiplied by %g. Include CGPA or percentage for recent graduates.",
			p.Academics.CGPAScale, p.Academics.PercentageConversion))
	}

	return snippets
}
