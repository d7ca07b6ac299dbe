package models

import "testing"

func TestVerdictValid(t *testing.T) {
	tests := []struct {
		verdict Verdict
		want    bool
	}{
		{VerdictStrong, true},
		{VerdictModerate, true},
		{VerdictWeak, true},
		{"strong match", false},
		{"Perfect Match", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.verdict.Valid(); got != tt.want {
			t.Errorf("Verdict(%q).Valid() = %v, want %v", tt.verdict, got, tt.want)
		}
	}
}

func TestNewAnalysisRecordCopiesLists(t *testing.T) {
	result := &AnalysisResponse{
		Score:            72,
		MissingKeywords:  []string{"Kubernetes"},
		IndianMarketTips: []string{"Mention notice period"},
		Verdict:          VerdictModerate,
	}

	record := NewAnalysisRecord("jd", "resume.pdf", "gemini-2.5-flash", result)
	result.MissingKeywords[0] = "mutated"

	if record.MissingKeywords[0] != "Kubernetes" {
		t.Fatalf("record shares backing array with result: %v", record.MissingKeywords)
	}
	if record.Score != 72 || record.Verdict != VerdictModerate {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.ResumeOriginalName != "resume.pdf" || record.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected metadata: %+v", record)
	}
}
