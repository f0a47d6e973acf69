package models

// Grade represents a single recorded score. The logical key
// (StudentID, SubjectID, Term, AssessmentName) is deliberately NOT unique:
// creating the same assessment twice yields duplicate columns, matching the
// gradebook's behaviour.
type Grade struct {
	ID             string   `json:"id"`
	StudentID      string   `json:"student_id"`
	SubjectID      string   `json:"subject_id"`
	Score          float64  `json:"score"`
	Term           string   `json:"term"`
	AssessmentName string   `json:"assessment_name,omitempty"`
	MaxScore       *float64 `json:"max_score,omitempty"`
}

// AtRiskThreshold is the exclusive mean-score bound below which a student is
// flagged on the dashboard. An average of exactly 75 is not at risk.
const AtRiskThreshold = 75.0
