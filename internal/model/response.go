package model

import "time"

// QuestionResponse is one submitted answer
type QuestionResponse struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Value      Value  `json:"value" bson:"value"`
}

// AssessmentResponse is the immutable record of a candidate's submission
type AssessmentResponse struct {
	ID           string             `json:"id" bson:"_id"`
	AssessmentID string             `json:"assessmentId" bson:"assessmentId"`
	CandidateID  string             `json:"candidateId" bson:"candidateId"`
	Responses    []QuestionResponse `json:"responses" bson:"responses"`
	SubmittedAt  time.Time          `json:"submittedAt" bson:"submittedAt"`
	Score        *float64           `json:"score,omitempty" bson:"score,omitempty"`
}

// ProgressEntry is one candidate's completion on an assessment
type ProgressEntry struct {
	CandidateID string `json:"candidateId"`
	Percent     int    `json:"percent"`
	Rank        int    `json:"rank"`
}
