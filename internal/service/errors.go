package service

import (
	"errors"
	"fmt"

	"talentflow/internal/model"
	"talentflow/internal/rules"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidAssessment  = errors.New("invalid assessment")
	ErrAlreadySubmitted   = errors.New("response already submitted")

	ErrSectionNotFound  = model.ErrSectionNotFound
	ErrQuestionNotFound = model.ErrQuestionNotFound
	ErrIndexOutOfRange  = model.ErrIndexOutOfRange
)

// AuthoringError is returned when an assessment fails the authoring checks
// and was therefore not saved.
type AuthoringError struct {
	Report rules.AuthoringReport
}

func (e *AuthoringError) Error() string {
	if len(e.Report.Errors) == 1 {
		return e.Report.Errors[0]
	}
	return fmt.Sprintf("assessment has %d authoring errors", len(e.Report.Errors))
}

// SubmissionError lists the visible questions blocking a submission
type SubmissionError struct {
	Errors []rules.QuestionError
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%d questions need attention before submitting", len(e.Errors))
}
