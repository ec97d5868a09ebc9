package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talentflow/internal/cache"
	"talentflow/internal/logger"
	"talentflow/internal/metrics"
	"talentflow/internal/model"
	"talentflow/internal/repository"
	"talentflow/internal/rules"
)

// AnswerResult is returned after saving one answer
type AnswerResult struct {
	QuestionID string         `json:"questionId"`
	Result     rules.Result   `json:"result"`
	Visible    []string       `json:"visible"`
	Progress   rules.Progress `json:"progress"`
}

// FormState is everything a candidate client needs to render the form
type FormState struct {
	AssessmentID string                  `json:"assessmentId"`
	CandidateID  string                  `json:"candidateId"`
	Assessment   *model.Assessment       `json:"assessment"`
	Visible      []string                `json:"visible"`
	Responses    model.Responses         `json:"responses"`
	Results      map[string]rules.Result `json:"results"`
	Progress     rules.Progress          `json:"progress"`
	Submitted    bool                    `json:"submitted"`
}

// ResponseService runs candidate response sessions
type ResponseService struct {
	assessments *AssessmentService
	drafts      cache.DraftCache
	progress    cache.ProgressCache
	repo        repository.ResponseRepo
	broadcaster Broadcaster
	log         *logger.Logger
}

// NewResponseService creates a new response service
func NewResponseService(
	assessments *AssessmentService,
	drafts cache.DraftCache,
	progress cache.ProgressCache,
	repo repository.ResponseRepo,
	log *logger.Logger,
) *ResponseService {
	return &ResponseService{
		assessments: assessments,
		drafts:      drafts,
		progress:    progress,
		repo:        repo,
		broadcaster: noopBroadcaster{},
		log:         log,
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *ResponseService) ensureOpen(ctx context.Context, assessmentID, candidateID string) error {
	existing, err := s.repo.GetByAssessmentAndCandidate(ctx, assessmentID, candidateID)
	if err != nil {
		return fmt.Errorf("load response: %w", err)
	}
	if existing != nil {
		return ErrAlreadySubmitted
	}
	return nil
}

// SaveAnswer overwrites the candidate's answer to one question and returns
// that answer's validation result with the recomputed visibility and progress.
// An answer that fails validation is still saved, as in the form.
func (s *ResponseService) SaveAnswer(ctx context.Context, assessmentID, candidateID, questionID string, value model.Value) (*AnswerResult, error) {
	a, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	q, ok := a.FindQuestion(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if err := s.ensureOpen(ctx, assessmentID, candidateID); err != nil {
		return nil, err
	}

	if err := s.drafts.SetAnswer(ctx, assessmentID, candidateID, questionID, value); err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	metrics.AnswerSaved()

	responses, err := s.drafts.GetResponses(ctx, assessmentID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	result := rules.Validate(q, &value)
	if !result.OK {
		metrics.ValidationFailed(string(q.Type))
	}
	progress := rules.ComputeProgress(a, responses)

	s.publishProgress(ctx, assessmentID, candidateID, progress)

	return &AnswerResult{
		QuestionID: questionID,
		Result:     result,
		Visible:    questionIDs(rules.VisibleQuestions(a, responses)),
		Progress:   progress,
	}, nil
}

func (s *ResponseService) publishProgress(ctx context.Context, assessmentID, candidateID string, progress rules.Progress) {
	if err := s.progress.SetProgress(ctx, assessmentID, candidateID, progress.Percent); err != nil {
		s.log.Warn("progress update failed", "assessmentId", assessmentID, "candidateId", candidateID, "error", err)
	}
	s.broadcaster.BroadcastToAuthors(assessmentID, EventProgressUpdate, map[string]interface{}{
		"candidateId": candidateID,
		"answered":    progress.Answered,
		"visible":     progress.Visible,
		"percent":     progress.Percent,
	})
}

// State returns the candidate's current form: visible questions, answers,
// progress and a result for each answered visible question.
func (s *ResponseService) State(ctx context.Context, assessmentID, candidateID string) (*FormState, error) {
	a, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	submitted, err := s.repo.GetByAssessmentAndCandidate(ctx, assessmentID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load response: %w", err)
	}

	var responses model.Responses
	if submitted != nil {
		responses = make(model.Responses, len(submitted.Responses))
		for _, r := range submitted.Responses {
			responses[r.QuestionID] = r.Value
		}
	} else {
		responses, err = s.drafts.GetResponses(ctx, assessmentID, candidateID)
		if err != nil {
			return nil, fmt.Errorf("load answers: %w", err)
		}
	}

	visible := rules.VisibleQuestions(a, responses)
	results := make(map[string]rules.Result)
	for i := range visible {
		q := &visible[i]
		if v := rules.Lookup(responses, q.ID); v != nil {
			results[q.ID] = rules.Validate(q, v)
		}
	}

	return &FormState{
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
		Assessment:   a,
		Visible:      questionIDs(visible),
		Responses:    responses,
		Results:      results,
		Progress:     rules.ComputeProgress(a, responses),
		Submitted:    submitted != nil,
	}, nil
}

// ValidateSection gates moving past one section
func (s *ResponseService) ValidateSection(ctx context.Context, assessmentID, candidateID, sectionID string) (*rules.SectionCheck, error) {
	a, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	responses, err := s.drafts.GetResponses(ctx, assessmentID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	check, err := rules.CheckSection(a, sectionID, responses)
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// Submit validates every visible question and, if none block, stores the
// response with hidden and empty answers dropped.
func (s *ResponseService) Submit(ctx context.Context, assessmentID, candidateID string) (*model.AssessmentResponse, error) {
	a, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, assessmentID, candidateID); err != nil {
		metrics.Submission(metrics.OutcomeDuplicate)
		return nil, err
	}

	responses, err := s.drafts.GetResponses(ctx, assessmentID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	check := rules.CheckSubmission(a, responses)
	if !check.Ready {
		metrics.Submission(metrics.OutcomeInvalid)
		return nil, &SubmissionError{Errors: check.Errors}
	}

	resp := &model.AssessmentResponse{
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
		Responses:    rules.BuildSubmission(a, responses),
		SubmittedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			metrics.Submission(metrics.OutcomeDuplicate)
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("store response: %w", err)
	}
	metrics.Submission(metrics.OutcomeAccepted)

	if err := s.drafts.Clear(ctx, assessmentID, candidateID); err != nil {
		s.log.Warn("draft cleanup failed", "assessmentId", assessmentID, "candidateId", candidateID, "error", err)
	}
	if err := s.progress.SetProgress(ctx, assessmentID, candidateID, 100); err != nil {
		s.log.Warn("progress update failed", "assessmentId", assessmentID, "candidateId", candidateID, "error", err)
	}

	s.log.Info("response submitted", "assessmentId", assessmentID, "candidateId", candidateID, "answers", len(resp.Responses))
	s.broadcaster.BroadcastToAuthors(assessmentID, EventResponseSubmitted, map[string]interface{}{
		"candidateId": candidateID,
		"responseId":  resp.ID,
	})
	return resp, nil
}

// Progress returns the completion board of an assessment
func (s *ResponseService) Progress(ctx context.Context, assessmentID string) ([]model.ProgressEntry, error) {
	return s.progress.GetTop(ctx, assessmentID, 0)
}

func (s *ResponseService) ListByAssessment(ctx context.Context, assessmentID string) ([]*model.AssessmentResponse, error) {
	return s.repo.GetByAssessment(ctx, assessmentID)
}

func (s *ResponseService) ListByCandidate(ctx context.Context, candidateID string) ([]*model.AssessmentResponse, error) {
	return s.repo.GetByCandidate(ctx, candidateID)
}

func questionIDs(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
