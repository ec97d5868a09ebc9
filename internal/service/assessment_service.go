package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"talentflow/internal/cache"
	"talentflow/internal/logger"
	"talentflow/internal/metrics"
	"talentflow/internal/model"
	"talentflow/internal/repository"
	"talentflow/internal/rules"
)

// AssessmentService handles assessment authoring
type AssessmentService struct {
	repo        repository.AssessmentRepo
	cache       cache.AssessmentCache
	broadcaster Broadcaster
	log         *logger.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(repo repository.AssessmentRepo, cache cache.AssessmentCache, log *logger.Logger) *AssessmentService {
	return &AssessmentService{
		repo:        repo,
		cache:       cache,
		broadcaster: noopBroadcaster{},
		log:         log,
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetByJobID returns the job's assessment. A job without one gets a fresh,
// empty, unsaved assessment so the builder always has something to edit.
func (s *AssessmentService) GetByJobID(ctx context.Context, jobID string) (*model.Assessment, error) {
	a, err := s.cache.Get(ctx, jobID)
	if err != nil {
		s.log.Warn("assessment cache read failed", "jobId", jobID, "error", err)
	}
	if a != nil {
		return a, nil
	}

	a, err = s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if a == nil {
		return &model.Assessment{
			ID:       uuid.New().String(),
			JobID:    jobID,
			Sections: []model.Section{},
		}, nil
	}

	if err := s.cache.Set(ctx, a); err != nil {
		s.log.Warn("assessment cache write failed", "jobId", jobID, "error", err)
	}
	return a, nil
}

// GetByID looks an assessment up by its own ID, as candidate tokens do
func (s *AssessmentService) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	if jobID, err := s.cache.GetJobID(ctx, id); err == nil && jobID != "" {
		if a, err := s.cache.Get(ctx, jobID); err == nil && a != nil && a.ID == id {
			return a, nil
		}
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	if err := s.cache.Set(ctx, a); err != nil {
		s.log.Warn("assessment cache write failed", "assessmentId", id, "error", err)
	}
	return a, nil
}

// Check runs the authoring checks without saving
func (s *AssessmentService) Check(a *model.Assessment) rules.AuthoringReport {
	return rules.CheckAssessment(a)
}

// Update replaces the job's assessment. The new version goes to the cache
// first and the previous cached copy is put back if the database write fails.
func (s *AssessmentService) Update(ctx context.Context, jobID string, a *model.Assessment) (*model.Assessment, error) {
	current, err := s.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	// the ID always comes from the job, never the body; a copied body must
	// not replace another job's document
	a.ID = current.ID
	a.JobID = jobID
	a.CreatedAt = current.CreatedAt
	if err := normalize(a); err != nil {
		return nil, err
	}

	if report := rules.CheckAssessment(a); !report.OK {
		metrics.AuthoringRejected()
		s.log.Info("assessment rejected", "jobId", jobID, "errors", report.Errors)
		return nil, &AuthoringError{Report: report}
	}

	snapshot, err := s.cache.Snapshot(ctx, jobID)
	if err != nil {
		s.log.Warn("assessment snapshot failed", "jobId", jobID, "error", err)
	}
	if err := s.cache.Set(ctx, a); err != nil {
		s.log.Warn("assessment cache write failed", "jobId", jobID, "error", err)
	}

	if err := s.repo.Save(ctx, a); err != nil {
		if rerr := s.cache.Restore(ctx, jobID, snapshot); rerr != nil {
			s.log.Error("assessment rollback failed", "jobId", jobID, "error", rerr)
		}
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	// Save stamps the timestamps; keep the cached copy in step
	if err := s.cache.Set(ctx, a); err != nil {
		s.log.Warn("assessment cache write failed", "jobId", jobID, "error", err)
	}

	s.log.Info("assessment saved", "jobId", jobID, "assessmentId", a.ID, "sections", len(a.Sections))
	s.broadcaster.BroadcastToCandidates(a.ID, EventAssessmentUpdated, map[string]string{"assessmentId": a.ID})
	return a, nil
}

// normalize fills in missing IDs and rejects structurally broken input
func normalize(a *model.Assessment) error {
	if a.Sections == nil {
		a.Sections = []model.Section{}
	}
	seen := make(map[string]bool)
	for i := range a.Sections {
		sec := &a.Sections[i]
		if sec.ID == "" {
			sec.ID = uuid.New().String()
		}
		if sec.Questions == nil {
			sec.Questions = []model.Question{}
		}
		for j := range sec.Questions {
			q := &sec.Questions[j]
			if q.ID == "" {
				q.ID = uuid.New().String()
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question id %s", ErrInvalidAssessment, q.ID)
			}
			seen[q.ID] = true
			if !q.Type.Valid() {
				return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalidAssessment, q.ID, q.Type)
			}
		}
	}
	return nil
}

// edit applies fn to a copy of the current assessment and saves the result
func (s *AssessmentService) edit(ctx context.Context, jobID string, fn func(a *model.Assessment) error) (*model.Assessment, error) {
	current, err := s.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	a := current.Clone()
	if err := fn(a); err != nil {
		return nil, err
	}
	return s.Update(ctx, jobID, a)
}

func (s *AssessmentService) AddSection(ctx context.Context, jobID string, section model.Section) (*model.Assessment, error) {
	if section.ID == "" {
		section.ID = uuid.New().String()
	}
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		a.AddSection(section)
		return nil
	})
}

func (s *AssessmentService) UpdateSection(ctx context.Context, jobID, sectionID, title, description string) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.UpdateSection(sectionID, title, description)
	})
}

func (s *AssessmentService) DeleteSection(ctx context.Context, jobID, sectionID string) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.DeleteSection(sectionID)
	})
}

func (s *AssessmentService) ReorderSections(ctx context.Context, jobID string, from, to int) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.ReorderSections(from, to)
	})
}

func (s *AssessmentService) AddQuestion(ctx context.Context, jobID, sectionID string, q model.Question) (*model.Assessment, error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		_, err := a.AddQuestion(sectionID, q)
		return err
	})
}

func (s *AssessmentService) UpdateQuestion(ctx context.Context, jobID, sectionID, questionID string, q model.Question) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.UpdateQuestion(sectionID, questionID, q)
	})
}

// DeleteQuestion removes a question. Deleting a question others depend on
// fails the authoring checks, so those rules must be edited first.
func (s *AssessmentService) DeleteQuestion(ctx context.Context, jobID, sectionID, questionID string) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.DeleteQuestion(sectionID, questionID)
	})
}

func (s *AssessmentService) ReorderQuestions(ctx context.Context, jobID, sectionID string, from, to int) (*model.Assessment, error) {
	return s.edit(ctx, jobID, func(a *model.Assessment) error {
		return a.ReorderQuestions(sectionID, from, to)
	})
}

// AvailableDependencies lists the questions a rule on questionID may depend on
func (s *AssessmentService) AvailableDependencies(ctx context.Context, jobID, questionID string) ([]model.Question, error) {
	a, err := s.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if _, ok := a.FindQuestion(questionID); !ok {
		return nil, ErrQuestionNotFound
	}
	return rules.AvailableDependencies(a, questionID), nil
}
