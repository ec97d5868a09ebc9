package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"talentflow/internal/cache"
	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/repository"
)

type fakeAssessmentRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Assessment
	saveErr error
	saves   int
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{byID: make(map[string]*model.Assessment)}
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Clone(), nil
}

func (r *fakeAssessmentRepo) GetByJobID(_ context.Context, jobID string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.JobID == jobID {
			return a.Clone(), nil
		}
	}
	return nil, nil
}

func (r *fakeAssessmentRepo) Save(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.byID[a.ID] = a.Clone()
	r.saves++
	return nil
}

func (r *fakeAssessmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeAssessmentRepo) EnsureIndexes(context.Context) error { return nil }

type fakeResponseRepo struct {
	mu   sync.Mutex
	list []*model.AssessmentResponse
}

func (r *fakeResponseRepo) Create(_ context.Context, resp *model.AssessmentResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.list {
		if existing.AssessmentID == resp.AssessmentID && existing.CandidateID == resp.CandidateID {
			return repository.ErrDuplicateResponse
		}
	}
	if resp.ID == "" {
		resp.ID = "resp-" + resp.CandidateID
	}
	r.list = append(r.list, resp)
	return nil
}

func (r *fakeResponseRepo) filter(keep func(*model.AssessmentResponse) bool) []*model.AssessmentResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.AssessmentResponse{}
	for _, resp := range r.list {
		if keep(resp) {
			out = append(out, resp)
		}
	}
	return out
}

func (r *fakeResponseRepo) GetByAssessment(_ context.Context, assessmentID string) ([]*model.AssessmentResponse, error) {
	return r.filter(func(resp *model.AssessmentResponse) bool { return resp.AssessmentID == assessmentID }), nil
}

func (r *fakeResponseRepo) GetByCandidate(_ context.Context, candidateID string) ([]*model.AssessmentResponse, error) {
	return r.filter(func(resp *model.AssessmentResponse) bool { return resp.CandidateID == candidateID }), nil
}

func (r *fakeResponseRepo) GetByAssessmentAndCandidate(_ context.Context, assessmentID, candidateID string) (*model.AssessmentResponse, error) {
	found := r.filter(func(resp *model.AssessmentResponse) bool {
		return resp.AssessmentID == assessmentID && resp.CandidateID == candidateID
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeResponseRepo) EnsureIndexes(context.Context) error { return nil }

type event struct {
	AssessmentID string
	CandidateID  string
	Type         string
	Payload      interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) BroadcastToAuthors(assessmentID, msgType string, payload interface{}) {
	b.record(event{AssessmentID: assessmentID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) BroadcastToCandidate(assessmentID, candidateID, msgType string, payload interface{}) {
	b.record(event{AssessmentID: assessmentID, CandidateID: candidateID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) BroadcastToCandidates(assessmentID, msgType string, payload interface{}) {
	b.record(event{AssessmentID: assessmentID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) record(e event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

var errMongoDown = errors.New("mongo unavailable")

type testEnv struct {
	mr          *miniredis.Miniredis
	repo        *fakeAssessmentRepo
	responses   *fakeResponseRepo
	cache       cache.AssessmentCache
	assessments *AssessmentService
	responder   *ResponseService
	broadcaster *recordingBroadcaster
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func newTestEnv(t *testing.T) *testEnv {
	mr, rdb := setupTestRedis(t)
	env := &testEnv{
		mr:          mr,
		repo:        newFakeAssessmentRepo(),
		responses:   &fakeResponseRepo{},
		cache:       cache.NewAssessmentCache(rdb),
		broadcaster: &recordingBroadcaster{},
	}
	log := logger.Nop()
	env.assessments = NewAssessmentService(env.repo, env.cache, log)
	env.responder = NewResponseService(env.assessments, cache.NewDraftCache(rdb, time.Hour), cache.NewProgressCache(rdb), env.responses, log)
	env.assessments.SetBroadcaster(env.broadcaster)
	env.responder.SetBroadcaster(env.broadcaster)
	return env
}

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }

// screening is a two-section assessment: Q3 shows when Q1 is "yes",
// Q4 when Q2 contains "Go".
func screening() *model.Assessment {
	return &model.Assessment{
		Title: "Backend screening",
		Sections: []model.Section{
			{
				ID: "s1", Title: "Basics", Order: 0,
				Questions: []model.Question{
					{ID: "Q1", Type: model.QuestionTypeSingle, Title: "Worked remotely?", Options: []string{"yes", "no"}, Required: true, Order: 0},
					{ID: "Q2", Type: model.QuestionTypeMultiple, Title: "Languages", Options: []string{"Go", "Rust"}, Order: 1},
				},
			},
			{
				ID: "s2", Title: "Details", Order: 1,
				Questions: []model.Question{
					{
						ID: "Q3", Type: model.QuestionTypeNumeric, Title: "Years", Required: true, Order: 0,
						Validation:  &model.ValidationRule{MinValue: floatp(0), MaxValue: floatp(50)},
						Conditional: &model.ConditionalRule{DependsOn: "Q1", ShowWhen: model.ShowWhenEquals, Value: model.ConditionValue{"yes"}},
					},
					{
						ID: "Q4", Type: model.QuestionTypeLongText, Title: "Go project", Required: true, Order: 1,
						Validation:  &model.ValidationRule{MinLength: intp(10)},
						Conditional: &model.ConditionalRule{DependsOn: "Q2", ShowWhen: model.ShowWhenContains, Value: model.ConditionValue{"Go"}},
					},
				},
			},
		},
	}
}
