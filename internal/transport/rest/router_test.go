package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/cache"
	"talentflow/internal/config"
	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/repository"
	"talentflow/internal/service"
	"talentflow/internal/transport/ws"
)

type memAssessments struct {
	mu   sync.Mutex
	byID map[string]*model.Assessment
}

func (m *memAssessments) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Clone(), nil
}

func (m *memAssessments) GetByJobID(_ context.Context, jobID string) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.JobID == jobID {
			return a.Clone(), nil
		}
	}
	return nil, nil
}

func (m *memAssessments) Save(_ context.Context, a *model.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	m.byID[a.ID] = a.Clone()
	return nil
}

func (m *memAssessments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memAssessments) EnsureIndexes(context.Context) error { return nil }

type memResponses struct {
	mu   sync.Mutex
	list []*model.AssessmentResponse
}

func (m *memResponses) Create(_ context.Context, resp *model.AssessmentResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.list {
		if r.AssessmentID == resp.AssessmentID && r.CandidateID == resp.CandidateID {
			return repository.ErrDuplicateResponse
		}
	}
	resp.ID = "resp-" + resp.CandidateID
	m.list = append(m.list, resp)
	return nil
}

func (m *memResponses) match(keep func(*model.AssessmentResponse) bool) []*model.AssessmentResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.AssessmentResponse{}
	for _, r := range m.list {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *memResponses) GetByAssessment(_ context.Context, id string) ([]*model.AssessmentResponse, error) {
	return m.match(func(r *model.AssessmentResponse) bool { return r.AssessmentID == id }), nil
}

func (m *memResponses) GetByCandidate(_ context.Context, id string) ([]*model.AssessmentResponse, error) {
	return m.match(func(r *model.AssessmentResponse) bool { return r.CandidateID == id }), nil
}

func (m *memResponses) GetByAssessmentAndCandidate(_ context.Context, assessmentID, candidateID string) (*model.AssessmentResponse, error) {
	found := m.match(func(r *model.AssessmentResponse) bool {
		return r.AssessmentID == assessmentID && r.CandidateID == candidateID
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (m *memResponses) EnsureIndexes(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := config.Default()
	cfg.Auth.AuthorUsername = "recruiter"
	cfg.Auth.AuthorPassword = "hunter2"
	log := logger.Nop()

	assessments := service.NewAssessmentService(&memAssessments{byID: map[string]*model.Assessment{}}, cache.NewAssessmentCache(rdb), log)
	responses := service.NewResponseService(assessments, cache.NewDraftCache(rdb, time.Hour), cache.NewProgressCache(rdb), &memResponses{}, log)

	return NewRouter(&Container{
		Config:            cfg,
		Logger:            log,
		AuthService:       service.NewAuthService(cfg.Auth),
		AssessmentService: assessments,
		ResponseService:   responses,
		WSHub:             ws.NewHub(log),
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, "POST", "/v1/auth/login", "", model.LoginRequest{Username: "recruiter", Password: "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.LoginResponse
	decodeBody(t, rec, &resp)
	return resp.Token
}

const screeningJSON = `{
  "title": "Backend screening",
  "sections": [
    {"id": "s1", "title": "Basics", "order": 0, "questions": [
      {"id": "Q1", "type": "single", "title": "Worked remotely?", "options": ["yes", "no"], "required": true, "order": 0},
      {"id": "Q2", "type": "numeric", "title": "Years", "required": true, "order": 1,
       "validation": {"minValue": 0, "maxValue": 50},
       "conditional": {"dependsOn": "Q1", "showWhen": "equals", "value": "yes"}}
    ]}
  ]
}`

func TestPublicEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, "GET", "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/respond/submit")

	rec = do(t, h, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "talentflow_http_requests_total")

	rec = do(t, h, "OPTIONS", "/v1/respond/submit", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRequired(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/v1/assessments/job-1", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "POST", "/v1/auth/login", "", model.LoginRequest{Username: "recruiter", Password: "x"}).Code)

	author := login(t, h)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/v1/respond/state", author, nil).Code, "author token is not a candidate token")
}

func TestAssessmentBuilderFlow(t *testing.T) {
	h := newTestRouter(t)
	author := login(t, h)

	rec := do(t, h, "GET", "/v1/assessments/job-1", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fresh model.Assessment
	decodeBody(t, rec, &fresh)
	assert.Equal(t, "job-1", fresh.JobID)
	assert.Empty(t, fresh.Sections)

	rec = do(t, h, "PUT", "/v1/assessments/job-1", author, screeningJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved model.Assessment
	decodeBody(t, rec, &saved)
	assert.Len(t, saved.Sections[0].Questions, 2)

	rec = do(t, h, "GET", "/v1/assessments/job-1/questions/Q2/dependencies", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deps struct {
		Questions []model.Question `json:"questions"`
	}
	decodeBody(t, rec, &deps)
	require.Len(t, deps.Questions, 1)
	assert.Equal(t, "Q1", deps.Questions[0].ID)

	rec = do(t, h, "POST", "/v1/assessments/job-1/sections", author, map[string]string{"title": "Extra"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, "POST", "/v1/assessments/job-1/sections/s1/questions", author, map[string]interface{}{
		"type":        "text",
		"title":       "Broken",
		"conditional": map[string]interface{}{"dependsOn": "Q1", "showWhen": "equals", "value": []string{"maybe"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var authoring struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, rec, &authoring)
	assert.Equal(t, []string{`Question "Broken" has invalid condition values: maybe`}, authoring.Errors)

	rec = do(t, h, "POST", "/v1/assessments/job-1/sections/reorder", author, map[string]int{"from": 0, "to": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "DELETE", "/v1/assessments/job-1/sections/nope", author, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "POST", "/v1/assessments/job-1/check", author, `{"sections":[{"id":"s","questions":[
		{"id":"a","type":"text","title":"A","conditional":{"dependsOn":"a","showWhen":"equals","value":"x"}}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"errors":["Question \"A\" cannot depend on itself"]}`, rec.Body.String())
}

func TestCandidateFlow(t *testing.T) {
	h := newTestRouter(t)
	author := login(t, h)

	rec := do(t, h, "PUT", "/v1/assessments/job-1", author, screeningJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	var a model.Assessment
	decodeBody(t, rec, &a)

	rec = do(t, h, "POST", "/v1/assessments/"+a.ID+"/invites", author, model.InviteRequest{CandidateID: "cand-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var invite model.InviteResponse
	decodeBody(t, rec, &invite)
	candidate := invite.Token

	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/v1/assessments/missing/invites", author, model.InviteRequest{CandidateID: "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/v1/assessments/"+a.ID+"/invites", author, model.InviteRequest{}).Code)

	rec = do(t, h, "PUT", "/v1/respond/answers/Q1", candidate, `{"value":"yes"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved service.AnswerResult
	decodeBody(t, rec, &saved)
	assert.Equal(t, []string{"Q1", "Q2"}, saved.Visible)
	assert.Equal(t, 50, saved.Progress.Percent)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "PUT", "/v1/respond/answers/Q2", candidate, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "PUT", "/v1/respond/answers/Q2", candidate, `{"value":true}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "PUT", "/v1/respond/answers/Q9", candidate, `{"value":"x"}`).Code)

	rec = do(t, h, "POST", "/v1/respond/sections/s1/validate", candidate, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"errors":[{"questionId":"Q2","reason":"This field is required"}],"canProceed":false}`, rec.Body.String())

	rec = do(t, h, "POST", "/v1/respond/submit", candidate, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, "PUT", "/v1/respond/answers/Q2", candidate, `{"value":"7"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/v1/respond/submit", candidate, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted model.AssessmentResponse
	decodeBody(t, rec, &submitted)
	assert.Equal(t, []model.QuestionResponse{
		{QuestionID: "Q1", Value: model.TextValue("yes")},
		{QuestionID: "Q2", Value: model.TextValue("7")},
	}, submitted.Responses)

	assert.Equal(t, http.StatusConflict, do(t, h, "POST", "/v1/respond/submit", candidate, nil).Code)

	rec = do(t, h, "GET", "/v1/assessments/"+a.ID+"/progress", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"progress":[{"candidateId":"cand-1","percent":100,"rank":1}]}`, rec.Body.String())

	rec = do(t, h, "GET", "/v1/candidates/cand-1/responses", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Responses []model.AssessmentResponse `json:"responses"`
	}
	decodeBody(t, rec, &listed)
	assert.Len(t, listed.Responses, 1)

	rec = do(t, h, "GET", "/v1/respond/state", candidate, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state service.FormState
	decodeBody(t, rec, &state)
	assert.True(t, state.Submitted)
}
