package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/cache"
	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/rules"
	"talentflow/internal/service"
)

type memRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Assessment
}

func (m *memRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Clone(), nil
}

func (m *memRepo) GetByJobID(_ context.Context, jobID string) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.JobID == jobID {
			return a.Clone(), nil
		}
	}
	return nil, nil
}

func (m *memRepo) Save(_ context.Context, a *model.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	m.byID[a.ID] = a.Clone()
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memRepo) EnsureIndexes(context.Context) error { return nil }

func newSeedService(t *testing.T) (*service.AssessmentService, cache.AssessmentCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	assessmentCache := cache.NewAssessmentCache(rdb)
	return service.NewAssessmentService(&memRepo{byID: map[string]*model.Assessment{}}, assessmentCache, logger.Nop()), assessmentCache
}

func TestDemoAssessmentPassesAuthoringChecks(t *testing.T) {
	a, err := loadAssessment("")
	require.NoError(t, err)

	report := rules.CheckAssessment(a)
	assert.True(t, report.OK, report.Errors)
	assert.Len(t, rules.Flatten(a), 7)

	q, ok := a.FindQuestion("go-project")
	require.True(t, ok)
	assert.Equal(t, model.ConditionValue{"Go"}, q.Conditional.Value)

	q, ok = a.FindQuestion("remote-years")
	require.True(t, ok)
	require.NotNil(t, q.Validation.MinValue)
	assert.Equal(t, 0.0, *q.Validation.MinValue)
}

func TestLoadAssessmentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Tiny
sections:
  - id: s
    title: Only
    questions:
      - id: q1
        type: text
        title: Name
`), 0o644))

	a, err := loadAssessment(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", a.Title)
	assert.Len(t, a.Sections[0].Questions, 1)

	_, err = loadAssessment(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeed_ReseedRefreshesCachedCopy(t *testing.T) {
	ctx := context.Background()
	assessments, assessmentCache := newSeedService(t)

	demo, err := loadAssessment("")
	require.NoError(t, err)
	first, err := seed(ctx, assessments, "job-demo", demo)
	require.NoError(t, err)

	again, err := loadAssessment("")
	require.NoError(t, err)
	again.Title = "Reworked screening"
	second, err := seed(ctx, assessments, "job-demo", again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	cached, err := assessmentCache.Get(ctx, "job-demo")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Reworked screening", cached.Title)

	served, err := assessments.GetByJobID(ctx, "job-demo")
	require.NoError(t, err)
	assert.Equal(t, "Reworked screening", served.Title)
}

func TestSeed_RejectsBrokenFiles(t *testing.T) {
	ctx := context.Background()
	assessments, _ := newSeedService(t)

	dup, err := loadAssessment("")
	require.NoError(t, err)
	dup.Sections[0].Questions[1].ID = dup.Sections[0].Questions[0].ID
	_, err = seed(ctx, assessments, "job-demo", dup)
	assert.ErrorIs(t, err, service.ErrInvalidAssessment)

	broken, err := loadAssessment("")
	require.NoError(t, err)
	broken.Sections[0].Questions[0].Conditional = &model.ConditionalRule{DependsOn: "missing-id", ShowWhen: model.ShowWhenEquals, Value: model.ConditionValue{"x"}}
	_, err = seed(ctx, assessments, "job-demo", broken)
	assert.ErrorContains(t, err, "depends on non-existent question")

	a, err := assessments.GetByJobID(ctx, "job-demo")
	require.NoError(t, err)
	assert.True(t, a.CreatedAt.IsZero(), "nothing was stored")
}
