package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"talentflow/internal/model"
)

// AssessmentCache keeps the latest assessment per job so respondents do not
// hit Mongo on every answer. It also serves as the rollback point for
// optimistic author edits.
type AssessmentCache interface {
	Get(ctx context.Context, jobID string) (*model.Assessment, error)
	Set(ctx context.Context, a *model.Assessment) error
	Delete(ctx context.Context, jobID string) error
	// Snapshot returns the cached copy before it is replaced, nil if none
	Snapshot(ctx context.Context, jobID string) (*model.Assessment, error)
	Restore(ctx context.Context, jobID string, snapshot *model.Assessment) error

	// Job lookup for candidate tokens, which only know the assessment ID
	SetJobID(ctx context.Context, assessmentID, jobID string) error
	GetJobID(ctx context.Context, assessmentID string) (string, error)
}

type assessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAssessmentCache(client *redis.Client) AssessmentCache {
	return &assessmentCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *assessmentCache) key(jobID string) string {
	return fmt.Sprintf("job:%s:assessment", jobID)
}

func (c *assessmentCache) jobKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:job", assessmentID)
}

func (c *assessmentCache) Get(ctx context.Context, jobID string) (*model.Assessment, error) {
	data, err := c.client.Get(ctx, c.key(jobID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a model.Assessment
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *assessmentCache) Set(ctx context.Context, a *model.Assessment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.key(a.JobID), data, c.ttl)
	pipe.Set(ctx, c.jobKey(a.ID), a.JobID, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *assessmentCache) Delete(ctx context.Context, jobID string) error {
	return c.client.Del(ctx, c.key(jobID)).Err()
}

func (c *assessmentCache) Snapshot(ctx context.Context, jobID string) (*model.Assessment, error) {
	return c.Get(ctx, jobID)
}

// Restore puts a snapshot back, or evicts the entry when there was none
func (c *assessmentCache) Restore(ctx context.Context, jobID string, snapshot *model.Assessment) error {
	if snapshot == nil {
		return c.Delete(ctx, jobID)
	}
	return c.Set(ctx, snapshot)
}

func (c *assessmentCache) SetJobID(ctx context.Context, assessmentID, jobID string) error {
	return c.client.Set(ctx, c.jobKey(assessmentID), jobID, c.ttl).Err()
}

func (c *assessmentCache) GetJobID(ctx context.Context, assessmentID string) (string, error) {
	val, err := c.client.Get(ctx, c.jobKey(assessmentID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}
