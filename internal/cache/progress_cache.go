package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"talentflow/internal/model"
)

// ProgressCache ranks candidates of an assessment by completion percent
type ProgressCache interface {
	SetProgress(ctx context.Context, assessmentID, candidateID string, percent int) error
	GetTop(ctx context.Context, assessmentID string, limit int) ([]model.ProgressEntry, error)
	GetRank(ctx context.Context, assessmentID, candidateID string) (int64, error)
}

type progressCache struct {
	client *redis.Client
}

func NewProgressCache(client *redis.Client) ProgressCache {
	return &progressCache{
		client: client,
	}
}

func (c *progressCache) key(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:progress", assessmentID)
}

func (c *progressCache) SetProgress(ctx context.Context, assessmentID, candidateID string, percent int) error {
	return c.client.ZAdd(ctx, c.key(assessmentID), redis.Z{
		Score:  float64(percent),
		Member: candidateID,
	}).Err()
}

// GetTop returns the board highest first; limit <= 0 means everyone
func (c *progressCache) GetTop(ctx context.Context, assessmentID string, limit int) ([]model.ProgressEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(assessmentID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ProgressEntry, len(results))
	for i, z := range results {
		entries[i] = model.ProgressEntry{
			CandidateID: z.Member.(string),
			Percent:     int(z.Score),
			Rank:        i + 1,
		}
	}
	return entries, nil
}

func (c *progressCache) GetRank(ctx context.Context, assessmentID, candidateID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(assessmentID), candidateID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil // 1-indexed
}
