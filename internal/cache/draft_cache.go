package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"talentflow/internal/model"
)

// DraftCache holds a candidate's in-progress response map
type DraftCache interface {
	SetAnswer(ctx context.Context, assessmentID, candidateID, questionID string, value model.Value) error
	GetResponses(ctx context.Context, assessmentID, candidateID string) (model.Responses, error)
	Clear(ctx context.Context, assessmentID, candidateID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a draft cache; every write refreshes the TTL
func NewDraftCache(client *redis.Client, ttl time.Duration) DraftCache {
	return &draftCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *draftCache) key(assessmentID, candidateID string) string {
	return fmt.Sprintf("assessment:%s:c:%s:draft", assessmentID, candidateID)
}

// SetAnswer overwrites one entry of the map. Entries are never removed
// individually, so the answered set only grows until Clear.
func (c *draftCache) SetAnswer(ctx context.Context, assessmentID, candidateID, questionID string, value model.Value) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	key := c.key(assessmentID, candidateID)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, questionID, data)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (c *draftCache) GetResponses(ctx context.Context, assessmentID, candidateID string) (model.Responses, error) {
	data, err := c.client.HGetAll(ctx, c.key(assessmentID, candidateID)).Result()
	if err != nil {
		return nil, err
	}
	responses := make(model.Responses, len(data))
	for questionID, raw := range data {
		var v model.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode draft answer %s: %w", questionID, err)
		}
		responses[questionID] = v
	}
	return responses, nil
}

func (c *draftCache) Clear(ctx context.Context, assessmentID, candidateID string) error {
	return c.client.Del(ctx, c.key(assessmentID, candidateID)).Err()
}
