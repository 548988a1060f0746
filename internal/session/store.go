// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careercompass-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// ProgressStore persists test progress in redis keyed by
// (assessment id, user/session id) so a reload resumes exactly where the
// user left off. No cross-device sync; single writer per key is assumed, so
// the last save simply wins. The TTL is the abandonment retention window.
type ProgressStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{redis: client, ttl: ttl}
}

func progressKey(assessmentID, userID string) string {
	return fmt.Sprintf("progress:%s:%s", assessmentID, userID)
}

// Save overwrites the durable state for the progress's key.
func (s *ProgressStore) Save(ctx context.Context, progress *models.TestProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	key := progressKey(progress.AssessmentID, progress.UserID)
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save progress %s: %w", key, err)
	}
	return nil
}

// Load returns the stored state, or (nil, nil) when none exists.
func (s *ProgressStore) Load(ctx context.Context, assessmentID, userID string) (*models.TestProgress, error) {
	key := progressKey(assessmentID, userID)
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load progress %s: %w", key, err)
	}
	var progress models.TestProgress
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", key, err)
	}
	return &progress, nil
}

// Clear removes the durable state once a submission is confirmed persisted.
// Never called on a failed submission, so answers survive retries.
func (s *ProgressStore) Clear(ctx context.Context, assessmentID, userID string) error {
	return s.redis.Del(ctx, progressKey(assessmentID, userID)).Err()
}
