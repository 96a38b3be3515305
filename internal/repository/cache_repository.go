package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/notoria-edu/classroom-api/internal/models"
)

// ErrCacheMiss signals the key is absent or caching is disabled.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository caches per-teacher classroom summaries in Redis. A nil
// client disables caching; every method degrades to a miss or no-op.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger, ttl time.Duration) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger, ttl: ttl}
}

func classroomSummariesKey(teacherID string) string {
	return fmt.Sprintf("classrooms:teacher:%s", teacherID)
}

// GetClassroomSummaries returns the cached summary list for a teacher.
func (r *CacheRepository) GetClassroomSummaries(ctx context.Context, teacherID string) ([]models.ClassroomSummary, error) {
	if r.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, classroomSummariesKey(teacherID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get classroom summaries: %w", err)
	}

	var summaries []models.ClassroomSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, fmt.Errorf("unmarshal classroom summaries: %w", err)
	}
	return summaries, nil
}

// SetClassroomSummaries stores the summary list for a teacher.
func (r *CacheRepository) SetClassroomSummaries(ctx context.Context, teacherID string, summaries []models.ClassroomSummary) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshal classroom summaries: %w", err)
	}

	if err := r.client.Set(ctx, classroomSummariesKey(teacherID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set classroom summaries: %w", err)
	}
	return nil
}

// InvalidateTeacher drops the cached summaries after a classroom or
// enrollment mutation.
func (r *CacheRepository) InvalidateTeacher(ctx context.Context, teacherID string) {
	if r.client == nil {
		return
	}

	if err := r.client.Del(ctx, classroomSummariesKey(teacherID)).Err(); err != nil {
		r.logger.Warn("failed to invalidate classroom cache", zap.String("teacher_id", teacherID), zap.Error(err))
	}
}
