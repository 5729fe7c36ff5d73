package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Render records are short-lived: the client polls within minutes of
// dispatch, so a day of retention is generous.
const redisRecordTTL = 24 * time.Hour

const redisKeyPrefix = "matchday:render:"

// RedisStore keeps render records in Redis, surviving API restarts.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal render record: %w", err)
	}
	return s.rdb.Set(ctx, redisKeyPrefix+rec.RenderID, data, redisRecordTTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, renderID string) (Record, bool, error) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+renderID).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal render record: %w", err)
	}
	return rec, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, renderID string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+renderID).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
