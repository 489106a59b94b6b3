package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"notionsync/models"
)

const keyPrefix = "notionsync:"

// RedisStore 保存最近的批次结果和每个学校最后一次的结果
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func InitRedis(ctx context.Context, cfg models.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func batchKey(id string) string {
	return keyPrefix + "batch:" + id
}

func schoolKey(school string) string {
	return keyPrefix + "school:" + school
}

func (s *RedisStore) Record(ctx context.Context, batch *models.SyncBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, batchKey(batch.ID), data, s.ttl)
	for _, r := range batch.Results {
		result, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode result for %s: %w", r.School, err)
		}
		pipe.Set(ctx, schoolKey(r.School), result, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store batch %s: %w", batch.ID, err)
	}
	return nil
}

func (s *RedisStore) Batch(ctx context.Context, id string) (*models.SyncBatch, error) {
	var batch models.SyncBatch
	if err := s.get(ctx, batchKey(id), &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (s *RedisStore) LastResult(ctx context.Context, school string) (*models.SyncResult, error) {
	var result models.SyncResult
	if err := s.get(ctx, schoolKey(school), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return json.Unmarshal(data, out)
}
