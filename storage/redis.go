package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vultisig/feedback-portal/config"
	"github.com/vultisig/feedback-portal/internal/types"
)

type RedisStorage struct {
	cfg    config.Config
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(cfg config.Config) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Username: cfg.Redis.User,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("fail to ping redis: %w", err)
	}
	return &RedisStorage{
		cfg:    cfg,
		client: client,
		ttl:    cfg.Server.SessionTTL,
	}, nil
}

func (r *RedisStorage) LoadForm(ctx context.Context, sessionID string) (*types.FormState, error) {
	value, err := r.client.Get(ctx, formKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("fail to load form state: %w", err)
	}

	var form types.FormState
	if err := json.Unmarshal(value, &form); err != nil {
		return nil, fmt.Errorf("fail to decode form state: %w", err)
	}
	return &form, nil
}

func (r *RedisStorage) SaveForm(ctx context.Context, sessionID string, form *types.FormState) error {
	value, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("fail to encode form state: %w", err)
	}
	if err := r.client.Set(ctx, formKey(sessionID), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("fail to save form state: %w", err)
	}
	return nil
}

func (r *RedisStorage) AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(sessionID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("fail to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (r *RedisStorage) ReleaseSubmit(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, lockKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("fail to release submit lock: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
