// Пакет kv — слой хранения поверх Redis: узкий интерфейс KV и Store
// с операциями над сущностями (пользователи, площадки, отчеты, сессии, логи).
package kv

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// KV — минимальный контракт хранилища. Реализуется Redis в продакшене
// и in-memory фейком в тестах.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

type redisKV struct {
	client *redis.Client
}

// NewRedisKV подключается к Redis и проверяет соединение.
func NewRedisKV(ctx context.Context, addr, password string) (KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("NewRedisKV: не удалось подключиться к Redis %s: %w", addr, err)
	}
	log.Printf("NewRedisKV: подключение к Redis %s установлено", addr)
	return &redisKV{client: client}, nil
}

func (r *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv.Get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *redisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv.Set %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv.Del %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) Incr(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("kv.Incr %s: %w", key, err)
	}
	return val, nil
}

func (r *redisKV) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.client.SAdd(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("kv.SAdd %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) SRem(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.client.SRem(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("kv.SRem %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("kv.SMembers %s: %w", key, err)
	}
	return members, nil
}

func (r *redisKV) LPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := r.client.LPush(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("kv.LPush %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("kv.LRange %s: %w", key, err)
	}
	return values, nil
}
