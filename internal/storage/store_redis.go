package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 的存储，提交使用 MULTI/EXEC
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(namespace string, tier Tier, key string) string {
	return s.prefix + namespace + ":" + string(tier) + ":" + key
}

// Get 读取
func (s *RedisStore) Get(ctx context.Context, namespace string, tier Tier, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.redisKey(namespace, tier, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Commit 在一个事务管道内写入全部条目
func (s *RedisStore) Commit(ctx context.Context, namespace string, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			pipe.Set(ctx, s.redisKey(namespace, w.Tier, w.Key), w.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis commit: %w", err)
	}
	return nil
}

// Close 关闭客户端
func (s *RedisStore) Close() error {
	return s.client.Close()
}
