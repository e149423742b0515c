// Package storage 实现账本宿主的两级键值存储
package storage

import (
	"context"
)

// Tier 存储层级
type Tier string

const (
	// TierInstance 小而频繁访问的单例字段和计数器
	TierInstance Tier = "instance"
	// TierPersistent 较大的键控集合
	TierPersistent Tier = "persistent"
)

// Write 一次待提交的写入
type Write struct {
	Tier  Tier
	Key   string
	Value []byte
}

// Store 两级键值存储。Commit 必须原子地应用全部写入。
type Store interface {
	Get(ctx context.Context, namespace string, tier Tier, key string) ([]byte, bool, error)
	Commit(ctx context.Context, namespace string, writes []Write) error
	Close() error
}
