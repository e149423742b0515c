package storage

import (
	"context"
	"sync"
)

// MemoryStore 内存存储，用于开发和测试
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func memoryKey(namespace string, tier Tier, key string) string {
	return namespace + "/" + string(tier) + "/" + key
}

// Get 读取
func (s *MemoryStore) Get(_ context.Context, namespace string, tier Tier, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[memoryKey(namespace, tier, key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Commit 在同一把锁内写入全部条目
func (s *MemoryStore) Commit(_ context.Context, namespace string, writes []Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range writes {
		s.entries[memoryKey(namespace, w.Tier, w.Key)] = append([]byte(nil), w.Value...)
	}
	return nil
}

// Len 条目数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close 关闭
func (s *MemoryStore) Close() error {
	return nil
}
