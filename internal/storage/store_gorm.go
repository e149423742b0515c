package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/launchpad/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的关系型存储，每个条目对应 storage_entry 表中一行
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get 读取
func (s *GormStore) Get(ctx context.Context, namespace string, tier Tier, key string) ([]byte, bool, error) {
	var entry model.StorageEntryModel
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND tier = ? AND key = ?", namespace, string(tier), key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("获取存储条目失败: %w", err)
	}
	return entry.Value, true, nil
}

// Commit 在一个数据库事务内写入全部条目
func (s *GormStore) Commit(ctx context.Context, namespace string, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			entry := model.StorageEntryModel{
				Namespace: namespace,
				Tier:      string(w.Tier),
				Key:       w.Key,
				Value:     w.Value,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "tier"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("写入存储条目 %s/%s 失败: %w", w.Tier, w.Key, err)
			}
		}
		return nil
	})
}

// Close 关闭底层连接
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
