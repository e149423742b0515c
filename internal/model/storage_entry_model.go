package model

import (
	"time"
)

// StorageEntryModel 键值存储条目，按命名空间和存储层级区分
type StorageEntryModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Namespace string `json:"namespace" gorm:"not null;uniqueIndex:idx_storage_entry_key"`
	Tier      string `json:"tier" gorm:"not null;uniqueIndex:idx_storage_entry_key"`
	Key       string `json:"key" gorm:"not null;uniqueIndex:idx_storage_entry_key"`
	Value     []byte `json:"value" gorm:"type:bytea"`
}

// TableName 自定义表名
func (StorageEntryModel) TableName() string {
	return "storage_entry"
}
